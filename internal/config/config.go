package config

import (
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings of the guide.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - Port: The port for the monitoring server.
// - Language: The language tag used to localize catalog texts.
// - Storage: Where the comments are persisted.
// - ErrorTTL: How long a transient error message stays visible.
// - SeedSamples: Whether the demo comments are added at startup.
// - Directions: Which walking route provider to use.
type Config struct {
	Env         string           `yaml:"env"`          // Env is the current environment: local, development, production.
	Port        int              `yaml:"health_port"`  // Port is the monitoring server port.
	Language    string           `yaml:"language"`     // Language is a tag such as "ja" or "en-US".
	Storage     StorageConfig    `yaml:"storage"`      // Storage holds the comment storage configuration
	ErrorTTL    time.Duration    `yaml:"error_ttl"`    // ErrorTTL is the lifetime of a transient error message.
	SeedSamples bool             `yaml:"seed_samples"` // SeedSamples adds the demo comments at startup.
	Directions  DirectionsConfig `yaml:"directions"`   // Directions holds the route provider configuration
}

// StorageConfig selects and configures the slot the comments live in.
type StorageConfig struct {
	Type     string         `yaml:"type"`     // Type is one of memory, file, sqlite, postgres, redis.
	Path     string         `yaml:"path"`     // Path is the directory of the file and sqlite backends.
	Key      string         `yaml:"key"`      // Key is the slot key of the comment collection.
	Database PostgresConfig `yaml:"postgres"` // Database holds the postgres database configuration
	Redis    RedisConfig    `yaml:"redis"`    // Redis holds the redis connection configuration
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `yaml:"host"`                        // Host is the database server address.
	Port     string `yaml:"port"     env-default:"5432"` // Port is the database server port.
	User     string `yaml:"user"`                        // User is the database user.
	Password string `yaml:"password"`                    // Password is the database user's password.
	Name     string `yaml:"db_name"`                     // Name is the name of the database.
}

// RedisConfig holds the redis connection settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// DirectionsConfig selects the walking route provider.
type DirectionsConfig struct {
	Type      string `yaml:"type"`       // Type is one of straight, google, osrm.
	APIKey    string `yaml:"api_key"`    // APIKey is required by the google provider.
	URL       string `yaml:"url"`        // URL of a self-hosted OSRM server.
	RateLimit int    `yaml:"rate_limit"` // RateLimit is the number of requests per second.
}

// MustLoad reads the configuration from the environment and an optional .env
// file. It panics on values that cannot be parsed.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	healthPort, err := strconv.Atoi(v.GetString("KAMAKURA_HEALTH_PORT"))
	if err != nil {
		panic("failed to parse port for monitoring server from configuration")
	}

	errorTTL, err := time.ParseDuration(v.GetString("KAMAKURA_ERROR_TTL"))
	if err != nil {
		panic("failed to parse error ttl from configuration")
	}

	seedSamples, err := strconv.ParseBool(v.GetString("KAMAKURA_SEED_SAMPLES"))
	if err != nil {
		panic("failed to parse seed samples flag from configuration, must be a boolean")
	}

	rateLimit, err := strconv.Atoi(v.GetString("KAMAKURA_DIRECTIONS_RATE"))
	if err != nil {
		panic("failed to parse directions rate limit from configuration, must be an integer types")
	}

	redisDB, err := strconv.Atoi(v.GetString("REDIS_DB"))
	if err != nil {
		panic("failed to parse redis database from configuration, must be an integer types")
	}

	return &Config{
		Env:         v.GetString("KAMAKURA_ENV"),
		Port:        healthPort,
		Language:    v.GetString("KAMAKURA_LANGUAGE"),
		ErrorTTL:    errorTTL,
		SeedSamples: seedSamples,
		Storage: StorageConfig{
			Type: v.GetString("KAMAKURA_STORAGE_TYPE"),
			Path: v.GetString("KAMAKURA_STORAGE_PATH"),
			Key:  v.GetString("KAMAKURA_STORAGE_KEY"),
			Database: PostgresConfig{
				Host:     v.GetString("DB_HOST"),
				Port:     v.GetString("DB_PORT"),
				User:     v.GetString("DB_USERNAME"),
				Password: v.GetString("DB_PASSWORD"),
				Name:     v.GetString("DB_NAME"),
			},
			Redis: RedisConfig{
				Addr:     v.GetString("REDIS_ADDR"),
				Password: v.GetString("REDIS_PASSWORD"),
				DB:       redisDB,
			},
		},
		Directions: DirectionsConfig{
			Type:      v.GetString("KAMAKURA_DIRECTIONS_TYPE"),
			APIKey:    v.GetString("KAMAKURA_DIRECTIONS_KEY"),
			URL:       v.GetString("KAMAKURA_DIRECTIONS_URL"),
			RateLimit: rateLimit,
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("KAMAKURA_ENV", "production")
	v.SetDefault("KAMAKURA_HEALTH_PORT", "8080")
	v.SetDefault("KAMAKURA_LANGUAGE", "ja")
	v.SetDefault("KAMAKURA_STORAGE_TYPE", "file")
	v.SetDefault("KAMAKURA_STORAGE_PATH", ".kamakura")
	v.SetDefault("KAMAKURA_STORAGE_KEY", "saved_comments")
	v.SetDefault("KAMAKURA_ERROR_TTL", "3s")
	v.SetDefault("KAMAKURA_SEED_SAMPLES", "false")
	v.SetDefault("KAMAKURA_DIRECTIONS_TYPE", "straight")
	v.SetDefault("KAMAKURA_DIRECTIONS_RATE", "10")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", "0")
}
