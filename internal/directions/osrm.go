package directions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/UnknownOlympus/kamakura/internal/models"
	"golang.org/x/time/rate"
)

// OSRMBaseURL is the public OSRM demo server.
const OSRMBaseURL = "https://router.project-osrm.org"

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// OSRMProvider finds walking routes with the OSRM route service.
type OSRMProvider struct {
	client  HTTPClient    // HTTP client for making requests
	baseURL string        // Base URL of the OSRM server
	limiter *rate.Limiter // Rate limiter
	log     *slog.Logger
}

// Common errors for OSRM provider.
var (
	ErrOSRMEmptyResponse = errors.New("osrm returned no route")
	ErrOSRMRejected      = errors.New("osrm rejected the request")
)

type osrmResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64 `json:"distance"` // meters
		Duration float64 `json:"duration"` // seconds
		Legs     []struct {
			Summary string `json:"summary"`
		} `json:"legs"`
	} `json:"routes"`
}

// NewOSRMProvider creates a provider for the public OSRM server.
func NewOSRMProvider(limiter *rate.Limiter, log *slog.Logger) *OSRMProvider {
	const timeout = 10

	return &OSRMProvider{
		client:  &http.Client{Timeout: timeout * time.Second},
		baseURL: OSRMBaseURL,
		limiter: limiter,
		log:     log,
	}
}

// NewOSRMProviderWithClient allows injecting custom HTTP client and server URL.
func NewOSRMProviderWithClient(client HTTPClient, baseURL string, limiter *rate.Limiter, log *slog.Logger) *OSRMProvider {
	return &OSRMProvider{client: client, baseURL: baseURL, limiter: limiter, log: log}
}

// Route implements Provider using the foot profile.
func (op *OSRMProvider) Route(ctx context.Context, from, to models.Coordinates) (*models.Route, error) {
	if err := op.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	// OSRM takes longitude first.
	reqURL := op.baseURL + "/route/v1/foot/" + lonLat(from) + ";" + lonLat(to) + "?overview=false"
	op.log.DebugContext(ctx, "OSRM request URL", "url", reqURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := op.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute route request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var result osrmResponse
	if err = json.Unmarshal(body, &result); err != nil {
		op.log.ErrorContext(ctx, "Failed to parse OSRM response", "status", resp.StatusCode, "error", err)
		return nil, fmt.Errorf("failed to decode osrm response (status %d): %w", resp.StatusCode, err)
	}

	if result.Code != "Ok" {
		return nil, fmt.Errorf("%w: %s %s", ErrOSRMRejected, result.Code, result.Message)
	}
	if len(result.Routes) == 0 {
		return nil, ErrOSRMEmptyResponse
	}

	route := result.Routes[0]
	summary := ""
	if len(route.Legs) > 0 {
		summary = route.Legs[0].Summary
	}

	return &models.Route{
		From:     from,
		To:       to,
		Meters:   route.Distance,
		Duration: time.Duration(route.Duration * float64(time.Second)).Round(time.Second),
		Summary:  summary,
		Provider: string(ProviderTypeOSRM),
	}, nil
}

func lonLat(c models.Coordinates) string {
	return strconv.FormatFloat(c.Longitude, 'f', -1, 64) + "," + strconv.FormatFloat(c.Latitude, 'f', -1, 64)
}
