package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	fileExt  = ".json"
	dirPerm  = 0o755
	filePerm = 0o600
)

// FileSlot stores every key as its own file inside a directory.
// Writes go to a temporary file that is renamed over the target, so readers
// never see a partially written value.
type FileSlot struct {
	fs  afero.Fs
	dir string
	log *slog.Logger
}

// NewFileSlot creates a slot rooted at dir on the given filesystem, creating the
// directory if needed.
func NewFileSlot(fsys afero.Fs, dir string, log *slog.Logger) (*FileSlot, error) {
	if err := fsys.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}

	return &FileSlot{fs: fsys, dir: dir, log: log}, nil
}

// Get implements Slot.
func (f *FileSlot) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(f.fs, f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}

	f.log.DebugContext(ctx, "Read storage file", "key", key, "bytes", len(data))

	return data, nil
}

// Set implements Slot.
func (f *FileSlot) Set(ctx context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	tmp, err := afero.TempFile(f.fs, f.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err = tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = f.fs.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err = tmp.Close(); err != nil {
		_ = f.fs.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", key, err)
	}
	if err = f.fs.Chmod(tmpName, filePerm); err != nil {
		f.log.WarnContext(ctx, "Failed to restrict storage file permissions", "file", tmpName, "error", err)
	}

	if err = f.fs.Rename(tmpName, f.path(key)); err != nil {
		_ = f.fs.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}

	f.log.DebugContext(ctx, "Wrote storage file", "key", key, "bytes", len(value))

	return nil
}

// Ping checks that the storage directory still exists.
func (f *FileSlot) Ping(context.Context) error {
	info, err := f.fs.Stat(f.dir)
	if err != nil {
		return fmt.Errorf("failed to stat storage directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("storage path %s is not a directory", f.dir)
	}

	return nil
}

// Close implements Slot.
func (f *FileSlot) Close() error { return nil }

func (f *FileSlot) path(key string) string {
	return filepath.Join(f.dir, key+fileExt)
}
