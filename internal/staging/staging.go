// Package staging prepares build output directories and records the resolved
// build inputs in a manifest that the external compiler driver consumes.
package staging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ManifestFileName is the manifest written into a staged output directory.
const ManifestFileName = "build-manifest.json"

// Manifest describes one resolved simulator build.
type Manifest struct {
	BuildID     string    `json:"build_id"`
	CreatedAt   time.Time `json:"created_at"`
	Target      string    `json:"target"`
	Strategy    string    `json:"strategy"`
	Macros      []string  `json:"macros"`
	IncludeDirs []string  `json:"include_dirs"`
	Sources     []string  `json:"sources"`
	Args        []string  `json:"args"`
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDirectory reports whether path is a directory, without following a final symlink.
func IsDirectory(path string) (bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

// EnsureDir creates every missing segment of dir in order.
// Segments that already exist, including ones created concurrently by
// another process, are not an error.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// WriteManifest stages dir and writes m to dir/build-manifest.json while
// holding the directory lock, waiting for other writers until ctx is done.
// An empty BuildID is filled with a new UUID and a zero CreatedAt with the
// current time. The written manifest is returned.
func WriteManifest(ctx context.Context, dir string, m Manifest) (*Manifest, error) {
	if err := EnsureDir(dir); err != nil {
		return nil, err
	}

	if m.BuildID == "" {
		m.BuildID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}

	err = withDirLock(ctx, dir, func() error {
		return replaceFile(filepath.Join(dir, ManifestFileName), append(data, '\n'))
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ReadManifest loads the manifest staged in dir.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("no manifest staged in %s: %w", dir, err)
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}
