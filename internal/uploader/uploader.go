// Package uploader ships bug case directories to cloud storage.
package uploader

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"hibari/internal/config"
	"hibari/internal/util"
)

// Uploader pushes a case directory to a storage backend.
type Uploader interface {
	Enabled() bool
	// UploadDir uploads every regular file in dir and returns the
	// backend URL prefix the case landed under.
	UploadDir(ctx context.Context, dir string) (string, error)
}

// Noop is the uploader used when no backend is configured.
type Noop struct{}

func (Noop) Enabled() bool { return false }

func (Noop) UploadDir(ctx context.Context, dir string) (string, error) { return "", nil }

// New picks the configured backend. S3 wins when both are enabled.
// A backend that fails to initialize degrades to local-only reporting.
func New(cfg config.StorageConfig) Uploader {
	if cfg.S3.Enabled {
		up, err := NewS3(cfg.S3)
		if err != nil {
			util.Warnf("s3 uploader init failed, reports stay local: %v", err)
			return Noop{}
		}
		return up
	}
	if cfg.GCS.Enabled {
		up, err := NewGCS(cfg.GCS)
		if err != nil {
			util.Warnf("gcs uploader init failed, reports stay local: %v", err)
			return Noop{}
		}
		return up
	}
	return Noop{}
}

// caseObjects lists the dir's regular files with their object keys.
func caseObjects(dir string, prefix string) (map[string]string, string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, "", err
	}
	base := filepath.Base(dir)
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	objects := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		objects[filepath.Join(dir, entry.Name())] = prefix + base + "/" + entry.Name()
	}
	return objects, prefix + base + "/", nil
}
