// Package localmedia is the opaque upload collaborator: callers hand it
// bytes and get back a stable URL. Nothing in the core inspects file
// contents.
package localmedia

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aulahub/aulahub-backend/internal/platform/logger"
)

type Uploader interface {
	Upload(ctx context.Context, filename string, data []byte) (string, error)
}

type store struct {
	log     *logger.Logger
	rootDir string
	baseURL string
}

func New(rootDir, baseURL string, log *logger.Logger) (Uploader, error) {
	if rootDir == "" {
		rootDir = "./media"
	}
	if baseURL == "" {
		baseURL = "/media"
	}
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("localmedia: create root dir: %w", err)
	}
	return &store{
		log:     log.With("service", "LocalMedia"),
		rootDir: rootDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *store) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	ext := filepath.Ext(filename)
	name := hex.EncodeToString(sum[:16]) + ext

	path := filepath.Join(s.rootDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("localmedia: write file: %w", err)
	}
	url := s.baseURL + "/" + name
	s.log.Debug("Stored media file", "bytes", len(data), "url", url)
	return url, nil
}
