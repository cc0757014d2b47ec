package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxAssetSize bounds a single uploaded payload.
const MaxAssetSize = 5 << 20 // 5 Megabyte

// LocalStore is a filesystem-backed AssetStore. References take the form
// "<baseURL>/<object name>" so they can be served statically.
type LocalStore struct {
	dir     string
	baseURL string
}

var _ AssetStore = (*LocalStore)(nil)

// NewLocalStore creates the media directory if needed and returns the store.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir %s: %w", dir, err)
	}
	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

func (s *LocalStore) Store(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("empty media payload")
	}
	if len(data) > MaxAssetSize {
		return "", fmt.Errorf("media payload exceeds %dMB limit", MaxAssetSize>>20)
	}

	ext, err := SniffExtension(data)
	if err != nil {
		return "", err
	}

	name := uuid.New().String() + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write asset %s: %w", name, err)
	}
	return s.baseURL + "/" + name, nil
}

func (s *LocalStore) Remove(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name := filepath.Base(ref)
	// Base strips any path components, so a crafted ref cannot escape dir.
	if name == "." || name == string(filepath.Separator) {
		return fmt.Errorf("invalid asset reference %q", ref)
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove asset %s: %w", name, err)
	}
	return nil
}
