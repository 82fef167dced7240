// Package media stores proof-of-delivery photos. Blobs live on the local
// filesystem under a configured root directory; references handed back to the
// domain are opaque strings, so swapping in an object store later only
// touches this adapter.
package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// FileStore implements ports.MediaStore on a local directory.
type FileStore struct {
	root string
}

// NewFileStore creates a store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("media store directory is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create media store directory: %w", err)
	}
	return &FileStore{root: dir}, nil
}

// Store writes the blob and returns its reference. The reference is the
// generated file name, never a full path.
func (s *FileStore) Store(_ context.Context, data []byte, contentType string) (string, error) {
	ext, ok := extensions[contentType]
	if !ok {
		return "", fmt.Errorf("unsupported content type %q", contentType)
	}

	ref := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.root, ref), data, 0o640); err != nil {
		return "", fmt.Errorf("failed to store media blob: %w", err)
	}

	return ref, nil
}

// Remove deletes a stored blob. Removing a missing blob is not an error.
func (s *FileStore) Remove(_ context.Context, ref string) error {
	// Refs are generated server side, but never trust them as paths.
	if filepath.Base(ref) != ref {
		return fmt.Errorf("invalid media reference %q", ref)
	}

	err := os.Remove(filepath.Join(s.root, ref))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
