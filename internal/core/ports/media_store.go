package ports

import (
	"context"
)

// MediaStore persists proof-of-delivery photos and hands back an opaque
// reference for the order to carry.
type MediaStore interface {
	// Store writes the photo bytes and returns a reference usable for later
	// retrieval. contentType is the detected MIME type.
	Store(ctx context.Context, data []byte, contentType string) (string, error)

	// Remove deletes a previously stored photo. Used to clean up when the
	// transition the photo was gating gets rejected.
	Remove(ctx context.Context, ref string) error
}
