// Package storage abstracts the object store used for avatars and post
// thumbnails. The server never reads objects back; it only writes them,
// deletes them when a saga compensates, and hands out public URLs.
package storage

import (
	"context"
	"io"
)

// ObjectStore is the narrow interface consumed by the upload flows.
type ObjectStore interface {
	// Put stores the object under key and returns the stored key.
	Put(ctx context.Context, key string, contentType string, body io.Reader) (string, error)
	// Delete removes the object. Used as the compensating action when a
	// database write fails after an upload succeeded.
	Delete(ctx context.Context, key string) error
	// PublicURL returns the externally reachable URL for a stored key.
	PublicURL(key string) string
}
