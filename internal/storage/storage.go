// Package storage abstracts where uploaded recipe images live. The local
// backend writes under MEDIA_ROOT and is the default; the S3 backend is for
// deployments that serve media from a bucket.
package storage

import "context"

// Store saves and removes media files addressed by a relative name such as
// "uploads/recipe/<uuid>.jpg".
type Store interface {
	Save(ctx context.Context, name string, data []byte) error
	Delete(ctx context.Context, name string) error
	// URL resolves a stored name to the address clients fetch it from.
	URL(name string) string
}
