package storage

import "context"

// ImageStore holds post image attachments. Contents are opaque to the
// rest of the system; posts only carry the key back.
type ImageStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Download(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
