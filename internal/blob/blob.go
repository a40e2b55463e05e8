package blob

import "context"

// Store persists an uploaded image and returns the public URL it is served
// from. Property creation depends on this interface only.
type Store interface {
	UploadBase64(ctx context.Context, base64Image, publicID string) (string, error)
}
