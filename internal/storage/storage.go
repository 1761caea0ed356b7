// Package storage saves uploaded post images to local disk, S3 or GCS.
package storage

import (
	"context"
	"mime/multipart"
)

// Storage saves an upload under path and returns the URL to reference it by.
// Delete takes such a URL; URLs the backend did not issue are ignored, as are
// objects that are already gone.
type Storage interface {
	Save(ctx context.Context, file *multipart.FileHeader, path string) (string, error)
	Delete(ctx context.Context, url string) error
}
