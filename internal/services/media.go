package services

import (
	"context"
	"io"
)

// MediaStore accepts a binary upload into a folder and returns a stable
// retrieval URL. Uploads are never deleted by this system; replaced images
// are orphaned at the media host.
type MediaStore interface {
	Upload(ctx context.Context, folder, filename string, file io.Reader) (string, error)
}
