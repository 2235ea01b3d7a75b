package ports

import (
	"context"
	"io"
)

type PutObjectInput struct {
	ObjectKey   string
	ContentType string
	Reader      io.Reader
	Size        int64
}

type PutObjectOutput struct {
	// For localfs this echoes the object key. For gdrive it is the real
	// file ID, which is what gets written back to the tracking row.
	ObjectKey string
	Size      int64
}

// Uploader: implementations (localfs, gdrive, ...).
type Uploader interface {
	Provider() string

	PutObject(ctx context.Context, in PutObjectInput) (PutObjectOutput, error)
}
