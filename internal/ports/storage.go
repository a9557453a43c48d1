package ports

import (
	"context"
	"io"
	"time"
)

type PutImageOutput struct {
	// Filename is the stored name, unique per call.
	Filename string
	Size     int64
}

type ImageInfo struct {
	Filename string
	Size     int64
	ModTime  time.Time
}

// ImageObject is an open stored image. The caller closes Content.
type ImageObject struct {
	Content     io.ReadSeekCloser
	ContentType string
	Size        int64
	ModTime     time.Time
}

// ImageStore keeps rendered images in a flat namespace (localfs today).
type ImageStore interface {
	Provider() string

	// EnsureDir prepares the backing location. Called once at startup.
	EnsureDir() error

	PutImage(ctx context.Context, data []byte) (PutImageOutput, error)
	OpenImage(ctx context.Context, filename string) (ImageObject, error)
	ListImages(ctx context.Context) ([]ImageInfo, error)
	DeleteImage(ctx context.Context, filename string) error
}
