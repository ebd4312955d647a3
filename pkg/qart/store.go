// Package qart stores restart blobs and job folders in S3-compatible storage
// and exposes them to the restart resolver.
package qart

import (
	"context"
	"io"
	"time"
)

// Object is a stored object with metadata.
type Object struct {
	Key          string            `json:"key"`           // e.g. "runs/0193/lammps.restart"
	Bucket       string            `json:"bucket"`
	Size         int64             `json:"size"`
	ContentType  string            `json:"content_type"`
	LastModified time.Time         `json:"last_modified"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// Store is the subset of object storage qstage needs.
type Store interface {
	// Upload writes reader to key.
	Upload(ctx context.Context, key string, reader io.Reader, contentType string, metadata map[string]string) (*Object, error)

	// Download returns ErrNotFound when key does not exist.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// List returns every object under prefix, recursively.
	List(ctx context.Context, prefix string) ([]*Object, error)

	Delete(ctx context.Context, key string) error

	// EnsureBucket creates the bucket if it does not exist.
	EnsureBucket(ctx context.Context) error
}

// RunPrefix returns the key prefix of a run's working folder.
func RunPrefix(runID string) string {
	return "runs/" + runID + "/"
}

// BlobKey returns the key an uploaded blob is stored under.
func BlobKey(id, filename string) string {
	return "blobs/" + id + "/" + filename
}
