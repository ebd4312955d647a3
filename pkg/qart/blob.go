package qart

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"

	"github.com/quatton/qstage/pkg/qstage"
)

// UploadBlob stores the content of r as a new blob and returns its handle.
func UploadBlob(ctx context.Context, store Store, filename string, r io.Reader) (qstage.Blob, error) {
	filename = path.Base(filename)
	if filename == "." || filename == "/" {
		return qstage.Blob{}, ErrEmptyFilename
	}

	id := uuid.NewString()
	if _, err := store.Upload(ctx, BlobKey(id, filename), r, "application/octet-stream", map[string]string{
		"filename": filename,
	}); err != nil {
		return qstage.Blob{}, fmt.Errorf("upload blob %s: %w", filename, err)
	}
	return qstage.Blob{ID: id, Filename: filename}, nil
}

// OpenBlob returns the content of a blob.
func OpenBlob(ctx context.Context, store Store, blob qstage.Blob) (io.ReadCloser, error) {
	return store.Download(ctx, BlobKey(blob.ID, blob.Filename))
}
