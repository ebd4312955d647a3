package qart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/quatton/qstage/pkg/qstage"
)

// Stage writes the local part of a manifest into dir: the input script, the
// generated files and copies of uploaded blobs. Remote copies and symlinks
// are left to the execution backend. It returns the paths it wrote.
func Stage(ctx context.Context, store Store, m qstage.Manifest, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	var written []string
	write := func(name, content string) error {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		written = append(written, p)
		return nil
	}

	if err := write(m.InputFilename, m.InputText); err != nil {
		return written, err
	}
	for _, w := range m.Writes {
		if err := write(w.Dest, w.Content); err != nil {
			return written, err
		}
	}

	if len(m.LocalCopies) > 0 && store == nil {
		return written, errors.New("manifest copies uploaded blobs but no object store is configured")
	}
	for _, c := range m.LocalCopies {
		p := filepath.Join(dir, c.Dest)
		if err := copyBlob(ctx, store, qstage.Blob{ID: c.SourceID, Filename: c.SourceName}, p); err != nil {
			return written, err
		}
		written = append(written, p)
	}
	return written, nil
}

func copyBlob(ctx context.Context, store Store, blob qstage.Blob, dest string) error {
	src, err := OpenBlob(ctx, store, blob)
	if err != nil {
		return fmt.Errorf("open blob %s: %w", blob.ID, err)
	}
	defer src.Close()

	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		return fmt.Errorf("copy blob %s: %w", blob.ID, err)
	}
	return f.Close()
}
