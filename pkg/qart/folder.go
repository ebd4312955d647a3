package qart

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/quatton/qstage/pkg/qstage"
)

// LocalBackend is the backend id of folders on the local filesystem.
const LocalBackend = "localhost"

// Folder is a run folder in object storage. Its listing is read once when the
// folder is opened.
type Folder struct {
	backendID string
	prefix    string
	files     []string
}

// OpenFolder lists the working folder of runID.
func OpenFolder(ctx context.Context, store Store, backendID, runID string) (*Folder, error) {
	prefix := RunPrefix(runID)
	objects, err := store.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}

	keys := make([]string, 0, len(objects))
	for _, o := range objects {
		keys = append(keys, o.Key)
	}
	return &Folder{
		backendID: backendID,
		prefix:    strings.TrimSuffix(prefix, "/"),
		files:     entries(prefix, keys),
	}, nil
}

// entries returns the direct children of prefix, collapsing nested keys into
// their first path segment.
func entries(prefix string, keys []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, k := range keys {
		rest := strings.TrimPrefix(k, prefix)
		if rest == "" || rest == k {
			continue
		}
		name, _, _ := strings.Cut(rest, "/")
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func (f *Folder) BackendID() string  { return f.backendID }
func (f *Folder) RemotePath() string { return f.prefix }

func (f *Folder) Listdir() []string {
	return append([]string(nil), f.files...)
}

// LocalFolder is a job folder on the local filesystem.
type LocalFolder struct {
	dir   string
	files []string
}

// OpenLocalFolder reads the entries of dir.
func OpenLocalFolder(dir string) (*LocalFolder, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	des, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read folder %s: %w", abs, err)
	}
	files := make([]string, 0, len(des))
	for _, de := range des {
		files = append(files, de.Name())
	}
	return &LocalFolder{dir: abs, files: files}, nil
}

func (f *LocalFolder) BackendID() string  { return LocalBackend }
func (f *LocalFolder) RemotePath() string { return filepath.ToSlash(f.dir) }

func (f *LocalFolder) Listdir() []string {
	return append([]string(nil), f.files...)
}

var (
	_ qstage.RemoteFolder = (*Folder)(nil)
	_ qstage.RemoteFolder = (*LocalFolder)(nil)
)
