package qart

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

// memStore is an in-memory Store for tests.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	listErr error
}

func newMemStore(keys ...string) *memStore {
	s := &memStore{objects: map[string][]byte{}}
	for _, k := range keys {
		s.objects[k] = []byte("content of " + k)
	}
	return s
}

func (s *memStore) Upload(_ context.Context, key string, r io.Reader, contentType string, md map[string]string) (*Object, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return &Object{Key: key, Size: int64(len(data)), ContentType: contentType, Metadata: md, LastModified: time.Now()}, nil
}

func (s *memStore) Download(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memStore) List(_ context.Context, prefix string) ([]*Object, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Object
	for k, v := range s.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, &Object{Key: k, Size: int64(len(v))})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *memStore) EnsureBucket(context.Context) error { return nil }

var _ Store = (*memStore)(nil)

var errUnreachable = errors.New("connection refused")
