package testutil

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/raghavk/vidtube/internal/media"
)

// FakeMediaStore is an in-memory media.Store for tests. It records uploads
// and deletes so tests can assert on the register/avatar-update flows without
// an object storage backend.
type FakeMediaStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	Deleted []string
}

func NewFakeMediaStore() *FakeMediaStore {
	return &FakeMediaStore{objects: make(map[string][]byte)}
}

func (s *FakeMediaStore) Upload(ctx context.Context, filename, contentType string, body io.Reader) (*media.Object, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("uploads/%s-%s", uuid.New(), filename)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data

	return &media.Object{
		Key: key,
		URL: "https://media.test/" + key,
	}, nil
}

func (s *FakeMediaStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Deleted = append(s.Deleted, key)
	delete(s.objects, key)
	return nil
}

// Count returns the number of stored objects
func (s *FakeMediaStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
