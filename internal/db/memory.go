package db

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/BorisDmv/blog-posts-api/internal/models"
)

// MemoryStore keeps posts in process memory. It backs memory:// URLs
// and the handler tests.
type MemoryStore struct {
	mu     sync.RWMutex
	posts  []models.Post
	ids    map[string]struct{}
	closed bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{ids: make(map[string]struct{})}
}

func (s *MemoryStore) ListPosts(_ context.Context) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, &PersistenceError{Op: "list posts", Err: errStoreClosed}
	}

	posts := make([]models.Post, 0, len(s.posts))
	for i := len(s.posts) - 1; i >= 0; i-- {
		posts = append(posts, clonePost(s.posts[i]))
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

func (s *MemoryStore) CreatePost(_ context.Context, post models.Post) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, &PersistenceError{Op: "create post", Err: errStoreClosed}
	}
	if _, ok := s.ids[post.ID]; ok {
		return nil, &PersistenceError{Op: "create post", Err: fmt.Errorf("duplicate id %q", post.ID)}
	}

	stored := clonePost(post)
	s.posts = append(s.posts, stored)
	s.ids[post.ID] = struct{}{}

	created := clonePost(stored)
	return &created, nil
}

func (s *MemoryStore) Close(_ context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func clonePost(p models.Post) models.Post {
	tags := make([]string, len(p.Tags))
	copy(tags, p.Tags)
	p.Tags = tags
	return p
}
