package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/BorisDmv/blog-posts-api/internal/models"
)

// Store is the post repository. Implementations return posts newest
// first from ListPosts and wrap store failures in *PersistenceError.
type Store interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	CreatePost(ctx context.Context, post models.Post) (*models.Post, error)
	Close(ctx context.Context) error
}

// DialFunc opens a store for a connection string.
type DialFunc func(ctx context.Context, uri string) (Store, error)

// NewDialer picks the backend from the connection string scheme.
// databaseName is only used by the MongoDB backend.
func NewDialer(databaseName string) DialFunc {
	return func(ctx context.Context, uri string) (Store, error) {
		switch scheme(uri) {
		case "mongodb", "mongodb+srv":
			return NewMongoStore(ctx, uri, databaseName)
		case "postgres", "postgresql":
			return NewPostgresStore(ctx, uri)
		case "memory":
			return NewMemoryStore(), nil
		default:
			return nil, fmt.Errorf("unsupported connection string scheme %q", scheme(uri))
		}
	}
}

func scheme(uri string) string {
	i := strings.Index(uri, "://")
	if i < 0 {
		return ""
	}
	return strings.ToLower(uri[:i])
}

func normalizeTags(posts []models.Post) {
	for i := range posts {
		if posts[i].Tags == nil {
			posts[i].Tags = []string{}
		}
	}
}
