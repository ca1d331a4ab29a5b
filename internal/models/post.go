package models

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID        string    `json:"id" bson:"id"`
	Title     string    `json:"title" bson:"title"`
	Content   string    `json:"content" bson:"content"`
	AuthorID  string    `json:"authorId,omitempty" bson:"authorId,omitempty"`
	Tags      []string  `json:"tags" bson:"tags"`
	Published bool      `json:"published" bson:"published"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// PostAttrs are the caller-supplied fields of a new post.
type PostAttrs struct {
	Title     string
	Content   string
	AuthorID  string
	Tags      []string
	Published bool
}

// NewPost builds a post ready to be stored: it gets a fresh identifier,
// both timestamps set to now and an empty (never nil) tag list.
func NewPost(attrs PostAttrs, now time.Time) Post {
	tags := make([]string, len(attrs.Tags))
	copy(tags, attrs.Tags)

	now = now.UTC()
	return Post{
		ID:        uuid.NewString(),
		Title:     attrs.Title,
		Content:   attrs.Content,
		AuthorID:  attrs.AuthorID,
		Tags:      tags,
		Published: attrs.Published,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
