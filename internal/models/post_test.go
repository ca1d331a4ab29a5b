package models

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestNewPost(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))

	t.Run("applies defaults", func(t *testing.T) {
		post := NewPost(PostAttrs{Title: "Hello", Content: "World"}, now)

		if post.ID == "" {
			t.Fatal("expected an identifier")
		}
		if post.Tags == nil || len(post.Tags) != 0 {
			t.Errorf("expected empty tags, got %#v", post.Tags)
		}
		if post.Published {
			t.Error("expected post to be unpublished")
		}
		if post.AuthorID != "" {
			t.Errorf("expected no author, got %q", post.AuthorID)
		}
		if !post.CreatedAt.Equal(now) || !post.UpdatedAt.Equal(now) {
			t.Errorf("timestamps not set to now: %v %v", post.CreatedAt, post.UpdatedAt)
		}
		if post.CreatedAt.Location() != time.UTC {
			t.Errorf("expected UTC timestamps, got %v", post.CreatedAt.Location())
		}
	})

	t.Run("keeps tag order and copies the slice", func(t *testing.T) {
		tags := []string{"b", "a", "c"}
		post := NewPost(PostAttrs{Title: "t", Content: "c", Tags: tags}, now)
		tags[0] = "mutated"

		if !reflect.DeepEqual(post.Tags, []string{"b", "a", "c"}) {
			t.Errorf("got tags %v", post.Tags)
		}
	})

	t.Run("generates distinct identifiers", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			id := NewPost(PostAttrs{Title: "t", Content: "c"}, now).ID
			if seen[id] {
				t.Fatalf("duplicate id %q", id)
			}
			seen[id] = true
		}
	})
}

func TestPostJSON(t *testing.T) {
	post := NewPost(PostAttrs{Title: "Hello", Content: "World"}, time.Now())

	b, err := json.Marshal(post)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}

	if _, ok := got["authorId"]; ok {
		t.Error("absent author should be omitted")
	}
	tags, ok := got["tags"].([]any)
	if !ok || len(tags) != 0 {
		t.Errorf("expected tags to be an empty array, got %#v", got["tags"])
	}
	for _, key := range []string{"id", "title", "content", "published", "createdAt", "updatedAt"} {
		if _, ok := got[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
}
