package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BorisDmv/blog-posts-api/internal/models"
)

const postsTableSQL = `
	CREATE TABLE IF NOT EXISTS blog_posts (
	    id TEXT PRIMARY KEY,
	    title TEXT NOT NULL,
	    content TEXT NOT NULL,
	    author_id TEXT,
	    tags TEXT[] NOT NULL DEFAULT '{}',
	    published BOOLEAN NOT NULL DEFAULT false,
	    created_at TIMESTAMPTZ NOT NULL,
	    updated_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS blog_posts_created_at_idx ON blog_posts (created_at DESC);
`

type PostgresStore struct {
	pool *pgxpool.Pool
}

// Pool returns the underlying pgxpool.Pool
func (s *PostgresStore) Pool() *pgxpool.Pool {
	return s.pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, postsTableSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create blog_posts table: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close(_ context.Context) error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *PostgresStore) ListPosts(ctx context.Context) ([]models.Post, error) {
	if s.pool == nil {
		return nil, &PersistenceError{Op: "list posts", Err: errors.New("db not initialized")}
	}

	const query = `
		SELECT
			id,
			title,
			content,
			COALESCE(author_id, ''),
			tags,
			published,
			created_at,
			updated_at
		FROM blog_posts
		ORDER BY created_at DESC
	`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, &PersistenceError{Op: "list posts", Err: err}
	}
	defer rows.Close()

	posts := make([]models.Post, 0)
	for rows.Next() {
		var post models.Post
		if err := rows.Scan(
			&post.ID,
			&post.Title,
			&post.Content,
			&post.AuthorID,
			&post.Tags,
			&post.Published,
			&post.CreatedAt,
			&post.UpdatedAt,
		); err != nil {
			return nil, &PersistenceError{Op: "scan post", Err: err}
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "list posts", Err: err}
	}
	normalizeTags(posts)
	return posts, nil
}

func (s *PostgresStore) CreatePost(ctx context.Context, post models.Post) (*models.Post, error) {
	if s.pool == nil {
		return nil, &PersistenceError{Op: "create post", Err: errors.New("db not initialized")}
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}

	const query = `
		INSERT INTO blog_posts (id, title, content, author_id, tags, published, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8)
		RETURNING
			id,
			title,
			content,
			COALESCE(author_id, ''),
			tags,
			published,
			created_at,
			updated_at
	`

	var created models.Post
	err := s.pool.QueryRow(
		ctx,
		query,
		post.ID,
		post.Title,
		post.Content,
		post.AuthorID,
		post.Tags,
		post.Published,
		post.CreatedAt,
		post.UpdatedAt,
	).Scan(
		&created.ID,
		&created.Title,
		&created.Content,
		&created.AuthorID,
		&created.Tags,
		&created.Published,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		return nil, &PersistenceError{Op: "create post", Err: err}
	}
	if created.Tags == nil {
		created.Tags = []string{}
	}
	return &created, nil
}
