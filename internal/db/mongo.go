package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/BorisDmv/blog-posts-api/internal/models"
)

const postsCollection = "blogposts"

type MongoStore struct {
	client *mongo.Client
	posts  *mongo.Collection
}

// mongoPost is the stored document: the post plus its id as _id.
type mongoPost struct {
	MongoID     string `bson:"_id"`
	models.Post `bson:",inline"`
}

func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &MongoStore{
		client: client,
		posts:  client.Database(database).Collection(postsCollection),
	}, nil
}

func (s *MongoStore) ListPosts(ctx context.Context) ([]models.Post, error) {
	if s.client == nil {
		return nil, &PersistenceError{Op: "list posts", Err: errors.New("db not initialized")}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := s.posts.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, &PersistenceError{Op: "list posts", Err: err}
	}

	posts := make([]models.Post, 0)
	if err := cur.All(ctx, &posts); err != nil {
		return nil, &PersistenceError{Op: "decode posts", Err: err}
	}
	normalizeTags(posts)
	return posts, nil
}

func (s *MongoStore) CreatePost(ctx context.Context, post models.Post) (*models.Post, error) {
	if s.client == nil {
		return nil, &PersistenceError{Op: "create post", Err: errors.New("db not initialized")}
	}

	// BSON dates carry milliseconds only.
	post.CreatedAt = post.CreatedAt.Truncate(time.Millisecond)
	post.UpdatedAt = post.UpdatedAt.Truncate(time.Millisecond)
	if post.Tags == nil {
		post.Tags = []string{}
	}

	if _, err := s.posts.InsertOne(ctx, mongoPost{MongoID: post.ID, Post: post}); err != nil {
		return nil, &PersistenceError{Op: "create post", Err: err}
	}
	return &post, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
