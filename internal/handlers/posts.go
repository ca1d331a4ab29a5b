package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/BorisDmv/blog-posts-api/internal/db"
	"github.com/BorisDmv/blog-posts-api/internal/models"
)

const errTitleContentRequired = "title and content are required"

// StoreProvider hands out the shared post store, connecting on first use.
type StoreProvider interface {
	Store(ctx context.Context) (db.Store, error)
}

type PostsHandler struct {
	stores StoreProvider
	logger *zap.Logger
	now    func() time.Time
}

// Envelope wraps every API response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// CreatePostRequest is read loosely: any JSON value is accepted for
// each field and coerced before the post is built.
type CreatePostRequest struct {
	Title     interface{}
	Content   interface{}
	AuthorID  interface{}
	Tags      interface{}
	Published interface{}
}

// decodeCreateRequest parses the whole body as one JSON value. A body
// that is valid JSON but not an object yields an empty request.
func decodeCreateRequest(r *http.Request) (CreatePostRequest, error) {
	var req CreatePostRequest
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return req, fmt.Errorf("read body: %w", err)
	}
	var body interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return req, fmt.Errorf("invalid JSON body: %w", err)
	}
	fields, ok := body.(map[string]interface{})
	if !ok {
		return req, nil
	}
	req.Title = fields["title"]
	req.Content = fields["content"]
	req.AuthorID = fields["authorId"]
	req.Tags = fields["tags"]
	req.Published = fields["published"]
	return req, nil
}

func NewPostsHandler(stores StoreProvider, logger *zap.Logger) *PostsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostsHandler{stores: stores, logger: logger, now: time.Now}
}

// List handles GET /api/blogs.
func (h *PostsHandler) List(w http.ResponseWriter, r *http.Request) {
	store, err := h.stores.Store(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	posts, err := store.ListPosts(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, Envelope{Success: true, Data: posts})
}

// Create handles POST /api/blogs. Parsing and validation run before any
// store access; an unparseable body is a 500 like any other failure.
func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCreateRequest(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !truthy(req.Title) || !truthy(req.Content) {
		respondError(w, http.StatusBadRequest, errTitleContentRequired)
		return
	}

	attrs := models.PostAttrs{
		Title:     toString(req.Title),
		Content:   toString(req.Content),
		Tags:      toStrings(req.Tags),
		Published: truthy(req.Published),
	}
	if req.AuthorID != nil {
		attrs.AuthorID = toString(req.AuthorID)
	}

	store, err := h.stores.Store(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	created, err := store.CreatePost(r.Context(), models.NewPost(attrs, h.now()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, Envelope{Success: true, Data: created})
}

func (h *PostsHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	respondError(w, http.StatusInternalServerError, err.Error())
}

// Health reports liveness without touching the database.
func Health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, Envelope{Success: false, Error: message})
}
