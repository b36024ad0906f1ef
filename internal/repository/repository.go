package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"mirfeed/internal/models"
)

// LocalStorage is a small key/value store for client-side state such as the
// serialized session.
type LocalStorage interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// PostRepository keeps the feed in creation order, newest first.
type PostRepository interface {
	Prepend(post *models.Post)
	GetByID(postID int64) (*models.Post, bool)
	List() []models.Post
	Update(post *models.Post) bool
	AddComment(comment *models.Comment) bool
	Comments(postID int64) []models.Comment
}

type Repository struct {
	Storage LocalStorage
	Post    PostRepository
}

// NewRepository uses postgres for local storage when db is set and memory otherwise.
func NewRepository(db *sqlx.DB) *Repository {
	var storage LocalStorage
	if db != nil {
		storage = NewPostgresStorage(db)
	} else {
		storage = NewMemoryStorage()
	}

	return &Repository{
		Storage: storage,
		Post:    NewPostRepository(),
	}
}
