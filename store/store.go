// Package store persists blogs and stories. Implementations report a missing
// document as apperr.ErrNotFound and a slug collision as apperr.ErrDuplicateKey.
package store

//go:generate mockgen -source=store.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"wanderlog/models"
)

type BlogStore interface {
	// ListBlogs returns blogs in insertion order. An empty category lists all.
	ListBlogs(ctx context.Context, category string) ([]models.Blog, error)
	CreateBlog(ctx context.Context, blog *models.Blog) error
	GetBlogByID(ctx context.Context, id string) (*models.Blog, error)
	GetBlogBySlug(ctx context.Context, slug string) (*models.Blog, error)
	UpdateBlog(ctx context.Context, id string, patch models.BlogPatch) (*models.Blog, error)
	// DeleteBlog succeeds when no blog has the id.
	DeleteBlog(ctx context.Context, id string) error
}

type StoryStore interface {
	// ListStories returns stories newest first.
	ListStories(ctx context.Context) ([]models.Story, error)
	CreateStory(ctx context.Context, story *models.Story) error
	GetStoryByID(ctx context.Context, id string) (*models.Story, error)
	UpdateStory(ctx context.Context, id string, patch models.StoryPatch) (*models.Story, error)
	DeleteStory(ctx context.Context, id string) error
}

type Store interface {
	BlogStore
	StoryStore
	Close(ctx context.Context) error
}
