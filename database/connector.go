package database

import (
	"context"
	"fmt"
	"sync"

	"wanderlog/config"
	"wanderlog/models"
	"wanderlog/store"
)

// Opener establishes a new store connection.
type Opener func(ctx context.Context) (store.Store, error)

// NewOpener returns the Opener for the configured driver.
func NewOpener(cfg config.StoreConfig) Opener {
	switch cfg.Driver {
	case config.DriverMongoDB:
		return func(ctx context.Context) (store.Store, error) {
			client, err := OpenMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Database)
			if err != nil {
				return nil, err
			}
			return store.NewMongoStore(client, cfg.MongoDB.Database), nil
		}
	case config.DriverSQLite:
		return func(context.Context) (store.Store, error) {
			db, err := OpenSQLite(cfg.SQLite.Path)
			if err != nil {
				return nil, err
			}
			return store.NewGormStore(db), nil
		}
	default:
		return func(context.Context) (store.Store, error) {
			return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
		}
	}
}

// Connector is the process-wide store handle. The connection is opened on
// first use and shared afterwards; a failed attempt is not remembered, so the
// next call tries again.
type Connector struct {
	open Opener

	mu    sync.Mutex
	store store.Store
}

var _ store.Store = (*Connector)(nil)

func NewConnector(open Opener) *Connector {
	return &Connector{open: open}
}

// Store returns the shared connection, opening it if needed.
func (c *Connector) Store(ctx context.Context) (store.Store, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.store != nil {
		return c.store, nil
	}
	st, err := c.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect store: %w", err)
	}
	c.store = st
	return st, nil
}

// Close releases the connection if one was opened.
func (c *Connector) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.store == nil {
		return nil
	}
	err := c.store.Close(ctx)
	c.store = nil
	return err
}

func (c *Connector) ListBlogs(ctx context.Context, category string) ([]models.Blog, error) {
	st, err := c.Store(ctx)
	if err != nil {
		return nil, err
	}
	return st.ListBlogs(ctx, category)
}

func (c *Connector) CreateBlog(ctx context.Context, blog *models.Blog) error {
	st, err := c.Store(ctx)
	if err != nil {
		return err
	}
	return st.CreateBlog(ctx, blog)
}

func (c *Connector) GetBlogByID(ctx context.Context, id string) (*models.Blog, error) {
	st, err := c.Store(ctx)
	if err != nil {
		return nil, err
	}
	return st.GetBlogByID(ctx, id)
}

func (c *Connector) GetBlogBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	st, err := c.Store(ctx)
	if err != nil {
		return nil, err
	}
	return st.GetBlogBySlug(ctx, slug)
}

func (c *Connector) UpdateBlog(ctx context.Context, id string, patch models.BlogPatch) (*models.Blog, error) {
	st, err := c.Store(ctx)
	if err != nil {
		return nil, err
	}
	return st.UpdateBlog(ctx, id, patch)
}

func (c *Connector) DeleteBlog(ctx context.Context, id string) error {
	st, err := c.Store(ctx)
	if err != nil {
		return err
	}
	return st.DeleteBlog(ctx, id)
}

func (c *Connector) ListStories(ctx context.Context) ([]models.Story, error) {
	st, err := c.Store(ctx)
	if err != nil {
		return nil, err
	}
	return st.ListStories(ctx)
}

func (c *Connector) CreateStory(ctx context.Context, story *models.Story) error {
	st, err := c.Store(ctx)
	if err != nil {
		return err
	}
	return st.CreateStory(ctx, story)
}

func (c *Connector) GetStoryByID(ctx context.Context, id string) (*models.Story, error) {
	st, err := c.Store(ctx)
	if err != nil {
		return nil, err
	}
	return st.GetStoryByID(ctx, id)
}

func (c *Connector) UpdateStory(ctx context.Context, id string, patch models.StoryPatch) (*models.Story, error) {
	st, err := c.Store(ctx)
	if err != nil {
		return nil, err
	}
	return st.UpdateStory(ctx, id, patch)
}

func (c *Connector) DeleteStory(ctx context.Context, id string) error {
	st, err := c.Store(ctx)
	if err != nil {
		return err
	}
	return st.DeleteStory(ctx, id)
}
