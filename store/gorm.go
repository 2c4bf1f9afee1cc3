package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"wanderlog/apperr"
	"wanderlog/models"
)

// GormStore keeps documents in a relational database through gorm. Nested
// values (affiliate links, route points) are stored as JSON columns.
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, now: time.Now}
}

func (s *GormStore) ListBlogs(ctx context.Context, category string) ([]models.Blog, error) {
	blogs := []models.Blog{}
	q := s.db.WithContext(ctx).Order("created_at ASC").Order("rowid ASC")
	if c := strings.TrimSpace(category); c != "" {
		q = q.Where("LOWER(TRIM(category)) = ?", strings.ToLower(c))
	}
	if err := q.Find(&blogs).Error; err != nil {
		return nil, err
	}
	return blogs, nil
}

func (s *GormStore) CreateBlog(ctx context.Context, blog *models.Blog) error {
	if blog.CreatedAt.IsZero() {
		blog.CreatedAt = s.now()
	}
	return translate(s.db.WithContext(ctx).Create(blog).Error)
}

func (s *GormStore) GetBlogByID(ctx context.Context, id string) (*models.Blog, error) {
	var blog models.Blog
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&blog).Error; err != nil {
		return nil, translate(err)
	}
	return &blog, nil
}

func (s *GormStore) GetBlogBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	var blog models.Blog
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&blog).Error; err != nil {
		return nil, translate(err)
	}
	return &blog, nil
}

func (s *GormStore) UpdateBlog(ctx context.Context, id string, patch models.BlogPatch) (*models.Blog, error) {
	blog, err := s.GetBlogByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.ApplyTo(blog)
	if err := s.db.WithContext(ctx).Save(blog).Error; err != nil {
		return nil, translate(err)
	}
	return blog, nil
}

func (s *GormStore) DeleteBlog(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Blog{}).Error
}

func (s *GormStore) ListStories(ctx context.Context) ([]models.Story, error) {
	stories := []models.Story{}
	if err := s.db.WithContext(ctx).Order("created_at DESC").Order("rowid DESC").Find(&stories).Error; err != nil {
		return nil, err
	}
	return stories, nil
}

func (s *GormStore) CreateStory(ctx context.Context, story *models.Story) error {
	now := s.now()
	if story.CreatedAt.IsZero() {
		story.CreatedAt = now
	}
	story.UpdatedAt = now
	return translate(s.db.WithContext(ctx).Create(story).Error)
}

func (s *GormStore) GetStoryByID(ctx context.Context, id string) (*models.Story, error) {
	var story models.Story
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&story).Error; err != nil {
		return nil, translate(err)
	}
	return &story, nil
}

func (s *GormStore) UpdateStory(ctx context.Context, id string, patch models.StoryPatch) (*models.Story, error) {
	story, err := s.GetStoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.ApplyTo(story)
	story.UpdatedAt = s.now()
	// gorm stamps UpdatedAt itself on Save, so hand it the same clock
	if err := s.db.WithContext(ctx).Session(&gorm.Session{NowFunc: s.now}).Save(story).Error; err != nil {
		return nil, translate(err)
	}
	return story, nil
}

func (s *GormStore) DeleteStory(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Story{}).Error
}

func (s *GormStore) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey),
		strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return errors.Join(apperr.ErrDuplicateKey, err)
	default:
		return err
	}
}
