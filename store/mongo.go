package store

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"wanderlog/apperr"
	"wanderlog/models"
)

const (
	BlogsCollection   = "blogs"
	StoriesCollection = "stories"
)

// MongoStore keeps documents in MongoDB. Ids are ObjectID hex strings so the
// models share one string id type with the gorm backend.
type MongoStore struct {
	client  *mongo.Client
	blogs   *mongo.Collection
	stories *mongo.Collection
	now     func() time.Time
}

func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	db := client.Database(database)
	return &MongoStore{
		client:  client,
		blogs:   db.Collection(BlogsCollection),
		stories: db.Collection(StoriesCollection),
		now:     time.Now,
	}
}

func (s *MongoStore) ListBlogs(ctx context.Context, category string) ([]models.Blog, error) {
	filter := bson.M{}
	if c := strings.TrimSpace(category); c != "" {
		filter["category"] = primitive.Regex{
			Pattern: `^\s*` + regexp.QuoteMeta(c) + `\s*$`,
			Options: "i",
		}
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.blogs.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	blogs := []models.Blog{}
	if err := cur.All(ctx, &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

func (s *MongoStore) CreateBlog(ctx context.Context, blog *models.Blog) error {
	if blog.ID == "" {
		blog.ID = primitive.NewObjectID().Hex()
	}
	if blog.CreatedAt.IsZero() {
		blog.CreatedAt = s.now().UTC().Truncate(time.Millisecond)
	}
	if blog.AffiliateLinks == nil {
		blog.AffiliateLinks = []models.AffiliateLink{}
	}
	_, err := s.blogs.InsertOne(ctx, blog)
	return translateMongo(err)
}

func (s *MongoStore) GetBlogByID(ctx context.Context, id string) (*models.Blog, error) {
	var blog models.Blog
	if err := s.blogs.FindOne(ctx, bson.M{"_id": id}).Decode(&blog); err != nil {
		return nil, translateMongo(err)
	}
	return &blog, nil
}

func (s *MongoStore) GetBlogBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	var blog models.Blog
	if err := s.blogs.FindOne(ctx, bson.M{"slug": slug}).Decode(&blog); err != nil {
		return nil, translateMongo(err)
	}
	return &blog, nil
}

func (s *MongoStore) UpdateBlog(ctx context.Context, id string, patch models.BlogPatch) (*models.Blog, error) {
	set := blogSet(patch)
	if len(set) == 0 {
		return s.GetBlogByID(ctx, id)
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var blog models.Blog
	err := s.blogs.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&blog)
	if err != nil {
		return nil, translateMongo(err)
	}
	return &blog, nil
}

func (s *MongoStore) DeleteBlog(ctx context.Context, id string) error {
	_, err := s.blogs.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (s *MongoStore) ListStories(ctx context.Context) ([]models.Story, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.stories.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	stories := []models.Story{}
	if err := cur.All(ctx, &stories); err != nil {
		return nil, err
	}
	return stories, nil
}

func (s *MongoStore) CreateStory(ctx context.Context, story *models.Story) error {
	now := s.now().UTC().Truncate(time.Millisecond)
	if story.ID == "" {
		story.ID = primitive.NewObjectID().Hex()
	}
	if story.CreatedAt.IsZero() {
		story.CreatedAt = now
	}
	story.UpdatedAt = now
	if story.RoutePoints == nil {
		story.RoutePoints = []models.RoutePoint{}
	}
	_, err := s.stories.InsertOne(ctx, story)
	return translateMongo(err)
}

func (s *MongoStore) GetStoryByID(ctx context.Context, id string) (*models.Story, error) {
	var story models.Story
	if err := s.stories.FindOne(ctx, bson.M{"_id": id}).Decode(&story); err != nil {
		return nil, translateMongo(err)
	}
	return &story, nil
}

func (s *MongoStore) UpdateStory(ctx context.Context, id string, patch models.StoryPatch) (*models.Story, error) {
	set := storySet(patch)
	set["updatedAt"] = s.now().UTC().Truncate(time.Millisecond)
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var story models.Story
	err := s.stories.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&story)
	if err != nil {
		return nil, translateMongo(err)
	}
	return &story, nil
}

func (s *MongoStore) DeleteStory(ctx context.Context, id string) error {
	_, err := s.stories.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// blogSet builds the $set document for a patch. createdAt is never part of it.
func blogSet(p models.BlogPatch) bson.M {
	var b models.Blog
	p.ApplyTo(&b)
	set := bson.M{}
	if p.Title != nil {
		set["title"] = b.Title
		set["slug"] = b.Slug
	}
	if p.Content != nil {
		set["content"] = b.Content
	}
	if p.Image != nil {
		set["image"] = b.Image
	}
	if p.Category != nil {
		set["category"] = b.Category
	}
	if p.AffiliateLinks != nil {
		set["affiliateLinks"] = b.AffiliateLinks
	}
	return set
}

func storySet(p models.StoryPatch) bson.M {
	var st models.Story
	p.ApplyTo(&st)
	set := bson.M{}
	if p.Title != nil {
		set["title"] = st.Title
	}
	if p.Quote != nil {
		set["quote"] = st.Quote
	}
	if p.Description != nil {
		set["description"] = st.Description
	}
	if p.MapImage != nil {
		set["mapImage"] = st.MapImage
	}
	if p.PhotoImage != nil {
		set["photoImage"] = st.PhotoImage
	}
	if p.RoutePoints != nil {
		set["routePoints"] = st.RoutePoints
	}
	return set
}

func translateMongo(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return apperr.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return errors.Join(apperr.ErrDuplicateKey, err)
	default:
		return err
	}
}
