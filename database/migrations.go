package database

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"

	"wanderlog/models"
	"wanderlog/store"
)

func RunMigrations(db *gorm.DB) error {
	slog.Info("Running database migrations...")

	err := db.AutoMigrate(
		&models.Blog{},
		&models.Story{},
	)

	if err != nil {
		slog.Error("Error running migrations", slog.String("error", err.Error()))
		return err
	}

	slog.Info("Migrations completed successfully")
	return nil
}

// EnsureIndexes creates the MongoDB indexes the store relies on: a unique
// slug for blogs and createdAt for both listings.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	slog.Info("Ensuring MongoDB indexes...")

	_, err := db.Collection(store.BlogsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "createdAt", Value: 1}}},
	})
	if err != nil {
		slog.Error("Error creating blog indexes", slog.String("error", err.Error()))
		return err
	}

	_, err = db.Collection(store.StoriesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	if err != nil {
		slog.Error("Error creating story indexes", slog.String("error", err.Error()))
		return err
	}

	slog.Info("Indexes ensured")
	return nil
}
