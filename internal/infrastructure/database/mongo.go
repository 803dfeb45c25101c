package database

import (
	"context"
	"fmt"

	"github.com/sangkips/bizcoach-api/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Mongo collection names, one per record type
const (
	ProductsCollection  = "products"
	CustomersCollection = "customers"
	SalesCollection     = "sales"
	CostsCollection     = "costs"
)

// NewMongoDB connects to MongoDB and verifies the connection with a ping
func NewMongoDB(ctx context.Context, cfg *config.MongoConfig, log *zap.Logger) (*mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	log.Info("connected to mongodb", zap.String("database", cfg.DBName))
	return client.Database(cfg.DBName), nil
}

// EnsureMongoIndexes creates the owner and date indexes every list query relies on
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	dated := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: 1}}},
	}
	owned := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	}

	for name, indexes := range map[string][]mongo.IndexModel{
		SalesCollection:     dated,
		CostsCollection:     dated,
		ProductsCollection:  owned,
		CustomersCollection: owned,
	} {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", name, err)
		}
	}
	return nil
}
