// Package mongodb establishes the MongoDB connection shared by the process
// and ensures the indexes the catalog queries rely on.
package mongodb

import (
	"context"

	"booklister/config"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// OpenDBConn connects to MongoDB, verifies the connection and prepares the
// database the repository layer works against. The returned client owns the
// connection pool and must be disconnected on shutdown.
func OpenDBConn(cfg config.Config) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.Database.URI))
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.ConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, err
	}
	db := client.Database(cfg.Database.Name)
	if err := ensureIndexes(ctx, db); err != nil {
		return nil, nil, err
	}
	return client, db, nil
}

// ensureIndexes creates the indexes backing free-text search, the range and
// equality filters, and the uniqueness constraints. Index creation is
// idempotent, so running it on every startup is safe.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("books").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "title", Value: "text"},
				{Key: "author", Value: "text"},
				{Key: "description", Value: "text"},
			},
		},
		{Keys: bson.D{{Key: "genre", Value: 1}}},
		{Keys: bson.D{{Key: "publishedYear", Value: 1}}},
		{Keys: bson.D{{Key: "rating", Value: -1}}},
		{
			Keys:    bson.D{{Key: "isbn", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	})
	if err != nil {
		return err
	}
	_, err = db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
