package repository

import (
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type Repository interface {
	books
	users
}

// repository defines the app's repository layer over a MongoDB database.
type repository struct {
	db *mongo.Database
}

// New creates a new instance of Repository.
func New(db *mongo.Database) *repository {
	return &repository{db: db}
}

func (r *repository) bookCollection() *mongo.Collection {
	return r.db.Collection("books")
}

func (r *repository) userCollection() *mongo.Collection {
	return r.db.Collection("users")
}
