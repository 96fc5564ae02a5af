package repository

import (
	"context"
	"errors"
	"time"

	"booklister/data"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type users interface {
	RegisterUser(ctx context.Context, user *data.User) error
	GetUserByID(ctx context.Context, id bson.ObjectID) (*data.User, error)
	GetUserByEmail(ctx context.Context, email string) (*data.User, error)
}

// RegisterUser inserts a new user record, setting its id and timestamps. The
// unique index on email turns a duplicate registration into ErrDuplicateRecord.
func (r *repository) RegisterUser(ctx context.Context, user *data.User) error {
	now := time.Now().UTC()
	user.ID = bson.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	_, err := r.userCollection().InsertOne(ctx, user)
	if err != nil {
		switch {
		case mongo.IsDuplicateKeyError(err):
			return ErrDuplicateRecord
		default:
			return err
		}
	}
	return nil
}

// GetUserByID retrieves a user record by its id.
func (r *repository) GetUserByID(ctx context.Context, id bson.ObjectID) (*data.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	var user data.User
	err := r.userCollection().FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &user, nil
}

// GetUserByEmail retrieves a user record by its email.
func (r *repository) GetUserByEmail(ctx context.Context, email string) (*data.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	var user data.User
	err := r.userCollection().FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &user, nil
}
