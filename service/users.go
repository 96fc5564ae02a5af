package service

import (
	"context"
	"errors"

	"booklister/data"
	"booklister/data/dto"
	"booklister/internal/validator"
	"booklister/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"
)

type users interface {
	RegisterUser(ctx context.Context, input dto.RegisterInput) (*data.User, string, error)
	LoginUser(ctx context.Context, input dto.LoginInput) (*data.User, string, error)
	GetUser(ctx context.Context, id string) (*data.User, error)
}

// dummyHash is compared against when a login targets an unknown email, so
// the bcrypt work happens whether or not the user exists.
var dummyHash = []byte("$2a$12$VEmQSz4xUM5sQYVAdLD7A.p9PAUfsDnAR9B5Sy9qtdEVWtLsbREVa")

// RegisterUser service registers a new user and returns the created record
// together with a freshly issued identity token.
func (s *service) RegisterUser(ctx context.Context, input dto.RegisterInput) (*data.User, string, error) {
	user := &data.User{
		Name:  input.Name,
		Email: input.Email,
	}
	err := user.Password.Set(input.Password)
	if err != nil {
		return nil, "", err
	}
	v := validator.New()
	if data.ValidateUser(v, user); !v.Valid() {
		return nil, "", failedValidation(v.Errors)
	}
	err = s.repo.RegisterUser(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			return nil, "", ErrDuplicateRecord
		default:
			return nil, "", err
		}
	}
	tokenString, err := s.tokens.Issue(user.ID.Hex(), user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, tokenString, nil
}

// LoginUser service authenticates a user by email and password. The same
// ErrInvalidCredentials comes back whether the email is unknown or the
// password is wrong, and the password comparison runs in both cases.
func (s *service) LoginUser(ctx context.Context, input dto.LoginInput) (*data.User, string, error) {
	user, err := s.repo.GetUserByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, repository.ErrRecordNotFound) {
		return nil, "", err
	}

	hash := dummyHash
	if user != nil {
		hash = user.Password.Hash
	}
	compareErr := bcrypt.CompareHashAndPassword(hash, []byte(input.Password))

	if user == nil || compareErr != nil {
		return nil, "", ErrInvalidCredentials
	}

	tokenString, err := s.tokens.Issue(user.ID.Hex(), user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, tokenString, nil
}

// GetUser service retrieves a user by id. It backs the `me` query once an
// identity has been resolved from the request.
func (s *service) GetUser(ctx context.Context, id string) (*data.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrRecordNotFound
	}
	user, err := s.repo.GetUserByID(ctx, objectID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return user, nil
}
