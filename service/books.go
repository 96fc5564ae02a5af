package service

import (
	"context"
	"errors"
	"mime/multipart"

	"booklister/data"
	"booklister/data/dto"
	"booklister/internal/validator"
	"booklister/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type books interface {
	ListBooks(ctx context.Context, filter data.BookFilter, filters data.Filters) ([]*data.Book, data.Metadata, error)
	GetBook(ctx context.Context, id string) (*data.Book, error)
	SearchBooks(ctx context.Context, query string, limit int) ([]*data.Book, error)
	ListGenres(ctx context.Context) ([]string, error)
	GetBookStats(ctx context.Context) (*data.BookStats, error)
	CreateBook(ctx context.Context, input dto.CreateBookInput, createdBy string) (*data.Book, error)
	UpdateBook(ctx context.Context, id string, input dto.UpdateBookInput) (*data.Book, error)
	DeleteBook(ctx context.Context, id string) (bool, error)
	RateBook(ctx context.Context, id string, rating float64) (*data.Book, error)
	UpdateBookCover(ctx context.Context, id string, file multipart.File, fileHeader *multipart.FileHeader) (*data.Book, error)
}

// ListBooks service retrieves a paginated, filtered page of the catalog.
func (s *service) ListBooks(ctx context.Context, filter data.BookFilter, filters data.Filters) ([]*data.Book, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		return nil, data.Metadata{}, failedValidation(v.Errors)
	}
	books, metadata, err := s.repo.GetAllBooks(ctx, filter, filters)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	return books, metadata, nil
}

// GetBook service retrieves a single book by its id. A malformed id behaves
// like an unknown one.
func (s *service) GetBook(ctx context.Context, id string) (*data.Book, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrRecordNotFound
	}
	book, err := s.repo.GetBook(ctx, objectID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return book, nil
}

// SearchBooks service runs a relevance-ranked free-text search.
func (s *service) SearchBooks(ctx context.Context, query string, limit int) ([]*data.Book, error) {
	v := validator.New()
	v.Check(query != "", "query", "must be provided")
	v.Check(limit > 0, "limit", "must be greater than zero")
	v.Check(limit <= 100, "limit", "must be a maximum of 100")
	if !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	return s.repo.SearchBooks(ctx, query, limit)
}

// ListGenres service retrieves the distinct genres used by the catalog.
func (s *service) ListGenres(ctx context.Context) ([]string, error) {
	return s.repo.GetGenres(ctx)
}

// GetBookStats service retrieves the aggregate catalog statistics.
func (s *service) GetBookStats(ctx context.Context) (*data.BookStats, error) {
	return s.repo.GetBookStats(ctx)
}

// CreateBook service validates and inserts a new book. When the request
// carries an authenticated identity its user id is recorded as createdBy.
func (s *service) CreateBook(ctx context.Context, input dto.CreateBookInput, createdBy string) (*data.Book, error) {
	book := &data.Book{
		Title:         input.Title,
		Author:        input.Author,
		PublishedYear: input.PublishedYear,
		Genre:         input.Genre,
		Language:      data.DefaultLanguage,
	}
	if input.ISBN != nil {
		book.ISBN = *input.ISBN
	}
	if input.Description != nil {
		book.Description = *input.Description
	}
	if input.CoverImage != nil {
		book.CoverImage = *input.CoverImage
	}
	if input.Rating != nil {
		book.Rating = *input.Rating
	}
	if input.TotalPages != nil {
		book.TotalPages = *input.TotalPages
	}
	if input.Language != nil && *input.Language != "" {
		book.Language = *input.Language
	}
	if input.Publisher != nil {
		book.Publisher = *input.Publisher
	}
	if createdBy != "" {
		if userID, err := bson.ObjectIDFromHex(createdBy); err == nil {
			book.CreatedBy = userID
		}
	}
	v := validator.New()
	if data.ValidateBook(v, book); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	err := s.repo.InsertBook(ctx, book)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			v.AddError("isbn", "a book with this ISBN already exists")
			return nil, failedValidation(v.Errors)
		default:
			return nil, err
		}
	}
	return book, nil
}

// UpdateBook service applies a partial update. Only the supplied fields are
// written; the assembled document is re-validated before anything is stored.
func (s *service) UpdateBook(ctx context.Context, id string, input dto.UpdateBookInput) (*data.Book, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrRecordNotFound
	}
	book, err := s.repo.GetBook(ctx, objectID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	applyBookUpdate(book, input)
	v := validator.New()
	if data.ValidateBook(v, book); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	updated, err := s.repo.UpdateBook(ctx, objectID, input)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		case errors.Is(err, repository.ErrDuplicateRecord):
			v.AddError("isbn", "a book with this ISBN already exists")
			return nil, failedValidation(v.Errors)
		default:
			return nil, err
		}
	}
	return updated, nil
}

// DeleteBook service deletes a book by its id. It reports whether a record
// was deleted; a missing or malformed id yields false, never an error.
func (s *service) DeleteBook(ctx context.Context, id string) (bool, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	return s.repo.DeleteBook(ctx, objectID)
}

// RateBook service sets a book's rating. The rating is validated before any
// storage round-trip, so an out-of-range value never touches the record.
func (s *service) RateBook(ctx context.Context, id string, rating float64) (*data.Book, error) {
	v := validator.New()
	if data.ValidateRating(v, rating); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrRecordNotFound
	}
	book, err := s.repo.UpdateBook(ctx, objectID, dto.UpdateBookInput{Rating: &rating})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return book, nil
}

// applyBookUpdate copies the non-nil fields of a partial update onto a book,
// leaving every other field untouched.
func applyBookUpdate(book *data.Book, input dto.UpdateBookInput) {
	if input.Title != nil {
		book.Title = *input.Title
	}
	if input.Author != nil {
		book.Author = *input.Author
	}
	if input.PublishedYear != nil {
		book.PublishedYear = *input.PublishedYear
	}
	if input.Genre != nil {
		book.Genre = *input.Genre
	}
	if input.ISBN != nil {
		book.ISBN = *input.ISBN
	}
	if input.Description != nil {
		book.Description = *input.Description
	}
	if input.CoverImage != nil {
		book.CoverImage = *input.CoverImage
	}
	if input.Rating != nil {
		book.Rating = *input.Rating
	}
	if input.TotalPages != nil {
		book.TotalPages = *input.TotalPages
	}
	if input.Language != nil {
		book.Language = *input.Language
	}
	if input.Publisher != nil {
		book.Publisher = *input.Publisher
	}
}
