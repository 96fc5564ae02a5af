package repository

import (
	"context"
	"errors"
	"time"

	"booklister/data"
	"booklister/data/dto"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const queryTimeout = 3 * time.Second

type books interface {
	InsertBook(ctx context.Context, book *data.Book) error
	GetBook(ctx context.Context, id bson.ObjectID) (*data.Book, error)
	GetAllBooks(ctx context.Context, filter data.BookFilter, filters data.Filters) ([]*data.Book, data.Metadata, error)
	SearchBooks(ctx context.Context, query string, limit int) ([]*data.Book, error)
	UpdateBook(ctx context.Context, id bson.ObjectID, input dto.UpdateBookInput) (*data.Book, error)
	DeleteBook(ctx context.Context, id bson.ObjectID) (bool, error)
	GetGenres(ctx context.Context) ([]string, error)
	GetBookStats(ctx context.Context) (*data.BookStats, error)
}

// buildBookQuery translates a BookFilter into a MongoDB predicate. Every set
// field contributes one top-level condition, so the resulting document is
// always a conjunction.
func buildBookQuery(f data.BookFilter) bson.M {
	query := bson.M{}
	if f.Genre != "" {
		query["genre"] = f.Genre
	}
	if f.MinYear != 0 || f.MaxYear != 0 {
		bounds := bson.M{}
		if f.MinYear != 0 {
			bounds["$gte"] = f.MinYear
		}
		if f.MaxYear != 0 {
			bounds["$lte"] = f.MaxYear
		}
		query["publishedYear"] = bounds
	}
	if f.MinRating != nil || f.MaxRating != nil {
		bounds := bson.M{}
		if f.MinRating != nil {
			bounds["$gte"] = *f.MinRating
		}
		if f.MaxRating != nil {
			bounds["$lte"] = *f.MaxRating
		}
		query["rating"] = bounds
	}
	if f.Language != "" {
		query["language"] = f.Language
	}
	if f.Search != "" {
		query["$text"] = bson.M{"$search": f.Search}
	}
	return query
}

// buildBookUpdate translates a partial update input into a $set document.
// Only non-nil fields are written, so concurrent partial updates resolve
// last-write-wins per touched field.
func buildBookUpdate(input dto.UpdateBookInput) bson.M {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if input.Title != nil {
		set["title"] = *input.Title
	}
	if input.Author != nil {
		set["author"] = *input.Author
	}
	if input.PublishedYear != nil {
		set["publishedYear"] = *input.PublishedYear
	}
	if input.Genre != nil {
		set["genre"] = *input.Genre
	}
	if input.ISBN != nil {
		set["isbn"] = *input.ISBN
	}
	if input.Description != nil {
		set["description"] = *input.Description
	}
	if input.CoverImage != nil {
		set["coverImage"] = *input.CoverImage
	}
	if input.Rating != nil {
		set["rating"] = *input.Rating
	}
	if input.TotalPages != nil {
		set["totalPages"] = *input.TotalPages
	}
	if input.Language != nil {
		set["language"] = *input.Language
	}
	if input.Publisher != nil {
		set["publisher"] = *input.Publisher
	}
	return set
}

// InsertBook inserts a new book record, setting its id and timestamps.
func (r *repository) InsertBook(ctx context.Context, book *data.Book) error {
	now := time.Now().UTC()
	book.ID = bson.NewObjectID()
	book.CreatedAt = now
	book.UpdatedAt = now
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	_, err := r.bookCollection().InsertOne(ctx, book)
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

// GetBook retrieves a book record by its id.
func (r *repository) GetBook(ctx context.Context, id bson.ObjectID) (*data.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	var book data.Book
	err := r.bookCollection().FindOne(ctx, bson.M{"_id": id}).Decode(&book)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &book, nil
}

// GetAllBooks retrieves a paginated page of books matching the filter,
// newest-first, together with pagination metadata. The total is a separate
// count over the same predicate, unaffected by skip and limit.
func (r *repository) GetAllBooks(ctx context.Context, filter data.BookFilter, filters data.Filters) ([]*data.Book, data.Metadata, error) {
	query := buildBookQuery(filter)
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(filters.Skip())).
		SetLimit(int64(filters.Limit))
	cursor, err := r.bookCollection().Find(ctx, query, opts)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	defer cursor.Close(ctx)
	books := []*data.Book{}
	if err := cursor.All(ctx, &books); err != nil {
		return nil, data.Metadata{}, err
	}

	total, err := r.bookCollection().CountDocuments(ctx, query)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	metadata := data.CalculateMetadata(int(total), filters.Page, filters.Limit)
	return books, metadata, nil
}

// SearchBooks runs a free-text search across title, author and description,
// returning up to limit books ordered by text relevance.
func (r *repository) SearchBooks(ctx context.Context, query string, limit int) ([]*data.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	opts := options.Find().
		SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}}).
		SetSort(bson.M{"score": bson.M{"$meta": "textScore"}}).
		SetLimit(int64(limit))
	cursor, err := r.bookCollection().Find(ctx, bson.M{"$text": bson.M{"$search": query}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	books := []*data.Book{}
	if err := cursor.All(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// UpdateBook applies a partial update to a book record and returns the
// updated document.
func (r *repository) UpdateBook(ctx context.Context, id bson.ObjectID, input dto.UpdateBookInput) (*data.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var book data.Book
	err := r.bookCollection().
		FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": buildBookUpdate(input)}, opts).
		Decode(&book)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, ErrRecordNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, ErrDuplicateRecord
		default:
			return nil, err
		}
	}
	return &book, nil
}

// DeleteBook deletes a book record. It reports whether a record was actually
// deleted; a missing id is not an error.
func (r *repository) DeleteBook(ctx context.Context, id bson.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	result, err := r.bookCollection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

// GetGenres returns the distinct genres currently present in the catalog.
func (r *repository) GetGenres(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	genres := []string{}
	err := r.bookCollection().Distinct(ctx, "genre", bson.M{}).Decode(&genres)
	if err != nil {
		return nil, err
	}
	return genres, nil
}

// GetBookStats computes the aggregate catalog statistics. Nothing is cached;
// every call recomputes from the live collection.
func (r *repository) GetBookStats(ctx context.Context) (*data.BookStats, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	coll := r.bookCollection()

	total, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	stats := &data.BookStats{
		TotalBooks:        total,
		GenreDistribution: []data.GenreCount{},
		BooksPerYear:      []data.YearCount{},
	}

	ratingCursor, err := coll.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "averageRating", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
		}}},
	})
	if err != nil {
		return nil, err
	}
	var ratingAgg []struct {
		AverageRating float64 `bson:"averageRating"`
	}
	if err := ratingCursor.All(ctx, &ratingAgg); err != nil {
		return nil, err
	}
	// The $group stage emits nothing over an empty collection; the average
	// stays 0 in that case.
	if len(ratingAgg) > 0 {
		stats.AverageRating = ratingAgg[0].AverageRating
	}

	genreCursor, err := coll.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$genre"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "genre", Value: "$_id"},
			{Key: "count", Value: 1},
			{Key: "_id", Value: 0},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
	})
	if err != nil {
		return nil, err
	}
	if err := genreCursor.All(ctx, &stats.GenreDistribution); err != nil {
		return nil, err
	}

	yearCursor, err := coll.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$publishedYear"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "year", Value: "$_id"},
			{Key: "count", Value: 1},
			{Key: "_id", Value: 0},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "year", Value: -1}}}},
		bson.D{{Key: "$limit", Value: 10}},
	})
	if err != nil {
		return nil, err
	}
	if err := yearCursor.All(ctx, &stats.BooksPerYear); err != nil {
		return nil, err
	}

	return stats, nil
}
