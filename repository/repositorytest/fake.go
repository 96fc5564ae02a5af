// Package repositorytest provides an in-memory Repository implementation for
// tests. It mirrors the MongoDB implementation's contract: same sentinel
// errors, same timestamp behavior, same newest-first ordering.
package repositorytest

import (
	"context"
	"sort"
	"strings"
	"time"

	"booklister/data"
	"booklister/data/dto"
	"booklister/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Fake struct {
	Books map[bson.ObjectID]*data.Book
	Users map[bson.ObjectID]*data.User
	clock time.Time
}

func New() *Fake {
	return &Fake{
		Books: make(map[bson.ObjectID]*data.Book),
		Users: make(map[bson.ObjectID]*data.User),
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick returns a strictly increasing timestamp so insertion order is
// recoverable from createdAt.
func (f *Fake) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func copyBook(b *data.Book) *data.Book {
	cp := *b
	return &cp
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func matchesFilter(b *data.Book, filter data.BookFilter) bool {
	if filter.Genre != "" && b.Genre != filter.Genre {
		return false
	}
	if filter.MinYear != 0 && b.PublishedYear < filter.MinYear {
		return false
	}
	if filter.MaxYear != 0 && b.PublishedYear > filter.MaxYear {
		return false
	}
	if filter.MinRating != nil && b.Rating < *filter.MinRating {
		return false
	}
	if filter.MaxRating != nil && b.Rating > *filter.MaxRating {
		return false
	}
	if filter.Language != "" && b.Language != filter.Language {
		return false
	}
	if filter.Search != "" {
		if !containsFold(b.Title, filter.Search) && !containsFold(b.Author, filter.Search) && !containsFold(b.Description, filter.Search) {
			return false
		}
	}
	return true
}

func applyUpdate(book *data.Book, input dto.UpdateBookInput) {
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

func (f *Fake) InsertBook(_ context.Context, book *data.Book) error {
	if book.ISBN != "" {
		for _, existing := range f.Books {
			if existing.ISBN == book.ISBN {
				return repository.ErrDuplicateRecord
			}
		}
	}
	now := f.tick()
	book.ID = bson.NewObjectID()
	book.CreatedAt = now
	book.UpdatedAt = now
	f.Books[book.ID] = copyBook(book)
	return nil
}

func (f *Fake) GetBook(_ context.Context, id bson.ObjectID) (*data.Book, error) {
	book, ok := f.Books[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	return copyBook(book), nil
}

func (f *Fake) GetAllBooks(_ context.Context, filter data.BookFilter, filters data.Filters) ([]*data.Book, data.Metadata, error) {
	matched := []*data.Book{}
	for _, book := range f.Books {
		if matchesFilter(book, filter) {
			matched = append(matched, copyBook(book))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := len(matched)
	skip := filters.Skip()
	if skip > total {
		skip = total
	}
	end := skip + filters.Limit
	if end > total {
		end = total
	}
	return matched[skip:end], data.CalculateMetadata(total, filters.Page, filters.Limit), nil
}

func (f *Fake) SearchBooks(_ context.Context, query string, limit int) ([]*data.Book, error) {
	results := []*data.Book{}
	for _, book := range f.Books {
		if len(results) == limit {
			break
		}
		if containsFold(book.Title, query) || containsFold(book.Author, query) || containsFold(book.Description, query) {
			results = append(results, copyBook(book))
		}
	}
	return results, nil
}

func (f *Fake) UpdateBook(_ context.Context, id bson.ObjectID, input dto.UpdateBookInput) (*data.Book, error) {
	book, ok := f.Books[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	applyUpdate(book, input)
	book.UpdatedAt = f.tick()
	return copyBook(book), nil
}

func (f *Fake) DeleteBook(_ context.Context, id bson.ObjectID) (bool, error) {
	if _, ok := f.Books[id]; !ok {
		return false, nil
	}
	delete(f.Books, id)
	return true, nil
}

func (f *Fake) GetGenres(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	genres := []string{}
	for _, book := range f.Books {
		if !seen[book.Genre] {
			seen[book.Genre] = true
			genres = append(genres, book.Genre)
		}
	}
	sort.Strings(genres)
	return genres, nil
}

func (f *Fake) GetBookStats(_ context.Context) (*data.BookStats, error) {
	stats := &data.BookStats{
		TotalBooks:        int64(len(f.Books)),
		GenreDistribution: []data.GenreCount{},
		BooksPerYear:      []data.YearCount{},
	}
	if len(f.Books) == 0 {
		return stats, nil
	}
	var ratingSum float64
	genreCounts := map[string]int{}
	yearCounts := map[int]int{}
	for _, book := range f.Books {
		ratingSum += book.Rating
		genreCounts[book.Genre]++
		yearCounts[book.PublishedYear]++
	}
	stats.AverageRating = ratingSum / float64(len(f.Books))
	for genre, count := range genreCounts {
		stats.GenreDistribution = append(stats.GenreDistribution, data.GenreCount{Genre: genre, Count: count})
	}
	sort.Slice(stats.GenreDistribution, func(i, j int) bool {
		return stats.GenreDistribution[i].Count > stats.GenreDistribution[j].Count
	})
	for year, count := range yearCounts {
		stats.BooksPerYear = append(stats.BooksPerYear, data.YearCount{Year: year, Count: count})
	}
	sort.Slice(stats.BooksPerYear, func(i, j int) bool {
		return stats.BooksPerYear[i].Year > stats.BooksPerYear[j].Year
	})
	if len(stats.BooksPerYear) > 10 {
		stats.BooksPerYear = stats.BooksPerYear[:10]
	}
	return stats, nil
}

func (f *Fake) RegisterUser(_ context.Context, user *data.User) error {
	for _, existing := range f.Users {
		if existing.Email == user.Email {
			return repository.ErrDuplicateRecord
		}
	}
	now := f.tick()
	user.ID = bson.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	cp := *user
	f.Users[user.ID] = &cp
	return nil
}

func (f *Fake) GetUserByID(_ context.Context, id bson.ObjectID) (*data.User, error) {
	user, ok := f.Users[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	cp := *user
	return &cp, nil
}

func (f *Fake) GetUserByEmail(_ context.Context, email string) (*data.User, error) {
	for _, user := range f.Users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, repository.ErrRecordNotFound
}
