package service

import (
	"context"
	"fmt"
	"testing"

	"booklister/data"
	"booklister/data/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringPtr(s string) *string    { return &s }
func intPtr(n int) *int             { return &n }
func float64Ptr(f float64) *float64 { return &f }

func validCreateInput() dto.CreateBookInput {
	return dto.CreateBookInput{
		Title:         "The Left Hand of Darkness",
		Author:        "Ursula K. Le Guin",
		PublishedYear: 1969,
		Genre:         "Science Fiction",
	}
}

func mustCreateBook(t *testing.T, svc *service, input dto.CreateBookInput) *data.Book {
	t.Helper()

	book, err := svc.CreateBook(context.Background(), input, "")
	require.NoError(t, err)
	return book
}

func TestCreateBookThenGetBook(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	input := validCreateInput()
	input.ISBN = stringPtr("978-0-441-47812-5")
	input.Description = stringPtr("An envoy on a glacial planet.")
	input.Rating = float64Ptr(4.5)
	input.TotalPages = intPtr(304)

	created, err := svc.CreateBook(ctx, input, "")
	require.NoError(t, err)

	assert.False(t, created.ID.IsZero())
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, data.DefaultLanguage, created.Language)

	got, err := svc.GetBook(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestCreateBookValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*dto.CreateBookInput)
	}{
		{name: "missing title", mutate: func(in *dto.CreateBookInput) { in.Title = "" }},
		{name: "missing author", mutate: func(in *dto.CreateBookInput) { in.Author = "" }},
		{name: "year before 1000", mutate: func(in *dto.CreateBookInput) { in.PublishedYear = 999 }},
		{name: "unknown genre", mutate: func(in *dto.CreateBookInput) { in.Genre = "Vaporwave" }},
		{name: "rating above five", mutate: func(in *dto.CreateBookInput) { in.Rating = float64Ptr(5.1) }},
		{name: "negative total pages", mutate: func(in *dto.CreateBookInput) { in.TotalPages = intPtr(-5) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc, repo := newTestService(t)

			input := validCreateInput()
			tc.mutate(&input)

			_, err := svc.CreateBook(context.Background(), input, "")
			assert.ErrorIs(t, err, ErrFailedValidation)
			assert.Empty(t, repo.Books)
		})
	}
}

func TestCreateBookDuplicateISBN(t *testing.T) {
	t.Parallel()

	svc, repo := newTestService(t)
	ctx := context.Background()

	input := validCreateInput()
	input.ISBN = stringPtr("978-0-441-47812-5")
	mustCreateBook(t, svc, input)

	other := validCreateInput()
	other.Title = "A Different Book"
	other.ISBN = stringPtr("978-0-441-47812-5")

	_, err := svc.CreateBook(ctx, other, "")
	assert.ErrorIs(t, err, ErrFailedValidation)
	assert.Len(t, repo.Books, 1)
}

func TestCreateBookRecordsCreator(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	user, _, err := svc.RegisterUser(ctx, dto.RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "correct horse battery"})
	require.NoError(t, err)

	book, err := svc.CreateBook(ctx, validCreateInput(), user.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, user.ID, book.CreatedBy)
}

func TestGetBookNotFound(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.GetBook(ctx, "66f0000000000000deadbeef")
	assert.ErrorIs(t, err, ErrRecordNotFound)

	// A malformed id behaves like an unknown one.
	_, err = svc.GetBook(ctx, "not-a-hex-id")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestUpdateBookPartial(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	input := validCreateInput()
	input.Description = stringPtr("Original description.")
	created := mustCreateBook(t, svc, input)

	updated, err := svc.UpdateBook(ctx, created.ID.Hex(), dto.UpdateBookInput{
		Title:  stringPtr("The Dispossessed"),
		Rating: float64Ptr(4.8),
	})
	require.NoError(t, err)

	assert.Equal(t, "The Dispossessed", updated.Title)
	assert.Equal(t, 4.8, updated.Rating)

	// Fields the update did not mention are untouched.
	assert.Equal(t, created.Author, updated.Author)
	assert.Equal(t, created.PublishedYear, updated.PublishedYear)
	assert.Equal(t, created.Description, updated.Description)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
}

func TestUpdateBookValidation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	created := mustCreateBook(t, svc, validCreateInput())

	_, err := svc.UpdateBook(ctx, created.ID.Hex(), dto.UpdateBookInput{Genre: stringPtr("Vaporwave")})
	assert.ErrorIs(t, err, ErrFailedValidation)

	// The rejected update must not have been stored.
	got, err := svc.GetBook(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, created.Genre, got.Genre)
}

func TestUpdateBookNotFound(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	_, err := svc.UpdateBook(context.Background(), "66f0000000000000deadbeef", dto.UpdateBookInput{Title: stringPtr("Ghost")})
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestDeleteBook(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	created := mustCreateBook(t, svc, validCreateInput())

	deleted, err := svc.DeleteBook(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.True(t, deleted)

	// Deleting again reports false rather than an error.
	deleted, err = svc.DeleteBook(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = svc.DeleteBook(ctx, "not-a-hex-id")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestRateBook(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	created := mustCreateBook(t, svc, validCreateInput())

	rated, err := svc.RateBook(ctx, created.ID.Hex(), 4.5)
	require.NoError(t, err)
	assert.Equal(t, 4.5, rated.Rating)
	assert.Equal(t, created.Title, rated.Title)
}

func TestRateBookOutOfRange(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	created := mustCreateBook(t, svc, validCreateInput())

	for _, rating := range []float64{-0.1, 5.1} {
		_, err := svc.RateBook(ctx, created.ID.Hex(), rating)
		assert.ErrorIs(t, err, ErrFailedValidation)
	}

	got, err := svc.GetBook(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, created.Rating, got.Rating)
	assert.Equal(t, created.UpdatedAt, got.UpdatedAt)
}

func TestRateBookNotFound(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	_, err := svc.RateBook(context.Background(), "66f0000000000000deadbeef", 3)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestListBooksPagination(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		input := validCreateInput()
		input.Title = fmt.Sprintf("Book %02d", i)
		mustCreateBook(t, svc, input)
	}

	books, metadata, err := svc.ListBooks(ctx, data.BookFilter{}, data.Filters{Page: 2, Limit: 5})
	require.NoError(t, err)

	assert.Len(t, books, 5)
	assert.Equal(t, data.Metadata{
		CurrentPage:  2,
		PageSize:     5,
		FirstPage:    1,
		LastPage:     3,
		TotalRecords: 12,
	}, metadata)

	// Newest first: page 2 starts at the seventh-newest book.
	assert.Equal(t, "Book 06", books[0].Title)
}

func TestListBooksFilterConjunction(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	fantasy := validCreateInput()
	fantasy.Title = "A Wizard of Earthsea"
	fantasy.Genre = "Fantasy"
	fantasy.PublishedYear = 1968
	mustCreateBook(t, svc, fantasy)

	lateFantasy := validCreateInput()
	lateFantasy.Title = "The Name of the Wind"
	lateFantasy.Genre = "Fantasy"
	lateFantasy.PublishedYear = 2007
	mustCreateBook(t, svc, lateFantasy)

	scifi := validCreateInput()
	scifi.PublishedYear = 1969
	mustCreateBook(t, svc, scifi)

	books, metadata, err := svc.ListBooks(ctx, data.BookFilter{
		Genre:   "Fantasy",
		MinYear: 1960,
		MaxYear: 1970,
	}, data.Filters{Page: 1, Limit: 10})
	require.NoError(t, err)

	require.Len(t, books, 1)
	assert.Equal(t, "A Wizard of Earthsea", books[0].Title)
	assert.Equal(t, 1, metadata.TotalRecords)
}

func TestListBooksSearchFilter(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	whale := validCreateInput()
	whale.Title = "Moby-Dick"
	whale.Description = stringPtr("A sailor's obsessive hunt for a white whale.")
	mustCreateBook(t, svc, whale)

	other := validCreateInput()
	other.Title = "Walden"
	other.Description = stringPtr("Life in the woods beside a pond.")
	mustCreateBook(t, svc, other)

	books, metadata, err := svc.ListBooks(ctx, data.BookFilter{
		Search: "WHALE",
	}, data.Filters{Page: 1, Limit: 10})
	require.NoError(t, err)

	require.Len(t, books, 1)
	assert.Equal(t, "Moby-Dick", books[0].Title)
	assert.Equal(t, 1, metadata.TotalRecords)
}

func TestListBooksRatingZeroBound(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	unrated := validCreateInput()
	unrated.Title = "Unrated"
	mustCreateBook(t, svc, unrated)

	rated := validCreateInput()
	rated.Title = "Rated"
	rated.Rating = float64Ptr(3.5)
	mustCreateBook(t, svc, rated)

	// maxRating 0 is a real bound, not an absent filter.
	books, _, err := svc.ListBooks(ctx, data.BookFilter{MaxRating: float64Ptr(0)}, data.Filters{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Unrated", books[0].Title)
}

func TestListBooksInvalidPagination(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		filters data.Filters
	}{
		{name: "zero page", filters: data.Filters{Page: 0, Limit: 10}},
		{name: "zero limit", filters: data.Filters{Page: 1, Limit: 0}},
		{name: "limit too large", filters: data.Filters{Page: 1, Limit: 101}},
	}

	for _, tc := range tests {
		_, _, err := svc.ListBooks(ctx, data.BookFilter{}, tc.filters)
		assert.ErrorIs(t, err, ErrFailedValidation, tc.name)
	}
}

func TestSearchBooks(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	input := validCreateInput()
	input.Description = stringPtr("An envoy on a glacial planet.")
	mustCreateBook(t, svc, input)
	mustCreateBook(t, svc, func() dto.CreateBookInput {
		in := validCreateInput()
		in.Title = "Unrelated"
		return in
	}())

	books, err := svc.SearchBooks(ctx, "glacial", 10)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "The Left Hand of Darkness", books[0].Title)

	_, err = svc.SearchBooks(ctx, "", 10)
	assert.ErrorIs(t, err, ErrFailedValidation)

	_, err = svc.SearchBooks(ctx, "glacial", 0)
	assert.ErrorIs(t, err, ErrFailedValidation)
}

func TestListGenres(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	genres, err := svc.ListGenres(ctx)
	require.NoError(t, err)
	assert.Empty(t, genres)

	fantasy := validCreateInput()
	fantasy.Genre = "Fantasy"
	mustCreateBook(t, svc, fantasy)
	mustCreateBook(t, svc, validCreateInput())

	genres, err = svc.ListGenres(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fantasy", "Science Fiction"}, genres)
}

func TestGetBookStats(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	// An empty catalog reports zeros, not nulls.
	stats, err := svc.GetBookStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalBooks)
	assert.Equal(t, 0.0, stats.AverageRating)
	assert.Empty(t, stats.GenreDistribution)
	assert.Empty(t, stats.BooksPerYear)

	one := validCreateInput()
	one.Rating = float64Ptr(4)
	mustCreateBook(t, svc, one)

	two := validCreateInput()
	two.Genre = "Fantasy"
	two.PublishedYear = 2007
	two.Rating = float64Ptr(2)
	mustCreateBook(t, svc, two)

	stats, err = svc.GetBookStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalBooks)
	assert.Equal(t, 3.0, stats.AverageRating)
	assert.Len(t, stats.GenreDistribution, 2)
	assert.Equal(t, data.YearCount{Year: 2007, Count: 1}, stats.BooksPerYear[0])
}
