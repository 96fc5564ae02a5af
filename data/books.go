package data

import (
	"time"

	"booklister/internal/validator"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Genres is the fixed set of permitted book genres.
var Genres = []string{
	"Fiction",
	"Non-Fiction",
	"Science Fiction",
	"Fantasy",
	"Mystery",
	"Thriller",
	"Romance",
	"Horror",
	"Biography",
	"History",
	"Science",
	"Self-Help",
	"Business",
	"Poetry",
	"Drama",
	"Other",
}

// DefaultLanguage is applied when a book is created without a language.
const DefaultLanguage = "English"

// Book defines a book model.
type Book struct {
	ID            bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string        `bson:"title" json:"title"`
	Author        string        `bson:"author" json:"author"`
	ISBN          string        `bson:"isbn,omitempty" json:"isbn,omitempty"`
	PublishedYear int           `bson:"publishedYear" json:"publishedYear"`
	Genre         string        `bson:"genre" json:"genre"`
	Description   string        `bson:"description,omitempty" json:"description,omitempty"`
	CoverImage    string        `bson:"coverImage,omitempty" json:"coverImage,omitempty"`
	Rating        float64       `bson:"rating" json:"rating"`
	TotalPages    int           `bson:"totalPages,omitempty" json:"totalPages,omitempty"`
	Language      string        `bson:"language" json:"language"`
	Publisher     string        `bson:"publisher,omitempty" json:"publisher,omitempty"`
	CreatedBy     bson.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt     time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time     `bson:"updatedAt" json:"updatedAt"`
}

func ValidateBook(v *validator.Validator, book *Book) {
	v.Check(book.Title != "", "title", "must be provided")
	v.Check(len(book.Title) <= 200, "title", "must not be more than 200 characters long")
	v.Check(book.Author != "", "author", "must be provided")
	v.Check(len(book.Author) <= 100, "author", "must not be more than 100 characters long")
	v.Check(book.PublishedYear != 0, "publishedYear", "must be provided")
	v.Check(book.PublishedYear >= 1000, "publishedYear", "must be after 1000")
	v.Check(book.PublishedYear <= time.Now().Year(), "publishedYear", "must not be in the future")
	v.Check(book.Genre != "", "genre", "must be provided")
	v.Check(validator.PermittedValue(book.Genre, Genres...), "genre", "must be a known genre")
	v.Check(len(book.Description) <= 2000, "description", "must not be more than 2000 characters long")
	ValidateRating(v, book.Rating)
	if book.TotalPages != 0 {
		v.Check(book.TotalPages >= 1, "totalPages", "must be at least 1")
	}
	v.Check(book.Language != "", "language", "must be provided")
	v.Check(len(book.Publisher) <= 100, "publisher", "must not be more than 100 characters long")
}

// ValidateRating checks a rating value against the permitted [0, 5] range. It
// is used on its own by the rateBook operation, which validates before any
// storage round-trip.
func ValidateRating(v *validator.Validator, rating float64) {
	v.Check(rating >= 0, "rating", "must be at least 0")
	v.Check(rating <= 5, "rating", "must not be more than 5")
}
