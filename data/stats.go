package data

// GenreCount is one bucket of the genre distribution.
type GenreCount struct {
	Genre string `bson:"genre" json:"genre"`
	Count int    `bson:"count" json:"count"`
}

// YearCount is one bucket of the books-per-year histogram.
type YearCount struct {
	Year  int `bson:"year" json:"year"`
	Count int `bson:"count" json:"count"`
}

// BookStats holds the aggregate statistics over the whole catalog. The
// distributions are never nil; an empty catalog yields empty slices and an
// average rating of 0.
type BookStats struct {
	TotalBooks        int64        `json:"totalBooks"`
	AverageRating     float64      `json:"averageRating"`
	GenreDistribution []GenreCount `json:"genreDistribution"`
	BooksPerYear      []YearCount  `json:"booksPerYear"`
}
