package dto

// CreateBookInput defines the input for the CreateBook service. Optional
// fields are pointers so that absent values never overwrite defaults.
type CreateBookInput struct {
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	PublishedYear int      `json:"publishedYear"`
	Genre         string   `json:"genre"`
	ISBN          *string  `json:"isbn"`
	Description   *string  `json:"description"`
	CoverImage    *string  `json:"coverImage"`
	Rating        *float64 `json:"rating"`
	TotalPages    *int     `json:"totalPages"`
	Language      *string  `json:"language"`
	Publisher     *string  `json:"publisher"`
}

// UpdateBookInput defines the input for the UpdateBook service. All fields
// are pointers to allow partial updates: only non-nil fields are applied and
// written back.
type UpdateBookInput struct {
	Title         *string  `json:"title"`
	Author        *string  `json:"author"`
	PublishedYear *int     `json:"publishedYear"`
	Genre         *string  `json:"genre"`
	ISBN          *string  `json:"isbn"`
	Description   *string  `json:"description"`
	CoverImage    *string  `json:"coverImage"`
	Rating        *float64 `json:"rating"`
	TotalPages    *int     `json:"totalPages"`
	Language      *string  `json:"language"`
	Publisher     *string  `json:"publisher"`
}
