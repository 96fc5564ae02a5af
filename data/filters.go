package data

import "booklister/internal/validator"

// BookFilter carries the optional predicates a catalog listing can be
// narrowed by. Zero values mean "not set"; the rating bounds are pointers
// because 0 is itself a meaningful bound.
type BookFilter struct {
	Genre     string
	MinYear   int
	MaxYear   int
	MinRating *float64
	MaxRating *float64
	Language  string
	Search    string
}

// Filters holds pagination parameters for list operations.
type Filters struct {
	Page  int
	Limit int
}

// Skip returns the number of records to skip for the requested page.
func (f Filters) Skip() int {
	return (f.Page - 1) * f.Limit
}

// ValidateFilters rejects non-positive page or limit values rather than
// clamping them, so a negative skip never reaches the store.
func ValidateFilters(v *validator.Validator, f Filters) {
	v.Check(f.Page > 0, "page", "must be greater than zero")
	v.Check(f.Page <= 10_000_000, "page", "must be a maximum of 10 million")
	v.Check(f.Limit > 0, "limit", "must be greater than zero")
	v.Check(f.Limit <= 100, "limit", "must be a maximum of 100")
}

// Metadata holds pagination metadata for a list response.
type Metadata struct {
	CurrentPage  int `json:"currentPage"`
	PageSize     int `json:"pageSize"`
	FirstPage    int `json:"firstPage"`
	LastPage     int `json:"lastPage"`
	TotalRecords int `json:"totalRecords"`
}

// CalculateMetadata computes pagination metadata given the total number of
// records, the current page and the page size. The last page is the ceiling
// of totalRecords/limit.
func CalculateMetadata(totalRecords, page, limit int) Metadata {
	if totalRecords == 0 {
		return Metadata{}
	}
	return Metadata{
		CurrentPage:  page,
		PageSize:     limit,
		FirstPage:    1,
		LastPage:     (totalRecords + limit - 1) / limit,
		TotalRecords: totalRecords,
	}
}
