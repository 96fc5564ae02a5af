package handler

import (
	"errors"
	"net/http"

	"booklister/service"
)

// updateBookCoverHandler accepts a multipart form with a "cover" file field,
// stores the image and records its URL on the book.
func (h *Handler) updateBookCoverHandler(w http.ResponseWriter, r *http.Request) {
	// 2MB limit for request body size.
	maxBytes := int64(2_097_152)
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	bookID, err := h.readIDParam(r, "bookId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	err = r.ParseMultipartForm(maxBytes)
	if err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			h.contentTooLargeResponse(w, r)
			return
		}
		h.badRequestResponse(w, r, errors.New("request must be a valid multipart form"))
		return
	}
	file, fileHeader, err := r.FormFile("cover")
	if err != nil {
		h.badRequestResponse(w, r, errors.New("form must contain a cover file field"))
		return
	}
	defer file.Close()

	book, err := h.service.UpdateBookCover(r.Context(), bookID, file, fileHeader)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrFailedValidation):
			h.unsupportedMediaTypeResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"book": book}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
