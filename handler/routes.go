package handler

import (
	"expvar"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (h *Handler) Routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(h.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(h.methodNotAllowed)

	router.HandlerFunc(http.MethodPost, "/graphql", h.graphqlHandler)

	updateBookCover := h.updateBookCoverHandler
	if h.config.Auth.RequireAuthForMutations {
		updateBookCover = h.requireAuthenticatedIdentity(updateBookCover)
	}
	router.HandlerFunc(http.MethodPatch, "/v1/books/:bookId/cover", updateBookCover)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", h.healthcheckHandler)
	router.HandlerFunc(http.MethodGet, "/debug/vars", h.basicAuth(expvar.Handler().ServeHTTP))

	return h.recoverPanic(h.enableCORS(h.rateLimit(h.metrics(h.authenticate(router)))))
}
