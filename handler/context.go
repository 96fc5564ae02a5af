package handler

import (
	"context"
	"net/http"

	"booklister/internal/token"
)

// Type contextKey is a custom contextKey type, with the underlying type string.
// This is necessary to prevent name collisions with external packages.
type contextKey string

// identityContextKey is the key under which the authenticated identity (if
// any) is stored in the request context. The same context flows into GraphQL
// resolvers, so identityFromContext works in both places.
const identityContextKey = contextKey("identity")

// contextSetIdentity returns a new copy of the request with the provided
// token payload added to the context. A nil payload means the request is
// anonymous, which is a perfectly valid state here.
func (h *Handler) contextSetIdentity(r *http.Request, payload *token.Payload) *http.Request {
	ctx := context.WithValue(r.Context(), identityContextKey, payload)
	return r.WithContext(ctx)
}

// identityFromContext retrieves the token payload from a context. It returns
// nil for anonymous requests.
func identityFromContext(ctx context.Context) *token.Payload {
	payload, ok := ctx.Value(identityContextKey).(*token.Payload)
	if !ok {
		return nil
	}
	return payload
}
