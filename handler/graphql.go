package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/graphql-go/graphql"
)

// graphqlRequest is the standard GraphQL-over-HTTP POST body.
type graphqlRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// graphqlHandler executes a GraphQL request against the schema. Execution
// errors are reported inside the response body per the GraphQL spec, so the
// HTTP status is 200 whenever the request itself was well-formed.
func (h *Handler) graphqlHandler(w http.ResponseWriter, r *http.Request) {
	var req graphqlRequest
	err := h.decodeJSON(w, r, &req)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	if req.Query == "" {
		h.badRequestResponse(w, r, errors.New("query must be provided"))
		return
	}
	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        r.Context(),
	})
	js, err := json.Marshal(result)
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	js = append(js, '\n')
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(js)
}
