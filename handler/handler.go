package handler

import (
	"booklister/config"
	"booklister/internal/jsonlog"
	"booklister/internal/token"
	"booklister/service"

	"github.com/graphql-go/graphql"
	"github.com/jellydator/ttlcache/v3"
)

// Handler defines Handler layer.
type Handler struct {
	config  config.Config
	logger  *jsonlog.Logger
	cache   *ttlcache.Cache[string, []string]
	service service.Service
	tokens  *token.Service
	schema  graphql.Schema
}

// New creates a new instance of Handler. The GraphQL schema is built once
// here; building it can only fail on a programming error, so that is fatal.
func New(cfg config.Config, logger *jsonlog.Logger, cache *ttlcache.Cache[string, []string], service service.Service, tokens *token.Service) *Handler {
	h := &Handler{
		config:  cfg,
		logger:  logger,
		cache:   cache,
		service: service,
		tokens:  tokens,
	}
	schema, err := h.buildSchema()
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	h.schema = schema
	return h
}
