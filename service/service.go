package service

import (
	"booklister/config"
	"booklister/internal/jsonlog"
	"booklister/internal/token"
	"booklister/repository"
)

type Service interface {
	books
	users
}

// service defines the app's service layer.
type service struct {
	config config.Config
	logger *jsonlog.Logger
	repo   repository.Repository
	tokens *token.Service
}

// New creates a new instance of Service.
func New(cfg config.Config, logger *jsonlog.Logger, repo repository.Repository, tokens *token.Service) *service {
	return &service{
		config: cfg,
		logger: logger,
		repo:   repo,
		tokens: tokens,
	}
}
