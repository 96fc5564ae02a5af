package main

import (
	"context"
	"os"
	"time"

	"booklister/config"
	"booklister/handler"
	"booklister/internal/jsonlog"
	"booklister/internal/token"
	"booklister/repository"
	"booklister/repository/mongodb"
	"booklister/service"

	"github.com/jellydator/ttlcache/v3"
)

// app defines the application's layers and shared resources.
type app struct {
	config  config.Config
	repo    repository.Repository
	service service.Service
	handler *handler.Handler
}

func main() {
	logger := jsonlog.New(os.Stdout, jsonlog.LevelInfo)

	// Initialize configuration
	cfg, err := config.Decode()
	if err != nil {
		logger.PrintFatal(err, nil)
	}

	// Initialize database connection
	client, db, err := mongodb.OpenDBConn(cfg)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.PrintError(err, nil)
		}
	}()
	logger.PrintInfo("database connection established", map[string]string{
		"database": cfg.Database.Name,
	})

	// In-memory cache for slow-changing catalog data
	cache := ttlcache.New(ttlcache.WithTTL[string, []string](30 * time.Minute))
	go cache.Start()

	// Application layers
	tokens := token.NewService(cfg.JWT.Secret, cfg.JWT.Expiry)
	repo := repository.New(db)
	service := service.New(cfg, logger, repo, tokens)
	handler := handler.New(cfg, logger, cache, service, tokens)

	// Instantiate application
	app := &app{
		config:  cfg,
		repo:    repo,
		service: service,
		handler: handler,
	}

	// Start HTTP server
	err = app.serve(logger)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
}
