// Package app assembles the reference bloglist application from its configuration.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/fullstack-bloglist/bloglist-e2e/internal/api"
	"github.com/fullstack-bloglist/bloglist-e2e/internal/auth"
	"github.com/fullstack-bloglist/bloglist-e2e/internal/config"
	"github.com/fullstack-bloglist/bloglist-e2e/internal/database"
	"github.com/fullstack-bloglist/bloglist-e2e/internal/repository"
	"github.com/fullstack-bloglist/bloglist-e2e/internal/service"
	"github.com/fullstack-bloglist/bloglist-e2e/internal/web"
)

// App is a wired bloglist instance. Close releases the database.
type App struct {
	Config  *config.Config
	DB      *sqlx.DB
	Service *service.BlogService
	Handler http.Handler
}

// New opens the database and builds the HTTP handler for cfg.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := database.Open(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	svc := service.NewBlogService(
		repository.NewUserRepository(db),
		repository.NewBlogRepository(db),
		auth.NewPasswordHasher(cfg.Auth.BcryptCost),
		auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
	)

	frontend, err := web.NewFrontend(web.FrontendOptions{Title: cfg.App.Name})
	if err != nil {
		db.Close()
		return nil, err
	}

	opts := api.RouterOptions{
		Service:        svc,
		DB:             db,
		Frontend:       frontend,
		TestingEnabled: cfg.Testing.Enabled,
	}
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		opts.Registry = reg
		opts.MetricsPath = cfg.Metrics.Path
	}

	return &App{
		Config:  cfg,
		DB:      db,
		Service: svc,
		Handler: api.NewRouter(opts),
	}, nil
}

func (a *App) Close() error {
	return a.DB.Close()
}
