// Package app assembles the store, repositories and services from config.
package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"storefront/internal/core/auth"
	"storefront/internal/core/config"
	"storefront/internal/core/database"
	"storefront/internal/core/kv"
	"storefront/internal/repo"
	"storefront/internal/service"
	"storefront/internal/store"
)

type App struct {
	Store    *store.Store
	Sessions *store.Sessions
	Users    *repo.UserRepo
	Products *repo.ProductRepo
	Cart     *repo.CartRepo
	Orders   *repo.OrderRepo
	Reviews  *repo.ReviewRepo
	Auth     *service.AuthService
	Carts    *service.CartService
}

func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	storage, err := kv.Open(ctx, kv.Opts{
		Backend: cfg.Store.Backend,
		Dir:     cfg.Store.Dir,
		Redis:   kv.RedisOpts{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB},
		DB: database.Opts{
			Driver:             cfg.DB.Driver,
			DSN:                cfg.DB.DSN,
			MaxOpenConns:       cfg.DB.MaxOpenConns,
			MaxIdleConns:       cfg.DB.MaxIdleConns,
			ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
			LogLevel:           cfg.DB.LogLevel,
		},
		AutoMigrate: cfg.DB.AutoMigrate,
	})
	if err != nil {
		return nil, err
	}
	hasher, err := auth.NewHasher(cfg.Auth.Hasher)
	if err != nil {
		_ = storage.Close()
		return nil, err
	}
	st := store.New(store.Options{
		Storage:    storage,
		Seed:       SeedFrom(cfg.Store),
		Key:        cfg.Store.DocumentKey,
		MaxRetries: cfg.Store.MaxRetries,
		Logger:     log.Named("store"),
	})
	return Assemble(st, store.NewSessions(storage, cfg.Store.SessionKey), hasher, log), nil
}

// Assemble wires repositories and services around an existing store.
func Assemble(st *store.Store, sessions *store.Sessions, hasher auth.PasswordHasher, log *zap.Logger) *App {
	a := &App{
		Store:    st,
		Sessions: sessions,
		Users:    repo.NewUserRepo(st, hasher),
		Products: repo.NewProductRepo(st),
		Cart:     repo.NewCartRepo(st),
		Orders:   repo.NewOrderRepo(st),
		Reviews:  repo.NewReviewRepo(st),
	}
	a.Auth = service.NewAuthService(st, a.Users, sessions, log.Named("auth"))
	a.Carts = service.NewCartService(a.Cart, a.Products)
	return a
}

// SeedFrom prefers a local seed file over a URL; neither means an empty catalog.
func SeedFrom(c config.Store) store.SeedSource {
	switch {
	case c.SeedFile != "":
		return store.FileSeed{Path: c.SeedFile}
	case c.SeedURL != "":
		return &store.HTTPSeed{URL: c.SeedURL, Timeout: time.Duration(c.SeedTimeoutSec) * time.Second}
	}
	return nil
}

func (a *App) Close() error { return a.Store.Close() }
