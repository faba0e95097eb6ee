package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lepinkainen/gutenshelf/internal/cache"
	"github.com/lepinkainen/gutenshelf/internal/config"
	"github.com/lepinkainen/gutenshelf/internal/gutendex"
	"github.com/lepinkainen/gutenshelf/internal/library"
	"github.com/lepinkainen/gutenshelf/internal/ratelimit"
	"github.com/lepinkainen/gutenshelf/internal/store"
	"github.com/spf13/viper"
)

// services holds the opened dependencies of the library service.
type services struct {
	library *library.Service
	store   store.Store
	cache   *cache.CacheDB
}

// openServices opens the store, the optional response cache and the catalog
// client described by the global config.
var openServices = func(ctx context.Context) (*services, error) {
	st, err := store.Open(ctx, store.Config{
		Driver: config.DatabaseDriver,
		File:   config.DatabaseFile,
		DSN:    config.DatabaseDSN,
	}, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	svc := &services{store: st}

	opts := []gutendex.Option{
		gutendex.WithBaseURL(config.GutendexBaseURL),
		gutendex.WithTimeout(config.RequestTimeout),
	}
	if config.RequestInterval > 0 {
		opts = append(opts, gutendex.WithRateLimiter(ratelimit.Every("Gutendex", config.RequestInterval)))
	} else {
		opts = append(opts, gutendex.WithRateLimiter(nil))
	}

	if config.CacheEnabled {
		cacheDB, err := cache.Open(viper.GetString("cache.dbfile"))
		if err != nil {
			// Searching still works without the cache.
			slog.Warn("Failed to open cache, continuing without it", "error", err)
		} else {
			svc.cache = cacheDB
			opts = append(opts, gutendex.WithCache(cacheDB, config.CacheTTL()))
		}
	}

	svc.library = library.NewService(gutendex.NewClient(opts...), st)
	return svc, nil
}

// Close closes the store and the cache.
func (s *services) Close() error {
	var errs []error
	if s.store != nil {
		errs = append(errs, s.store.Close())
	}
	if s.cache != nil {
		errs = append(errs, s.cache.Close())
	}
	return errors.Join(errs...)
}

// withLibrary opens the services, runs fn and closes them again.
func withLibrary(ctx context.Context, fn func(*library.Service) error) error {
	svc, err := openServices(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := svc.Close(); closeErr != nil {
			slog.Warn("Failed to close services", "error", closeErr)
		}
	}()
	return fn(svc.library)
}
