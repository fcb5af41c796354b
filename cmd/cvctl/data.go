package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/captainminh1999/my-webspace-sub000/internal/cache"
	"github.com/captainminh1999/my-webspace-sub000/internal/config"
	"github.com/captainminh1999/my-webspace-sub000/internal/store"
)

func runMigrate(ctx context.Context, cfg config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	dir := fs.String("dir", cfg.DataPath, "directory holding <section>.json files")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withStore(ctx, cfg, logger, func(mongo *store.Mongo) error {
		report, err := store.ImportDir(ctx, mongo, *dir)
		if err != nil {
			return err
		}
		logger.Info("migration finished",
			"dir", *dir,
			"imported", report.Imported,
			"skipped", report.Skipped,
		)
		return nil
	})
}

func runPushWidget(ctx context.Context, cfg config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("push-widget", flag.ContinueOnError)
	key := fs.String("key", "", "singleton key or collection name")
	file := fs.String("file", "", "JSON file with the payload")
	list := fs.Bool("list", false, "replace a collection instead of a singleton")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*key) == "" || *file == "" {
		fs.Usage()
		return fmt.Errorf("-key and -file are required")
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		return fmt.Errorf("read %s: %w", *file, err)
	}
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("decode %s: %w", *file, err)
	}

	return withStore(ctx, cfg, logger, func(mongo *store.Mongo) error {
		if err := store.ImportValue(ctx, mongo, *key, payload, *list); err != nil {
			return err
		}
		logger.Info("widget data pushed", "key", *key, "list", *list)
		return nil
	})
}

// withStore runs fn against the configured store, then closes the connection
// and drops cached responses built from the old data.
func withStore(ctx context.Context, cfg config.Config, logger *slog.Logger, fn func(*store.Mongo) error) error {
	accessor := store.NewAccessor(cfg.MongoURI, cfg.MongoDatabase)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := accessor.Close(closeCtx); err != nil {
			logger.Warn("closing database", "error", err)
		}
	}()

	if err := fn(store.NewMongo(accessor)); err != nil {
		return err
	}
	invalidateCache(ctx, cfg, logger)
	return nil
}

func invalidateCache(ctx context.Context, cfg config.Config, logger *slog.Logger) {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return
	}
	redisCache, err := cache.NewRedisCache(cfg.RedisURL, cfg.CacheTTL)
	if err != nil {
		logger.Warn("cache not invalidated", "error", err)
		return
	}
	defer redisCache.Close()
	if err := redisCache.Invalidate(ctx, cache.AllKeys...); err != nil {
		logger.Warn("cache not invalidated", "error", err)
	}
}
