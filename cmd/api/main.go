package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/captainminh1999/my-webspace-sub000/internal/app"
	"github.com/captainminh1999/my-webspace-sub000/internal/archive"
	"github.com/captainminh1999/my-webspace-sub000/internal/cache"
	"github.com/captainminh1999/my-webspace-sub000/internal/config"
	"github.com/captainminh1999/my-webspace-sub000/internal/deployhost"
	"github.com/captainminh1999/my-webspace-sub000/internal/logging"
	"github.com/captainminh1999/my-webspace-sub000/internal/sourcectl"
	"github.com/captainminh1999/my-webspace-sub000/internal/store"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	if strings.TrimSpace(cfg.MongoURI) == "" {
		logger.Warn("MONGODB_URI not set; data endpoints will answer CONFIG_ERROR")
	}
	accessor := store.NewAccessor(cfg.MongoURI, cfg.MongoDatabase)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := accessor.Close(ctx); err != nil {
			logger.Warn("closing database", "error", err)
		}
	}()

	deps := app.Deps{
		Store:   store.NewMongo(accessor),
		Deploys: deployhost.NewNetlify(cfg.NetlifyAPIURL, cfg.NetlifyToken, cfg.NetlifySiteID),
	}

	switch cfg.SourceControl {
	case "local":
		logger.Info("committing data files to local repository", "dir", cfg.LocalRepoDir)
		deps.Committer = sourcectl.NewLocal(cfg.LocalRepoDir)
	default:
		committer, err := sourcectl.NewGitHub(sourcectl.GitHubConfig{
			Token:   cfg.GitHubToken,
			Owner:   cfg.GitHubOwner,
			Repo:    cfg.GitHubRepo,
			BaseURL: cfg.GitHubAPIURL,
		})
		switch {
		case errors.Is(err, sourcectl.ErrNotConfigured):
			logger.Warn("uploads disabled", "error", err)
		case err != nil:
			logger.Error("github client", "error", err)
			os.Exit(1)
		default:
			deps.Committer = committer
		}
	}

	if strings.TrimSpace(cfg.RedisURL) != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			logger.Error("redis connection failed", "error", err)
			os.Exit(1)
		}
		defer redisCache.Close()
		logger.Info("response cache enabled", "ttl", cfg.CacheTTL.String())
		deps.Cache = redisCache
	}

	if strings.TrimSpace(cfg.ArchiveEndpoint) != "" {
		archiver, err := archive.New(archive.Config{
			Endpoint:  cfg.ArchiveEndpoint,
			AccessKey: cfg.ArchiveAccessKey,
			SecretKey: cfg.ArchiveSecretKey,
			Bucket:    cfg.ArchiveBucket,
			UseSSL:    cfg.ArchiveUseSSL,
		})
		if err != nil {
			logger.Error("archive client", "error", err)
			os.Exit(1)
		}
		logger.Info("upload archive enabled", "bucket", cfg.ArchiveBucket)
		deps.Archive = archiver
	}

	service := app.New(cfg, logger, deps)
	httpServer := app.NewHTTPServer(service, cfg.CORSOrigin)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("api listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown error", "error", err)
	}
}
