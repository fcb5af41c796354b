package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/captainminh1999/my-webspace-sub000/internal/cache"
	"github.com/captainminh1999/my-webspace-sub000/internal/config"
	"github.com/captainminh1999/my-webspace-sub000/internal/deployhost"
	"github.com/captainminh1999/my-webspace-sub000/internal/export"
	"github.com/captainminh1999/my-webspace-sub000/internal/logging"
	"github.com/captainminh1999/my-webspace-sub000/internal/sourcectl"
	"github.com/captainminh1999/my-webspace-sub000/internal/store"
)

type DocumentStore interface {
	FindSingleton(ctx context.Context, key string) (store.Document, error)
	FindAll(ctx context.Context, collection string, opts store.FindOptions) ([]store.Document, error)
	InsertDeletionRecord(ctx context.Context, rec store.DeletionRecord) error
	Ping(ctx context.Context) error
}

type DeployHost interface {
	LatestDeploy(ctx context.Context) (deployhost.Deploy, error)
}

type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte) error
	Invalidate(ctx context.Context, keys ...string) error
}

type Archiver interface {
	Store(ctx context.Context, section, fileName string, data []byte) (string, error)
}

type exporter interface {
	Export(ctx context.Context, format export.Format) (*export.Result, error)
}

// Deps are the collaborators of a Service. Committer, Cache and Archive are
// optional; leave them nil when not configured.
type Deps struct {
	Store     DocumentStore
	Committer sourcectl.Committer
	Deploys   DeployHost
	Cache     ResponseCache
	Archive   Archiver
}

type Service struct {
	cfg       config.Config
	logger    *slog.Logger
	store     DocumentStore
	committer sourcectl.Committer
	deploys   DeployHost
	cache     ResponseCache
	archive   Archiver
	exporter  exporter
	now       func() time.Time
}

func New(cfg config.Config, logger *slog.Logger, deps Deps) *Service {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Service{
		cfg:       cfg,
		logger:    logger,
		store:     deps.Store,
		committer: deps.Committer,
		deploys:   deps.Deploys,
		cache:     deps.Cache,
		archive:   deps.Archive,
		now:       time.Now,
	}
	s.exporter = export.NewService(s)
	return s
}

func (s *Service) Logger() *slog.Logger {
	return s.logger
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// PingCache checks the response cache. checked is false when no cache is
// configured.
func (s *Service) PingCache(ctx context.Context) (checked bool, err error) {
	p, ok := s.cache.(interface{ Ping(context.Context) error })
	if !ok {
		return false, nil
	}
	return true, p.Ping(ctx)
}

// FullCVJSON is FullCV encoded, served from the response cache when possible.
func (s *Service) FullCVJSON(ctx context.Context) ([]byte, error) {
	return s.cachedJSON(ctx, cache.KeyFullCV, func(ctx context.Context) (any, error) {
		return s.FullCV(ctx)
	})
}

// AllWidgetsJSON is AllWidgets encoded, served from the response cache when
// possible.
func (s *Service) AllWidgetsJSON(ctx context.Context) ([]byte, error) {
	return s.cachedJSON(ctx, cache.KeyAllWidgets, func(ctx context.Context) (any, error) {
		return s.AllWidgets(ctx)
	})
}

func (s *Service) cachedJSON(ctx context.Context, key string, load func(context.Context) (any, error)) ([]byte, error) {
	if s.cache != nil {
		data, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("cache read failed", "key", key, "error", err)
		} else if ok {
			return data, nil
		}
	}

	value, err := load(ctx)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", key, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, data); err != nil {
			s.logger.Warn("cache write failed", "key", key, "error", err)
		}
	}
	return data, nil
}

func (s *Service) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, cache.AllKeys...); err != nil {
		s.logger.Warn("cache invalidation failed", "error", err)
	}
}

func (s *Service) ExportCV(ctx context.Context, format export.Format) (*export.Result, error) {
	return s.exporter.Export(ctx, format)
}
