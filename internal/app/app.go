// Package app assembles the catalog store, the intent pipeline and the
// services from configuration. Both binaries share it.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopdex/internal/config"
	dbRedis "github.com/kailas-cloud/shopdex/internal/db/redis"
	productrepo "github.com/kailas-cloud/shopdex/internal/repository/product"
	"github.com/kailas-cloud/shopdex/internal/repository/productsql"
	openaiTransport "github.com/kailas-cloud/shopdex/internal/transport/openai"
	"github.com/kailas-cloud/shopdex/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/shopdex/internal/usecase/health"
	intentuc "github.com/kailas-cloud/shopdex/internal/usecase/intent"
	searchuc "github.com/kailas-cloud/shopdex/internal/usecase/search"
)

// Repository is served by every store backend.
type Repository interface {
	catalog.Repository
	searchuc.Repository
}

// Backend is an opened catalog store.
type Backend struct {
	Repo   Repository
	Pinger healthuc.DBPinger
	close  func()
}

// Close releases the store connection.
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// OpenBackend connects to the configured driver and waits until it is ready.
// For Redis the search index is created when missing.
func OpenBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backend, error) {
	ready := time.Duration(cfg.Database.ReadinessTimeout) * time.Second

	switch cfg.Database.Driver {
	case config.DriverRedis:
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Username: cfg.Database.Username,
			Password: cfg.Database.Password,
			DB:       cfg.Database.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("create redis store: %w", err)
		}
		if err := store.WaitForReady(ctx, ready); err != nil {
			store.Close()
			return nil, fmt.Errorf("redis not ready: %w", err)
		}
		repo := productrepo.New(store, cfg.Catalog.KeyPrefix)
		if err := repo.EnsureIndex(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("ensure product index: %w", err)
		}
		logger.Info("Connected to catalog store",
			zap.String("driver", cfg.Database.Driver),
			zap.Strings("addrs", cfg.Database.Addrs),
		)
		return &Backend{Repo: repo, Pinger: store, close: store.Close}, nil

	case config.DriverSQLite:
		repo, err := productsql.Open(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		if err := repo.WaitForReady(ctx, ready); err != nil {
			repo.Close()
			return nil, err
		}
		logger.Info("Connected to catalog store",
			zap.String("driver", cfg.Database.Driver),
			zap.String("dsn", cfg.Database.DSN),
		)
		return &Backend{Repo: repo, Pinger: repo, close: repo.Close}, nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

// Intents is the assembled extraction pipeline.
type Intents struct {
	Service *intentuc.Service
	// Completer is nil when no API key is configured.
	Completer *openaiTransport.Completer
	// Timeout bounds one LLM call; health probes reuse it.
	Timeout time.Duration
}

// NewIntents builds the extractor: rule tables plus, when an API key is set,
// the chat completion client.
func NewIntents(cfg *config.IntentConfig, logger *zap.Logger) (*Intents, error) {
	rules, err := intentuc.LoadRules(cfg.RulesPath)
	if err != nil {
		return nil, fmt.Errorf("load intent rules: %w", err)
	}

	out := &Intents{Timeout: time.Duration(cfg.TimeoutSec) * time.Second}
	var llm intentuc.Completer
	if cfg.APIKey != "" {
		out.Completer = openaiTransport.NewCompleter(&openaiTransport.Config{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Logger:      logger,
		})
		llm = out.Completer
	}

	out.Service = intentuc.New(
		llm,
		intentuc.NewRuleExtractor(rules),
		out.Timeout,
		logger,
	)
	return out, nil
}

// Services bundles the use cases served over HTTP and the CLI.
type Services struct {
	Catalog *catalog.Service
	Search  *searchuc.Service
	Health  *healthuc.Service
}

// NewServices wires the use cases over an opened backend.
func NewServices(b *Backend, intents *Intents, logger *zap.Logger) *Services {
	// A nil *Completer must not become a non-nil interface.
	var llmHealth healthuc.LLMChecker
	if intents.Completer != nil {
		llmHealth = intents.Completer
	}

	return &Services{
		Catalog: catalog.New(b.Repo, logger),
		Search:  searchuc.New(b.Repo, intents.Service, logger),
		Health:  healthuc.New(b.Pinger, llmHealth).WithProbeTimeout(intents.Timeout),
	}
}
