package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kailas-cloud/shopdex/internal/config"
	domintent "github.com/kailas-cloud/shopdex/internal/domain/search/intent"
	healthuc "github.com/kailas-cloud/shopdex/internal/usecase/health"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{Database: config.DatabaseConfig{
		Driver: config.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "shopdex.db"),
	}}
	cfg.ApplyDefaults()
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestOpenBackend_SQLite(t *testing.T) {
	cfg := sqliteConfig(t)
	b, err := OpenBackend(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, b.Pinger.Ping(context.Background()))
	n, err := b.Repo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOpenBackend_UnknownDriver(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: "mongo"}}
	_, err := OpenBackend(context.Background(), cfg, zap.NewNop())
	assert.ErrorContains(t, err, "unknown database driver")
}

func TestNewIntents_WithoutKeyUsesRules(t *testing.T) {
	in, err := NewIntents(&config.IntentConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, in.Completer)

	out := in.Service.Resolve(context.Background(), "低于500元的耳机")
	assert.Equal(t, domintent.SourceFallback, out.Source)
	assert.Equal(t, domintent.ReasonNotConfigured, out.Reason)
	assert.Equal(t, "耳机", out.Intent.ProductType())
	assert.Equal(t, domintent.PriceRange{Max: 500}, out.Intent.PriceRange())
}

func TestNewIntents_BadRulesPath(t *testing.T) {
	_, err := NewIntents(&config.IntentConfig{RulesPath: filepath.Join(t.TempDir(), "missing.yaml")}, zap.NewNop())
	assert.ErrorContains(t, err, "load intent rules")
}

func TestNewServices_HealthWithoutLLM(t *testing.T) {
	cfg := sqliteConfig(t)
	b, err := OpenBackend(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer b.Close()

	in, err := NewIntents(&cfg.Intent, zap.NewNop())
	require.NoError(t, err)
	svc := NewServices(b, in, zap.NewNop())

	report := svc.Health.Check(context.Background())
	assert.Equal(t, healthuc.Healthy, report.Status)
	assert.NotContains(t, report.Checks, "llm")
}
