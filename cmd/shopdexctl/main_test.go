package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	t          *testing.T
	dir        string
	configPath string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	cfg := "database:\n  driver: sqlite\n  dsn: " + filepath.Join(dir, "catalog.db") + "\n" +
		"catalog:\n  default_page_size: 10\n  max_page_size: 50\n"
	path := filepath.Join(dir, "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return &testEnv{t: t, dir: dir, configPath: path}
}

func (e *testEnv) run(args ...string) (string, error) {
	e.t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := root.Execute()
	return out.String(), err
}

func (e *testEnv) writeSeed(body string) string {
	e.t.Helper()
	path := filepath.Join(e.dir, "products.json")
	require.NoError(e.t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestIntent(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("intent", "低于300元的手机")
	require.NoError(t, err)

	var got struct {
		Intent struct {
			ProductType string `json:"product_type"`
			PriceRange  struct {
				Min float64 `json:"min"`
				Max float64 `json:"max"`
			} `json:"price_range"`
			SortPreference *string `json:"sort_preference"`
		} `json:"intent"`
		Source string `json:"source"`
		Reason string `json:"reason"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	assert.Equal(t, "手机", got.Intent.ProductType)
	assert.Equal(t, 0.0, got.Intent.PriceRange.Min)
	assert.Equal(t, 300.0, got.Intent.PriceRange.Max)
	assert.Nil(t, got.Intent.SortPreference)
	assert.Equal(t, "fallback", got.Source)
	assert.Equal(t, "not_configured", got.Reason)
}

func TestIntent_RequiresQuery(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run("intent")
	assert.Error(t, err)
}

func TestCompile(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("compile", "低于300元的手机", "--page", "2", "--limit", "500")
	require.NoError(t, err)

	var got struct {
		Filters []string `json:"filters"`
		Sort    struct {
			Field     string `json:"field"`
			Direction string `json:"direction"`
		} `json:"sort"`
		Page struct {
			Number int `json:"number"`
			Size   int `json:"size"`
		} `json:"page"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	assert.Equal(t, []string{`category~"手机"`, "price<=300"}, got.Filters)
	assert.Equal(t, "created_at", got.Sort.Field)
	assert.Equal(t, "desc", got.Sort.Direction)
	assert.Equal(t, 2, got.Page.Number)
	assert.Equal(t, 50, got.Page.Size)
}

func TestSeed(t *testing.T) {
	env := newTestEnv(t)
	seed := env.writeSeed(`[
		{"title": "Redmi 12", "price": 299, "category": "手机", "tags": ["小米"]},
		{"name": "AirPods Pro", "price": 1899, "category": "耳机", "sku": "AP-PRO"},
		{"name": "", "price": 1, "category": "x", "sku": "BAD"}
	]`)

	out, err := env.run("seed", "--file", seed)
	require.NoError(t, err)
	var first struct {
		Skipped bool `json:"skipped"`
		Created int  `json:"created"`
		Failed  int  `json:"failed"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &first), out)
	assert.False(t, first.Skipped)
	assert.Equal(t, 2, first.Created)
	assert.Equal(t, 1, first.Failed)

	out, err = env.run("seed", "--file", seed)
	require.NoError(t, err)
	var second struct {
		Skipped  bool `json:"skipped"`
		Existing int  `json:"existing"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &second), out)
	assert.True(t, second.Skipped)
	assert.Equal(t, 2, second.Existing)
}

func TestSeed_NoFile(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run("seed")
	assert.ErrorContains(t, err, "no seed file")
}

func TestConfig_Missing(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml"), "intent", "x"})
	assert.Error(t, root.Execute())
}

func TestVersionFlag(t *testing.T) {
	out, err := newTestEnv(t).run("--version")
	require.NoError(t, err)
	assert.Contains(t, out, "shopdex dev")
}
