package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopdex/internal/domain"
	"github.com/kailas-cloud/shopdex/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterSearchMetrics()
	os.Exit(m.Run())
}

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

func chatReply(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"model":  "test-model",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
		"usage": map[string]any{"prompt_tokens": 30, "completion_tokens": 12, "total_tokens": 42},
	})
}

func newTestCompleter(url string) *Completer {
	return NewCompleter(&Config{
		APIKey:  "test-key",
		BaseURL: url,
		Model:   "test-model",
		Logger:  zap.NewNop(),
	})
}

func TestCompleter_Complete(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		chatReply(w, `{"product_type":"手机"}`)
	}))
	defer server.Close()

	reply, err := newTestCompleter(server.URL).Complete(context.Background(), "sys", "低于300元的手机")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if reply != `{"product_type":"手机"}` {
		t.Errorf("reply = %q", reply)
	}

	if got.Model != "test-model" || got.MaxTokens != DefaultMaxTokens {
		t.Errorf("model/max_tokens = %q/%d", got.Model, got.MaxTokens)
	}
	if got.Temperature < 0.09 || got.Temperature > 0.11 {
		t.Errorf("temperature = %v, want 0.1", got.Temperature)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "低于300元的手机" {
		t.Errorf("messages = %+v", got.Messages)
	}
}

func TestCompleter_Unavailable(t *testing.T) {
	c := NewCompleter(&Config{})
	if c.Available() {
		t.Fatal("completer without key should be unavailable")
	}
	if _, err := c.Complete(context.Background(), "s", "u"); !errors.Is(err, domain.ErrInferenceUnavailable) {
		t.Errorf("expected ErrInferenceUnavailable, got %v", err)
	}
	if NewCompleter(&Config{APIKey: "   "}).Available() {
		t.Error("blank key should be unavailable")
	}
}

func TestCompleter_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"message": "rate limit exceeded",
				"type":    "rate_limit_error",
			},
		})
	}))
	defer server.Close()

	_, err := newTestCompleter(server.URL).Complete(context.Background(), "s", "u")
	if !errors.Is(err, domain.ErrInferenceFailed) {
		t.Fatalf("expected ErrInferenceFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "rate limit exceeded") {
		t.Errorf("provider message lost: %v", err)
	}
}

func TestCompleter_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[]}`))
	}))
	defer server.Close()

	if _, err := newTestCompleter(server.URL).Complete(context.Background(), "s", "u"); !errors.Is(err, domain.ErrInferenceFailed) {
		t.Errorf("expected ErrInferenceFailed, got %v", err)
	}
}

func TestCompleter_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		chatReply(w, "{}")
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := newTestCompleter(server.URL).Complete(ctx, "s", "u")
	if !errors.Is(err, domain.ErrInferenceFailed) {
		t.Errorf("expected ErrInferenceFailed, got %v", err)
	}
}

func TestCompleter_HealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"test-model","object":"model"}]}`))
	}))
	defer server.Close()

	if err := newTestCompleter(server.URL).HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck: %v", err)
	}

	server.Close()
	if err := newTestCompleter(server.URL).HealthCheck(context.Background()); err == nil {
		t.Error("expected error for closed server")
	}
}
