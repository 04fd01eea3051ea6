package intent

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopdex/internal/domain/search/filter"
	domintent "github.com/kailas-cloud/shopdex/internal/domain/search/intent"
	"github.com/kailas-cloud/shopdex/internal/metrics"
)

// DefaultTimeout bounds one inference call.
const DefaultTimeout = 10 * time.Second

// Service turns free text into a SearchIntent, preferring the language
// model and falling back to the rule tables.
type Service struct {
	llm      Completer
	fallback *RuleExtractor
	timeout  time.Duration
	logger   *zap.Logger
}

// New creates a Service. llm may be nil; timeout <= 0 selects DefaultTimeout.
func New(llm Completer, fallback *RuleExtractor, timeout time.Duration, logger *zap.Logger) *Service {
	if fallback == nil {
		fallback = NewRuleExtractor(nil)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{llm: llm, fallback: fallback, timeout: timeout, logger: logger}
}

// Extract returns the intent for query. It never fails.
func (s *Service) Extract(ctx context.Context, query string) domintent.SearchIntent {
	return s.Resolve(ctx, query).Intent
}

// Resolve is Extract with provenance.
func (s *Service) Resolve(ctx context.Context, query string) domintent.Outcome {
	out := s.resolve(ctx, query)
	reason := string(out.Reason)
	if reason == "" {
		reason = "none"
	}
	metrics.IntentExtractionsTotal.WithLabelValues(string(out.Source), reason).Inc()
	return out
}

func (s *Service) resolve(ctx context.Context, query string) domintent.Outcome {
	if s.llm == nil || !s.llm.Available() {
		s.logger.Debug("Inference backend not configured, using rule extractor")
		return domintent.Fallback(s.fallback.Extract(query), domintent.ReasonNotConfigured)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	content, err := s.llm.Complete(callCtx, systemPrompt, userPrompt(query))
	if err != nil {
		s.logger.Warn("Intent extraction failed, using rule extractor",
			zap.String("reason", string(domintent.ReasonTransport)),
			zap.Duration("timeout", s.timeout),
			zap.Error(err),
		)
		return domintent.Fallback(s.fallback.Extract(query), domintent.ReasonTransport)
	}

	parsed, err := parseReply(content)
	if err != nil {
		s.logger.Warn("Intent extraction failed, using rule extractor",
			zap.String("reason", string(domintent.ReasonUnparsable)),
			zap.Int("reply_length", len(content)),
			zap.Error(err),
		)
		return domintent.Fallback(s.fallback.Extract(query), domintent.ReasonUnparsable)
	}
	if n := parsed.ClauseCount(); n > filter.MaxConditions {
		s.logger.Warn("Intent extraction failed, using rule extractor",
			zap.String("reason", string(domintent.ReasonUnparsable)),
			zap.Int("clauses", n),
			zap.Int("max_clauses", filter.MaxConditions),
		)
		return domintent.Fallback(s.fallback.Extract(query), domintent.ReasonUnparsable)
	}
	return domintent.Primary(parsed)
}
