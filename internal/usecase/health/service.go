package health

import (
	"context"
	"sync"
	"time"
)

// Status is the aggregated verdict.
type Status string

const (
	// Healthy means every probe passed.
	Healthy Status = "ok"
	// Degraded means search still answers, via rule fallback, but the LLM is unreachable.
	Degraded Status = "degraded"
	// Unhealthy means the catalog store is unreachable.
	Unhealthy Status = "error"
)

// CheckResult is one probe outcome.
type CheckResult string

const (
	CheckOK    CheckResult = "ok"
	CheckError CheckResult = "error"
)

const (
	checkDatabase = "database"
	checkLLM      = "llm"
)

// DefaultProbeTimeout bounds each probe.
const DefaultProbeTimeout = 3 * time.Second

// Report aggregates probe results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service runs the dependency probes.
type Service struct {
	db      DBPinger
	llm     LLMChecker
	timeout time.Duration
}

// New creates a Service. llm is nil when no inference backend is configured,
// in which case the llm check is omitted from reports.
func New(db DBPinger, llm LLMChecker) *Service {
	return &Service{db: db, llm: llm, timeout: DefaultProbeTimeout}
}

// WithProbeTimeout overrides the per-probe deadline.
func (s *Service) WithProbeTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Check runs all probes concurrently.
func (s *Service) Check(ctx context.Context) Report {
	probes := map[string]func(context.Context) error{checkDatabase: s.db.Ping}
	if s.llm != nil {
		probes[checkLLM] = s.llm.HealthCheck
	}

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		checks = make(map[string]CheckResult, len(probes))
	)
	for name, probe := range probes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()
			res := CheckOK
			if err := probe(pctx); err != nil {
				res = CheckError
			}
			mu.Lock()
			checks[name] = res
			mu.Unlock()
		}()
	}
	wg.Wait()

	return Report{Status: verdict(checks), Checks: checks}
}

func verdict(checks map[string]CheckResult) Status {
	switch {
	case checks[checkDatabase] == CheckError:
		return Unhealthy
	case checks[checkLLM] == CheckError:
		return Degraded
	default:
		return Healthy
	}
}
