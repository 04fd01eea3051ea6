package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

type mockLLMChecker struct {
	err error
}

func (m *mockLLMChecker) HealthCheck(_ context.Context) error { return m.err }

type hangingLLM struct{}

func (hangingLLM) HealthCheck(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestCheck(t *testing.T) {
	down := errors.New("down")

	tests := []struct {
		name       string
		dbErr      error
		llm        LLMChecker
		wantStatus Status
		wantDB     CheckResult
		wantLLM    CheckResult // "" means the check is absent
	}{
		{"all healthy", nil, &mockLLMChecker{}, Healthy, CheckOK, CheckOK},
		{"database down", down, &mockLLMChecker{}, Unhealthy, CheckError, CheckOK},
		{"llm down", nil, &mockLLMChecker{err: down}, Degraded, CheckOK, CheckError},
		{"both down", down, &mockLLMChecker{err: down}, Unhealthy, CheckError, CheckError},
		{"llm not configured", nil, nil, Healthy, CheckOK, ""},
		{"llm not configured, database down", down, nil, Unhealthy, CheckError, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := New(&mockDBPinger{err: tc.dbErr}, tc.llm)
			r := svc.Check(context.Background())

			if r.Status != tc.wantStatus {
				t.Errorf("status = %q, want %q", r.Status, tc.wantStatus)
			}
			if r.Checks[checkDatabase] != tc.wantDB {
				t.Errorf("database = %q, want %q", r.Checks[checkDatabase], tc.wantDB)
			}
			got, ok := r.Checks[checkLLM]
			if tc.wantLLM == "" {
				if ok {
					t.Error("llm check should be absent")
				}
				return
			}
			if got != tc.wantLLM {
				t.Errorf("llm = %q, want %q", got, tc.wantLLM)
			}
		})
	}
}

func TestCheck_ProbeTimeout(t *testing.T) {
	svc := New(&mockDBPinger{}, hangingLLM{}).WithProbeTimeout(20 * time.Millisecond)

	start := time.Now()
	r := svc.Check(context.Background())
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("Check took %v", elapsed)
	}
	if r.Status != Degraded || r.Checks[checkLLM] != CheckError {
		t.Errorf("report = %+v", r)
	}
}
