package health

import "context"

// DBPinger checks catalog store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// LLMChecker checks the inference backend.
type LLMChecker interface {
	HealthCheck(ctx context.Context) error
}
