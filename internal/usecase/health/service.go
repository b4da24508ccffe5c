package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates the database is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db      DBPinger
	breaker BreakerChecker
}

// New creates a Service. breaker can be nil.
func New(db DBPinger, breaker BreakerChecker) *Service {
	return &Service{db: db, breaker: breaker}
}

// Check runs health checks against all components.
// A failed ping is Unhealthy; an open breaker alone is Degraded.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	status := Healthy
	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckError
		status = Unhealthy
	} else {
		checks["database"] = CheckOK
	}

	if s.breaker != nil {
		if err := s.breaker.Check(ctx); err != nil {
			checks["breaker"] = CheckError
			if status == Healthy {
				status = Degraded
			}
		} else {
			checks["breaker"] = CheckOK
		}
	}

	return Report{Status: status, Checks: checks}
}
