package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckSkipped indicates a check that could not run for lack of configuration.
	CheckSkipped CheckResult = "skipped"
)

const defaultCheckTimeout = 5 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	upstream  ModuleLister
	projectID string
	timeout   time.Duration
}

// New creates a Service probing the upstream through the given project.
func New(upstream ModuleLister, projectID string) *Service {
	return &Service{upstream: upstream, projectID: projectID, timeout: defaultCheckTimeout}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	switch {
	case s.projectID == "":
		checks["torna"] = CheckSkipped
	default:
		cctx, cancel := context.WithTimeout(ctx, s.timeout)
		_, err := s.upstream.ListModules(cctx, s.projectID)
		cancel()
		if err != nil {
			checks["torna"] = CheckError
		} else {
			checks["torna"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
