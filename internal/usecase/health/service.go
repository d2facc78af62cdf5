package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure. Search still works without the
	// oracle and the embedder; the store is the only hard dependency.
	Degraded Status = "degraded"
	// Unhealthy indicates the store is unreachable.
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
	store      StorePinger
	embedder   ProviderChecker
	oracle     ProviderChecker
	textSearch TextSearchChecker
}

// New creates a Service. embedder and oracle can be nil.
func New(store StorePinger, embedder, oracle ProviderChecker) *Service {
	return &Service{store: store, embedder: embedder, oracle: oracle}
}

// WithTextSearch adds a text-search capability check to the report.
func (s *Service) WithTextSearch(checker TextSearchChecker) *Service {
	s.textSearch = checker
	return s
}

// Check runs health checks against all components. A failing store makes the
// service unhealthy; failing providers only degrade it.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	storeOK := s.store.Ping(ctx) == nil
	if storeOK {
		checks["store"] = CheckOK
	} else {
		checks["store"] = CheckError
	}

	if s.embedder != nil {
		if err := s.embedder.HealthCheck(ctx); err != nil {
			checks["embedding"] = CheckError
		} else {
			checks["embedding"] = CheckOK
		}
	}

	if s.oracle != nil {
		if err := s.oracle.HealthCheck(ctx); err != nil {
			checks["oracle"] = CheckError
		} else {
			checks["oracle"] = CheckOK
		}
	}

	if s.textSearch != nil {
		if s.textSearch.SupportsTextSearch(ctx) {
			checks["text_search"] = CheckOK
		} else {
			checks["text_search"] = CheckError
		}
	}

	if !storeOK {
		return Report{Status: Unhealthy, Checks: checks}
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
