package health

import "context"

// StorePinger checks record store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// ProviderChecker checks an external provider's availability.
type ProviderChecker interface {
	HealthCheck(ctx context.Context) error
}

// TextSearchChecker reports whether the store's index supports full-text
// scoring. Without it keyword search falls back to tag matching only.
type TextSearchChecker interface {
	SupportsTextSearch(ctx context.Context) bool
}
