package health

import "context"

// ModelChecker checks that the scoring pipeline is loaded.
type ModelChecker interface {
	HealthCheck(ctx context.Context) error
}

// CachePinger checks prediction cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}
