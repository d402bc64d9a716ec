package health

import "context"

// DBPinger checks catalog store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// IndexChecker reports whether a search index generation is published.
type IndexChecker interface {
	Ready() bool
}
