package recipedex

import (
	"context"
	"time"

	healthuc "github.com/kailas-cloud/recipedex/internal/usecase/health"
)

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component → "ok"/"error"
}

// Health reports catalog reachability and whether the search index is built.
// A missing index degrades the status; an unreachable catalog fails it.
func (c *Client) Health(ctx context.Context) HealthStatus {
	start := time.Now()
	report := c.healthSvc.Check(ctx)
	var err error
	if report.Status == healthuc.Unhealthy {
		err = ErrCatalogUnavailable
	}
	c.obs.observe("health", start, err)

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
