package metrics

import (
	"sync/atomic"
	"time"
)

// Collector keeps process-wide request counters for /metrics.
type Collector struct {
	requests        atomic.Uint64
	serverErrors    atomic.Uint64
	unauthenticated atomic.Uint64
	forbidden       atomic.Uint64
	rateLimited     atomic.Uint64
	durationMs      atomic.Uint64
	started         time.Time
}

type Snapshot struct {
	RequestsTotal        uint64  `json:"requestsTotal"`
	ServerErrorsTotal    uint64  `json:"serverErrorsTotal"`
	UnauthenticatedTotal uint64  `json:"unauthenticatedTotal"`
	ForbiddenTotal       uint64  `json:"forbiddenTotal"`
	RateLimitedTotal     uint64  `json:"rateLimitedTotal"`
	AvgDurationMs        float64 `json:"avgDurationMs"`
	UptimeSeconds        int64   `json:"uptimeSeconds"`
}

func New() *Collector {
	return &Collector{started: time.Now()}
}

func (c *Collector) Record(status int, duration time.Duration) {
	c.requests.Add(1)
	switch {
	case status >= 500:
		c.serverErrors.Add(1)
	case status == 401:
		c.unauthenticated.Add(1)
	case status == 403:
		c.forbidden.Add(1)
	case status == 429:
		c.rateLimited.Add(1)
	}
	if ms := duration.Milliseconds(); ms > 0 {
		c.durationMs.Add(uint64(ms))
	}
}

func (c *Collector) Snapshot() Snapshot {
	total := c.requests.Load()
	avg := float64(0)
	if total > 0 {
		avg = float64(c.durationMs.Load()) / float64(total)
	}
	return Snapshot{
		RequestsTotal:        total,
		ServerErrorsTotal:    c.serverErrors.Load(),
		UnauthenticatedTotal: c.unauthenticated.Load(),
		ForbiddenTotal:       c.forbidden.Load(),
		RateLimitedTotal:     c.rateLimited.Load(),
		AvgDurationMs:        avg,
		UptimeSeconds:        int64(time.Since(c.started).Seconds()),
	}
}
