package runner

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/hintscan/hintscan/internal/engine"
	"github.com/hintscan/hintscan/internal/model"
)

// collector consumes the interleaved progress event stream and builds
// per-target results. Each target's elapsed time is measured from its
// own start event, so concurrent targets never inherit each other's
// timings.
type collector struct {
	mu      sync.Mutex
	started map[string]time.Time
	results []model.TargetResult

	status io.Writer
	logger *slog.Logger
	now    func() time.Time
}

func newCollector(status io.Writer, logger *slog.Logger, now func() time.Time) *collector {
	return &collector{
		started: make(map[string]time.Time),
		status:  status,
		logger:  logger,
		now:     now,
	}
}

// consume handles one progress event. It is called concurrently by the
// analyzer's workers.
func (c *collector) consume(event engine.ProgressEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch event.Kind {
	case engine.EventTargetStart:
		c.started[event.Target] = c.now()
		fmt.Fprintf(c.status, "%s: started\n", event.Target)

	case engine.EventUpdate:
		fmt.Fprintf(c.status, "%s: %s\n", event.Target, event.Message)

	case engine.EventTargetEnd:
		result := model.TargetResult{
			Target:   event.Target,
			Problems: event.Problems,
		}
		// Elapsed stays zero if the start event never arrived.
		if start, ok := c.started[event.Target]; ok {
			result.Started = start
			result.Elapsed = c.now().Sub(start)
			delete(c.started, event.Target)
		} else {
			c.logger.Warn("end event without start", "target", event.Target)
		}
		c.results = append(c.results, result)
		fmt.Fprintf(c.status, "%s: done (%d issue(s))\n", event.Target, len(event.Problems))
	}
}

// result returns the assembled run result. Call it only after the
// analyzer finished; it does not lock out concurrent consume calls
// beyond the snapshot.
func (c *collector) result() *model.RunResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return &model.RunResult{Results: c.results}
}
