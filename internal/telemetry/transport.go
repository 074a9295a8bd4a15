package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Transport delivers telemetry events. The gate holds exactly one
// transport for the process lifetime; a disabled gate never calls it.
type Transport interface {
	// Track sends one named event with string-keyed properties and
	// numeric measurements.
	Track(ctx context.Context, event string, properties map[string]any, measurements map[string]float64) error
}

// Noop is a Transport that discards everything. It backs the disabled
// and uninitialized gate states.
type Noop struct{}

// Track discards the event.
func (Noop) Track(context.Context, string, map[string]any, map[string]float64) error {
	return nil
}

// HTTP posts events as JSON to a collection endpoint.
type HTTP struct {
	// Endpoint is the collection URL events are POSTed to.
	Endpoint string

	// Client is the HTTP client used for delivery. A short-timeout
	// default is used when nil so telemetry can never stall a run.
	Client *http.Client
}

// event is the wire shape of one tracked event.
type event struct {
	Name         string             `json:"name"`
	Timestamp    time.Time          `json:"timestamp"`
	Properties   map[string]any     `json:"properties,omitempty"`
	Measurements map[string]float64 `json:"measurements,omitempty"`
}

// Track delivers the event, dropping it on any transport failure.
// Telemetry is best-effort; a failed send must never fail the run.
func (h *HTTP) Track(ctx context.Context, name string, properties map[string]any, measurements map[string]float64) error {
	client := h.Client
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}

	payload, err := json.Marshal(event{
		Name:         name,
		Timestamp:    time.Now().UTC(),
		Properties:   properties,
		Measurements: measurements,
	})
	if err != nil {
		return fmt.Errorf("failed to encode telemetry event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build telemetry request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send telemetry event: %w", err)
	}
	return resp.Body.Close()
}
