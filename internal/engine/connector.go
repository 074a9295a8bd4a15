package engine

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/hintscan/hintscan/internal/model"
)

// maxBodySize caps how much of a response body is read. 5MB covers any
// reasonable HTML page while bounding memory per concurrent fetch.
const maxBodySize = 5 * 1024 * 1024

// Connector fetches a target and turns it into a Resource.
type Connector interface {
	// Name returns the connector's configuration name.
	Name() string

	// Fetch retrieves the target. A non-2xx status is not an error;
	// hints may want to inspect error responses too.
	Fetch(ctx context.Context, target *model.Target) (*Resource, error)
}

// httpConnector fetches targets over HTTP(S).
type httpConnector struct {
	client *http.Client
}

// newHTTPConnector creates an HTTP connector with the given per-request
// timeout.
func newHTTPConnector(timeout time.Duration) *httpConnector {
	return &httpConnector{
		client: &http.Client{Timeout: timeout},
	}
}

// Name returns "http".
func (c *httpConnector) Name() string { return "http" }

// Fetch performs a GET request against the target.
func (c *httpConnector) Fetch(ctx context.Context, target *model.Target) (*Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", target, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", target, err)
	}
	defer resp.Body.Close() //nolint:errcheck // Read side already consumed

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", target, err)
	}

	return &Resource{
		Target:     target.String(),
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}, nil
}

// localConnector reads file: targets from the filesystem.
type localConnector struct{}

// Name returns "local".
func (localConnector) Name() string { return "local" }

// Fetch reads the target file. Local resources carry no headers, so
// header-based hints pass trivially on them.
func (localConnector) Fetch(_ context.Context, target *model.Target) (*Resource, error) {
	body, err := os.ReadFile(target.URL.Path) //nolint:gosec // Scanning user-named files is the point
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", target, err)
	}
	return &Resource{
		Target:     target.String(),
		StatusCode: http.StatusOK,
		Headers:    http.Header{},
		Body:       body,
	}, nil
}

// newConnector maps a configured connector name to an implementation.
// The set of valid names is validated during analyzer construction, so
// an unknown name here is a programming error.
func newConnector(name string, timeout time.Duration) (Connector, error) {
	switch name {
	case "http":
		return newHTTPConnector(timeout), nil
	case "local":
		return localConnector{}, nil
	default:
		return nil, fmt.Errorf("unknown connector %q", name)
	}
}
