// Package sensor fetches readings from a HydroGuard device over the LAN and
// keeps the rolling heart-rate series shown on the dashboard.
package sensor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hydroguard/hydroguard/internal/errors"
	"github.com/hydroguard/hydroguard/internal/logger"
)

// DefaultEndpoint is where a HydroGuard device serves readings in AP mode.
const DefaultEndpoint = "http://192.168.4.1/sensors"

// Fetcher retrieves one sensor reading.
type Fetcher interface {
	Fetch(ctx context.Context) (*Reading, error)
}

// Client fetches readings with a plain unauthenticated GET.
type Client struct {
	endpoint string
	http     *http.Client
	log      logger.Logger
}

// NewClient creates a client for endpoint. A zero timeout means the request
// can hang for as long as the device keeps the connection open.
func NewClient(endpoint string, timeout time.Duration, log logger.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if log == nil {
		log = logger.Noop()
	}
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
		log:      log,
	}
}

// Endpoint returns the URL the client polls.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Fetch issues one GET and decodes the body. Any non-2xx status, transport
// error, or malformed body is returned as an ErrFetch error. No retries.
func (c *Client) Fetch(ctx context.Context) (*Reading, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrFetch,
			"Invalid sensor endpoint: "+c.endpoint,
			"Set sensor.endpoint to a full URL like http://192.168.4.1/sensors")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("GET %s failed: %v", c.endpoint, err)
		return nil, errors.WrapWithCode(err, errors.ErrFetch,
			"Cannot reach the sensor endpoint",
			"Check the device is powered on and you are on its network")
	}
	defer resp.Body.Close()

	c.log.Debug("GET %s -> %d in %s", c.endpoint, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.New(errors.ErrFetch,
			fmt.Sprintf("Sensor endpoint returned %d", resp.StatusCode),
			"The device is reachable but not serving readings; try restarting it")
	}

	var reading Reading
	if err := json.NewDecoder(resp.Body).Decode(&reading); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrFetch,
			"Sensor endpoint returned malformed JSON",
			"Make sure the endpoint points at a HydroGuard /sensors route")
	}

	return &reading, nil
}
