package fuzzdex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Health reports the aggregated service health. An unhealthy service
// answers 503 but still carries a full report, so that case returns
// the report rather than an error; only transport failures error.
func (c *Client) Health(ctx context.Context) (h Health, err error) {
	defer func(start time.Time) { c.obs.observe("health", start, err) }(time.Now())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return Health{}, fmt.Errorf("fuzzdex: build request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return Health{}, fmt.Errorf("fuzzdex: GET /health: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusServiceUnavailable {
		return Health{}, decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return Health{}, fmt.Errorf("fuzzdex: decode health: %w", err)
	}
	return h, nil
}
