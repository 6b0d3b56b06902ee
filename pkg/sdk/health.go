package tornamcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// HealthStatus represents the server readiness report.
type HealthStatus struct {
	Status string            `json:"status"` // "ok" or "degraded"
	Checks map[string]string `json:"checks"` // component → "ok"/"error"/"skipped"
}

// Health queries GET /ready. A degraded server answers 503 with a report,
// which is returned without error.
func (c *Client) Health(ctx context.Context) (status HealthStatus, err error) {
	start := time.Now()
	defer func() { c.obs.observe("health", start, err) }()

	err = c.do(ctx, http.MethodGet, "/ready", nil, &status)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusServiceUnavailable {
		if json.Unmarshal(apiErr.body, &status) != nil || status.Status == "" {
			status = HealthStatus{Status: "degraded"}
		}
		return status, nil
	}
	if err != nil {
		return HealthStatus{}, fmt.Errorf("health: %w", err)
	}
	return status, nil
}
