package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"apex-tracker/internal/core/httpclient"
	"apex-tracker/internal/features/tracking/domain"
	"apex-tracker/internal/features/tracking/service"
)

// APIClient fetches tracking views from a running apex-tracker API.
type APIClient struct {
	baseURL string
	client  *http.Client
}

// NewAPIClient creates an APIClient for baseURL, e.g. http://localhost:8080.
func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpclient.NewClient(timeout),
	}
}

// Track calls GET /tracking/{id}. A 404 maps to service.ErrTrackingNotFound.
func (c *APIClient) Track(ctx context.Context, trackingID string) (*domain.TrackingViewModel, error) {
	endpoint := fmt.Sprintf("%s/tracking/%s", c.baseURL, url.PathEscape(strings.TrimSpace(trackingID)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tracking: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, service.ErrTrackingNotFound
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var vm domain.TrackingViewModel
	if err := json.NewDecoder(resp.Body).Decode(&vm); err != nil {
		return nil, fmt.Errorf("failed to decode tracking: %w", err)
	}
	return &vm, nil
}
