// Package directory resolves service numbers to employee profiles. The ERP
// owns the data; this package wraps the lookup with a bounded read-through
// cache so listing pages do not hammer it.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"gate-pass-api-server/config"
	"gate-pass-api-server/internal/models"
)

// Lookup is the upstream profile source.
type Lookup interface {
	Profile(ctx context.Context, serviceNo string) (models.UserProfile, error)
}

// ERPClient calls the ERP employee endpoint over HTTP.
type ERPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewERPClient(cfg config.ERPConfig) *ERPClient {
	return &ERPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *ERPClient) Profile(ctx context.Context, serviceNo string) (models.UserProfile, error) {
	url := fmt.Sprintf("%s/employees/%s", c.baseURL, serviceNo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.UserProfile{}, err
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("erp lookup for %s: %w", serviceNo, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.UserProfile{}, fmt.Errorf("erp lookup for %s: status %d", serviceNo, resp.StatusCode)
	}

	var profile models.UserProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return models.UserProfile{}, fmt.Errorf("erp lookup for %s: decode: %w", serviceNo, err)
	}
	return profile, nil
}
