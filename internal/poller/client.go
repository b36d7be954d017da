// Package poller is the client side of the external poller process: the
// dashboard never polls providers itself, it can only ask that process to
// run one batch.
package poller

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrNotConfigured is returned when the poller base URL or credential is
// missing from the environment. The trigger endpoint reports it instead of
// attempting a call that cannot be authorized.
var ErrNotConfigured = errors.New("poller trigger not configured: set SORA_POLLER_BASE_URL and ADMIN_DASHBOARD_TOKEN")

// TriggerResult is the payload the poller returns after a one-shot run.
type TriggerResult struct {
	Processed int `json:"processed"`
	Updated   int `json:"updated"`
}

type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

// TriggerRun asks the poller to process one batch of at most limit jobs.
// The call may change store data; the caller is expected to re-read after
// a successful trigger.
func (c *Client) TriggerRun(ctx context.Context, limit int) (*TriggerResult, error) {
	if c.baseURL == "" || c.token == "" {
		return nil, ErrNotConfigured
	}

	url := fmt.Sprintf("%s/api/sora/poller?limit=%d", c.baseURL, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building poller request")
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "poller request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errors.Wrap(err, "reading poller response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.Errorf("poller failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result TriggerResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, errors.Wrap(err, "decoding poller response")
	}
	return &result, nil
}
