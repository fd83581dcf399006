package onemotoring

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/lowkh/coewatch/pkg/httputil"
	"github.com/lowkh/coewatch/pkg/logger"
)

// Client fetches published COE bidding results from the OneMotoring
// site. Used to keep the record archive current between dataset
// snapshots.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new OneMotoring client
func NewClient(baseURL string, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.WithComponent("onemotoring.client"),
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// fetchHTML fetches an HTML page from the site
func (c *Client) fetchHTML(ctx context.Context, path string) (string, error) {
	fullURL := fmt.Sprintf("%s%s", c.baseURL, path)

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), nil
}
