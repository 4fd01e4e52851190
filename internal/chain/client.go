package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// Options configures the node client.
type Options struct {
	Timeout  time.Duration
	RetryMax int
	Logger   *slog.Logger
}

// Client is a read-only client for the Aptos fullnode REST API.
type Client struct {
	baseURL string
	http    *retryablehttp.Client
}

// NewClient builds a client for the node at baseURL (for example
// https://fullnode.testnet.aptoslabs.com/v1).
func NewClient(baseURL string, opts Options) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid node url %q", baseURL)
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = opts.RetryMax
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	if opts.Timeout > 0 {
		rc.HTTPClient.Timeout = opts.Timeout
	}
	rc.Logger = nil
	if opts.Logger != nil {
		rc.Logger = opts.Logger
	}

	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: rc}, nil
}

// AccountResources lists every resource stored under address.
func (c *Client) AccountResources(ctx context.Context, address string) ([]Resource, error) {
	addr, err := NormalizeAddress(address)
	if err != nil {
		return nil, err
	}
	var resources []Resource
	if err := c.getJSON(ctx, "/accounts/"+addr+"/resources", &resources); err != nil {
		return nil, fmt.Errorf("get resources for %s: %w", addr, err)
	}
	return resources, nil
}

// LedgerInfo returns the node's current ledger information.
func (c *Client) LedgerInfo(ctx context.Context) (LedgerInfo, error) {
	var info LedgerInfo
	if err := c.getJSON(ctx, "", &info); err != nil {
		return LedgerInfo{}, fmt.Errorf("get ledger info: %w", err)
	}
	return info, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{Status: resp.StatusCode}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(body))
		}
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %v", ErrAccountNotFound, apiErr)
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
