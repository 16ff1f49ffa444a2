package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/tezedge/tezedge-snapshots/metrics"
)

const (
	headHeaderPath = "chains/main/blocks/head/header"

	requestTimeout = 10 * time.Second
)

// ErrNodeUnreachable covers every way the head query can fail: transport
// errors, timeouts, bad statuses and undecodable bodies. Callers only ever
// decide between "wait and retry" and "proceed", so the sub-causes are not
// worth distinguishing.
var ErrNodeUnreachable = errors.New("the tezedge node is unreachable")

// HeadHeader is the part of the node's block header this tool cares about.
// Only the hash is required, the level is kept for logs and metrics.
type HeadHeader struct {
	Hash  string `json:"hash"`
	Level int64  `json:"level"`
}

// Client queries the tezedge node RPC server.
type Client struct {
	httpClient *http.Client
	headURL    string
}

// NewClient builds a client for the node listening at nodeURL. The URL is
// validated here so a malformed one fails at startup, not mid-cycle.
func NewClient(nodeURL string) (*Client, error) {
	base, err := url.Parse(nodeURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse node url %q: %w", nodeURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("node url %q is missing a scheme or a host", nodeURL)
	}

	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		headURL:    base.JoinPath(headHeaderPath).String(),
	}, nil
}

// GetHeadHeader performs a single read of the node's head endpoint. No
// retries happen here, retry policy belongs to the caller.
func (c *Client) GetHeadHeader(ctx context.Context) (*HeadHeader, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.headURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNodeUnreachable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNodeUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %s", ErrNodeUnreachable, resp.Status)
	}

	header := HeadHeader{}
	if err := json.NewDecoder(resp.Body).Decode(&header); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNodeUnreachable, err)
	}
	if header.Hash == "" {
		return nil, fmt.Errorf("%w: head header carries no block hash", ErrNodeUnreachable)
	}

	metrics.HeadLevelSet(header.Level)

	return &header, nil
}
