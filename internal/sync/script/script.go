// Package script implements the sync ports against a plain HTTP(S) script
// endpoint: POST the JSON-encoded record array, GET it back. This mirrors
// the spreadsheet web-app contract the ledger was originally built against,
// where the push response is opaque to the caller.
package script

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/DaviiSA/AppControle/internal/core"
	appsync "github.com/DaviiSA/AppControle/internal/sync"
)

type Client struct {
	httpClient *http.Client
}

// Ensure interface conformance
var (
	_ appsync.Pusher = (*Client)(nil)
	_ appsync.Puller = (*Client)(nil)
)

// New creates a script endpoint client. A nil httpClient falls back to a
// default client without a request timeout: an unresponsive endpoint hangs
// the pending operation, it is never aborted behind the caller's back.
func New(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{httpClient: httpClient}
}

// Push POSTs the full collection to the endpoint. The response status and
// body are deliberately not inspected: the endpoint contract is
// fire-and-forget, and success means the request left without a transport
// error.
func (c *Client) Push(ctx context.Context, endpoint string, records []core.TransactionRecord) error {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return appsync.ErrNoEndpoint
	}
	if records == nil {
		records = []core.TransactionRecord{}
	}

	body, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", appsync.ErrTransport, err)
	}
	// Drain so the connection can be reused; the status itself is opaque.
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	slog.InfoContext(ctx, "Pushed ledger to sync endpoint", "records", len(records))
	return nil
}

// Pull GETs the full collection from the endpoint. A non-2xx status fails
// with ErrResponse; the decoded payload is returned verbatim with no
// re-validation against the ledger invariants.
func (c *Client) Pull(ctx context.Context, endpoint string) ([]core.TransactionRecord, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, appsync.ErrNoEndpoint
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build pull request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appsync.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", appsync.ErrResponse, resp.StatusCode)
	}

	var records []core.TransactionRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode pull response: %w", err)
	}

	slog.InfoContext(ctx, "Pulled ledger from sync endpoint", "records", len(records))
	return records, nil
}
