// Package thor provides an HTTP client for a VeChain Thor node's REST API.
package thor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cosmossdk.io/log"
)

// DefaultTimeout is the default HTTP timeout for a single request.
const DefaultTimeout = 10 * time.Second

// Client talks to a Thor node's REST API. It holds no state beyond the
// endpoint and performs no retries; every method is a single synchronous
// network call.
type Client struct {
	baseURL string
	client  *http.Client
	logger  log.Logger
}

// NewClient creates a new Client for the given node base URL.
func NewClient(baseURL string, logger log.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: logger.With("module", "thor"),
	}
}

// BaseURL returns the configured node endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetBlock fetches a block by revision: "best", a block number, or a block id.
func (c *Client) GetBlock(ctx context.Context, revision string) (*Block, error) {
	url := fmt.Sprintf("%s/blocks/%s", c.baseURL, revision)
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var block Block
	if err := json.Unmarshal(body, &block); err != nil {
		return nil, fmt.Errorf("failed to parse block response: %w", err)
	}
	return &block, nil
}

// GetAccount fetches account state at the given revision (usually "best").
func (c *Client) GetAccount(ctx context.Context, address, revision string) (*Account, error) {
	url := fmt.Sprintf("%s/accounts/%s?revision=%s", c.baseURL, address, revision)
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var account Account
	if err := json.Unmarshal(body, &account); err != nil {
		return nil, fmt.Errorf("failed to parse account response: %w", err)
	}
	return &account, nil
}

// SubmitTransaction posts a signed, hex-encoded raw transaction and returns
// the transaction id assigned by the node. Node-side rejections surface as
// a RequestError carrying the response body.
func (c *Client) SubmitTransaction(ctx context.Context, raw string) (string, error) {
	url := c.baseURL + "/transactions"

	payload, err := json.Marshal(map[string]string{"raw": raw})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return "", err
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse transaction response: %w", err)
	}

	c.logger.Debug("transaction submitted", "id", result.ID)
	return result.ID, nil
}

// GetReceipt fetches the receipt for a transaction id. A pending transaction
// is not an error: the node answers 200 with a null body, and GetReceipt
// returns (nil, nil).
func (c *Client) GetReceipt(ctx context.Context, txID string) (*Receipt, error) {
	url := fmt.Sprintf("%s/transactions/%s/receipt", c.baseURL, txID)
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(body)) == 0 || bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return nil, nil
	}

	var receipt Receipt
	if err := json.Unmarshal(body, &receipt); err != nil {
		return nil, fmt.Errorf("failed to parse receipt response: %w", err)
	}
	return &receipt, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &RequestError{Endpoint: req.URL.String(), Body: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Endpoint: req.URL.String(), StatusCode: resp.StatusCode, Body: err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &RequestError{
			Endpoint:   req.URL.String(),
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}
	return body, nil
}
