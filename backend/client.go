// Package backend provides the REST client for the e-commerce backend that
// the agent's tools proxy to.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is the e-commerce backend client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new backend client. The apiKey authenticates the
// agent-only cart endpoints via the x-api-key header.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// dataEnvelope is the backend's standard response wrapper.
type dataEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// SearchProducts looks up products by name. Returns the raw product list.
func (c *Client) SearchProducts(ctx context.Context, query string) (json.RawMessage, error) {
	endpoint := c.baseURL + "/products?search=" + url.QueryEscape(query)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(httpReq)
}

// GetProductDetail retrieves a single product by id.
func (c *Client) GetProductDetail(ctx context.Context, productID string) (json.RawMessage, error) {
	endpoint := c.baseURL + "/products/" + url.PathEscape(productID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(httpReq)
}

// GetUserCart retrieves the cart of a user.
func (c *Client) GetUserCart(ctx context.Context, userID string) (json.RawMessage, error) {
	body, err := json.Marshal(map[string]string{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/agent/cart/", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setAgentHeaders(httpReq)
	return c.do(httpReq)
}

// AddProductToCart adds a product to a user's cart.
func (c *Client) AddProductToCart(ctx context.Context, userID, productID string, quantity int) (json.RawMessage, error) {
	body, err := json.Marshal(map[string]any{
		"userId":    userID,
		"productId": productID,
		"quantity":  quantity,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/agent/cart/items", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setAgentHeaders(httpReq)
	return c.do(httpReq)
}

// do sends the request and unwraps the backend's {"data": ...} envelope.
func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("backend error [%d]: %s", resp.StatusCode, string(respBody))
	}

	var envelope dataEnvelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if envelope.Data == nil {
		return json.RawMessage("null"), nil
	}
	return envelope.Data, nil
}

// setAgentHeaders sets the headers required by agent-only endpoints.
func (c *Client) setAgentHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
}
