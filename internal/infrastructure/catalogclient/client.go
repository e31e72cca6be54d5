// Package catalogclient reads the catalog from the commerce platform's HTTP API.
package catalogclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cellarhouse/storefront-cache/internal/core/domain/catalog"
	"github.com/cellarhouse/storefront-cache/internal/core/ports"
)

// maxBody caps how much of a response is read.
const maxBody = 32 << 20

// Client implements ports.CatalogSource over HTTP JSON.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

var _ ports.CatalogSource = (*Client)(nil)

// New creates a client for baseURL. A nil client gets one with the given timeout.
func New(baseURL, apiKey string, timeout time.Duration, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, client: client}
}

func (c *Client) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	var out []catalog.Product
	if err := c.getList(ctx, "/products", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListCollections(ctx context.Context) ([]catalog.Collection, error) {
	var out []catalog.Collection
	if err := c.getList(ctx, "/collections", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListInventory(ctx context.Context) ([]catalog.InventoryLine, error) {
	var out []catalog.InventoryLine
	if err := c.getList(ctx, "/inventory", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) BestSellers(ctx context.Context, limit int) ([]catalog.Product, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out []catalog.Product
	if err := c.getList(ctx, "/recommendations/best-sellers", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// getList fetches path and decodes either a bare JSON array or an {"items": [...]} envelope.
func (c *Client) getList(ctx context.Context, path string, query url.Values, out any) error {
	if c.baseURL == "" {
		return fmt.Errorf("catalog base url is not configured")
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog %s returned %s", path, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("read catalog response %s: %w", path, err)
	}
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '{' {
		var envelope struct {
			Items json.RawMessage `json:"items"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return fmt.Errorf("decode catalog response %s: %w", path, err)
		}
		body = envelope.Items
	}
	if len(body) == 0 || string(body) == "null" {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode catalog response %s: %w", path, err)
	}
	return nil
}
