// Package client talks to the remote items REST API.
package client

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

	"github.com/google/uuid"

	"github.com/erazemk/itemdesk/internal/model"
)

// DefaultBaseURL is the API the original front end was built against.
const DefaultBaseURL = "https://skylord.ru/test"

// Client issues CRUD requests against a fixed base URL.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the API at baseURL. A nil httpClient uses
// http.DefaultClient.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must be http or https", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    httpClient,
	}, nil
}

// BaseURL returns the normalized base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListItems handles GET /.
func (c *Client) ListItems(ctx context.Context) ([]model.Summary, error) {
	var summaries []model.Summary
	if err := c.do(ctx, http.MethodGet, "/", nil, &summaries); err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	return summaries, nil
}

// GetItem handles GET /{id}. An empty 2xx body is an ErrEmptyResponse.
func (c *Client) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	var item *model.Item
	if err := c.do(ctx, http.MethodGet, itemPath(id), nil, &item); err != nil {
		return nil, fmt.Errorf("getting item %d: %w", id, err)
	}
	if item == nil {
		return nil, fmt.Errorf("getting item %d: %w", id, ErrEmptyResponse)
	}
	return item, nil
}

// CreateItem handles POST /. The server assigns the id.
func (c *Client) CreateItem(ctx context.Context, draft model.Draft) (*model.Item, error) {
	var item *model.Item
	if err := c.do(ctx, http.MethodPost, "/", draft, &item); err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}
	return item, nil
}

// UpdateItem handles PUT /{id}, replacing the whole record.
func (c *Client) UpdateItem(ctx context.Context, id int64, item model.Item) (*model.Item, error) {
	item.ID = id
	var updated *model.Item
	if err := c.do(ctx, http.MethodPut, itemPath(id), item, &updated); err != nil {
		return nil, fmt.Errorf("updating item %d: %w", id, err)
	}
	return updated, nil
}

// DeleteItem handles DELETE /{id}.
func (c *Client) DeleteItem(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, itemPath(id), nil, nil); err != nil {
		return fmt.Errorf("deleting item %d: %w", id, err)
	}
	return nil
}

func itemPath(id int64) string {
	return "/" + strconv.FormatInt(id, 10)
}

// do sends a JSON request and decodes the JSON response into out.
// An empty response body leaves out untouched.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Method:     method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Body:       snippet(data),
		}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
