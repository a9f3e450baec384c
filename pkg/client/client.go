// Package client is a Go client for the advocates directory API, plus a
// search controller that debounces filter edits and pages results.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/advocates-api/internal/models"
	"github.com/noah-isme/advocates-api/pkg/pagination"
)

// Filters are the raw filter inputs as a user typed them. Empty fields are
// not sent.
type Filters struct {
	Query     string
	City      string
	Degree    string
	Specialty string
	MinYears  string
	MaxYears  string
}

// Values encodes the non-empty filters as query parameters.
func (f Filters) Values() url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			v.Set(key, value)
		}
	}
	set("q", f.Query)
	set("city", f.City)
	set("degree", f.Degree)
	set("specialty", f.Specialty)
	set("minYears", f.MinYears)
	set("maxYears", f.MaxYears)
	return v
}

// Page is one decoded search response.
type Page struct {
	Advocates []models.Advocate      `json:"data"`
	PageInfo  pagination.PageInfo    `json:"pageInfo"`
	Meta      map[string]interface{} `json:"meta,omitempty"`
}

// CursorIgnored reports whether the server discarded the supplied cursor.
func (p *Page) CursorIgnored() bool {
	ignored, _ := p.Meta["cursorIgnored"].(bool)
	return ignored
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("advocates api: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("advocates api: status %d", e.StatusCode)
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// Client calls the search endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client for baseURL, which includes the API prefix
// (for example http://localhost:8080/api/v1).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search fetches one page. An empty cursor requests the first page and a
// non-positive limit leaves the server default.
func (c *Client) Search(ctx context.Context, filters Filters, cursor string, limit int) (*Page, error) {
	params := filters.Values()
	if cursor != "" {
		params.Set("cursor", cursor)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	endpoint := c.baseURL + "/advocates"
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search advocates: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		var env struct {
			Error *struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(body, &env) == nil && env.Error != nil {
			statusErr.Code = env.Error.Code
			statusErr.Message = env.Error.Message
		}
		return nil, statusErr
	}

	var page Page
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	if page.Advocates == nil {
		page.Advocates = []models.Advocate{}
	}
	return &page, nil
}
