package archive

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

// Ensure Client implements Archive at compile time.
var (
	_ Archive  = (*Client)(nil)
	_ Searcher = (*Client)(nil)
	_ Getter   = (*Client)(nil)
)

// Client talks to a remote tideline API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultAPIBind   = "127.0.0.1:7650"
	defaultUserAgent = "tideline/0.1"
	requestTimeout   = 5 * time.Second
)

type entryListResponse struct {
	Entries []Entry `json:"entries"`
}

type tagListResponse struct {
	Tags []Tag `json:"tags"`
}

// NewClient builds a Client using the provided apiBind host:port value.
func NewClient(apiBind string) (*Client, error) {
	base, err := parseBaseURL(apiBind)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// FetchEntries retrieves every entry in the archive.
func (c *Client) FetchEntries(ctx context.Context) ([]Entry, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload entryListResponse
	if err := c.do(ctx, http.MethodGet, "/api/entries", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Entries, nil
}

// SearchEntries asks the server for the entries matching q.
func (c *Client) SearchEntries(ctx context.Context, q Query) ([]Entry, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	params := url.Values{}
	if text := strings.TrimSpace(q.Text); text != "" {
		params.Set("q", text)
	}
	for _, f := range q.Tags {
		params.Add("tag", f.Name+":"+f.Color)
	}
	var payload entryListResponse
	rel := &url.URL{Path: "/api/entries", RawQuery: params.Encode()}
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Entries, nil
}

// GetEntry retrieves one entry. A missing entry yields ErrNotFound.
func (c *Client) GetEntry(ctx context.Context, id string) (Entry, error) {
	if c == nil {
		return Entry{}, fmt.Errorf("client is nil")
	}
	path, err := entryPath(id)
	if err != nil {
		return Entry{}, err
	}
	var entry Entry
	if err := c.do(ctx, http.MethodGet, path, nil, &entry); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// ListTags retrieves the tag catalogue.
func (c *Client) ListTags(ctx context.Context) ([]Tag, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload tagListResponse
	if err := c.do(ctx, http.MethodGet, "/api/tags", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Tags, nil
}

// FetchStats retrieves archive statistics computed by the server.
func (c *Client) FetchStats(ctx context.Context) (Stats, error) {
	if c == nil {
		return Stats{}, fmt.Errorf("client is nil")
	}
	var payload Stats
	if err := c.do(ctx, http.MethodGet, "/api/stats", nil, &payload); err != nil {
		return Stats{}, err
	}
	return payload, nil
}

// AddEntry creates an entry and returns it with its assigned ID.
func (c *Client) AddEntry(ctx context.Context, entry NewEntry) (Entry, error) {
	if c == nil {
		return Entry{}, fmt.Errorf("client is nil")
	}
	if err := entry.Validate(); err != nil {
		return Entry{}, err
	}
	var created Entry
	if err := c.do(ctx, http.MethodPost, "/api/entries", entry, &created); err != nil {
		return Entry{}, err
	}
	return created, nil
}

// UpdateEntry replaces an entry's fields and tags. A missing entry yields
// ErrNotFound.
func (c *Client) UpdateEntry(ctx context.Context, id string, entry NewEntry) (Entry, error) {
	if c == nil {
		return Entry{}, fmt.Errorf("client is nil")
	}
	path, err := entryPath(id)
	if err != nil {
		return Entry{}, err
	}
	if err := entry.Validate(); err != nil {
		return Entry{}, err
	}
	var updated Entry
	if err := c.do(ctx, http.MethodPut, path, entry, &updated); err != nil {
		return Entry{}, err
	}
	return updated, nil
}

// DeleteEntry removes an entry. A missing entry yields ErrNotFound.
func (c *Client) DeleteEntry(ctx context.Context, id string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	path, err := entryPath(id)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func entryPath(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("entry id required")
	}
	return "/api/entries/" + url.PathEscape(id), nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, method, rel, body, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound && strings.HasPrefix(rel.Path, "/api/entries/") {
		return ErrNotFound
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", rel.String(), resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(apiBind string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBind)
	if trimmed == "" {
		trimmed = defaultAPIBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_bind %q: %w", apiBind, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
