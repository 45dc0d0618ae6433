package archive

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Host != defaultAPIBind {
		t.Fatalf("host = %q, want %q", u.Host, defaultAPIBind)
	}

	u, err = parseBaseURL("http://example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestClient_FetchesAndMutatesEntries(t *testing.T) {
	t.Parallel()

	var gotUserAgent string
	var posted NewEntry
	var deletedPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/entries":
			_ = json.NewEncoder(w).Encode(entryListResponse{Entries: []Entry{
				{ID: "a", Date: "2025-06-01", Tags: []Tag{{Name: "sport", Color: "#112233"}}},
			}})
		case r.Method == http.MethodPost && r.URL.Path == "/api/entries":
			_ = json.NewDecoder(r.Body).Decode(&posted)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(Entry{ID: "new", Date: posted.Date, Tags: posted.Tags})
		case r.Method == http.MethodGet && r.URL.Path == "/api/tags":
			_ = json.NewEncoder(w).Encode(tagListResponse{Tags: []Tag{{ID: "t1", Name: "sport", Color: "#112233"}}})
		case r.Method == http.MethodDelete && r.URL.Path == "/api/entries/a":
			deletedPath = r.URL.Path
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodDelete:
			http.NotFound(w, r)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	entries, err := c.FetchEntries(ctx)
	if err != nil {
		t.Fatalf("FetchEntries returned error: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "a" || entries[0].Tags[0].Name != "sport" {
		t.Fatalf("FetchEntries payload = %#v, want one sport entry", entries)
	}
	if gotUserAgent != defaultUserAgent {
		t.Fatalf("User-Agent = %q, want %q", gotUserAgent, defaultUserAgent)
	}

	created, err := c.AddEntry(ctx, NewEntry{Date: "2025-06-02", Tags: []Tag{{Name: "walk", Color: "#abc"}}})
	if err != nil {
		t.Fatalf("AddEntry returned error: %v", err)
	}
	if created.ID != "new" || posted.Date != "2025-06-02" {
		t.Fatalf("AddEntry = %#v (posted %#v), want id=new date=2025-06-02", created, posted)
	}

	tags, err := c.ListTags(ctx)
	if err != nil {
		t.Fatalf("ListTags returned error: %v", err)
	}
	if len(tags) != 1 || tags[0].ID != "t1" {
		t.Fatalf("ListTags = %#v, want t1", tags)
	}

	if err := c.DeleteEntry(ctx, "a"); err != nil {
		t.Fatalf("DeleteEntry returned error: %v", err)
	}
	if deletedPath != "/api/entries/a" {
		t.Fatalf("delete path = %q, want /api/entries/a", deletedPath)
	}
	if err := c.DeleteEntry(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("DeleteEntry(missing) error = %v, want ErrNotFound", err)
	}
}

func TestClient_UpdatesGetsAndSearchesEntries(t *testing.T) {
	t.Parallel()

	var put NewEntry
	var gotQuery url.Values

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/api/entries/a":
			_ = json.NewDecoder(r.Body).Decode(&put)
			_ = json.NewEncoder(w).Encode(Entry{ID: "a", Date: put.Date, Description: put.Description})
		case r.Method == http.MethodGet && r.URL.Path == "/api/entries/a":
			_ = json.NewEncoder(w).Encode(Entry{ID: "a", Date: "2025-06-03"})
		case r.Method == http.MethodGet && r.URL.Path == "/api/entries":
			gotQuery = r.URL.Query()
			_ = json.NewEncoder(w).Encode(entryListResponse{Entries: []Entry{{ID: "a", Date: "2025-06-03"}}})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	updated, err := c.UpdateEntry(ctx, "a", NewEntry{Date: "2025-06-03", Description: "long run"})
	if err != nil {
		t.Fatalf("UpdateEntry returned error: %v", err)
	}
	if updated.Description != "long run" || put.Date != "2025-06-03" {
		t.Fatalf("UpdateEntry = %#v (sent %#v), want long run on 2025-06-03", updated, put)
	}
	if _, err := c.UpdateEntry(ctx, "missing", NewEntry{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("UpdateEntry(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := c.UpdateEntry(ctx, "a", NewEntry{Date: "soon"}); err == nil {
		t.Fatalf("UpdateEntry with bad date returned nil error")
	}

	got, err := c.GetEntry(ctx, "a")
	if err != nil || got.ID != "a" {
		t.Fatalf("GetEntry = %#v, %v; want entry a", got, err)
	}
	if _, err := c.GetEntry(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetEntry(missing) error = %v, want ErrNotFound", err)
	}

	found, err := c.SearchEntries(ctx, Query{Text: " run ", Tags: []TagFilter{{Name: "sport", Color: "#AA0000"}}})
	if err != nil {
		t.Fatalf("SearchEntries returned error: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("SearchEntries = %#v, want one entry", found)
	}
	if gotQuery.Get("q") != "run" || gotQuery.Get("tag") != "sport:#AA0000" {
		t.Fatalf("search query = %v, want q=run tag=sport:#AA0000", gotQuery)
	}
}

func TestClient_AddEntryValidatesBeforeSending(t *testing.T) {
	c, err := NewClient("127.0.0.1:1")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.AddEntry(context.Background(), NewEntry{Date: "June 1st"})
	if err == nil {
		t.Fatalf("AddEntry returned nil error, want date error")
	}
}

func TestClient_ReturnsErrorOnHTTPStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.FetchEntries(context.Background()); err == nil {
		t.Fatalf("FetchEntries returned nil error, want status error")
	}
}

func TestClient_NilReceiverErrors(t *testing.T) {
	var c *Client
	if _, err := c.FetchEntries(context.Background()); err == nil {
		t.Fatalf("FetchEntries on nil client returned nil error")
	}
	if err := c.DeleteEntry(context.Background(), "x"); err == nil {
		t.Fatalf("DeleteEntry on nil client returned nil error")
	}
}
