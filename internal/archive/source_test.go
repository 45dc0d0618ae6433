package archive

import (
	"context"
	"errors"
	"testing"
)

type sliceSource []Entry

func (s sliceSource) FetchEntries(context.Context) ([]Entry, error) {
	return s, nil
}

type searchingSource struct {
	sliceSource
	searched *Query
}

func (s searchingSource) SearchEntries(_ context.Context, q Query) ([]Entry, error) {
	*s.searched = q
	return s.sliceSource[:1], nil
}

func TestSearch_FallsBackToFilter(t *testing.T) {
	got, err := Search(context.Background(), sliceSource(searchFixture()), Query{Text: "run"})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "2" {
		t.Fatalf("Search = %#v, want entries 1 and 2", got)
	}
}

func TestSearch_DelegatesActiveQueries(t *testing.T) {
	var searched Query
	src := searchingSource{sliceSource: searchFixture(), searched: &searched}

	got, err := Search(context.Background(), src, Query{Text: "book"})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if searched.Text != "book" || len(got) != 1 {
		t.Fatalf("Search = %#v (searched %#v), want delegated result", got, searched)
	}

	searched = Query{}
	all, err := Search(context.Background(), src, Query{})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(all) != 4 || searched.Text != "" {
		t.Fatalf("inactive Search = %d entries, want all 4 without delegating", len(all))
	}
}

func TestGet_FindsByIDOrNotFound(t *testing.T) {
	src := sliceSource(searchFixture())

	e, err := Get(context.Background(), src, "3")
	if err != nil || e.Description != "Quiet day" {
		t.Fatalf("Get(3) = %#v, %v; want Quiet day", e, err)
	}
	if _, err := Get(context.Background(), src, "9"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(9) error = %v, want ErrNotFound", err)
	}
}
