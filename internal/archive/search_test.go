package archive

import "testing"

func searchFixture() []Entry {
	return []Entry{
		{ID: "1", Description: "Morning run by the river", Tags: []Tag{{Name: "sport", Color: "#111111"}, {Name: "running", Color: "#222222"}}},
		{ID: "2", Description: "Dinner with family", Tags: []Tag{{Name: "family", Color: "#333333"}, {Name: "run", Color: "#444444"}}},
		{ID: "3", Description: "Quiet day", Tags: nil},
		{ID: "4", Description: "Read a book", Tags: []Tag{{Name: "reading", Color: "#555555"}}},
	}
}

func TestQuery_Matches(t *testing.T) {
	entries := searchFixture()

	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{"inactive matches nothing in MatchIDs", Query{}, nil},
		{"tag name substring", Query{Text: "run"}, []string{"1", "2"}},
		{"description case insensitive", Query{Text: "QUIET"}, []string{"3"}},
		{"tag filter by name and color", Query{Tags: []TagFilter{{Name: "family", Color: "#333333"}}}, []string{"2"}},
		{"tag filter color mismatch", Query{Tags: []TagFilter{{Name: "family", Color: "#000000"}}}, nil},
		{"text and filter combined", Query{Text: "dinner", Tags: []TagFilter{{Name: "sport", Color: "#111111"}}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.query.MatchIDs(entries)
			if len(got) != len(tt.want) {
				t.Fatalf("MatchIDs = %v, want %v", got, tt.want)
			}
			for _, id := range tt.want {
				if !got[id] {
					t.Fatalf("MatchIDs = %v, missing %q", got, id)
				}
			}
		})
	}
}

func TestFilter_InactiveReturnsAll(t *testing.T) {
	entries := searchFixture()
	if got := Filter(entries, Query{Text: "   "}); len(got) != len(entries) {
		t.Fatalf("Filter with blank query returned %d entries, want %d", len(got), len(entries))
	}
	got := Filter(entries, Query{Text: "read"})
	if len(got) != 1 || got[0].ID != "4" {
		t.Fatalf("Filter(read) = %#v, want entry 4", got)
	}
}

func TestDisplayTag_PrefersFilterThenExactThenPartial(t *testing.T) {
	entries := searchFixture()

	tests := []struct {
		name  string
		entry Entry
		query Query
		want  string
	}{
		{"no query uses first tag", entries[0], Query{}, "sport"},
		{"exact name beats earlier partial", entries[0], Query{Text: "running"}, "running"},
		{"partial match", entries[0], Query{Text: "spo"}, "sport"},
		{"exact match over partial on same entry", entries[1], Query{Text: "run"}, "run"},
		{"description-only match keeps first tag", entries[1], Query{Text: "dinner"}, "family"},
		{"filter tag wins", entries[1], Query{Text: "fam", Tags: []TagFilter{{Name: "run", Color: "#444444"}}}, "run"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DisplayTag(tt.entry, tt.query)
			if !ok {
				t.Fatalf("DisplayTag returned ok=false")
			}
			if got.Name != tt.want {
				t.Fatalf("DisplayTag = %q, want %q", got.Name, tt.want)
			}
		})
	}

	if _, ok := DisplayTag(entries[2], Query{Text: "quiet"}); ok {
		t.Fatalf("DisplayTag on untagged entry returned ok=true")
	}
}
