package archive

import "context"

// Source supplies the entry snapshot a render pass works from.
type Source interface {
	FetchEntries(ctx context.Context) ([]Entry, error)
}

// Writer mutates an archive.
type Writer interface {
	AddEntry(ctx context.Context, entry NewEntry) (Entry, error)
	UpdateEntry(ctx context.Context, id string, entry NewEntry) (Entry, error)
	DeleteEntry(ctx context.Context, id string) error
	ListTags(ctx context.Context) ([]Tag, error)
}

// Archive is a readable and writable entry store.
type Archive interface {
	Source
	Writer
}

// Searcher is implemented by archives that filter entries themselves.
type Searcher interface {
	SearchEntries(ctx context.Context, q Query) ([]Entry, error)
}

// Getter is implemented by archives that look up a single entry.
type Getter interface {
	GetEntry(ctx context.Context, id string) (Entry, error)
}

// Search returns the entries matching q, letting src do the work when it
// can. An inactive query returns everything.
func Search(ctx context.Context, src Source, q Query) ([]Entry, error) {
	if s, ok := src.(Searcher); ok && q.Active() {
		return s.SearchEntries(ctx, q)
	}
	entries, err := src.FetchEntries(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(entries, q), nil
}

// Get returns the entry with id or ErrNotFound.
func Get(ctx context.Context, src Source, id string) (Entry, error) {
	if g, ok := src.(Getter); ok {
		return g.GetEntry(ctx, id)
	}
	entries, err := src.FetchEntries(ctx)
	if err != nil {
		return Entry{}, err
	}
	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
	}
	return Entry{}, ErrNotFound
}
