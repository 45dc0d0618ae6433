// Package store keeps the archive in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	_ "github.com/mattn/go-sqlite3"

	"github.com/five82/tideline/internal/archive"
)

//go:embed schema.sql
var schema string

// Store handles database operations. It implements archive.Archive.
type Store struct {
	db    *sql.DB
	clock clockwork.Clock
}

var _ archive.Archive = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock stamps created_at from clock.
func WithClock(clock clockwork.Clock) Option {
	return func(s *Store) { s.clock = clock }
}

// New opens (creating if needed) the database at dbPath. ":memory:" opens a
// private in-memory database.
func New(dbPath string, opts ...Option) (*Store, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
		dsn = "file:" + dbPath
	}
	db, err := sql.Open("sqlite3", dsn+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps :memory: databases and foreign key pragmas consistent.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	s := &Store{db: db, clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Store) now() time.Time {
	return s.clock.Now().UTC()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// AddEntry validates and stores a new entry with its tags.
func (s *Store) AddEntry(ctx context.Context, in archive.NewEntry) (archive.Entry, error) {
	if err := in.Validate(); err != nil {
		return archive.Entry{}, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return archive.Entry{}, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	entry, err := s.insertEntry(ctx, tx, in)
	if err != nil {
		return archive.Entry{}, err
	}
	if err := tx.Commit(); err != nil {
		return archive.Entry{}, fmt.Errorf("commit: %w", err)
	}
	return entry, nil
}

// ImportEntries stores every entry in one transaction and returns how many
// were written. Nothing is written when any entry fails.
func (s *Store) ImportEntries(ctx context.Context, entries []archive.NewEntry) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, in := range entries {
		if err := in.Validate(); err != nil {
			return 0, fmt.Errorf("entry %d: %w", i+1, err)
		}
		if _, err := s.insertEntry(ctx, tx, in); err != nil {
			return 0, fmt.Errorf("entry %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(entries), nil
}

func (s *Store) insertEntry(ctx context.Context, tx *sql.Tx, in archive.NewEntry) (archive.Entry, error) {
	entry := archive.Entry{
		ID:          uuid.New().String(),
		Date:        strings.TrimSpace(in.Date),
		Description: strings.TrimSpace(in.Description),
		ImageURL:    strings.TrimSpace(in.ImageURL),
	}
	_, err := tx.ExecContext(ctx,
		"INSERT INTO entries (id, date, description, image_url, created_at) VALUES (?, ?, ?, ?, ?)",
		entry.ID, entry.Date, entry.Description, entry.ImageURL, s.now(),
	)
	if err != nil {
		return archive.Entry{}, fmt.Errorf("insert entry: %w", err)
	}

	if entry.Tags, err = s.linkTags(ctx, tx, entry.ID, in.Tags); err != nil {
		return archive.Entry{}, err
	}
	return entry, nil
}

// linkTags attaches tags to an entry in order, creating missing tags and
// skipping repeats.
func (s *Store) linkTags(ctx context.Context, tx *sql.Tx, entryID string, in []archive.Tag) ([]archive.Tag, error) {
	var tags []archive.Tag
	seen := make(map[string]bool)
	for _, t := range in {
		tag, err := getOrCreateTag(ctx, tx, t.Name, t.Color, s.now())
		if err != nil {
			return nil, err
		}
		if seen[tag.ID] {
			continue
		}
		seen[tag.ID] = true
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO entry_tags (entry_id, tag_id, position) VALUES (?, ?, ?)",
			entryID, tag.ID, len(tags),
		); err != nil {
			return nil, fmt.Errorf("link entry tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// UpdateEntry replaces the fields and tags of an existing entry.
func (s *Store) UpdateEntry(ctx context.Context, id string, in archive.NewEntry) (archive.Entry, error) {
	if err := in.Validate(); err != nil {
		return archive.Entry{}, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return archive.Entry{}, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	entry := archive.Entry{
		ID:          id,
		Date:        strings.TrimSpace(in.Date),
		Description: strings.TrimSpace(in.Description),
		ImageURL:    strings.TrimSpace(in.ImageURL),
	}
	res, err := tx.ExecContext(ctx,
		"UPDATE entries SET date = ?, description = ?, image_url = ? WHERE id = ?",
		entry.Date, entry.Description, entry.ImageURL, id,
	)
	if err != nil {
		return archive.Entry{}, fmt.Errorf("update entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return archive.Entry{}, fmt.Errorf("update entry: %w", err)
	}
	if n == 0 {
		return archive.Entry{}, archive.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM entry_tags WHERE entry_id = ?", id); err != nil {
		return archive.Entry{}, fmt.Errorf("clear entry tags: %w", err)
	}
	if entry.Tags, err = s.linkTags(ctx, tx, id, in.Tags); err != nil {
		return archive.Entry{}, err
	}
	if err := tx.Commit(); err != nil {
		return archive.Entry{}, fmt.Errorf("commit: %w", err)
	}
	return entry, nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// GetOrCreateTag finds a tag by name and colour or creates it.
func (s *Store) GetOrCreateTag(ctx context.Context, name, color string) (archive.Tag, error) {
	if strings.TrimSpace(name) == "" {
		return archive.Tag{}, fmt.Errorf("tag name is empty")
	}
	if !archive.ValidColor(color) {
		return archive.Tag{}, fmt.Errorf("tag %q: invalid color %q", name, color)
	}
	return getOrCreateTag(ctx, s.db, name, color, s.now())
}

func getOrCreateTag(ctx context.Context, q querier, name, color string, now time.Time) (archive.Tag, error) {
	name = strings.TrimSpace(name)
	color = strings.ToUpper(strings.TrimSpace(color))

	tag := archive.Tag{Name: name, Color: color}
	err := q.QueryRowContext(ctx,
		"SELECT id FROM tags WHERE name = ? AND color = ?",
		name, color,
	).Scan(&tag.ID)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return archive.Tag{}, fmt.Errorf("find tag: %w", err)
	}

	tag.ID = uuid.New().String()
	if _, err := q.ExecContext(ctx,
		"INSERT INTO tags (id, name, color, created_at) VALUES (?, ?, ?, ?)",
		tag.ID, name, color, now,
	); err != nil {
		return archive.Tag{}, fmt.Errorf("insert tag: %w", err)
	}
	return tag, nil
}

// GetEntry retrieves an entry by ID with its tags.
func (s *Store) GetEntry(ctx context.Context, id string) (archive.Entry, error) {
	var e archive.Entry
	err := s.db.QueryRowContext(ctx,
		"SELECT id, date, description, image_url FROM entries WHERE id = ?",
		id,
	).Scan(&e.ID, &e.Date, &e.Description, &e.ImageURL)
	if errors.Is(err, sql.ErrNoRows) {
		return archive.Entry{}, archive.ErrNotFound
	}
	if err != nil {
		return archive.Entry{}, fmt.Errorf("get entry: %w", err)
	}

	tags, err := s.tagsByEntry(ctx, id)
	if err != nil {
		return archive.Entry{}, err
	}
	e.Tags = tags[id]
	return e, nil
}

// FetchEntries returns every entry with its tags, oldest insert first.
func (s *Store) FetchEntries(ctx context.Context) ([]archive.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, date, description, image_url FROM entries ORDER BY created_at, id",
	)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []archive.Entry
	for rows.Next() {
		var e archive.Entry
		if err := rows.Scan(&e.ID, &e.Date, &e.Description, &e.ImageURL); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	tags, err := s.tagsByEntry(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Tags = tags[entries[i].ID]
	}
	return entries, nil
}

// tagsByEntry loads ordered tags for one entry, or for all entries when id
// is empty.
func (s *Store) tagsByEntry(ctx context.Context, id string) (map[string][]archive.Tag, error) {
	query := `
		SELECT et.entry_id, t.id, t.name, t.color
		FROM entry_tags et
		JOIN tags t ON t.id = et.tag_id`
	var args []any
	if id != "" {
		query += " WHERE et.entry_id = ?"
		args = append(args, id)
	}
	query += " ORDER BY et.entry_id, et.position"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get entry tags: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]archive.Tag)
	for rows.Next() {
		var entryID string
		var t archive.Tag
		if err := rows.Scan(&entryID, &t.ID, &t.Name, &t.Color); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		out[entryID] = append(out[entryID], t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get entry tags: %w", err)
	}
	return out, nil
}

// DeleteEntry removes an entry and its tag links.
func (s *Store) DeleteEntry(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if n == 0 {
		return archive.ErrNotFound
	}
	return nil
}

// ListTags returns all tags ordered by name, then colour.
func (s *Store) ListTags(ctx context.Context) ([]archive.Tag, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, color FROM tags ORDER BY name, color")
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []archive.Tag
	for rows.Next() {
		var t archive.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// SearchEntries returns entries matching q. Free text is narrowed in SQL and
// the final match applies archive.Query semantics.
func (s *Store) SearchEntries(ctx context.Context, q archive.Query) ([]archive.Entry, error) {
	entries, err := s.FetchEntries(ctx)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return archive.Filter(entries, q), nil
	}

	pattern := "%" + escapeLike(strings.ToLower(text)) + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT e.id
		FROM entries e
		LEFT JOIN entry_tags et ON et.entry_id = e.id
		LEFT JOIN tags t ON t.id = et.tag_id
		WHERE lower(e.description) LIKE ? ESCAPE '\' OR lower(t.name) LIKE ? ESCAPE '\'`,
		pattern, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("search entries: %w", err)
	}
	defer rows.Close()

	candidates := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		candidates[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search entries: %w", err)
	}

	var out []archive.Entry
	for _, e := range entries {
		if candidates[e.ID] && q.Matches(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
