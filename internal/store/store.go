// Package store persists built stories in a local sqlite library so
// builds can be listed, reloaded, and exported later without keeping
// loose JSON files around.
package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/inkwell-labs/gamebook/internal/snapshot"
)

var ErrNotFound = errors.New("story not found")

const schema = `
CREATE TABLE IF NOT EXISTS stories (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	episodes   INTEGER NOT NULL,
	nodes      INTEGER NOT NULL,
	model      TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	payload    BLOB NOT NULL
);
`

// Store is a sqlite-backed story library. It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Entry is one library row without its payload.
type Entry struct {
	ID        string
	Title     string
	Episodes  int
	Nodes     int
	Model     string
	CreatedAt time.Time
}

// Open opens (or creates) the library at path and ensures the schema.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening story library: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening story library: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing story library: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveStory inserts or replaces a story under the given title. An empty
// id gets a generated one; the used id is returned.
func (s *Store) SaveStory(ctx context.Context, id, title string, st *snapshot.Story) (string, error) {
	if id == "" {
		id = uuid.NewString()[:8]
	}

	var payload bytes.Buffer
	if err := snapshot.Write(&payload, st); err != nil {
		return "", err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stories (id, title, episodes, nodes, model, created_at, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			episodes = excluded.episodes,
			nodes = excluded.nodes,
			model = excluded.model,
			payload = excluded.payload`,
		id, title,
		st.Metadata.TotalEpisodes, st.Metadata.TotalNodes, st.Metadata.Model,
		time.Now().UnixMilli(), payload.Bytes(),
	)
	if err != nil {
		return "", fmt.Errorf("saving story %q: %w", id, err)
	}
	return id, nil
}

// ListStories returns every library entry, newest first.
func (s *Store) ListStories(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, episodes, nodes, model, created_at
		FROM stories ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing stories: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.Title, &e.Episodes, &e.Nodes, &e.Model, &createdAt); err != nil {
			return nil, fmt.Errorf("listing stories: %w", err)
		}
		e.CreatedAt = time.UnixMilli(createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetStory loads a stored story by id.
func (s *Store) GetStory(ctx context.Context, id string) (*snapshot.Story, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM stories WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading story %q: %w", id, err)
	}
	return snapshot.Read(bytes.NewReader(payload))
}

// DeleteStory removes a stored story.
func (s *Store) DeleteStory(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM stories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting story %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting story %q: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
