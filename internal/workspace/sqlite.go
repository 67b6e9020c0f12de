package workspace

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotRegistered is returned when an operation targets a diagram name the
// registry has never seen.
var ErrNotRegistered = errors.New("diagram not registered")

// SQLiteStore implements Store on a SQLite database file.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the registry database at path and brings its
// schema up to date. Use ":memory:" for an in-memory registry.
func Open(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating workspace directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening workspace database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging workspace database: %w", err)
	}

	s := &SQLiteStore{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordSave registers a diagram after a save, or refreshes the entry when
// the name already exists.
func (s *SQLiteStore) RecordSave(entry *Entry) error {
	now := time.Now().UTC()

	existing, err := s.Get(entry.Name)
	if err != nil {
		return err
	}

	if existing != nil {
		entry.ID = existing.ID
		entry.CreatedAt = existing.CreatedAt
		entry.UpdatedAt = now
		entry.LastOpenedAt = existing.LastOpenedAt
		entry.OpenCount = existing.OpenCount

		_, err := s.db.Exec(
			`UPDATE diagrams SET path = ?, format = ?, class_count = ?, relationship_count = ?, updated_at = ? WHERE id = ?`,
			entry.Path, entry.Format, entry.ClassCount, entry.RelationshipCount, entry.UpdatedAt, entry.ID,
		)
		if err != nil {
			return fmt.Errorf("updating diagram entry: %w", err)
		}
		return nil
	}

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.CreatedAt = now
	entry.UpdatedAt = now

	_, err = s.db.Exec(
		`INSERT INTO diagrams (id, name, path, format, class_count, relationship_count, created_at, updated_at, open_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0)`,
		entry.ID, entry.Name, entry.Path, entry.Format, entry.ClassCount, entry.RelationshipCount, entry.CreatedAt, entry.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting diagram entry: %w", err)
	}
	return nil
}

// Get returns the entry for a diagram name, or nil when unregistered.
func (s *SQLiteStore) Get(name string) (*Entry, error) {
	entry := &Entry{}
	var lastOpened sql.NullTime

	err := s.db.QueryRow(
		`SELECT id, name, path, format, class_count, relationship_count, created_at, updated_at, last_opened_at, open_count
		 FROM diagrams WHERE name = ?`,
		name,
	).Scan(&entry.ID, &entry.Name, &entry.Path, &entry.Format, &entry.ClassCount, &entry.RelationshipCount,
		&entry.CreatedAt, &entry.UpdatedAt, &lastOpened, &entry.OpenCount)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting diagram entry: %w", err)
	}

	if lastOpened.Valid {
		entry.LastOpenedAt = &lastOpened.Time
	}
	return entry, nil
}

// List returns all entries, most recently updated first.
func (s *SQLiteStore) List() ([]*Entry, error) {
	rows, err := s.db.Query(
		`SELECT id, name, path, format, class_count, relationship_count, created_at, updated_at, last_opened_at, open_count
		 FROM diagrams ORDER BY updated_at DESC, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing diagram entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry := &Entry{}
		var lastOpened sql.NullTime

		err := rows.Scan(&entry.ID, &entry.Name, &entry.Path, &entry.Format, &entry.ClassCount, &entry.RelationshipCount,
			&entry.CreatedAt, &entry.UpdatedAt, &lastOpened, &entry.OpenCount)
		if err != nil {
			return nil, fmt.Errorf("scanning diagram entry: %w", err)
		}

		if lastOpened.Valid {
			entry.LastOpenedAt = &lastOpened.Time
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// TouchOpened bumps the open counter and last-opened timestamp.
func (s *SQLiteStore) TouchOpened(name string) error {
	result, err := s.db.Exec(
		`UPDATE diagrams SET last_opened_at = ?, open_count = open_count + 1 WHERE name = ?`,
		time.Now().UTC(), name,
	)
	if err != nil {
		return fmt.Errorf("touching diagram entry: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotRegistered, name)
	}
	return nil
}

// Rename moves an entry to a new name and path.
func (s *SQLiteStore) Rename(oldName, newName, newPath string) error {
	result, err := s.db.Exec(
		`UPDATE diagrams SET name = ?, path = ?, updated_at = ? WHERE name = ?`,
		newName, newPath, time.Now().UTC(), oldName,
	)
	if err != nil {
		return fmt.Errorf("renaming diagram entry: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotRegistered, oldName)
	}
	return nil
}

// Delete removes an entry. The diagram file itself is untouched.
func (s *SQLiteStore) Delete(name string) error {
	result, err := s.db.Exec(`DELETE FROM diagrams WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting diagram entry: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotRegistered, name)
	}
	return nil
}

var _ Store = (*SQLiteStore)(nil)
