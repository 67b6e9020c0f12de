// Package workspace tracks the diagrams a user has saved: where each file
// lives, when it was last opened, and summary counts for listings. The
// registry is a small SQLite database under the workspace directory.
package workspace

import "time"

// Entry is one registered diagram.
type Entry struct {
	ID                string
	Name              string
	Path              string
	Format            string
	ClassCount        int
	RelationshipCount int
	CreatedAt         time.Time
	UpdatedAt         time.Time
	LastOpenedAt      *time.Time
	OpenCount         int
}

// Store is the saved-diagram registry.
type Store interface {
	// RecordSave registers a diagram after a save, or refreshes its entry
	// if the name is already registered.
	RecordSave(entry *Entry) error

	// Get returns the entry for a diagram name, or nil when unregistered.
	Get(name string) (*Entry, error)

	// List returns all entries, most recently updated first.
	List() ([]*Entry, error)

	// TouchOpened bumps the open counter and last-opened timestamp.
	TouchOpened(name string) error

	// Rename moves an entry to a new name and path.
	Rename(oldName, newName, newPath string) error

	// Delete removes an entry. The diagram file itself is untouched.
	Delete(name string) error

	// Close releases the underlying database.
	Close() error
}
