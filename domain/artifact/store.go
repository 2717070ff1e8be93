package artifact

import "time"

// FileInfo describes one staged artifact: a regular file in the storage
// root whose name is "{id}.{ext}", with the extension chosen by the
// transcoder and discovered after the fact.
type FileInfo struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

// Store defines the interface for the shared storage directory
// This is a port that can be implemented by different infrastructure adapters
type Store interface {
	// Root returns the storage root path
	Root() string

	// EnsureRoot idempotently creates the storage root directory
	EnsureRoot() error

	// List enumerates all regular files directly under the root
	List() ([]FileInfo, error)

	// Resolve looks up a file by its exact on-disk name.
	// Returns ErrNotFound if no such file exists.
	Resolve(name string) (string, error)

	// ResolveByPrefix finds the single file whose name starts with "{id}.".
	// Returns ErrNotFound if no such file exists.
	ResolveByPrefix(id string) (string, error)

	// Remove deletes a file by name. Removing a file that is already
	// gone is success, not an error.
	Remove(name string) error
}
