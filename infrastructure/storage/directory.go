package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuuchan-san/soundcloud-downloader/domain/artifact"
)

// Directory implements artifact.Store over a single local directory
type Directory struct {
	root string
}

// NewDirectory creates a new Directory rooted at the given path
func NewDirectory(root string) *Directory {
	return &Directory{root: root}
}

// Root returns the storage root path
func (d *Directory) Root() string {
	return d.root
}

// EnsureRoot idempotently creates the storage root directory
func (d *Directory) EnsureRoot() error {
	if err := os.MkdirAll(d.root, 0755); err != nil {
		return fmt.Errorf("failed to create storage root: %w", err)
	}
	return nil
}

// List enumerates all regular files directly under the root
func (d *Directory) List() ([]artifact.FileInfo, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage root: %w", err)
	}

	var files []artifact.FileInfo
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			// Deleted between ReadDir and Info; a concurrent sweep
			// or serve got there first.
			continue
		}

		files = append(files, artifact.FileInfo{
			Name:    entry.Name(),
			Path:    filepath.Join(d.root, entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	return files, nil
}

// Resolve looks up a file by its exact on-disk name
func (d *Directory) Resolve(name string) (string, error) {
	if !validName(name) {
		return "", artifact.ErrNotFound
	}

	path := filepath.Join(d.root, name)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", artifact.ErrNotFound
	}

	return path, nil
}

// ResolveByPrefix finds the single file whose name starts with "{id}."
func (d *Directory) ResolveByPrefix(id string) (string, error) {
	if !validName(id) {
		return "", artifact.ErrNotFound
	}

	files, err := d.List()
	if err != nil {
		return "", err
	}

	for _, f := range files {
		if strings.HasPrefix(f.Name, id+".") {
			return f.Path, nil
		}
	}

	return "", artifact.ErrNotFound
}

// Remove deletes a file by name. A file that is already gone is success.
func (d *Directory) Remove(name string) error {
	if !validName(name) {
		return nil
	}

	if err := os.Remove(filepath.Join(d.root, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", name, err)
	}
	return nil
}

// validName rejects names that could escape the storage root
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

// Ensure Directory implements artifact.Store
var _ artifact.Store = (*Directory)(nil)
