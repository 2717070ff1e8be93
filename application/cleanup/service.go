package cleanup

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/yuuchan-san/soundcloud-downloader/domain/artifact"
)

// Failure records a single file that could not be deleted
type Failure struct {
	Name string
	Err  error
}

// Result contains information about files deleted during a sweep or purge.
// Per-file failures are aggregated here instead of being swallowed, so the
// contract stays observable and testable.
type Result struct {
	Deleted  []string
	Failures []Failure
}

// Count returns the number of files deleted
func (r *Result) Count() int {
	return len(r.Deleted)
}

// Service handles storage cleanup operations against the shared directory
type Service struct {
	store  artifact.Store
	logger *slog.Logger
}

// NewService creates a new cleanup service
func NewService(store artifact.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  store,
		logger: logger,
	}
}

// SweepOlderThan deletes every regular file under the root whose last
// modification is older than maxAge. A failure on one file never aborts
// the sweep; it is recorded and the pass continues.
func (s *Service) SweepOlderThan(maxAge time.Duration) (*Result, error) {
	cutoff := time.Now().Add(-maxAge)
	return s.deleteMatching(func(f artifact.FileInfo) bool {
		return f.ModTime.Before(cutoff)
	})
}

// PurgeAll deletes every regular file under the root unconditionally
func (s *Service) PurgeAll() (*Result, error) {
	return s.deleteMatching(func(artifact.FileInfo) bool {
		return true
	})
}

func (s *Service) deleteMatching(match func(artifact.FileInfo) bool) (*Result, error) {
	files, err := s.store.List()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate storage: %w", err)
	}

	result := &Result{}
	for _, f := range files {
		if !match(f) {
			continue
		}

		if err := s.store.Remove(f.Name); err != nil {
			s.logger.Error("failed to delete file", "name", f.Name, "error", err)
			result.Failures = append(result.Failures, Failure{Name: f.Name, Err: err})
			continue
		}

		result.Deleted = append(result.Deleted, f.Name)
	}

	if result.Count() > 0 {
		s.logger.Info("cleanup pass complete", "deleted", result.Count(), "failed", len(result.Failures))
	}

	return result, nil
}
