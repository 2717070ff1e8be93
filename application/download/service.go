package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/yuuchan-san/soundcloud-downloader/application/cleanup"
	"github.com/yuuchan-san/soundcloud-downloader/domain/artifact"
	"github.com/yuuchan-san/soundcloud-downloader/domain/extraction"
)

// ErrArtifactMissing is returned when the extractor reports success but no
// file matching the artifact id exists under the storage root. This is an
// internal inconsistency, not a client mistake.
var ErrArtifactMissing = errors.New("downloaded file is missing from storage")

// Result contains the outcome of a successful download
type Result struct {
	Title        string
	SafeFilename string
	Filename     string // on-disk basename, "{id}.{ext}"
	DownloadURL  string
}

// Service coordinates the two-phase download flow: sweep, probe, admission,
// fetch, and registry resolution
type Service struct {
	extractor extraction.Extractor
	store     artifact.Store
	cleaner   *cleanup.Service
	policy    extraction.Policy
	retention time.Duration
	codec     string
	quality   string
	logger    *slog.Logger
}

// NewService creates a new download service
func NewService(
	extractor extraction.Extractor,
	store artifact.Store,
	cleaner *cleanup.Service,
	policy extraction.Policy,
	retention time.Duration,
	codec string,
	quality string,
	logger *slog.Logger,
) *Service {
	if codec == "" {
		codec = extraction.DefaultCodec
	}
	if quality == "" {
		quality = extraction.DefaultQuality
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		extractor: extractor,
		store:     store,
		cleaner:   cleaner,
		policy:    policy,
		retention: retention,
		codec:     codec,
		quality:   quality,
		logger:    logger,
	}
}

// Download extracts the audio track of the given URL into the storage root
// and returns the staged artifact's identity. The probe always runs before
// the fetch so the reported size can gate admission.
func (s *Service) Download(ctx context.Context, url string) (*Result, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: no URL provided", extraction.ErrSourceRejected)
	}

	// Age out stale artifacts before admitting new ones. A failed sweep
	// must not block the download itself.
	if _, err := s.cleaner.SweepOlderThan(s.retention); err != nil {
		s.logger.Warn("pre-request sweep failed", "error", err)
	}

	probe, err := s.extractor.Probe(ctx, url)
	if err != nil {
		return nil, err
	}

	if err := s.policy.Admit(probe.SizeBytes); err != nil {
		return nil, err
	}

	id := artifact.NewID()
	template := filepath.Join(s.store.Root(), id+".%(ext)s")

	req, err := extraction.NewRequest(url, template, s.codec, s.quality)
	if err != nil {
		return nil, err
	}

	s.logger.Info("starting download", "url", url, "id", id, "size", probe.SizeBytes)

	fetched, err := s.extractor.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}

	// The transcoder picks the extension, so the produced file is found
	// by id prefix rather than by an assumed name.
	path, err := s.store.ResolveByPrefix(id)
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %s", ErrArtifactMissing, id)
		}
		return nil, err
	}

	title := fetched.Title
	if title == "" {
		title = probe.Title
	}
	if title == "" {
		title = "unknown"
	}

	filename := filepath.Base(path)
	s.logger.Info("download complete", "id", id, "file", filename, "title", title)

	return &Result{
		Title:        title,
		SafeFilename: artifact.SanitizeTitle(title) + "." + s.codec,
		Filename:     filename,
		DownloadURL:  "/file/" + filename,
	}, nil
}
