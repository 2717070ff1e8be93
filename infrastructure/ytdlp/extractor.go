package ytdlp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/yuuchan-san/soundcloud-downloader/domain/extraction"
)

// Extractor implements extraction.Extractor using the yt-dlp binary
type Extractor struct {
	binPath string
	runner  CommandRunner
}

// ExtractorOption is a functional option for configuring Extractor
type ExtractorOption func(*Extractor)

// WithBinaryPath sets a custom yt-dlp executable path
func WithBinaryPath(path string) ExtractorOption {
	return func(e *Extractor) {
		e.binPath = path
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) ExtractorOption {
	return func(e *Extractor) {
		e.runner = runner
	}
}

// NewExtractor creates a new yt-dlp-based audio extractor
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		binPath: "yt-dlp",
		runner:  &ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// sourceInfo is the subset of yt-dlp's info JSON this service reads
type sourceInfo struct {
	Title          string `json:"title"`
	Filesize       int64  `json:"filesize"`
	FilesizeApprox int64  `json:"filesize_approx"`
}

func (i *sourceInfo) size() int64 {
	if i.Filesize > 0 {
		return i.Filesize
	}
	return i.FilesizeApprox
}

// Probe implements extraction.Extractor. It queries source metadata without
// transferring any payload.
func (e *Extractor) Probe(ctx context.Context, url string) (*extraction.ProbeResult, error) {
	args := []string{
		"--no-playlist",
		"--skip-download",
		"--dump-single-json",
		"--", url,
	}

	out, err := e.runner.Output(ctx, e.binPath, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: metadata query failed: %v", extraction.ErrSourceRejected, err)
	}

	var info sourceInfo
	if err := json.Unmarshal(out, &info); err != nil {
		return nil, fmt.Errorf("%w: no usable metadata returned", extraction.ErrSourceRejected)
	}

	return &extraction.ProbeResult{
		Title:     info.Title,
		SizeBytes: info.size(),
	}, nil
}

// Fetch implements extraction.Extractor. It downloads the source and
// transcodes its audio track to the requested codec, writing to the
// request's output template. The info JSON printed alongside the download
// supplies the display title.
func (e *Extractor) Fetch(ctx context.Context, req *extraction.Request) (*extraction.FetchResult, error) {
	args := []string{
		"--no-playlist",
		"-f", "bestaudio/best",
		"-x",
		"--audio-format", req.Codec,
		"--audio-quality", req.Quality,
		"--dump-single-json",
		"--no-simulate",
		"-o", req.OutputTemplate,
		"--", req.URL,
	}

	out, err := e.runner.Output(ctx, e.binPath, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: download failed: %v", extraction.ErrSourceRejected, err)
	}

	var info sourceInfo
	if err := json.Unmarshal(out, &info); err != nil {
		// The download itself succeeded; a malformed info dump only
		// costs us the title.
		info = sourceInfo{}
	}

	return &extraction.FetchResult{
		Path:  req.OutputTemplate,
		Title: info.Title,
	}, nil
}

// VerifyInstalled checks that yt-dlp is available
func (e *Extractor) VerifyInstalled(ctx context.Context) error {
	_, err := e.runner.Output(ctx, e.binPath, "--version")
	if err != nil {
		return fmt.Errorf("yt-dlp not found or not executable: %w", err)
	}
	return nil
}

// Ensure Extractor implements extraction.Extractor
var _ extraction.Extractor = (*Extractor)(nil)
