package download

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yuuchan-san/soundcloud-downloader/application/cleanup"
	"github.com/yuuchan-san/soundcloud-downloader/domain/extraction"
	"github.com/yuuchan-san/soundcloud-downloader/infrastructure/storage"
)

// stubExtractor is a scripted extraction.Extractor. Fetch writes a file to
// the location the output template points at, mimicking the real tool.
type stubExtractor struct {
	title     string
	sizeBytes int64
	ext       string
	probeErr  error
	fetchErr  error
	skipWrite bool

	mu         sync.Mutex
	fetchCalls int
}

func (s *stubExtractor) Probe(ctx context.Context, url string) (*extraction.ProbeResult, error) {
	if s.probeErr != nil {
		return nil, s.probeErr
	}
	return &extraction.ProbeResult{Title: s.title, SizeBytes: s.sizeBytes}, nil
}

func (s *stubExtractor) Fetch(ctx context.Context, req *extraction.Request) (*extraction.FetchResult, error) {
	s.mu.Lock()
	s.fetchCalls++
	s.mu.Unlock()

	if s.fetchErr != nil {
		return nil, s.fetchErr
	}

	path := strings.Replace(req.OutputTemplate, "%(ext)s", s.ext, 1)
	if !s.skipWrite {
		if err := os.WriteFile(path, []byte("audio-bytes"), 0644); err != nil {
			return nil, err
		}
	}
	return &extraction.FetchResult{Path: path, Title: s.title}, nil
}

func newTestService(t *testing.T, ext *stubExtractor, policy extraction.Policy) (*Service, string) {
	t.Helper()
	root := t.TempDir()
	store := storage.NewDirectory(root)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cleaner := cleanup.NewService(store, logger)
	return NewService(ext, store, cleaner, policy, 10*time.Minute, "mp3", "192", logger), root
}

func TestDownloadHappyPath(t *testing.T) {
	ext := &stubExtractor{title: "My Track", sizeBytes: 1 << 20, ext: "mp3"}
	svc, root := newTestService(t, ext, extraction.Policy{MaxSourceBytes: 13 << 20})

	result, err := svc.Download(context.Background(), "https://soundcloud.com/a/t")
	if err != nil {
		t.Fatalf("Download() failed: %v", err)
	}

	if result.Title != "My Track" {
		t.Errorf("Title = %q", result.Title)
	}
	if result.SafeFilename != "My Track.mp3" {
		t.Errorf("SafeFilename = %q", result.SafeFilename)
	}
	if !strings.HasPrefix(result.DownloadURL, "/file/") {
		t.Errorf("DownloadURL = %q", result.DownloadURL)
	}
	if result.DownloadURL != "/file/"+result.Filename {
		t.Errorf("DownloadURL %q does not match Filename %q", result.DownloadURL, result.Filename)
	}

	if _, err := os.Stat(filepath.Join(root, result.Filename)); err != nil {
		t.Errorf("artifact should exist on disk: %v", err)
	}
}

func TestDownloadOpaqueExtension(t *testing.T) {
	// The transcoder may produce any extension; resolution is by prefix.
	ext := &stubExtractor{title: "T", sizeBytes: 100, ext: "opus"}
	svc, _ := newTestService(t, ext, extraction.Policy{})

	result, err := svc.Download(context.Background(), "https://soundcloud.com/a/t")
	if err != nil {
		t.Fatalf("Download() failed: %v", err)
	}
	if !strings.HasSuffix(result.Filename, ".opus") {
		t.Errorf("Filename = %q, want .opus suffix", result.Filename)
	}
}

func TestDownloadRejectsUnknownSize(t *testing.T) {
	ext := &stubExtractor{title: "T", sizeBytes: 0, ext: "mp3"}
	svc, _ := newTestService(t, ext, extraction.Policy{MaxSourceBytes: 13 << 20})

	_, err := svc.Download(context.Background(), "https://soundcloud.com/a/t")
	if !errors.Is(err, extraction.ErrSizeUnknown) {
		t.Fatalf("Download() = %v, want ErrSizeUnknown", err)
	}
	if ext.fetchCalls != 0 {
		t.Errorf("fetch must not run after admission refusal, ran %d times", ext.fetchCalls)
	}
}

func TestDownloadRejectsOversizedSource(t *testing.T) {
	ext := &stubExtractor{title: "T", sizeBytes: 20 << 20, ext: "mp3"}
	svc, _ := newTestService(t, ext, extraction.Policy{MaxSourceBytes: 13 << 20})

	_, err := svc.Download(context.Background(), "https://soundcloud.com/a/t")
	if !errors.Is(err, extraction.ErrSizeExceeded) {
		t.Fatalf("Download() = %v, want ErrSizeExceeded", err)
	}
	if ext.fetchCalls != 0 {
		t.Errorf("fetch must not run after admission refusal, ran %d times", ext.fetchCalls)
	}
}

func TestDownloadDisabledPolicyAdmitsUnknownSize(t *testing.T) {
	ext := &stubExtractor{title: "T", sizeBytes: 0, ext: "mp3"}
	svc, _ := newTestService(t, ext, extraction.Policy{})

	if _, err := svc.Download(context.Background(), "https://soundcloud.com/a/t"); err != nil {
		t.Fatalf("Download() with disabled policy failed: %v", err)
	}
}

func TestDownloadProbeFailure(t *testing.T) {
	ext := &stubExtractor{probeErr: extraction.ErrSourceRejected}
	svc, _ := newTestService(t, ext, extraction.Policy{})

	if _, err := svc.Download(context.Background(), "https://x/y"); !errors.Is(err, extraction.ErrSourceRejected) {
		t.Fatalf("Download() = %v, want ErrSourceRejected", err)
	}
}

func TestDownloadMissingOutputFile(t *testing.T) {
	ext := &stubExtractor{title: "T", sizeBytes: 100, ext: "mp3", skipWrite: true}
	svc, _ := newTestService(t, ext, extraction.Policy{})

	_, err := svc.Download(context.Background(), "https://soundcloud.com/a/t")
	if !errors.Is(err, ErrArtifactMissing) {
		t.Fatalf("Download() = %v, want ErrArtifactMissing", err)
	}
}

func TestDownloadSweepsStaleFilesFirst(t *testing.T) {
	ext := &stubExtractor{title: "T", sizeBytes: 100, ext: "mp3"}
	svc, root := newTestService(t, ext, extraction.Policy{})

	stale := filepath.Join(root, "stale.mp3")
	if err := os.WriteFile(stale, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Download(context.Background(), "https://soundcloud.com/a/t"); err != nil {
		t.Fatalf("Download() failed: %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale file should be swept before the download, stat err = %v", err)
	}
}

func TestDownloadConcurrentIdsDistinct(t *testing.T) {
	ext := &stubExtractor{title: "T", sizeBytes: 100, ext: "mp3"}
	svc, _ := newTestService(t, ext, extraction.Policy{})

	const n = 10
	var mu sync.Mutex
	filenames := make(map[string]bool, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := svc.Download(context.Background(), "https://soundcloud.com/a/t")
			if err != nil {
				t.Errorf("Download() failed: %v", err)
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if filenames[result.Filename] {
				t.Errorf("duplicate filename: %s", result.Filename)
			}
			filenames[result.Filename] = true
		}()
	}
	wg.Wait()

	if len(filenames) != n {
		t.Errorf("expected %d distinct filenames, got %d", n, len(filenames))
	}
}

func TestDownloadEmptyURL(t *testing.T) {
	ext := &stubExtractor{}
	svc, _ := newTestService(t, ext, extraction.Policy{})

	if _, err := svc.Download(context.Background(), ""); !errors.Is(err, extraction.ErrSourceRejected) {
		t.Fatalf("Download(\"\") = %v, want ErrSourceRejected", err)
	}
}
