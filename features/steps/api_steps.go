//go:build integration

package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/yuuchan-san/soundcloud-downloader/application/cleanup"
	"github.com/yuuchan-san/soundcloud-downloader/application/download"
	"github.com/yuuchan-san/soundcloud-downloader/domain/extraction"
	"github.com/yuuchan-san/soundcloud-downloader/infrastructure/storage"
	"github.com/yuuchan-san/soundcloud-downloader/infrastructure/web"
)

// fakeExtractor simulates yt-dlp: the probe reports scripted metadata and
// the fetch materializes a file at the template location
type fakeExtractor struct {
	title     string
	sizeBytes int64
}

func (f *fakeExtractor) Probe(ctx context.Context, url string) (*extraction.ProbeResult, error) {
	return &extraction.ProbeResult{Title: f.title, SizeBytes: f.sizeBytes}, nil
}

func (f *fakeExtractor) Fetch(ctx context.Context, req *extraction.Request) (*extraction.FetchResult, error) {
	path := strings.Replace(req.OutputTemplate, "%(ext)s", req.Codec, 1)
	if err := os.WriteFile(path, []byte("audio-bytes"), 0644); err != nil {
		return nil, err
	}
	return &extraction.FetchResult{Path: path, Title: f.title}, nil
}

type apiWorld struct {
	extractor *fakeExtractor
	server    *httptest.Server
	storeRoot string

	status      int
	body        map[string]any
	contentType string
	downloadURL string
}

var world *apiWorld

func (w *apiWorld) start() error {
	root, err := os.MkdirTemp("", "sc-downloader-features-")
	if err != nil {
		return err
	}
	w.storeRoot = root

	store := storage.NewDirectory(root)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cleaner := cleanup.NewService(store, logger)
	w.extractor = &fakeExtractor{}
	downloads := download.NewService(
		w.extractor, store, cleaner,
		extraction.Policy{MaxSourceBytes: 13 << 20},
		10*time.Minute, "mp3", "192", logger,
	)

	srv := web.NewServer(web.ServerConfig{Addr: "127.0.0.1:0"}, downloads, cleaner, store, logger)
	w.server = httptest.NewServer(srv.Handler())
	return nil
}

func (w *apiWorld) stop() {
	if w.server != nil {
		w.server.Close()
	}
	if w.storeRoot != "" {
		os.RemoveAll(w.storeRoot)
	}
}

func (w *apiWorld) record(resp *http.Response) error {
	defer resp.Body.Close()

	w.status = resp.StatusCode
	w.contentType = resp.Header.Get("Content-Type")
	w.body = nil

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if strings.Contains(w.contentType, "application/json") {
		var payload map[string]any
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("malformed JSON response: %w", err)
		}
		w.body = payload
	}
	return nil
}

func aRunningDownloadService() error {
	return nil // started in the Before hook
}

func theSourceReports(title string, sizeMB int) error {
	world.extractor.title = title
	world.extractor.sizeBytes = int64(sizeMB) << 20
	return nil
}

func iPostTheURL(url string) error {
	resp, err := http.Post(
		world.server.URL+"/download",
		"application/json",
		strings.NewReader(fmt.Sprintf(`{"url": %q}`, url)),
	)
	if err != nil {
		return err
	}
	if err := world.record(resp); err != nil {
		return err
	}
	if world.body != nil {
		if u, ok := world.body["download_url"].(string); ok {
			world.downloadURL = u
		}
	}
	return nil
}

func iFetchTheAdvertisedFile() error {
	if world.downloadURL == "" {
		return fmt.Errorf("no download URL recorded")
	}
	resp, err := http.Get(world.server.URL + world.downloadURL)
	if err != nil {
		return err
	}
	return world.record(resp)
}

func iRequestACleanup() error {
	req, err := http.NewRequest(http.MethodDelete, world.server.URL+"/cleanup", nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	return world.record(resp)
}

func iRequestTheRootEndpoint() error {
	resp, err := http.Get(world.server.URL + "/")
	if err != nil {
		return err
	}
	return world.record(resp)
}

func theResponseStatusShouldBe(status int) error {
	if world.status != status {
		return fmt.Errorf("status is %d, expected %d", world.status, status)
	}
	return nil
}

func theResponseShouldAdvertiseSafeFilename(expected string) error {
	got, _ := world.body["safe_filename"].(string)
	if got != expected {
		return fmt.Errorf("safe_filename is %q, expected %q", got, expected)
	}
	return nil
}

func theResponseContentTypeShouldBe(expected string) error {
	if world.contentType != expected {
		return fmt.Errorf("content type is %q, expected %q", world.contentType, expected)
	}
	return nil
}

func theResponseDetailShouldMention(fragment string) error {
	detail, _ := world.body["detail"].(string)
	if !strings.Contains(detail, fragment) {
		return fmt.Errorf("detail %q does not mention %q", detail, fragment)
	}
	return nil
}

func theCleanupShouldReportFilesDeleted(count int) error {
	expected := fmt.Sprintf("%d files deleted", count)
	got, _ := world.body["message"].(string)
	if got != expected {
		return fmt.Errorf("message is %q, expected %q", got, expected)
	}
	return nil
}

// InitializeAPIScenario registers the API lifecycle steps
func InitializeAPIScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		world = &apiWorld{}
		return c, world.start()
	})
	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		world.stop()
		return c, nil
	})

	ctx.Step(`^a running download service$`, aRunningDownloadService)
	ctx.Step(`^the source reports title "([^"]*)" and size (\d+) MB$`, theSourceReports)
	ctx.Step(`^I post the URL "([^"]*)"$`, iPostTheURL)
	ctx.Step(`^I fetch the advertised file(?: again)?$`, iFetchTheAdvertisedFile)
	ctx.Step(`^I request a cleanup$`, iRequestACleanup)
	ctx.Step(`^I request the root endpoint$`, iRequestTheRootEndpoint)
	ctx.Step(`^the response status should be (\d+)$`, theResponseStatusShouldBe)
	ctx.Step(`^the response should advertise safe filename "([^"]*)"$`, theResponseShouldAdvertiseSafeFilename)
	ctx.Step(`^the response content type should be "([^"]*)"$`, theResponseContentTypeShouldBe)
	ctx.Step(`^the response detail should mention "([^"]*)"$`, theResponseDetailShouldMention)
	ctx.Step(`^the cleanup should report (\d+) files deleted$`, theCleanupShouldReportFilesDeleted)
}
