package web

import (
	"net/url"
	"strings"
	"testing"
)

func TestEncodeDispositionRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		filename string
	}{
		{name: "ascii", filename: "track.mp3"},
		{name: "spaces", filename: "my track.mp3"},
		{name: "non-ascii", filename: "café été.mp3"},
		{name: "japanese", filename: "楽曲.mp3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := encodeDisposition(tt.filename)

			if !strings.HasPrefix(header, "attachment; ") {
				t.Fatalf("header = %q", header)
			}

			// plain parameter: filename="<enc>"
			start := strings.Index(header, `filename="`)
			if start < 0 {
				t.Fatalf("missing plain filename parameter: %q", header)
			}
			rest := header[start+len(`filename="`):]
			end := strings.Index(rest, `"`)
			if end < 0 {
				t.Fatalf("unterminated plain filename parameter: %q", header)
			}
			plain, err := url.PathUnescape(rest[:end])
			if err != nil {
				t.Fatalf("plain parameter does not decode: %v", err)
			}
			if plain != tt.filename {
				t.Errorf("plain parameter decodes to %q, want %q", plain, tt.filename)
			}

			// extended parameter: filename*=UTF-8''<enc>
			marker := `filename*=UTF-8''`
			start = strings.Index(header, marker)
			if start < 0 {
				t.Fatalf("missing extended filename parameter: %q", header)
			}
			extended, err := url.PathUnescape(header[start+len(marker):])
			if err != nil {
				t.Fatalf("extended parameter does not decode: %v", err)
			}
			if extended != tt.filename {
				t.Errorf("extended parameter decodes to %q, want %q", extended, tt.filename)
			}
		})
	}
}

func TestDownloadName(t *testing.T) {
	tests := []struct {
		name      string
		requested string
		fallback  string
		want      string
	}{
		{
			name:      "absent parameter uses on-disk name",
			requested: "",
			fallback:  "abc123.mp3",
			want:      "abc123.mp3",
		},
		{
			name:      "doubly-encoded parameter decoded once more",
			requested: "caf%C3%A9.mp3",
			fallback:  "abc123.mp3",
			want:      "café.mp3",
		},
		{
			name:      "plain parameter passes through",
			requested: "track.mp3",
			fallback:  "abc123.mp3",
			want:      "track.mp3",
		},
		{
			name:      "undecodable parameter used as-is",
			requested: "bad%zz.mp3",
			fallback:  "abc123.mp3",
			want:      "bad%zz.mp3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := downloadName(tt.requested, tt.fallback); got != tt.want {
				t.Errorf("downloadName(%q, %q) = %q, want %q", tt.requested, tt.fallback, got, tt.want)
			}
		})
	}
}
