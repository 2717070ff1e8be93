package extraction

import "context"

// ProbeResult contains the metadata reported by a source without any
// payload transfer
type ProbeResult struct {
	Title     string
	SizeBytes int64
}

// FetchResult contains the outcome of a full download and transcode
type FetchResult struct {
	// Path is the output path as reported by the tool. The transcoder
	// chooses the final extension, so callers should locate the produced
	// file by id prefix rather than trusting this value blindly.
	Path  string
	Title string
}

// Extractor defines the interface for the external extraction tool
// This is a port that can be implemented by different infrastructure adapters
type Extractor interface {
	// Probe performs a metadata-only query against the source URL
	Probe(ctx context.Context, url string) (*ProbeResult, error)

	// Fetch downloads the source and transcodes its audio track, writing
	// to a path derived from the request's output template
	Fetch(ctx context.Context, req *Request) (*FetchResult, error)
}
