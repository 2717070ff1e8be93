package extraction

import "fmt"

// DefaultCodec is the default target audio codec
const DefaultCodec = "mp3"

// DefaultQuality is the default target audio quality (bitrate in kbit/s)
const DefaultQuality = "192"

// Request represents a request to download a source and transcode its
// audio track
type Request struct {
	URL string

	// OutputTemplate is the destination path template, e.g.
	// "downloads/{id}.%(ext)s". The tool substitutes the extension.
	OutputTemplate string

	Codec   string
	Quality string
}

// NewRequest creates a new Request with validation
func NewRequest(url, outputTemplate, codec, quality string) (*Request, error) {
	if url == "" {
		return nil, fmt.Errorf("source URL is required")
	}

	if outputTemplate == "" {
		return nil, fmt.Errorf("output template is required")
	}

	if codec == "" {
		codec = DefaultCodec
	}
	if quality == "" {
		quality = DefaultQuality
	}

	return &Request{
		URL:            url,
		OutputTemplate: outputTemplate,
		Codec:          codec,
		Quality:        quality,
	}, nil
}
