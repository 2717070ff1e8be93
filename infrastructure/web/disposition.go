package web

import (
	"fmt"
	"net/url"
)

// downloadName picks the client-facing filename for a served artifact.
// The download_name query parameter arrives percent-encoded by the caller
// (on top of normal query decoding), so it is decoded once more before use;
// a value that fails decoding is used as-is.
func downloadName(requested, fallback string) string {
	if requested == "" {
		return fallback
	}
	if decoded, err := url.PathUnescape(requested); err == nil {
		return decoded
	}
	return requested
}

// encodeDisposition builds the attachment header with the filename carried
// in both the plain parameter and the RFC 5987 UTF-8 extended parameter, so
// non-ASCII titles survive every client.
func encodeDisposition(name string) string {
	encoded := url.PathEscape(name)
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, encoded, encoded)
}
