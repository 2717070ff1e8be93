package extraction

import "fmt"

// Policy is the admission policy applied to probed source sizes before any
// payload transfer happens. It protects the shared storage volume from
// unbounded downloads.
type Policy struct {
	// MaxSourceBytes is the admission ceiling. Zero or negative disables
	// admission control entirely.
	MaxSourceBytes int64
}

// Enabled reports whether the policy enforces a size ceiling
func (p Policy) Enabled() bool {
	return p.MaxSourceBytes > 0
}

// Admit decides whether a source with the given probed size may be fetched.
// An unknown size (zero or negative) is refused rather than waved through.
func (p Policy) Admit(sizeBytes int64) error {
	if !p.Enabled() {
		return nil
	}

	if sizeBytes <= 0 {
		return fmt.Errorf("%w: cannot verify the source size before downloading", ErrSizeUnknown)
	}

	if sizeBytes > p.MaxSourceBytes {
		return fmt.Errorf("%w: %s exceeds the %s limit",
			ErrSizeExceeded, FormatSize(sizeBytes), FormatSize(p.MaxSourceBytes))
	}

	return nil
}

// FormatSize renders a byte count in a human-readable binary unit
func FormatSize(bytes int64) string {
	const (
		kib = 1 << 10
		mib = 1 << 20
		gib = 1 << 30
	)

	switch {
	case bytes >= gib:
		return fmt.Sprintf("%.1f GiB", float64(bytes)/float64(gib))
	case bytes >= mib:
		return fmt.Sprintf("%.1f MiB", float64(bytes)/float64(mib))
	case bytes >= kib:
		return fmt.Sprintf("%.1f KiB", float64(bytes)/float64(kib))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
