package artifact

import "github.com/google/uuid"

// NewID generates a fresh globally-unique artifact identifier in canonical
// UUID text form. Collision probability is treated as zero, so no further
// locking is needed around artifact creation.
func NewID() string {
	return uuid.NewString()
}
