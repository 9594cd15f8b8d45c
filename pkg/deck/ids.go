package deck

import "github.com/google/uuid"

// NewID mints a random identifier for presentations, slides and elements.
func NewID() string {
	return uuid.NewString()
}
