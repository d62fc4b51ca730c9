package sorttable

// DefaultScrollMargin is the remaining scroll distance in pixels
// below the viewport under which the next page is loaded.
const DefaultScrollMargin = 100

// ScrollPosition describes the document scroll state
// at the time of a scroll event.
type ScrollPosition struct {
	DocumentHeight float64 `json:"documentHeight"`
	ScrollY        float64 `json:"scrollY"`
	ViewportHeight float64 `json:"viewportHeight"`
}

// Remaining returns the scrollable distance
// below the current viewport.
func (p ScrollPosition) Remaining() float64 {
	return p.DocumentHeight - p.ScrollY - p.ViewportHeight
}

// NearBottom returns true if the remaining
// scroll distance is less than margin.
func (p ScrollPosition) NearBottom(margin float64) bool {
	return p.Remaining() < margin
}
