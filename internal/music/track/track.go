// Package track defines the resolved, playable representation of a
// requested song. Values are produced by the resolver and never mutated
// afterwards.
package track

import (
	"fmt"
	"time"
)

// Track describes one playable audio track.
type Track struct {
	// Title is the human-readable name of the track.
	Title string
	// URL is the source page the track was resolved from.
	URL string
	// StreamURL is the direct media URL playback reads from.
	StreamURL string
	// Duration is the track length, or zero when the source did not
	// report one (live streams, radio).
	Duration time.Duration
	// Thumbnail is a cover image URL, possibly empty.
	Thumbnail string
}

// FormatDuration renders the duration as M:SS for embeds, or a dash when
// the duration is unknown.
func (t Track) FormatDuration() string {
	if t.Duration <= 0 {
		return "–:––"
	}
	total := int(t.Duration.Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
