package media

import (
	"fmt"
	"time"
)

// Item is the transient metadata retrieved for a source URL before
// downloading. It is used for display and for naming the downloaded file.
type Item struct {
	Title    string
	Duration time.Duration
}

// DisplayDuration renders the duration as m:ss for status output.
// Returns an empty string when the duration is unknown.
func (i Item) DisplayDuration() string {
	if i.Duration <= 0 {
		return ""
	}
	total := int(i.Duration / time.Second)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
