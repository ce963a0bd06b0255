// Package counter decides which tracked objects have crossed a horizontal
// counting line.  An object is counted once, the first time its bounding
// box straddles the line in any frame, regardless of direction of travel.
package counter

import (
	"github.com/swdee/go-treecount/tracker"
)

// Counter holds the set of track IDs that have been observed straddling the
// counting line.  The set only ever grows for the lifetime of a run.  It is
// not safe for concurrent use.
type Counter struct {
	// lineY is the pixel row of the counting line
	lineY int
	// counted is the set of counted track IDs
	counted map[int]struct{}
	// order records IDs in the order they were first counted
	order []int
}

// New returns a Counter for the horizontal line at pixel row lineY
func New(lineY int) *Counter {
	return &Counter{
		lineY:   lineY,
		counted: make(map[int]struct{}),
		order:   make([]int, 0),
	}
}

// LineY returns the pixel row of the counting line
func (c *Counter) LineY() int {
	return c.lineY
}

// Observe takes the tracker results for the current frame, counts the ID of
// every box straddling the line and returns those straddling results.  The
// returned results include objects that were already counted in an earlier
// frame.
func (c *Counter) Observe(tracked []tracker.Tracked) []tracker.Tracked {

	straddling := make([]tracker.Tracked, 0)

	for _, tr := range tracked {

		if !tr.Box.Straddles(c.lineY) {
			continue
		}

		c.Add(tr.ID)
		straddling = append(straddling, tr)
	}

	return straddling
}

// Add inserts the ID into the counted set and returns true if it was not
// already present
func (c *Counter) Add(id int) bool {

	if _, exists := c.counted[id]; exists {
		return false
	}

	c.counted[id] = struct{}{}
	c.order = append(c.order, id)

	return true
}

// Has returns true if the ID has been counted
func (c *Counter) Has(id int) bool {
	_, exists := c.counted[id]
	return exists
}

// Count returns the number of distinct IDs counted
func (c *Counter) Count() int {
	return len(c.counted)
}

// Counted returns a copy of the counted IDs in the order first counted
func (c *Counter) Counted() []int {
	out := make([]int, len(c.order))
	copy(out, c.order)
	return out
}
