package tracker

import "sync"

// path represents the center point history of a single track
type path struct {
	points []Point
}

// Trail is the struct to keep a history of tracked centers used for drawing
// a trail behind each object
type Trail struct {
	// size is the maximum number of most recent points to keep in history
	size int
	// history of tracked points
	history map[int]*path
	sync.Mutex
}

// NewTrail returns a new trail history instance.  Size is the number of
// most recent points to keep and specifies the maximum length of the trail
func NewTrail(size int) *Trail {
	return &Trail{
		size:    size,
		history: make(map[int]*path),
	}
}

// Add appends the center of a tracked box to the history of its ID
func (t *Trail) Add(tracked Tracked) {
	t.Lock()
	defer t.Unlock()

	p, exists := t.history[tracked.ID]

	if !exists {
		p = &path{}
		t.history[tracked.ID] = p
	}

	p.points = append(p.points, tracked.Box.Center())

	// drop oldest point when history is exceeded
	if len(p.points) > t.size {
		p.points = p.points[1:]
	}
}

// Prune removes the history of every ID not in the given tracks.  Since
// tracks never resume once dropped their history can be released.
func (t *Trail) Prune(alive []Track) {
	t.Lock()
	defer t.Unlock()

	keep := make(map[int]bool, len(alive))

	for _, track := range alive {
		keep[track.ID] = true
	}

	for id := range t.history {
		if !keep[id] {
			delete(t.history, id)
		}
	}
}

// GetPoints gets a copy of the point history for a specific track id
func (t *Trail) GetPoints(id int) []Point {
	t.Lock()
	defer t.Unlock()

	p, exists := t.history[id]

	if !exists {
		// no history yet
		return nil
	}

	out := make([]Point, len(p.points))
	copy(out, p.points)

	return out
}
