package tracker

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrIdentitySpaceExhausted is returned when no further track IDs can be
// allocated without wrapping around
var ErrIdentitySpaceExhausted = errors.New("track identity space exhausted")

// DefaultDistanceThreshold is the centroid distance in pixels under which a
// detection is considered the same object as a track from the previous frame
const DefaultDistanceThreshold = 35.0

// MatchPolicy defines how a detection picks between multiple tracks that are
// all within the distance threshold
type MatchPolicy int

const (
	// MatchFirst takes the first track in iteration order that is under
	// the distance threshold, even if a closer one exists later
	MatchFirst MatchPolicy = iota
	// MatchNearest takes the closest track under the distance threshold
	MatchNearest
)

// String returns the flag name of the policy
func (p MatchPolicy) String() string {
	switch p {
	case MatchNearest:
		return "nearest"
	default:
		return "first"
	}
}

// Config holds the tuning parameters of the CentroidTracker
type Config struct {
	// DistanceThreshold is the exclusive upper bound on Euclidean distance
	// between a detection center and a track center for them to match
	DistanceThreshold float64
	// Policy selects between candidate tracks under the threshold
	Policy MatchPolicy
}

// DefaultConfig returns the tracker configuration featuring:
// - Distance Threshold: 35 pixels
// - Match Policy: first under threshold
func DefaultConfig() Config {
	return Config{
		DistanceThreshold: DefaultDistanceThreshold,
		Policy:            MatchFirst,
	}
}

// Track is the record associating an identity with the most recently
// observed center of its bounding box
type Track struct {
	ID     int
	Center Point
}

// Tracked is a detection box paired with the track ID assigned to it
type Tracked struct {
	Box Box
	ID  int
}

// CentroidTracker assigns stable IDs to bounding boxes across frames by
// matching box centers against the centers seen in the previous frame.
// A track that is not matched in a frame is dropped immediately, so an
// object missed for a single frame receives a new ID when it reappears.
//
// You must create a new instance of CentroidTracker per video as it keeps a
// record of the previous frame.  It is not safe for concurrent use.
type CentroidTracker struct {
	cfg Config
	// tracks are the tracks alive after the last frame, in the order they
	// were emitted
	tracks []Track
	// nextID is the ID given to the next new track
	nextID int
}

// NewCentroidTracker returns a tracker using the given configuration
func NewCentroidTracker(cfg Config) *CentroidTracker {
	return &CentroidTracker{
		cfg:    cfg,
		tracks: make([]Track, 0),
	}
}

// Reset clears the tracked data and restarts IDs from zero
func (t *CentroidTracker) Reset() {
	t.tracks = make([]Track, 0)
	t.nextID = 0
}

// Config returns the tracker configuration
func (t *CentroidTracker) Config() Config {
	return t.cfg
}

// NextID returns the ID that will be given to the next new track
func (t *CentroidTracker) NextID() int {
	return t.nextID
}

// Tracks returns a copy of the tracks alive after the last frame
func (t *CentroidTracker) Tracks() []Track {
	out := make([]Track, len(t.tracks))
	copy(out, t.tracks)
	return out
}

// Update assigns a track ID to each box of the current frame.  Boxes are
// processed in the order given and results are returned in the same order.
// Every ID is emitted at most once per frame.  After the call only the
// tracks emitted for this frame are retained.
func (t *CentroidTracker) Update(boxes []Box) ([]Tracked, error) {

	results := make([]Tracked, 0, len(boxes))

	// IDs already emitted this frame can not be matched again
	claimed := make(map[int]bool, len(boxes))

	for _, box := range boxes {

		center := box.Center()
		idx := t.match(center, claimed)

		var id int

		if idx >= 0 {
			// same object as previous frame
			t.tracks[idx].Center = center
			id = t.tracks[idx].ID

		} else {
			// new object detected
			if t.nextID == math.MaxInt {
				return nil, ErrIdentitySpaceExhausted
			}

			id = t.nextID
			t.nextID++
			t.tracks = append(t.tracks, Track{ID: id, Center: center})
		}

		claimed[id] = true
		results = append(results, Tracked{Box: box, ID: id})
	}

	// remove tracks not seen this frame
	alive := make([]Track, 0, len(results))

	for _, res := range results {
		alive = append(alive, Track{ID: res.ID, Center: res.Box.Center()})
	}

	t.tracks = alive

	return results, nil
}

// match returns the index of the track to assign the given center to or -1
// if no unclaimed track is within the distance threshold
func (t *CentroidTracker) match(center Point, claimed map[int]bool) int {

	best := -1
	bestDist := math.Inf(1)
	pt := []float64{float64(center.X), float64(center.Y)}

	for i, track := range t.tracks {

		if claimed[track.ID] {
			continue
		}

		dist := floats.Distance(pt,
			[]float64{float64(track.Center.X), float64(track.Center.Y)}, 2)

		// written so a NaN threshold matches nothing
		if !(dist < t.cfg.DistanceThreshold) {
			continue
		}

		if t.cfg.Policy == MatchFirst {
			return i
		}

		if dist < bestDist {
			best = i
			bestDist = dist
		}
	}

	return best
}
