package tracker

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ids extracts the track ids from tracker results
func ids(results []Tracked) []int {
	out := make([]int, 0, len(results))
	for _, r := range results {
		out = append(out, r.ID)
	}
	return out
}

// mustUpdate runs a tracker update and fails the test on error
func mustUpdate(t *testing.T, ct *CentroidTracker, boxes ...Box) []Tracked {
	t.Helper()

	res, err := ct.Update(boxes)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	return res
}

func TestUpdateSameObjectKeepsID(t *testing.T) {

	ct := NewCentroidTracker(DefaultConfig())

	frames := [][]Box{
		{NewBox(10, 40, 30, 60)},
		{NewBox(12, 41, 32, 61)},
		{NewBox(14, 43, 34, 63)},
	}

	for i, frame := range frames {
		res := mustUpdate(t, ct, frame...)

		if diff := cmp.Diff([]int{0}, ids(res)); diff != "" {
			t.Errorf("frame %d ids mismatch (-want +got):\n%s", i, diff)
		}
	}

	if ct.NextID() != 1 {
		t.Errorf("expected next id 1, got %d", ct.NextID())
	}
}

func TestUpdateDenseIDsWithoutOverlap(t *testing.T) {

	ct := NewCentroidTracker(DefaultConfig())

	// each frame places objects far from anything in the previous frame
	frames := [][]Box{
		{NewBox(0, 0, 10, 10), NewBox(200, 0, 210, 10)},
		{NewBox(100, 100, 110, 110)},
		{},
		{NewBox(400, 400, 410, 410), NewBox(0, 300, 10, 310), NewBox(300, 0, 310, 10)},
	}

	var got []int

	for _, frame := range frames {
		got = append(got, ids(mustUpdate(t, ct, frame...))...)
	}

	want := []int{0, 1, 2, 3, 4, 5}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateGapAssignsNewID(t *testing.T) {

	ct := NewCentroidTracker(DefaultConfig())

	first := mustUpdate(t, ct, NewBox(0, 0, 20, 20))
	gap := mustUpdate(t, ct)
	again := mustUpdate(t, ct, NewBox(2, 2, 22, 22))

	if first[0].ID != 0 {
		t.Errorf("expected first id 0, got %d", first[0].ID)
	}

	if len(gap) != 0 {
		t.Errorf("expected no results for empty frame, got %d", len(gap))
	}

	if len(ct.Tracks()) != 1 {
		t.Errorf("expected 1 live track, got %d", len(ct.Tracks()))
	}

	if again[0].ID != 1 {
		t.Errorf("expected reappearing object to get id 1, got %d", again[0].ID)
	}
}

func TestUpdateSecondCandidateGetsNewID(t *testing.T) {

	ct := NewCentroidTracker(DefaultConfig())

	mustUpdate(t, ct, NewBox(100, 100, 120, 120))

	// both detections are within threshold of the single prior center
	res := mustUpdate(t, ct, NewBox(102, 100, 122, 120), NewBox(98, 104, 118, 124))

	if diff := cmp.Diff([]int{0, 1}, ids(res)); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateFirstUnderThresholdWins(t *testing.T) {

	ct := NewCentroidTracker(DefaultConfig())

	// id 0 centered at (100,100), id 1 centered at (130,100)
	mustUpdate(t, ct, NewBox(90, 90, 110, 110), NewBox(120, 90, 140, 110))

	// center (125,100) is 25px from id 0 and 5px from id 1
	res := mustUpdate(t, ct, NewBox(115, 90, 135, 110))

	if res[0].ID != 0 {
		t.Errorf("expected greedy match to id 0, got %d", res[0].ID)
	}
}

func TestUpdateNearestPolicy(t *testing.T) {

	cfg := DefaultConfig()
	cfg.Policy = MatchNearest
	ct := NewCentroidTracker(cfg)

	mustUpdate(t, ct, NewBox(90, 90, 110, 110), NewBox(120, 90, 140, 110))
	res := mustUpdate(t, ct, NewBox(115, 90, 135, 110))

	if res[0].ID != 1 {
		t.Errorf("expected nearest match to id 1, got %d", res[0].ID)
	}
}

func TestUpdateThresholdIsExclusive(t *testing.T) {

	tests := []struct {
		name  string
		shift int
		want  int
	}{
		{"just under", 34, 0},
		{"exactly threshold", 35, 1},
		{"over", 50, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ct := NewCentroidTracker(DefaultConfig())

			mustUpdate(t, ct, NewBox(0, 0, 20, 20))
			res := mustUpdate(t, ct, NewBox(tc.shift, 0, 20+tc.shift, 20))

			if res[0].ID != tc.want {
				t.Errorf("shift %d: expected id %d, got %d", tc.shift, tc.want, res[0].ID)
			}
		})
	}
}

func TestUpdatePrunesUnmatched(t *testing.T) {

	ct := NewCentroidTracker(DefaultConfig())

	mustUpdate(t, ct, NewBox(0, 0, 10, 10), NewBox(300, 300, 310, 310))
	mustUpdate(t, ct, NewBox(300, 302, 310, 312), NewBox(600, 0, 610, 10))

	want := []Track{
		{ID: 1, Center: Point{X: 305, Y: 307}},
		{ID: 2, Center: Point{X: 605, Y: 5}},
	}

	if diff := cmp.Diff(want, ct.Tracks()); diff != "" {
		t.Errorf("tracks mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateEmptyFrame(t *testing.T) {

	ct := NewCentroidTracker(DefaultConfig())

	mustUpdate(t, ct, NewBox(0, 0, 10, 10))
	res := mustUpdate(t, ct)

	if len(res) != 0 || len(ct.Tracks()) != 0 {
		t.Errorf("expected empty results and tracks, got %d results and %d tracks",
			len(res), len(ct.Tracks()))
	}
}

func TestUpdateIdentitySpaceExhausted(t *testing.T) {

	ct := NewCentroidTracker(DefaultConfig())
	ct.nextID = math.MaxInt

	_, err := ct.Update([]Box{NewBox(0, 0, 10, 10)})

	if !errors.Is(err, ErrIdentitySpaceExhausted) {
		t.Errorf("expected ErrIdentitySpaceExhausted, got %v", err)
	}
}

func TestReset(t *testing.T) {

	ct := NewCentroidTracker(DefaultConfig())

	mustUpdate(t, ct, NewBox(0, 0, 10, 10), NewBox(100, 0, 110, 10))
	ct.Reset()

	res := mustUpdate(t, ct, NewBox(0, 0, 10, 10))

	if res[0].ID != 0 {
		t.Errorf("expected id 0 after reset, got %d", res[0].ID)
	}
}

func TestUpdateNaNThresholdMatchesNothing(t *testing.T) {

	ct := NewCentroidTracker(Config{DistanceThreshold: math.NaN(), Policy: MatchFirst})

	mustUpdate(t, ct, NewBox(0, 0, 10, 10))
	res := mustUpdate(t, ct, NewBox(1000, 1000, 1010, 1010))

	if res[0].ID != 1 {
		t.Errorf("expected far box to get new id 1, got %d", res[0].ID)
	}
}
