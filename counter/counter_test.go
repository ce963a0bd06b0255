package counter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/swdee/go-treecount/tracker"
)

func TestAddIsIdempotent(t *testing.T) {

	c := New(50)

	if !c.Add(7) {
		t.Errorf("expected first Add to report a new id")
	}

	if c.Add(7) {
		t.Errorf("expected second Add to report an existing id")
	}

	if c.Count() != 1 {
		t.Errorf("expected count 1, got %d", c.Count())
	}
}

func TestObserveReturnsStraddlingEveryFrame(t *testing.T) {

	c := New(50)

	frame := []tracker.Tracked{
		{Box: tracker.NewBox(10, 40, 30, 60), ID: 0},
		{Box: tracker.NewBox(100, 0, 120, 20), ID: 1},
	}

	for i := 0; i < 3; i++ {
		got := c.Observe(frame)

		if diff := cmp.Diff(frame[:1], got); diff != "" {
			t.Errorf("frame %d straddling mismatch (-want +got):\n%s", i, diff)
		}
	}

	if c.Count() != 1 {
		t.Errorf("expected count 1, got %d", c.Count())
	}

	if c.Has(1) {
		t.Errorf("id 1 never straddled the line but was counted")
	}
}

func TestObserveLineEdges(t *testing.T) {

	tests := []struct {
		name string
		box  tracker.Box
		want int
	}{
		{"top edge on line", tracker.NewBox(0, 50, 10, 70), 1},
		{"bottom edge on line", tracker.NewBox(0, 30, 10, 50), 1},
		{"above line", tracker.NewBox(0, 10, 10, 49), 0},
		{"below line", tracker.NewBox(0, 51, 10, 90), 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := New(50)
			c.Observe([]tracker.Tracked{{Box: tc.box, ID: 0}})

			if c.Count() != tc.want {
				t.Errorf("expected count %d, got %d", tc.want, c.Count())
			}
		})
	}
}

func TestCountedOrder(t *testing.T) {

	c := New(0)

	for _, id := range []int{4, 2, 4, 9, 2} {
		c.Add(id)
	}

	if diff := cmp.Diff([]int{4, 2, 9}, c.Counted()); diff != "" {
		t.Errorf("counted mismatch (-want +got):\n%s", diff)
	}
}
