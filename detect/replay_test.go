package detect

import (
	"errors"
	"strings"
	"testing"

	"github.com/swdee/go-treecount/postprocess"
)

func init() {
	// mute rejected detection logging
	Logf = func(string, ...interface{}) {}
}

func TestReplayReadsFrames(t *testing.T) {

	input := `{"frame":0,"detections":[{"box":[10,40,30,60],"class":0,"score":0.9}]}
{"frame":2,"detections":[{"box":[14,43,34,63]},{"box":[100,0,120,20],"class":1}]}
`

	rp, err := NewReplay(strings.NewReader(input))

	if err != nil {
		t.Fatalf("NewReplay returned error: %v", err)
	}

	if rp.Frames() != 3 {
		t.Errorf("expected 3 frames, got %d", rp.Frames())
	}

	if len(rp.Frame(1)) != 0 {
		t.Errorf("expected frame 1 to be empty, got %d detections", len(rp.Frame(1)))
	}

	f0 := rp.Frame(0)

	if len(f0) != 1 || f0[0].Box != (postprocess.BoxRect{Left: 10, Top: 40, Right: 30, Bottom: 60}) {
		t.Errorf("unexpected frame 0 detections: %+v", f0)
	}

	f2 := rp.Frame(2)

	if len(f2) != 2 || f2[1].Class != 1 {
		t.Errorf("unexpected frame 2 detections: %+v", f2)
	}
}

func TestReplayRejectsInvalidDetections(t *testing.T) {

	input := `{"frame":0,"detections":[
		{"box":[10,40,30,60]},
		{"box":[10,"a",30,60]},
		{"box":[10,40,30]},
		{"score":0.5},
		{"box":[30,40,10,60]},
		{"box":[0,0,5,5],"class":"tree"},
		{"box":[50,50,60,60]}
	]}`

	// collapse to a single JSON line
	input = strings.Join(strings.Fields(input), "")

	rp, err := NewReplay(strings.NewReader(input))

	if err != nil {
		t.Fatalf("NewReplay returned error: %v", err)
	}

	if len(rp.Frame(0)) != 2 {
		t.Errorf("expected 2 valid detections, got %d", len(rp.Frame(0)))
	}

	rejected := rp.Rejected()

	if len(rejected) != 5 {
		t.Fatalf("expected 5 rejected detections, got %d", len(rejected))
	}

	var invErr *InvalidDetectionError

	if !errors.As(rejected[0], &invErr) || invErr.Index != 1 {
		t.Errorf("expected first rejection at index 1, got %v", rejected[0])
	}

	for _, rej := range rejected {
		if !errors.Is(rej, ErrInvalidDetection) {
			t.Errorf("expected ErrInvalidDetection, got %v", rej)
		}
	}
}

func TestReplayReadsFrameLog(t *testing.T) {

	input := `{"run":"abc","frame":4,"count":1,"objects":[{"id":0,"box":[1,2,3,4],"class":0,"straddle":true}]}`

	rp, err := NewReplay(strings.NewReader(input))

	if err != nil {
		t.Fatalf("NewReplay returned error: %v", err)
	}

	if len(rp.Frame(4)) != 1 {
		t.Errorf("expected 1 detection in frame 4, got %d", len(rp.Frame(4)))
	}
}

func TestReplayInvalidLine(t *testing.T) {

	tests := []string{
		`not json`,
		`{"detections":[]}`,
		`{"frame":"one","detections":[]}`,
	}

	for _, input := range tests {
		if _, err := NewReplay(strings.NewReader(input)); err == nil {
			t.Errorf("expected error for input %q", input)
		}
	}
}
