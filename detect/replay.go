package detect

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/swdee/go-treecount/postprocess"
	"github.com/tidwall/gjson"
	"gocv.io/x/gocv"
)

// Replay is a Detector that returns detections recorded ahead of time, one
// JSON object per frame, eg:
//
//	{"frame":0,"detections":[{"box":[10,40,30,60],"class":0,"score":0.91}]}
//
// Frame logs written by a previous run, which carry an "objects" array
// instead of "detections", can be replayed as well.
type Replay struct {
	// frames holds the detections by frame number
	frames map[int][]postprocess.DetectResult
	// rejected are the detections that failed validation
	rejected []error
	// last is the highest frame number seen
	last  int
	idGen *postprocess.IDGenerator
}

// OpenReplay reads recorded detections from the given JSON lines file
func OpenReplay(file string) (*Replay, error) {

	f, err := os.Open(file)

	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}

	defer f.Close()

	return NewReplay(f)
}

// NewReplay reads recorded detections from r.  Lines that are not valid JSON
// or lack a frame number fail the whole read.  Individual detections with
// bad coordinates are rejected, logged and skipped.
func NewReplay(r io.Reader) (*Replay, error) {

	rp := &Replay{
		frames: make(map[int][]postprocess.DetectResult),
		last:   -1,
		idGen:  postprocess.NewIDGenerator(),
	}

	s := bufio.NewScanner(r)
	bufsize := 10 << 20
	s.Buffer(make([]byte, bufsize), bufsize)

	lineNum := 0

	for s.Scan() {
		lineNum++
		line := s.Bytes()

		if len(line) == 0 {
			continue
		}

		frame, dets, rejected, err := rp.parseFrame(line)

		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		for _, rej := range rejected {
			Logf("Rejected recorded detection: %v", rej)
		}

		rp.rejected = append(rp.rejected, rejected...)
		rp.frames[frame] = append(rp.frames[frame], dets...)

		if frame > rp.last {
			rp.last = frame
		}
	}

	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	return rp, nil
}

// parseFrame decodes a single line of recorded detections
func (rp *Replay) parseFrame(line []byte) (int, []postprocess.DetectResult, []error, error) {

	if !gjson.ValidBytes(line) {
		return 0, nil, nil, fmt.Errorf("invalid JSON")
	}

	root := gjson.ParseBytes(line)

	frameRes := root.Get("frame")

	if frameRes.Type != gjson.Number || frameRes.Int() < 0 {
		return 0, nil, nil, fmt.Errorf("missing or invalid frame number")
	}

	frame := int(frameRes.Int())

	items := root.Get("detections")

	if !items.Exists() {
		items = root.Get("objects")
	}

	dets := make([]postprocess.DetectResult, 0)
	var rejected []error
	idx := 0

	items.ForEach(func(_, item gjson.Result) bool {
		det, err := rp.parseDetection(item, frame, idx)
		idx++

		if err != nil {
			rejected = append(rejected, err)
			return true
		}

		dets = append(dets, det)
		return true
	})

	return frame, dets, rejected, nil
}

// parseDetection validates and decodes a single recorded detection
func (rp *Replay) parseDetection(item gjson.Result, frame, idx int) (postprocess.DetectResult, error) {

	invalid := func(reason string) error {
		return &InvalidDetectionError{Frame: frame, Index: idx, Reason: reason}
	}

	box := item.Get("box")

	if !box.IsArray() {
		return postprocess.DetectResult{}, invalid("missing box")
	}

	coords := box.Array()

	if len(coords) != 4 {
		return postprocess.DetectResult{}, invalid(
			fmt.Sprintf("box has %d coordinates, expected 4", len(coords)))
	}

	var xy [4]int

	for i, c := range coords {
		if c.Type != gjson.Number {
			return postprocess.DetectResult{}, invalid(
				fmt.Sprintf("non-numeric coordinate %q", c.Raw))
		}

		xy[i] = int(c.Num)
	}

	if xy[2] < xy[0] || xy[3] < xy[1] {
		return postprocess.DetectResult{}, invalid("inverted box")
	}

	class := 0

	if c := item.Get("class"); c.Exists() {
		if c.Type != gjson.Number {
			return postprocess.DetectResult{}, invalid("non-numeric class")
		}

		class = int(c.Int())
	}

	return postprocess.DetectResult{
		Class: class,
		Box: postprocess.BoxRect{
			Left:   xy[0],
			Top:    xy[1],
			Right:  xy[2],
			Bottom: xy[3],
		},
		Probability: float32(item.Get("score").Float()),
		ID:          rp.idGen.GetNext(),
	}, nil
}

// Frame returns the recorded detections of the given frame
func (rp *Replay) Frame(frameNum int) []postprocess.DetectResult {
	return rp.frames[frameNum]
}

// Frames returns the number of frames covered by the recording
func (rp *Replay) Frames() int {
	return rp.last + 1
}

// Rejected returns the detections that failed validation
func (rp *Replay) Rejected() []error {
	return rp.rejected
}

// Detect returns the recorded detections for the frame, the image is not
// inspected
func (rp *Replay) Detect(img gocv.Mat, frameNum int) ([]postprocess.DetectResult, error) {
	return rp.Frame(frameNum), nil
}

// Close is a no-op
func (rp *Replay) Close() error {
	return nil
}
