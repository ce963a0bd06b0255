package treecount

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/swdee/go-treecount/counter"
	"github.com/swdee/go-treecount/detect"
	"github.com/swdee/go-treecount/render"
	"github.com/swdee/go-treecount/tracker"
	"github.com/swdee/go-treecount/video"
	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Logf is the package logger.  It defaults to log.Printf and may be replaced
// with SetLogger.
var Logf = log.Printf

// SetLogger replaces the logger of this package and of the detect package.
// Passing nil mutes logging.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		f = func(string, ...interface{}) {}
	}

	Logf = f
	detect.Logf = f
}

// FrameResult is the outcome of processing a single frame
type FrameResult struct {
	// Frame is the zero based index of the frame
	Frame int
	// Tracked are all target class detections with their track IDs
	Tracked []tracker.Tracked
	// Straddling are the tracked detections on the counting line this frame
	Straddling []tracker.Tracked
	// Count is the number of distinct objects counted so far
	Count int
}

// Result summarises a completed run
type Result struct {
	RunID string
	// Count is the number of distinct objects that crossed the line
	Count int
	// Counted are the counted track IDs in the order they were counted
	Counted []int
	// Frames is the number of frames processed
	Frames int
	// MeanDetections and MaxDetections describe the target class detections
	// per frame
	MeanDetections float64
	MaxDetections  float64
	Elapsed        time.Duration
	// Stopped is true if processing was ended early by the user
	Stopped bool
	// Paths are the artifacts written, set by Execute
	Paths Paths
}

// Run holds all state for counting objects in a single video.  A Run must
// be used by one goroutine and frames must be given to it in order.
type Run struct {
	// ID uniquely identifies the run in logs and artifacts
	ID     string
	Config RunConfig

	tracker *tracker.CentroidTracker
	counter *counter.Counter
	// trail is nil when trails are disabled
	trail *tracker.Trail

	boxStyle  render.BoxStyle
	labelFont render.Font

	frames     int
	detections []float64
	started    time.Time
	stopped    bool
}

// NewRun creates the tracker and counter for a new run
func NewRun(cfg RunConfig) *Run {

	r := &Run{
		ID:         uuid.New().String(),
		Config:     cfg,
		tracker:    tracker.NewCentroidTracker(cfg.Tracker),
		counter:    counter.New(cfg.LineY),
		boxStyle:   render.DefaultBoxStyle(),
		labelFont:  render.DefaultFont(),
		detections: make([]float64, 0),
		started:    time.Now(),
	}

	if cfg.TrailSize > 0 {
		r.trail = tracker.NewTrail(cfg.TrailSize)
	}

	return r
}

// Step tracks the target class boxes of one frame and counts those on the
// line.  It must be called exactly once per frame, including frames with
// no detections.
func (r *Run) Step(frame int, boxes []tracker.Box) (FrameResult, error) {

	tracked, err := r.tracker.Update(boxes)

	if err != nil {
		return FrameResult{}, fmt.Errorf("frame %d: %w", frame, err)
	}

	straddling := r.counter.Observe(tracked)

	if r.trail != nil {
		for _, tr := range tracked {
			r.trail.Add(tr)
		}

		r.trail.Prune(r.tracker.Tracks())
	}

	r.frames++
	r.detections = append(r.detections, float64(len(boxes)))

	return FrameResult{
		Frame:      frame,
		Tracked:    tracked,
		Straddling: straddling,
		Count:      r.counter.Count(),
	}, nil
}

// Count returns the number of distinct objects counted so far
func (r *Run) Count() int {
	return r.counter.Count()
}

// Annotate draws the straddling boxes, counting line and running count on
// the frame
func (r *Run) Annotate(img *gocv.Mat, fr FrameResult) {

	render.CountedBoxes(img, fr.Straddling, r.boxStyle, r.labelFont)

	if r.trail != nil {
		render.Trail(img, fr.Tracked, r.trail, render.DefaultTrailStyle())
	}

	render.CountingLine(img, r.counter.LineY(), render.DefaultLineStyle())
	render.CountOverlay(img, fr.Count, render.CountFont())
}

// Process reads every frame from src, detects, tracks and counts objects,
// annotates the frame and writes it to sink.  Frames are processed strictly
// in order.  flog may be nil.  Any error aborts the run, cancelling ctx
// aborts it with ctx.Err().  A sink returning video.ErrStopped ends the run
// early without error.
func (r *Run) Process(ctx context.Context, src video.Source, det detect.Detector,
	sink video.Sink, flog *FrameLog) (*Result, error) {

	img := gocv.NewMat()
	defer img.Close()

	frameNum := 0

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		// a frame that fails to decode ends the stream like the last frame,
		// so every frame read is tracked and written
		if ok := src.Read(&img); !ok || img.Empty() {
			if ok {
				Logf("Run %s frame %d decoded empty, ending stream", r.ID, frameNum)
			}
			break
		}

		dets, err := det.Detect(img, frameNum)

		if err != nil {
			return nil, fmt.Errorf("frame %d: error detecting objects: %w", frameNum, err)
		}

		fr, err := r.Step(frameNum, tracker.DetectionsToBoxes(dets, r.Config.TargetClass))

		if err != nil {
			return nil, err
		}

		r.Annotate(&img, fr)

		if flog != nil {
			if err := flog.Write(fr); err != nil {
				return nil, fmt.Errorf("frame %d: error writing frame log: %w", frameNum, err)
			}
		}

		if err := sink.Write(img); err != nil {
			if errors.Is(err, video.ErrStopped) {
				Logf("Run %s stopped by user at frame %d", r.ID, frameNum)
				r.stopped = true
				break
			}

			return nil, fmt.Errorf("frame %d: error writing frame: %w", frameNum, err)
		}

		frameNum++
	}

	return r.Result(), nil
}

// Result returns the summary of the frames processed so far
func (r *Run) Result() *Result {

	res := &Result{
		RunID:   r.ID,
		Count:   r.counter.Count(),
		Counted: r.counter.Counted(),
		Frames:  r.frames,
		Elapsed: time.Since(r.started),
		Stopped: r.stopped,
	}

	if len(r.detections) > 0 {
		res.MeanDetections = stat.Mean(r.detections, nil)
		res.MaxDetections = floats.Max(r.detections)
	}

	return res
}
