package treecount

import (
	"errors"
	"fmt"
	"math"

	"github.com/swdee/go-treecount/tracker"
	"github.com/swdee/go-treecount/video"
)

// ErrLineOutOfFrame is returned when the counting line does not cross the
// video frame
var ErrLineOutOfFrame = errors.New("counting line is outside the frame")

// RunConfig holds the parameters of a single counting run.  They are fixed
// once the run starts.
type RunConfig struct {
	// VideoPath is the input video file
	VideoPath string
	// ResultsDir is the directory artifacts are written to
	ResultsDir string
	// LineY is the pixel row of the horizontal counting line
	LineY int
	// TargetClass is the detector class that is tracked and counted, all
	// other classes are ignored
	TargetClass int
	// Tracker configures identity matching between frames
	Tracker tracker.Config
	// Codec is the FourCC code of the output video
	Codec string
	// FrameLog enables writing the per frame JSON lines log
	FrameLog bool
	// TrailSize is the number of center points drawn behind each object,
	// zero disables trails
	TrailSize int
	// Preview shows frames in a window while processing
	Preview bool
}

// DefaultRunConfig returns a run configuration featuring:
// - Results Directory: results
// - Target Class: 0
// - Tracker: 35 pixel threshold, first match
// - Codec: mp4v
func DefaultRunConfig() RunConfig {
	return RunConfig{
		ResultsDir:  "results",
		TargetClass: 0,
		Tracker:     tracker.DefaultConfig(),
		Codec:       video.DefaultCodec,
	}
}

// Validate checks the configuration against the geometry of the input video.
// A zero height means the container did not report one and the line is
// only checked for being non-negative.
func (c RunConfig) Validate(info video.Info) error {

	d := c.Tracker.DistanceThreshold

	if !(d > 0) || math.IsInf(d, 1) {
		return fmt.Errorf("distance threshold must be a finite positive number, got %v", d)
	}

	if c.LineY < 0 || (info.Height > 0 && c.LineY >= info.Height) {
		return fmt.Errorf("line y=%d with frame height %d: %w",
			c.LineY, info.Height, ErrLineOutOfFrame)
	}

	if c.TargetClass < 0 {
		return fmt.Errorf("target class must not be negative, got %d", c.TargetClass)
	}

	return nil
}
