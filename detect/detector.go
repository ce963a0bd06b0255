// Package detect provides the object detectors that feed bounding boxes to
// the tracker, either by running a YOLOv8 Model on each frame or by
// replaying detections recorded in a JSON lines file.
package detect

import (
	"errors"
	"fmt"
	"log"

	"github.com/swdee/go-treecount/postprocess"
	"gocv.io/x/gocv"
)

// Logf is the package logger used to report rejected detections.  It
// defaults to log.Printf and may be replaced, eg: to mute it in tests.
var Logf = log.Printf

// ErrInvalidDetection is the error wrapped by every InvalidDetectionError
var ErrInvalidDetection = errors.New("invalid detection")

// Detector finds the objects in a single video frame
type Detector interface {
	// Detect returns the objects found in the frame in the order produced
	// by the detector.  frameNum is the zero based index of the frame in
	// the video.
	Detect(img gocv.Mat, frameNum int) ([]postprocess.DetectResult, error)
	// Close releases any resources held by the detector
	Close() error
}

// InvalidDetectionError describes a single detection that was rejected
// because its coordinates were missing or malformed
type InvalidDetectionError struct {
	Frame  int
	Index  int
	Reason string
}

func (e *InvalidDetectionError) Error() string {
	return fmt.Sprintf("frame %d detection %d: %s", e.Frame, e.Index, e.Reason)
}

func (e *InvalidDetectionError) Unwrap() error {
	return ErrInvalidDetection
}
