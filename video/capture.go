// Package video reads frames from video files and writes annotated frames
// back out using GoCV
package video

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// ErrNoFrames is returned when a video contains no readable frame
var ErrNoFrames = errors.New("video has no readable frames")

// Info holds the geometry and frame rate of a video stream
type Info struct {
	Width  int
	Height int
	FPS    float64
	// Frames is the frame count reported by the container, it may be zero
	// or approximate
	Frames int
}

// Source is a sequential reader of video frames
type Source interface {
	// Read decodes the next frame into img and returns false once the
	// stream is exhausted
	Read(img *gocv.Mat) bool
	Info() Info
	Close() error
}

// Capture reads frames from a video file
type Capture struct {
	vc   *gocv.VideoCapture
	info Info
}

// OpenCapture opens the video file for reading
func OpenCapture(file string) (*Capture, error) {

	vc, err := gocv.VideoCaptureFile(file)

	if err != nil {
		return nil, fmt.Errorf("error opening video %s: %w", file, err)
	}

	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("error opening video %s", file)
	}

	return &Capture{
		vc: vc,
		info: Info{
			Width:  int(vc.Get(gocv.VideoCaptureFrameWidth)),
			Height: int(vc.Get(gocv.VideoCaptureFrameHeight)),
			FPS:    vc.Get(gocv.VideoCaptureFPS),
			Frames: int(vc.Get(gocv.VideoCaptureFrameCount)),
		},
	}, nil
}

// Read the next frame from the video
func (c *Capture) Read(img *gocv.Mat) bool {
	return c.vc.Read(img)
}

// Info returns the video geometry
func (c *Capture) Info() Info {
	return c.info
}

// Close the video file
func (c *Capture) Close() error {
	return c.vc.Close()
}

// Snapshot saves the first frame of the video file as an image, used for
// choosing where to place the counting line
func Snapshot(file, outFile string) (Info, error) {

	c, err := OpenCapture(file)

	if err != nil {
		return Info{}, err
	}

	defer c.Close()

	img := gocv.NewMat()
	defer img.Close()

	if ok := c.Read(&img); !ok || img.Empty() {
		return Info{}, fmt.Errorf("error reading first frame of %s: %w", file, ErrNoFrames)
	}

	if ok := gocv.IMWrite(outFile, img); !ok {
		return Info{}, fmt.Errorf("error writing snapshot %s", outFile)
	}

	// the container may not report geometry, so use the decoded frame
	info := c.Info()
	info.Width = img.Cols()
	info.Height = img.Rows()

	return info, nil
}
