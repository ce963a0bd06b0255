package video

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// DefaultCodec is the FourCC code used for mp4 output
const DefaultCodec = "mp4v"

// ErrStopped is returned by a Sink when the user asked for processing to
// end early
var ErrStopped = errors.New("stopped by user")

// Sink receives processed frames
type Sink interface {
	Write(img gocv.Mat) error
	Close() error
}

// Writer encodes frames to a video file
type Writer struct {
	vw *gocv.VideoWriter
}

// NewWriter creates the output video file with the given geometry and frame
// rate
func NewWriter(file, codec string, info Info) (*Writer, error) {

	if codec == "" {
		codec = DefaultCodec
	}

	vw, err := gocv.VideoWriterFile(file, codec, info.FPS, info.Width, info.Height, true)

	if err != nil {
		return nil, fmt.Errorf("error creating video %s: %w", file, err)
	}

	if !vw.IsOpened() {
		vw.Close()
		return nil, fmt.Errorf("error creating video %s with codec %s", file, codec)
	}

	return &Writer{vw: vw}, nil
}

// Write encodes the frame
func (w *Writer) Write(img gocv.Mat) error {
	return w.vw.Write(img)
}

// Close flushes and closes the video file
func (w *Writer) Close() error {
	return w.vw.Close()
}

// Preview shows frames in a desktop window as they are processed.  Pressing
// q in the window ends processing.
type Preview struct {
	window *gocv.Window
}

// NewPreview opens a window with the given title
func NewPreview(title string) *Preview {
	return &Preview{
		window: gocv.NewWindow(title),
	}
}

// Write displays the frame and returns ErrStopped if q was pressed
func (p *Preview) Write(img gocv.Mat) error {

	p.window.IMShow(img)

	if p.window.WaitKey(1)&0xFF == 'q' {
		return ErrStopped
	}

	return nil
}

// Close the window
func (p *Preview) Close() error {
	return p.window.Close()
}

// MultiSink writes each frame to all of its sinks in order
type MultiSink []Sink

// Write passes the frame to every sink, stopping at the first error
func (m MultiSink) Write(img gocv.Mat) error {

	for _, s := range m {
		if err := s.Write(img); err != nil {
			return err
		}
	}

	return nil
}

// Close closes every sink and returns the first error
func (m MultiSink) Close() error {

	var first error

	for _, s := range m {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}

	return first
}
