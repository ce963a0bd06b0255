package video

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

// countSink records how many frames were written to it
type countSink struct {
	writes   int
	closed   bool
	writeErr error
	closeErr error
}

func (c *countSink) Write(img gocv.Mat) error {
	c.writes++
	return c.writeErr
}

func (c *countSink) Close() error {
	c.closed = true
	return c.closeErr
}

func TestMultiSinkStopsAtFirstError(t *testing.T) {

	img := gocv.NewMat()
	defer img.Close()

	first := &countSink{writeErr: ErrStopped}
	second := &countSink{}

	err := MultiSink{first, second}.Write(img)

	if !errors.Is(err, ErrStopped) {
		t.Errorf("expected ErrStopped, got %v", err)
	}

	if second.writes != 0 {
		t.Errorf("expected second sink not to be written to")
	}
}

func TestMultiSinkClosesAll(t *testing.T) {

	closeErr := errors.New("close failed")
	first := &countSink{closeErr: closeErr}
	second := &countSink{}

	err := MultiSink{first, second}.Close()

	if !errors.Is(err, closeErr) {
		t.Errorf("expected first close error, got %v", err)
	}

	if !first.closed || !second.closed {
		t.Errorf("expected all sinks to be closed")
	}
}
