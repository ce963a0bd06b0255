// Package preprocess prepares video frames for Model inference
package preprocess

import (
	"image"
	"image/color"

	"github.com/swdee/go-treecount/postprocess"
	"gocv.io/x/gocv"
)

// YOLOPad is the letterbox padding color YOLO Models are trained with
var YOLOPad = color.RGBA{R: 114, G: 114, B: 114, A: 255}

var _ postprocess.Letterbox = (*Resizer)(nil)

// Resizer letterboxes frames to the Model input size, scaling them to fit
// whilst keeping their aspect and padding the remainder.  The scaling is
// worked out again whenever the frame size changes.
type Resizer struct {
	// dest is the Model input size
	dest image.Point
	// pad is the color of the letterbox padding
	pad color.RGBA
	// src is the frame size the scaling was worked out for
	src image.Point
	// resized is the frame size after scaling, before padding
	resized image.Point
	scale   float32
	xPad    int
	yPad    int
	// tempMat holds the scaled frame
	tempMat gocv.Mat
}

// NewResizer returns a resizer for a Model with the given input size
func NewResizer(destWidth, destHeight int, pad color.RGBA) *Resizer {
	return &Resizer{
		dest:    image.Pt(destWidth, destHeight),
		pad:     pad,
		tempMat: gocv.NewMat(),
	}
}

// Close frees the scaling buffer
func (r *Resizer) Close() error {
	return r.tempMat.Close()
}

// fit works out the scale and padding for a frame of the given size
func (r *Resizer) fit(width, height int) {

	if r.src.X == width && r.src.Y == height {
		return
	}

	r.src = image.Pt(width, height)

	scaleW := float32(r.dest.X) / float32(width)
	scaleH := float32(r.dest.Y) / float32(height)

	if scaleW < scaleH {
		// width limited, pad top and bottom
		r.scale = scaleW
		r.resized = image.Pt(r.dest.X, int(float32(height)*scaleW))
	} else {
		r.scale = scaleH
		r.resized = image.Pt(int(float32(width)*scaleH), r.dest.Y)
	}

	r.xPad = (r.dest.X - r.resized.X) / 2
	r.yPad = (r.dest.Y - r.resized.Y) / 2
}

// LetterBox scales src into dest at the Model input size
func (r *Resizer) LetterBox(src gocv.Mat, dest *gocv.Mat) {

	r.fit(src.Cols(), src.Rows())

	gocv.Resize(src, &r.tempMat, r.resized, 0, 0, gocv.InterpolationArea)

	gocv.CopyMakeBorder(r.tempMat, dest,
		r.yPad, r.dest.Y-r.resized.Y-r.yPad,
		r.xPad, r.dest.X-r.resized.X-r.xPad,
		gocv.BorderConstant, r.pad)
}

// ScaleFactor returns the scale applied to the last frame
func (r *Resizer) ScaleFactor() float32 {
	return r.scale
}

// XPad returns the left padding of the last frame
func (r *Resizer) XPad() int {
	return r.xPad
}

// YPad returns the top padding of the last frame
func (r *Resizer) YPad() int {
	return r.yPad
}

// SrcWidth returns the width of the last frame
func (r *Resizer) SrcWidth() int {
	return r.src.X
}

// SrcHeight returns the height of the last frame
func (r *Resizer) SrcHeight() int {
	return r.src.Y
}
