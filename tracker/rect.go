package tracker

import (
	"image"
)

// Point represents the x,y pixel coordinates of the center of a bounding box
type Point struct {
	X, Y int
}

// Box represents an axis aligned bounding box of a single detection in
// (x1, y1, x2, y2) pixel coordinates where (x1, y1) is the top left corner
// and (x2, y2) the bottom right corner
type Box struct {
	X1, Y1, X2, Y2 int
}

// NewBox creates a new Box with given corner coordinates
func NewBox(x1, y1, x2, y2 int) Box {
	return Box{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Width returns the width of the box
func (b Box) Width() int {
	return b.X2 - b.X1
}

// Height returns the height of the box
func (b Box) Height() int {
	return b.Y2 - b.Y1
}

// Center returns the midpoint of the box.  Coordinates are floored so
// negative boxes partially outside of the frame round the same way as
// positive ones.
func (b Box) Center() Point {
	return Point{
		X: floorDiv(b.X1+b.X2, 2),
		Y: floorDiv(b.Y1+b.Y2, 2),
	}
}

// Straddles returns true when the vertical extent of the box [Y1, Y2]
// contains the horizontal line at row y
func (b Box) Straddles(y int) bool {
	return b.Y1 <= y && y <= b.Y2
}

// Rectangle converts the box to an image.Rectangle for drawing
func (b Box) Rectangle() image.Rectangle {
	return image.Rect(b.X1, b.Y1, b.X2, b.Y2)
}

// floorDiv performs integer division rounding towards negative infinity
func floorDiv(a, b int) int {
	q := a / b

	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}

	return q
}
