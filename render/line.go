package render

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// LineStyle defines the parameters used for rendering the counting line
type LineStyle struct {
	Color     color.RGBA
	Thickness int
}

// DefaultLineStyle returns default counting line settings
func DefaultLineStyle() LineStyle {
	return LineStyle{
		Color:     Red,
		Thickness: 3,
	}
}

// CountingLine draws the horizontal counting line across the full width of
// the image at row y
func CountingLine(img *gocv.Mat, y int, style LineStyle) {
	gocv.Line(img, image.Pt(0, y), image.Pt(img.Cols()-1, y),
		style.Color, style.Thickness)
}

// CountOverlay writes the running count in the top left corner of the image
func CountOverlay(img *gocv.Mat, count int, font Font) {
	gocv.PutTextWithParams(img, fmt.Sprintf("count: %d", count),
		image.Pt(60, 40), font.Face, font.Scale, font.Color, font.Thickness,
		font.LineType, false)
}
