package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/swdee/go-treecount/tracker"
	"gocv.io/x/gocv"
)

// boxLabel holds the precalculated position of a box label
type boxLabel struct {
	rect    image.Rectangle
	clr     color.RGBA
	text    string
	textPos image.Point
}

// BoxStyle defines the parameters used for rendering boxes around objects
// on the counting line
type BoxStyle struct {
	Color         color.RGBA
	LineThickness int
	// ShowID draws a label with the track ID above the box
	ShowID bool
}

// DefaultBoxStyle returns default box style settings
func DefaultBoxStyle() BoxStyle {
	return BoxStyle{
		Color:         Green,
		LineThickness: 2,
		ShowID:        true,
	}
}

// CountedBoxes renders the bounding boxes of the tracked objects straddling
// the counting line in the current frame
func CountedBoxes(img *gocv.Mat, straddling []tracker.Tracked,
	style BoxStyle, font Font) {

	// keep a record of all box labels for later rendering
	boxLabels := make([]boxLabel, 0)

	for _, tr := range straddling {

		gocv.Rectangle(img, tr.Box.Rectangle(), style.Color, style.LineThickness)

		if !style.ShowID {
			continue
		}

		text := fmt.Sprintf("%d", tr.ID)
		textSize := gocv.GetTextSize(text, font.Face, font.Scale, font.Thickness)

		// Calculate the alignment of text label
		var centerX int

		switch font.Alignment {
		case Center:
			centerX = (tr.Box.X1 + tr.Box.X2) / 2

		case Right:
			centerX = tr.Box.X2 - (textSize.X / 2) - font.RightPad + (style.LineThickness / 2)

		case Left:
			fallthrough
		default:
			centerX = tr.Box.X1 + (textSize.X / 2) + font.LeftPad - (style.LineThickness / 2)
		}

		// Adjust the label position so the text is centered horizontally
		labelPosition := image.Pt(centerX-textSize.X/2, tr.Box.Y1-font.BottomPad)

		// create box for placing text on
		bRect := image.Rect(centerX-textSize.X/2-font.LeftPad,
			tr.Box.Y1-textSize.Y-font.TopPad-font.BottomPad,
			centerX+textSize.X/2+font.RightPad, tr.Box.Y1)

		boxLabels = append(boxLabels, boxLabel{
			rect:    bRect,
			clr:     style.Color,
			text:    text,
			textPos: labelPosition,
		})
	}

	// draw labels last so they are the top most layer and don't get
	// overlapped by neighbouring boxes
	for _, box := range boxLabels {
		gocv.Rectangle(img, box.rect, box.clr, -1)

		gocv.PutTextWithParams(img, box.text, box.textPos,
			font.Face, font.Scale, font.Color, font.Thickness,
			font.LineType, false)
	}
}
