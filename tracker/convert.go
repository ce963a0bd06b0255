package tracker

import "github.com/swdee/go-treecount/postprocess"

// DetectionsToBoxes takes the object detection results and converts those
// of the given class into tracker boxes, keeping the detector's order
func DetectionsToBoxes(dets []postprocess.DetectResult, class int) []Box {

	boxes := make([]Box, 0, len(dets))

	for _, det := range dets {

		if det.Class != class {
			continue
		}

		boxes = append(boxes, NewBox(det.Box.Left, det.Box.Top,
			det.Box.Right, det.Box.Bottom))
	}

	return boxes
}
