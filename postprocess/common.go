package postprocess

import (
	"sort"
)

// clamp restricts val to the range min to max
func clamp(val float32, min, max int) float32 {

	if val < float32(min) {
		return float32(min)
	}

	if val > float32(max) {
		return float32(max)
	}

	return val
}

// sortByScore returns the indexes of scores ordered from highest to lowest
// score.  Equal scores keep their anchor order.
func sortByScore(scores []float32) []int {

	order := make([]int, len(scores))

	for i := range order {
		order[i] = i
	}

	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	return order
}

// nms implements a Non-Maximum Suppression (NMS) algorithm over boxes of a
// single class.  outputLocations holds boxes as x, y, width, height and
// order holds box indexes sorted by score, suppressed entries are set to -1
func nms(validCount int, outputLocations []float32, classIds, order []int,
	filterId int, threshold float32) {

	for i := 0; i < validCount; i++ {

		n := order[i]

		if n == -1 || classIds[n] != filterId {
			continue
		}

		for j := i + 1; j < validCount; j++ {
			m := order[j]

			if m == -1 || classIds[m] != filterId {
				continue
			}

			if iou(outputLocations[n*4:n*4+4], outputLocations[m*4:m*4+4]) > threshold {
				order[j] = -1
			}
		}
	}
}

// iou returns the Intersection over Union of two x, y, width, height boxes
// measured in whole pixels, so edges are inclusive
func iou(a, b []float32) float32 {

	ax2, ay2 := a[0]+a[2], a[1]+a[3]
	bx2, by2 := b[0]+b[2], b[1]+b[3]

	w := min32(ax2, bx2) - max32(a[0], b[0]) + 1
	h := min32(ay2, by2) - max32(a[1], b[1]) + 1

	if w <= 0 || h <= 0 {
		return 0
	}

	inter := w * h
	union := (a[2]+1)*(a[3]+1) + (b[2]+1)*(b[3]+1) - inter

	if union <= 0 {
		return 0
	}

	return inter / union
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
