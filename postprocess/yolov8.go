package postprocess

import (
	"fmt"
)

// Letterbox describes how a source frame was scaled and padded to fit the
// Model input tensor, so detections can be mapped back onto the source frame
type Letterbox interface {
	ScaleFactor() float32
	XPad() int
	YPad() int
	SrcWidth() int
	SrcHeight() int
}

// YOLOv8 defines the struct for YOLOv8 model inference post processing
type YOLOv8 struct {
	// Params are the Model configuration parameters
	Params YOLOv8Params
	// idGen provides the next number for each detection result ID
	idGen *IDGenerator
}

// YOLOv8Params defines the struct containing the YOLOv8 parameters to use
// for post processing operations
type YOLOv8Params struct {
	// BoxThreshold is the minimum probability score required for a bounding box
	// region to be considered for processing
	BoxThreshold float32
	// NMSThreshold is the Non-Maximum Suppression threshold used for defining
	// the maximum allowed Intersection Over Union (IoU) between two
	// bounding boxes for both to be kept
	NMSThreshold float32
	// ObjectClassNum is the number of different object classes the Model has
	// been trained with
	ObjectClassNum int
	// MaxObjectNumber is the maximum number of objects detected that can be
	// returned
	MaxObjectNumber int
}

// YOLOv8TreeParams returns an instance of YOLOv8Params configured with
// default values for a single class tree Model featuring:
// - Object Classes: 1
// - Box Threshold: 0.25
// - NMS Threshold: 0.45
// - Maximum Object Number: 64
func YOLOv8TreeParams() YOLOv8Params {
	return YOLOv8Params{
		BoxThreshold:    0.25,
		NMSThreshold:    0.45,
		ObjectClassNum:  1,
		MaxObjectNumber: 64,
	}
}

// YOLOv8COCOParams returns an instance of YOLOv8Params configured with
// default values for a Model trained on the COCO dataset featuring:
// - Object Classes: 80
// - Box Threshold: 0.25
// - NMS Threshold: 0.45
// - Maximum Object Number: 64
func YOLOv8COCOParams() YOLOv8Params {
	return YOLOv8Params{
		BoxThreshold:    0.25,
		NMSThreshold:    0.45,
		ObjectClassNum:  80,
		MaxObjectNumber: 64,
	}
}

// NewYOLOv8 returns an instance of the YOLOv8 post processor
func NewYOLOv8(p YOLOv8Params) *YOLOv8 {
	return &YOLOv8{
		Params: p,
		idGen:  NewIDGenerator(),
	}
}

// strideData holds the candidate boxes that passed the score threshold
type strideData struct {
	filterBoxes []float32
	objProbs    []float32
	classID     []int
}

// DetectObjects takes the float output tensor of an exported YOLOv8 Model
// and returns the detected objects in source frame coordinates.  The tensor
// layout is [1, rows, anchors] where rows is 4 box attributes (center x,
// center y, width, height) followed by one score per class.
func (y *YOLOv8) DetectObjects(output []float32, rows, anchors int,
	lb Letterbox) ([]DetectResult, error) {

	if rows != 4+y.Params.ObjectClassNum {
		return nil, fmt.Errorf("output has %d rows, expected %d for %d classes",
			rows, 4+y.Params.ObjectClassNum, y.Params.ObjectClassNum)
	}

	if len(output) < rows*anchors {
		return nil, fmt.Errorf("output has %d values, expected %d",
			len(output), rows*anchors)
	}

	data := &strideData{
		filterBoxes: make([]float32, 0),
		objProbs:    make([]float32, 0),
		classID:     make([]int, 0),
	}

	validCount := 0

	for a := 0; a < anchors; a++ {

		maxScore := float32(0)
		maxClassID := -1

		for c := 0; c < y.Params.ObjectClassNum; c++ {
			score := output[(4+c)*anchors+a]

			if score > maxScore {
				maxScore = score
				maxClassID = c
			}
		}

		if maxClassID < 0 || maxScore < y.Params.BoxThreshold {
			continue
		}

		cx := output[0*anchors+a]
		cy := output[1*anchors+a]
		w := output[2*anchors+a]
		h := output[3*anchors+a]

		data.filterBoxes = append(data.filterBoxes, cx-w/2, cy-h/2, w, h)
		data.objProbs = append(data.objProbs, maxScore)
		data.classID = append(data.classID, maxClassID)
		validCount++
	}

	if validCount <= 0 {
		// no object detected
		return []DetectResult{}, nil
	}

	// indexArray holds the candidate indexes ordered by score
	indexArray := sortByScore(data.objProbs)

	// create a unique set of ClassID (ie: eliminate any multiples found)
	classSet := make(map[int]bool)

	for _, id := range data.classID {
		classSet[id] = true
	}

	for c := range classSet {
		nms(validCount, data.filterBoxes, data.classID, indexArray, c,
			y.Params.NMSThreshold)
	}

	// collate objects into a result for returning
	group := make([]DetectResult, 0)
	scale := lb.ScaleFactor()

	for i := 0; i < validCount; i++ {
		if indexArray[i] == -1 || len(group) >= y.Params.MaxObjectNumber {
			continue
		}
		n := indexArray[i]

		x1 := (data.filterBoxes[n*4+0] - float32(lb.XPad())) / scale
		y1 := (data.filterBoxes[n*4+1] - float32(lb.YPad())) / scale
		x2 := x1 + data.filterBoxes[n*4+2]/scale
		y2 := y1 + data.filterBoxes[n*4+3]/scale

		group = append(group, DetectResult{
			Box: BoxRect{
				Left:   int(clamp(x1, 0, lb.SrcWidth())),
				Top:    int(clamp(y1, 0, lb.SrcHeight())),
				Right:  int(clamp(x2, 0, lb.SrcWidth())),
				Bottom: int(clamp(y2, 0, lb.SrcHeight())),
			},
			Probability: data.objProbs[n],
			Class:       data.classID[n],
			ID:          y.idGen.GetNext(),
		})
	}

	return group, nil
}
