package detect

import (
	"fmt"
	"image"

	"github.com/swdee/go-treecount/postprocess"
	"github.com/swdee/go-treecount/preprocess"
	"gocv.io/x/gocv"
)

// DNN runs a YOLOv8 Model exported to ONNX through the OpenCV DNN module
type DNN struct {
	// net is the loaded Model
	net gocv.Net
	// process is the YOLOv8 output decoder
	process *postprocess.YOLOv8
	// size is the square input tensor size of the Model
	size int
	// resizer letterboxes frames to the input size
	resizer *preprocess.Resizer
	// lbImg is the letterboxed frame reused between calls
	lbImg gocv.Mat
}

// NewDNN loads the ONNX Model file.  inputSize is the square input
// dimension the Model was exported with, eg: 640
func NewDNN(modelFile string, params postprocess.YOLOv8Params,
	inputSize int) (*DNN, error) {

	net := gocv.ReadNetFromONNX(modelFile)

	if net.Empty() {
		return nil, fmt.Errorf("error loading model file %s", modelFile)
	}

	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	return &DNN{
		net:     net,
		process: postprocess.NewYOLOv8(params),
		size:    inputSize,
		resizer: preprocess.NewResizer(inputSize, inputSize, preprocess.YOLOPad),
		lbImg:   gocv.NewMat(),
	}, nil
}

// Detect runs the Model on the frame and returns the detections in frame
// coordinates
func (d *DNN) Detect(img gocv.Mat, frameNum int) ([]postprocess.DetectResult, error) {

	d.resizer.LetterBox(img, &d.lbImg)

	// frames are BGR, the Model expects RGB scaled to 0..1
	blob := gocv.BlobFromImage(d.lbImg, 1.0/255.0, image.Pt(d.size, d.size),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")

	output := d.net.Forward("")
	defer output.Close()

	dims := output.Size()

	if len(dims) != 3 {
		return nil, fmt.Errorf("frame %d: unexpected output dimensions %v", frameNum, dims)
	}

	data, err := output.DataPtrFloat32()

	if err != nil {
		return nil, fmt.Errorf("frame %d: error reading output tensor: %w", frameNum, err)
	}

	dets, err := d.process.DetectObjects(data, dims[1], dims[2], d.resizer)

	if err != nil {
		return nil, fmt.Errorf("frame %d: %w", frameNum, err)
	}

	return dets, nil
}

// Close frees the Model and buffers
func (d *DNN) Close() error {

	d.resizer.Close()
	d.lbImg.Close()

	return d.net.Close()
}
