package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/swdee/go-treecount"
	"github.com/swdee/go-treecount/detect"
	"github.com/swdee/go-treecount/postprocess"
	"github.com/swdee/go-treecount/tracker"
	"github.com/swdee/go-treecount/video"
)

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	// read in cli flags
	vidFile := flag.String("v", "../data/orchard.mp4", "Video file to count trees in")
	modelFile := flag.String("m", "../data/yolov8n-tree.onnx", "ONNX exported YOLOv8 model file")
	replayFile := flag.String("r", "", "JSON lines file of recorded detections to use instead of the model")
	labelFile := flag.String("l", "../data/tree_labels_list.txt", "Text file containing model labels, optional with -r")
	className := flag.String("c", "tree", "Label of the object class to count")
	lineY := flag.Int("y", -1, "Pixel row of the horizontal counting line")
	threshold := flag.Float64("d", tracker.DefaultDistanceThreshold, "Maximum center distance in pixels for an object to keep its ID between frames")
	nearest := flag.Bool("nearest", false, "Match each box to the nearest track instead of the first one under the distance threshold")
	resultsDir := flag.String("o", "results", "Directory to write the processed video and count to")
	inputSize := flag.Int("s", 640, "Square input size the model was exported with")
	frameLog := flag.Bool("f", false, "Write a JSON lines log of every frame")
	show := flag.Bool("show", false, "Show processed frames in a window, press q to stop")
	snapshot := flag.Bool("snapshot", false, "Save the first frame of the video for choosing the line position and exit")
	trailSize := flag.Int("trail", 0, "Number of center points drawn behind each object, 0 disables trails")

	flag.Parse()

	if *snapshot {
		if err := os.MkdirAll(*resultsDir, 0755); err != nil {
			log.Fatalf("Error creating results directory: %v", err)
		}

		outFile := treecount.OutputPaths(*resultsDir, *vidFile).Snapshot
		info, err := video.Snapshot(*vidFile, outFile)

		if err != nil {
			log.Fatalf("Error taking snapshot: %v", err)
		}

		log.Printf("Saved first frame to %s, frame size %dx%d", outFile,
			info.Width, info.Height)
		return
	}

	if *lineY < 0 {
		log.Fatal("A counting line must be given with -y, use -snapshot to view the first frame")
	}

	cfg := treecount.DefaultRunConfig()
	cfg.VideoPath = *vidFile
	cfg.ResultsDir = *resultsDir
	cfg.LineY = *lineY
	cfg.Tracker.DistanceThreshold = *threshold
	cfg.FrameLog = *frameLog
	cfg.Preview = *show
	cfg.TrailSize = *trailSize

	if *nearest {
		cfg.Tracker.Policy = tracker.MatchNearest
	}

	res, err := count(cfg, *modelFile, *replayFile, *labelFile, *className,
		*inputSize, flagSet("l"))

	if err != nil {
		log.Fatalf("Error counting %s: %v", filepath.Base(*vidFile), err)
	}

	if res.Stopped {
		log.Printf("Processing stopped early after %d frames", res.Frames)
	}

	log.Printf("%s", treecount.FormatCount(res.Count))
	log.Printf("Processed video saved to %s", res.Paths.Video)
	log.Printf("Count saved to %s", res.Paths.Count)

	if res.Paths.FrameLog != "" {
		log.Printf("Frame log saved to %s", res.Paths.FrameLog)
	}
}

// flagSet returns true if the named flag was given on the command line
func flagSet(name string) bool {

	set := false

	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})

	return set
}

// count creates the detector and runs the count.  Recorded detections only
// need the labels file when one is given, otherwise class 0 is counted.
func count(cfg treecount.RunConfig, modelFile, replayFile, labelFile,
	className string, inputSize int, labelsGiven bool) (*treecount.Result, error) {

	var labels []string
	var err error

	if replayFile == "" || labelsGiven {
		// load in Model class names
		labels, err = treecount.LoadLabels(labelFile)

		if err != nil {
			return nil, fmt.Errorf("error loading model labels: %w", err)
		}

		cfg.TargetClass, err = treecount.ClassIndex(labels, className)

		if err != nil {
			return nil, fmt.Errorf("error finding class to count: %w", err)
		}
	}

	var det detect.Detector

	if replayFile != "" {
		det, err = detect.OpenReplay(replayFile)

		if err != nil {
			return nil, fmt.Errorf("error reading recorded detections: %w", err)
		}

	} else {
		params := postprocess.YOLOv8TreeParams()
		params.ObjectClassNum = len(labels)

		det, err = detect.NewDNN(modelFile, params, inputSize)

		if err != nil {
			return nil, fmt.Errorf("error loading model: %w", err)
		}
	}

	defer det.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return treecount.Execute(ctx, cfg, det)
}
