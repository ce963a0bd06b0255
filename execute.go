package treecount

import (
	"context"
	"fmt"
	"os"

	"github.com/swdee/go-treecount/detect"
	"github.com/swdee/go-treecount/video"
)

// sinkOpener creates the output for the annotated frames of a run
type sinkOpener func(file string, cfg RunConfig, info video.Info) (video.Sink, error)

// openSinks writes frames to the output video and, when enabled, the
// preview window
func openSinks(file string, cfg RunConfig, info video.Info) (video.Sink, error) {

	writer, err := video.NewWriter(file, cfg.Codec, info)

	if err != nil {
		return nil, err
	}

	if cfg.Preview {
		return video.MultiSink{writer, video.NewPreview("Processed Video")}, nil
	}

	return writer, nil
}

// Execute counts the objects crossing the line in the configured video using
// the given detector.  The annotated video, final count and optional frame
// log are written to the results directory.  The count file is only written
// when the run completes or is stopped by the user.
func Execute(ctx context.Context, cfg RunConfig, det detect.Detector) (*Result, error) {

	src, err := video.OpenCapture(cfg.VideoPath)

	if err != nil {
		return nil, err
	}

	defer src.Close()

	return execute(ctx, cfg, src, det, openSinks)
}

// execute runs the frames of src through a new Run and writes the artifacts
func execute(ctx context.Context, cfg RunConfig, src video.Source,
	det detect.Detector, open sinkOpener) (*Result, error) {

	info := src.Info()

	if err := cfg.Validate(info); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := os.MkdirAll(cfg.ResultsDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating results directory: %w", err)
	}

	paths := OutputPaths(cfg.ResultsDir, cfg.VideoPath)
	paths.Snapshot = ""
	run := NewRun(cfg)

	Logf("Run %s processing %s (%dx%d @ %.2f fps, %d frames), line y=%d, class %d, tracker %s threshold %.1f",
		run.ID, cfg.VideoPath, info.Width, info.Height, info.FPS, info.Frames,
		cfg.LineY, cfg.TargetClass, cfg.Tracker.Policy, cfg.Tracker.DistanceThreshold)

	sink, err := open(paths.Video, cfg, info)

	if err != nil {
		return nil, err
	}

	var flog *FrameLog

	if cfg.FrameLog {
		flog, err = CreateFrameLog(paths.FrameLog, run.ID, cfg.TargetClass)

		if err != nil {
			sink.Close()
			return nil, err
		}
	} else {
		paths.FrameLog = ""
	}

	res, err := run.Process(ctx, src, det, sink, flog)

	if cerr := sink.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("error closing output video: %w", cerr)
	}

	if flog != nil {
		if cerr := flog.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}

	if err != nil {
		return nil, err
	}

	if res.Frames == 0 {
		return nil, fmt.Errorf("%s: %w", cfg.VideoPath, video.ErrNoFrames)
	}

	if err := WriteCount(paths.Count, res.Count); err != nil {
		return nil, err
	}

	res.Paths = paths

	Logf("Run %s counted %d objects over %d frames in %s, detections per frame mean=%.2f max=%.0f",
		run.ID, res.Count, res.Frames, res.Elapsed, res.MeanDetections, res.MaxDetections)

	return res, nil
}
