package treecount

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/sjson"
)

// Paths are the artifact files written for a run
type Paths struct {
	// Video is the annotated output video
	Video string
	// Count is the text file holding the final count
	Count string
	// FrameLog is the JSON lines file of per frame results
	FrameLog string
	// Snapshot is the first frame image used for line placement
	Snapshot string
}

// OutputPaths returns the artifact file names for the given input video
// placed in resultsDir
func OutputPaths(resultsDir, videoPath string) Paths {

	base := filepath.Base(videoPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	return Paths{
		Video:    filepath.Join(resultsDir, "processed_"+base),
		Count:    filepath.Join(resultsDir, "final_count_"+base+".txt"),
		FrameLog: filepath.Join(resultsDir, "frames_"+stem+".jsonl"),
		Snapshot: filepath.Join(resultsDir, base+"_snapshot.jpg"),
	}
}

// FormatCount returns the content of the final count file
func FormatCount(n int) string {
	return fmt.Sprintf("Total trees counted: %d", n)
}

// WriteCount saves the final count to file
func WriteCount(file string, n int) error {

	if err := os.WriteFile(file, []byte(FormatCount(n)), 0644); err != nil {
		return fmt.Errorf("error writing count file: %w", err)
	}

	return nil
}

// ReadCount reads back a count file written by WriteCount
func ReadCount(file string) (int, error) {

	data, err := os.ReadFile(file)

	if err != nil {
		return 0, fmt.Errorf("error reading count file: %w", err)
	}

	text := strings.TrimSpace(string(data))
	idx := strings.LastIndex(text, ":")

	if idx < 0 {
		return 0, fmt.Errorf("malformed count file %s", file)
	}

	n, err := strconv.Atoi(strings.TrimSpace(text[idx+1:]))

	if err != nil {
		return 0, fmt.Errorf("malformed count in %s: %w", file, err)
	}

	return n, nil
}

// FrameLog writes one JSON object per processed frame, eg:
//
//	{"run":"...","frame":3,"count":1,"objects":[{"id":0,"box":[10,40,30,60],"class":0,"straddle":true}]}
//
// The file can be replayed as recorded detections.
type FrameLog struct {
	w      *bufio.Writer
	closer io.Closer
	runID  string
	class  int
}

// NewFrameLog writes frame records to w, tagging each with the run ID and
// the class of the tracked objects
func NewFrameLog(w io.Writer, runID string, class int) *FrameLog {

	fl := &FrameLog{
		w:     bufio.NewWriter(w),
		runID: runID,
		class: class,
	}

	if c, ok := w.(io.Closer); ok {
		fl.closer = c
	}

	return fl
}

// CreateFrameLog creates the frame log file
func CreateFrameLog(file, runID string, class int) (*FrameLog, error) {

	f, err := os.Create(file)

	if err != nil {
		return nil, fmt.Errorf("error creating frame log: %w", err)
	}

	return NewFrameLog(f, runID, class), nil
}

// Write appends the record of one frame
func (fl *FrameLog) Write(fr FrameResult) error {

	straddling := make(map[int]bool, len(fr.Straddling))

	for _, s := range fr.Straddling {
		straddling[s.ID] = true
	}

	line, err := fl.header(fr)

	if err != nil {
		return err
	}

	for _, tr := range fr.Tracked {

		obj, err := sjson.Set("", "id", tr.ID)

		if err != nil {
			return err
		}

		if obj, err = sjson.Set(obj, "box",
			[]int{tr.Box.X1, tr.Box.Y1, tr.Box.X2, tr.Box.Y2}); err != nil {
			return err
		}

		if obj, err = sjson.Set(obj, "class", fl.class); err != nil {
			return err
		}

		if obj, err = sjson.Set(obj, "straddle", straddling[tr.ID]); err != nil {
			return err
		}

		if line, err = sjson.SetRaw(line, "objects.-1", obj); err != nil {
			return err
		}
	}

	if _, err := fl.w.WriteString(line + "\n"); err != nil {
		return err
	}

	return nil
}

// header builds the frame record without its objects
func (fl *FrameLog) header(fr FrameResult) (string, error) {

	line, err := sjson.Set("", "run", fl.runID)

	if err != nil {
		return "", err
	}

	if line, err = sjson.Set(line, "frame", fr.Frame); err != nil {
		return "", err
	}

	if line, err = sjson.Set(line, "count", fr.Count); err != nil {
		return "", err
	}

	return sjson.SetRaw(line, "objects", "[]")
}

// Close flushes the log and closes the underlying writer if it is closable
func (fl *FrameLog) Close() error {

	if err := fl.w.Flush(); err != nil {
		return fmt.Errorf("error flushing frame log: %w", err)
	}

	if fl.closer != nil {
		return fl.closer.Close()
	}

	return nil
}
