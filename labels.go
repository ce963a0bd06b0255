package treecount

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadLabels reads the labels used to train the Model from the given text file.
// It should contain one label per line.
func LoadLabels(file string) ([]string, error) {

	// open the file
	f, err := os.Open(file)

	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}

	defer f.Close()

	// create a scanner to read the file.
	scanner := bufio.NewScanner(f)

	var labels []string

	// read and trim each line
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		labels = append(labels, line)
	}

	// check for errors during scanning
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	return labels, nil
}

// ClassIndex returns the class number of the named label, which is its
// line number in the labels file counting from zero
func ClassIndex(labels []string, name string) (int, error) {

	for i, label := range labels {
		if strings.EqualFold(label, strings.TrimSpace(name)) {
			return i, nil
		}
	}

	return -1, fmt.Errorf("label %q not found in %d labels", name, len(labels))
}
