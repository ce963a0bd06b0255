package treecount

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadLabelsClassIndex(t *testing.T) {

	file := filepath.Join(t.TempDir(), "labels.txt")
	require.NoError(t, os.WriteFile(file, []byte("person\n  Tree \ncar\n"), 0644))

	labels, err := LoadLabels(file)
	require.NoError(t, err)
	require.Equal(t, []string{"person", "Tree", "car"}, labels)

	idx, err := ClassIndex(labels, "tree")
	require.NoError(t, err)
	require.Equal(t, 1, idx)

	idx, err = ClassIndex(labels, "bicycle")
	require.Error(t, err)
	require.Equal(t, -1, idx)
}
