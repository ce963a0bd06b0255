package postprocess

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSortByScore(t *testing.T) {

	order := sortByScore([]float32{0.3, 0.9, 0.3, 0.5})

	if diff := cmp.Diff([]int{1, 3, 0, 2}, order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestIOU(t *testing.T) {

	tests := []struct {
		name string
		a, b []float32
		want float32
	}{
		{"identical", []float32{0, 0, 9, 9}, []float32{0, 0, 9, 9}, 1},
		{"disjoint", []float32{0, 0, 9, 9}, []float32{20, 20, 9, 9}, 0},
		// 10x10 pixel boxes sharing a 5x10 strip
		{"half", []float32{0, 0, 9, 9}, []float32{5, 0, 9, 9}, 50.0 / 150.0},
	}

	for _, tt := range tests {
		got := iou(tt.a, tt.b)

		if math.Abs(float64(got-tt.want)) > 1e-6 {
			t.Errorf("%s: expected %f, got %f", tt.name, tt.want, got)
		}
	}
}

func TestClamp(t *testing.T) {

	if clamp(-3, 0, 10) != 0 || clamp(12, 0, 10) != 10 || clamp(4.5, 0, 10) != 4.5 {
		t.Errorf("clamp did not restrict values to range")
	}
}
