package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ClassIoU is the score of one class.
type ClassIoU struct {
	Index int
	Name  string
	IoU   float64
}

// Result is the outcome of one evaluation run.
type Result struct {
	Classes       []ClassIoU
	MeanIoU       float64
	PixelAccuracy float64
	Pairs         int
	Pixels        int64
	Excluded      int64
}

// PerClassIoU derives the IoU of every class from an accumulated matrix:
//
//	IoU(c) = M[c,c] / (sum(M[c,:]) + sum(M[:,c]) - M[c,c])
//
// A class absent from both ground truth and predictions has a zero union and
// yields NaN.
func PerClassIoU(m *ConfusionMatrix) []float64 {
	d := m.Dense()
	n := m.NumClasses()
	ious := make([]float64, n)

	row := make([]float64, n)
	col := make([]float64, n)
	for c := 0; c < n; c++ {
		mat.Row(row, c, d)
		mat.Col(col, c, d)
		inter := d.At(c, c)
		union := floats.Sum(row) + floats.Sum(col) - inter
		if union == 0 {
			ious[c] = math.NaN()
			continue
		}
		ious[c] = inter / union
	}
	return ious
}

// MeanIoU averages the defined (non-NaN) entries. It returns NaN when no
// class is defined.
func MeanIoU(ious []float64) float64 {
	defined := make([]float64, 0, len(ious))
	for _, v := range ious {
		if !math.IsNaN(v) {
			defined = append(defined, v)
		}
	}
	if len(defined) == 0 {
		return math.NaN()
	}
	return floats.Sum(defined) / float64(len(defined))
}

// PixelAccuracy is the fraction of counted pixels on the diagonal. NaN for an
// empty matrix.
func PixelAccuracy(m *ConfusionMatrix) float64 {
	total := m.Total()
	if total == 0 {
		return math.NaN()
	}
	return mat.Trace(m.Dense()) / float64(total)
}

// Reduce builds the result of a run. names labels the classes by index and
// may be shorter than the class count.
func Reduce(m *ConfusionMatrix, names []string) *Result {
	ious := PerClassIoU(m)
	res := &Result{
		Classes:       make([]ClassIoU, len(ious)),
		MeanIoU:       MeanIoU(ious),
		PixelAccuracy: PixelAccuracy(m),
		Pixels:        m.Total(),
		Excluded:      m.Excluded(),
	}
	for c, v := range ious {
		res.Classes[c] = ClassIoU{Index: c, IoU: v}
		if c < len(names) {
			res.Classes[c].Name = names[c]
		}
	}
	return res
}

// Percent scales a ratio to a percentage rounded to two decimals, the way
// scores are reported.
func Percent(v float64) float64 {
	return math.Round(v*100*100) / 100
}
