// Package metrics - Confusion matrix accumulation and IoU reduction for
// semantic segmentation.
package metrics

import (
	"github.com/nvr-ai/go-segeval/common"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// OutOfRangePolicy decides what happens to a counted pixel whose prediction
// is not a valid class index.
type OutOfRangePolicy int

const (
	// RejectOutOfRange fails the histogram with KindPredictionOutOfRange.
	RejectOutOfRange OutOfRangePolicy = iota
	// ExcludeOutOfRange drops the pixel and counts it in Excluded.
	ExcludeOutOfRange
)

// String returns the flag value of the policy.
func (p OutOfRangePolicy) String() string {
	if p == ExcludeOutOfRange {
		return "exclude"
	}
	return "reject"
}

// ParseOutOfRangePolicy parses "reject" or "exclude".
func ParseOutOfRangePolicy(s string) (OutOfRangePolicy, error) {
	switch s {
	case "", "reject":
		return RejectOutOfRange, nil
	case "exclude":
		return ExcludeOutOfRange, nil
	default:
		return RejectOutOfRange, errors.Errorf("unknown out-of-range policy %q (want reject or exclude)", s)
	}
}

// Config carries everything the accumulator needs.
type Config struct {
	// NumClasses is the size of both matrix axes.
	NumClasses int
	// OutOfRange handles predictions outside [0, NumClasses).
	OutOfRange OutOfRangePolicy
}

// ConfusionMatrix counts (ground truth, prediction) co-occurrences. Row index
// is the ground-truth class, column index the predicted class. Counts only
// grow.
type ConfusionMatrix struct {
	cfg      Config
	counts   []int64
	excluded int64
}

// NewConfusionMatrix returns a zero matrix sized by cfg.NumClasses.
func NewConfusionMatrix(cfg Config) (*ConfusionMatrix, error) {
	if cfg.NumClasses <= 0 {
		return nil, errors.Errorf("number of classes must be positive, got %d", cfg.NumClasses)
	}
	return &ConfusionMatrix{
		cfg:    cfg,
		counts: make([]int64, cfg.NumClasses*cfg.NumClasses),
	}, nil
}

// FastHist builds the confusion matrix of a single image pair.
//
// Only positions whose ground truth lies in [0, NumClasses) are counted, so
// ignore labels (negative or >= NumClasses) never reach either axis.
//
// Arguments:
// - gt: Flattened ground-truth class ids.
// - pred: Flattened predicted class ids, same length as gt.
// - cfg: Class count and out-of-range policy.
//
// Returns:
// - The histogram of this pair.
// - A KindShapeMismatch error for different lengths, or
// KindPredictionOutOfRange under RejectOutOfRange.
//
// @example
// m, _ := FastHist([]int32{0, 0, 1, 2}, []int32{0, 1, 1, 2}, Config{NumClasses: 3})
// m.At(0, 1) // 1
func FastHist(gt, pred []int32, cfg Config) (*ConfusionMatrix, error) {
	m, err := NewConfusionMatrix(cfg)
	if err != nil {
		return nil, err
	}
	if err := m.Accumulate(gt, pred); err != nil {
		return nil, err
	}
	return m, nil
}

// Accumulate adds the histogram of one image pair to m. On error m is left
// unchanged.
func (m *ConfusionMatrix) Accumulate(gt, pred []int32) error {
	if len(gt) != len(pred) {
		return common.Errorf(common.KindShapeMismatch, "accumulate",
			"ground truth has %d pixels, prediction has %d", len(gt), len(pred))
	}

	n := int32(m.cfg.NumClasses)
	if m.cfg.OutOfRange == RejectOutOfRange {
		for i, g := range gt {
			if g < 0 || g >= n {
				continue
			}
			if p := pred[i]; p < 0 || p >= n {
				return common.Errorf(common.KindPredictionOutOfRange, "accumulate",
					"pixel %d predicted as %d, valid classes are [0, %d)", i, p, n)
			}
		}
	}

	for i, g := range gt {
		if g < 0 || g >= n {
			continue
		}
		p := pred[i]
		if p < 0 || p >= n {
			m.excluded++
			continue
		}
		m.counts[int(g)*int(n)+int(p)]++
	}
	return nil
}

// Add accumulates other into m pointwise.
func (m *ConfusionMatrix) Add(other *ConfusionMatrix) error {
	if other.cfg.NumClasses != m.cfg.NumClasses {
		return errors.Errorf("cannot add %dx%d matrix to %dx%d matrix",
			other.cfg.NumClasses, other.cfg.NumClasses, m.cfg.NumClasses, m.cfg.NumClasses)
	}
	for i, c := range other.counts {
		m.counts[i] += c
	}
	m.excluded += other.excluded
	return nil
}

// NumClasses returns the matrix dimension.
func (m *ConfusionMatrix) NumClasses() int {
	return m.cfg.NumClasses
}

// At returns the count of pixels with ground truth gt predicted as pred.
func (m *ConfusionMatrix) At(gt, pred int) int64 {
	return m.counts[gt*m.cfg.NumClasses+pred]
}

// Total returns the number of counted pixels.
func (m *ConfusionMatrix) Total() int64 {
	var sum int64
	for _, c := range m.counts {
		sum += c
	}
	return sum
}

// Excluded returns how many pixels ExcludeOutOfRange dropped.
func (m *ConfusionMatrix) Excluded() int64 {
	return m.excluded
}

// Rows returns a copy of the counts as a slice of rows.
func (m *ConfusionMatrix) Rows() [][]int64 {
	n := m.cfg.NumClasses
	rows := make([][]int64, n)
	for r := range rows {
		rows[r] = append([]int64(nil), m.counts[r*n:(r+1)*n]...)
	}
	return rows
}

// Dense returns the counts as a float64 gonum matrix.
func (m *ConfusionMatrix) Dense() *mat.Dense {
	n := m.cfg.NumClasses
	data := make([]float64, len(m.counts))
	for i, c := range m.counts {
		data[i] = float64(c)
	}
	return mat.NewDense(n, n, data)
}
