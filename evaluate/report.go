package evaluate

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nvr-ai/go-segeval/metrics"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// WriteReport prints one line per class and the mean IoU, as percentages.
// Classes with no pixels in either ground truth or predictions print nan.
func WriteReport(w io.Writer, res *metrics.Result) error {
	for _, c := range res.Classes {
		name := c.Name
		if name == "" {
			name = strconv.Itoa(c.Index)
		}
		if _, err := fmt.Fprintf(w, "===>%s:\t%s\n", name, formatPercent(c.IoU)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "===> mIoU: %s\n", formatPercent(res.MeanIoU))
	return err
}

func formatPercent(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return strconv.FormatFloat(metrics.Percent(v), 'f', -1, 64)
}

// classReport is the serialized form of one class. Undefined scores are null.
type classReport struct {
	Index int      `json:"index" yaml:"index"`
	Name  string   `json:"name" yaml:"name"`
	IoU   *float64 `json:"iou" yaml:"iou"`
}

// fileReport is the serialized form of a result.
type fileReport struct {
	MeanIoU       *float64      `json:"mean_iou" yaml:"mean_iou"`
	PixelAccuracy *float64      `json:"pixel_accuracy" yaml:"pixel_accuracy"`
	Pairs         int           `json:"pairs" yaml:"pairs"`
	Pixels        int64         `json:"pixels" yaml:"pixels"`
	Excluded      int64         `json:"excluded" yaml:"excluded"`
	Classes       []classReport `json:"classes" yaml:"classes"`
}

func defined(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func newFileReport(res *metrics.Result) fileReport {
	r := fileReport{
		MeanIoU:       defined(res.MeanIoU),
		PixelAccuracy: defined(res.PixelAccuracy),
		Pairs:         res.Pairs,
		Pixels:        res.Pixels,
		Excluded:      res.Excluded,
		Classes:       make([]classReport, len(res.Classes)),
	}
	for i, c := range res.Classes {
		r.Classes[i] = classReport{Index: c.Index, Name: c.Name, IoU: defined(c.IoU)}
	}
	return r
}

// SaveReport writes the result to path as YAML for .yaml/.yml files and JSON
// otherwise. Scores are ratios in [0, 1]; undefined scores are null.
func SaveReport(path string, res *metrics.Result) error {
	report := newFileReport(res)

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(report)
	default:
		data, err = json.MarshalIndent(report, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.Wrap(err, "encoding report")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "creating %s", dir)
		}
	}
	return errors.Wrapf(os.WriteFile(path, data, 0o644), "writing %s", path)
}
