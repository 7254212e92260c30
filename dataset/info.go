// Package dataset - Devkit layout, class metadata and evaluation pair lists.
package dataset

import (
	"bytes"
	"encoding/json"
	"image/color"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/nvr-ai/go-segeval/common"
	"github.com/nvr-ai/go-segeval/labels"
	"github.com/nvr-ai/go-segeval/metrics"
	"github.com/pkg/errors"
)

// DefaultDataset is the dataset evaluated when none is named.
const DefaultDataset = "cityscapes"

// Info is the class metadata read from info.json.
type Info struct {
	// Classes is the number of train classes.
	Classes int `json:"classes" validate:"required,gt=0"`
	// Label holds one class name per train id.
	Label []string `json:"label" validate:"required,min=1,dive,required"`
	// Label2Train maps raw label ids to train ids, applied in order.
	Label2Train [][]int32 `json:"label2train" validate:"required,min=1,dive,len=2"`
	// Palette colors predictions by train id.
	Palette Palette `json:"palette" validate:"required,min=1"`
}

// Palette maps a class index to an RGB color.
type Palette []color.RGBA

// UnmarshalJSON accepts either a list of [r, g, b] triples or a flat list of
// byte values read three at a time.
func (p *Palette) UnmarshalJSON(data []byte) error {
	var triples [][]int
	if err := json.Unmarshal(data, &triples); err == nil {
		out := make(Palette, len(triples))
		for i, rgb := range triples {
			if len(rgb) != 3 {
				return errors.Errorf("palette entry %d has %d values, want 3", i, len(rgb))
			}
			c, err := rgba(rgb[0], rgb[1], rgb[2])
			if err != nil {
				return errors.Wrapf(err, "palette entry %d", i)
			}
			out[i] = c
		}
		*p = out
		return nil
	}

	var flat []int
	if err := json.Unmarshal(data, &flat); err != nil {
		return errors.New("palette must be a list of [r, g, b] triples or a flat list of byte values")
	}
	if len(flat)%3 != 0 {
		return errors.Errorf("flat palette has %d values, not a multiple of 3", len(flat))
	}
	out := make(Palette, len(flat)/3)
	for i := range out {
		c, err := rgba(flat[3*i], flat[3*i+1], flat[3*i+2])
		if err != nil {
			return errors.Wrapf(err, "palette entry %d", i)
		}
		out[i] = c
	}
	*p = out
	return nil
}

func rgba(r, g, b int) (color.RGBA, error) {
	for _, v := range []int{r, g, b} {
		if v < 0 || v > 255 {
			return color.RGBA{}, errors.Errorf("color component %d outside [0, 255]", v)
		}
	}
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}, nil
}

// Color returns the palette color of class i and false when i has none.
func (p Palette) Color(i int32) (color.RGBA, bool) {
	if i < 0 || int(i) >= len(p) {
		return color.RGBA{A: 255}, false
	}
	return p[i], true
}

var validate = validator.New()

// ParseInfo decodes and validates info.json content.
func ParseInfo(data []byte) (*Info, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var info Info
	if err := dec.Decode(&info); err != nil {
		return nil, errors.Wrap(err, "decoding info")
	}
	if err := validate.Struct(&info); err != nil {
		return nil, errors.Wrap(err, "validating info")
	}
	if len(info.Label) != info.Classes {
		return nil, errors.Errorf("info lists %d class names for %d classes", len(info.Label), info.Classes)
	}
	return &info, nil
}

// LoadInfo reads info.json.
//
// Arguments:
// - path: Location of info.json.
//
// Returns:
// - The validated class metadata.
// - KindConfigNotFound when the file cannot be read, KindConfigMalformed when
// it does not decode or validate.
func LoadInfo(path string) (*Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, common.NewError(common.KindConfigNotFound, "load info", path, err)
	}
	info, err := ParseInfo(data)
	if err != nil {
		return nil, common.NewError(common.KindConfigMalformed, "load info", path, err)
	}
	return info, nil
}

// Mapping returns label2train as an ordered label mapping.
func (i *Info) Mapping() labels.Mapping {
	m := make(labels.Mapping, len(i.Label2Train))
	for k, pair := range i.Label2Train {
		m[k] = labels.Pair{Source: pair[0], Target: pair[1]}
	}
	return m
}

// MetricsConfig returns the accumulator configuration for this dataset.
func (i *Info) MetricsConfig(policy metrics.OutOfRangePolicy) metrics.Config {
	return metrics.Config{NumClasses: i.Classes, OutOfRange: policy}
}

// Layout locates the files of one dataset inside a devkit directory:
// <devkit>/data/<dataset>/{info.json,image.txt,label.txt}.
type Layout struct {
	DevkitDir string
	Dataset   string
}

func (l Layout) dir() string {
	name := l.Dataset
	if name == "" {
		name = DefaultDataset
	}
	return filepath.Join(l.DevkitDir, "data", name)
}

// InfoPath is the class metadata file.
func (l Layout) InfoPath() string {
	return filepath.Join(l.dir(), "info.json")
}

// ImageListPath lists prediction images.
func (l Layout) ImageListPath() string {
	return filepath.Join(l.dir(), "image.txt")
}

// LabelListPath lists ground-truth label images.
func (l Layout) LabelListPath() string {
	return filepath.Join(l.dir(), "label.txt")
}
