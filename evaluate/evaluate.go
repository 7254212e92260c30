// Package evaluate - Scores a corpus of segmentation predictions against
// ground-truth label maps.
package evaluate

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/nvr-ai/go-segeval/common"
	"github.com/nvr-ai/go-segeval/dataset"
	"github.com/nvr-ai/go-segeval/images"
	"github.com/nvr-ai/go-segeval/labels"
	"github.com/nvr-ai/go-segeval/metrics"
	"github.com/nvr-ai/go-segeval/profiler"
	"github.com/pkg/errors"
)

// DefaultProgressEvery is how many pairs pass between progress reports.
const DefaultProgressEvery = 10

// Options configures one evaluation run.
type Options struct {
	// GTDir is the root ground-truth paths are relative to.
	GTDir string
	// PredDir holds the prediction images.
	PredDir string
	// Pairs are visited in order.
	Pairs []dataset.Pair
	// Info provides the class count, label mapping, names and palette.
	Info *dataset.Info
	// Decoder loads both images of a pair. Defaults to images.NativeDecoder.
	Decoder images.Decoder
	// OutOfRange handles predictions that are not class indices.
	OutOfRange metrics.OutOfRangePolicy
	// ProgressEvery logs the running mIoU every N pairs. Defaults to
	// DefaultProgressEvery, negative disables.
	ProgressEvery int
	// ResizePredictions resamples predictions to the ground-truth size
	// instead of failing with a shape mismatch.
	ResizePredictions bool
	// ColorDir, when set, receives a colorized copy of every prediction.
	ColorDir string
	// Logger receives progress records. Defaults to slog.Default().
	Logger *slog.Logger
}

func (o *Options) defaults() error {
	if o.Info == nil {
		return errors.New("evaluation needs dataset info")
	}
	if o.Decoder == nil {
		o.Decoder = images.NativeDecoder{}
	}
	if o.ProgressEvery == 0 {
		o.ProgressEvery = DefaultProgressEvery
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return nil
}

// Evaluator owns the confusion matrix of one run.
type Evaluator struct {
	opts    Options
	mapping labels.Mapping
	hist    *metrics.ConfusionMatrix
	prof    *profiler.Profiler
	done    int
}

// New validates the options and creates a zeroed evaluator.
func New(opts Options) (*Evaluator, error) {
	if err := opts.defaults(); err != nil {
		return nil, err
	}
	hist, err := metrics.NewConfusionMatrix(opts.Info.MetricsConfig(opts.OutOfRange))
	if err != nil {
		return nil, common.NewError(common.KindConfigMalformed, "new evaluator", "", err)
	}
	return &Evaluator{
		opts:    opts,
		mapping: opts.Info.Mapping(),
		hist:    hist,
		prof:    profiler.New(),
	}, nil
}

// Run evaluates every pair and reduces the matrix once at the end. The first
// error aborts the run; no result is returned with it.
//
// Arguments:
// - ctx: Checked between pairs.
//
// Returns:
// - The per-class and mean IoU of the corpus.
// - The first error met.
func (e *Evaluator) Run(ctx context.Context) (*metrics.Result, error) {
	total := len(e.opts.Pairs)
	e.opts.Logger.Info("evaluating",
		slog.Int("pairs", total),
		slog.Int("classes", e.hist.NumClasses()),
		slog.String("gt_dir", e.opts.GTDir),
		slog.String("pred_dir", e.opts.PredDir),
	)

	for i, pair := range e.opts.Pairs {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(err, "evaluation stopped after %d of %d pairs", i, total)
		}
		if err := e.Step(pair); err != nil {
			return nil, errors.WithMessagef(err, "pair %d (%s, %s)", i, pair.GroundTruth, pair.Prediction)
		}
		if e.opts.ProgressEvery > 0 && i > 0 && i%e.opts.ProgressEvery == 0 {
			e.opts.Logger.Info("progress",
				slog.Int("pair", i),
				slog.Int("total", total),
				slog.Float64("miou", metrics.Percent(metrics.MeanIoU(metrics.PerClassIoU(e.hist)))),
			)
		}
	}

	e.prof.Log(e.opts.Logger)
	return e.Result(), nil
}

// Step loads one pair and adds it to the confusion matrix.
func (e *Evaluator) Step(pair dataset.Pair) error {
	stop := e.prof.StartOperation("load")
	predPath := filepath.Join(e.opts.PredDir, pair.Prediction)
	pred, err := e.opts.Decoder.Decode(predPath)
	if err != nil {
		stop()
		return err
	}
	gt, err := e.opts.Decoder.Decode(filepath.Join(e.opts.GTDir, pair.GroundTruth))
	stop()
	if err != nil {
		return err
	}

	stop = e.prof.StartOperation("map")
	gt = e.mapping.Apply(gt)
	stop()

	if !gt.SameShape(pred) {
		if !e.opts.ResizePredictions {
			return common.Errorf(common.KindShapeMismatch, "evaluate pair",
				"ground truth is %dx%d, prediction is %dx%d",
				gt.Width(), gt.Height(), pred.Width(), pred.Height())
		}
		pred = images.ResizeNearest(pred, gt.Width(), gt.Height())
	}

	if e.opts.ColorDir != "" {
		if _, err := images.SaveColor(pred, e.opts.Info.Palette, e.opts.ColorDir, pair.Prediction); err != nil {
			return common.NewError(common.KindIO, "save color", predPath, err)
		}
	}

	stop = e.prof.StartOperation("accumulate")
	defer stop()
	if err := e.hist.Accumulate(gt.Flat(), pred.Flat()); err != nil {
		return err
	}
	e.done++
	return nil
}

// Matrix returns the running confusion matrix.
func (e *Evaluator) Matrix() *metrics.ConfusionMatrix {
	return e.hist
}

// Result reduces the current matrix.
func (e *Evaluator) Result() *metrics.Result {
	res := metrics.Reduce(e.hist, e.opts.Info.Label)
	res.Pairs = e.done
	return res
}

// Run evaluates a corpus in one call.
func Run(ctx context.Context, opts Options) (*metrics.Result, error) {
	e, err := New(opts)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx)
}

// Compute loads a devkit dataset and evaluates it.
//
// Arguments:
// - ctx: Checked between pairs.
// - layout: Where info.json and the path lists live.
// - opts: Everything else; Info and Pairs are filled from layout.
//
// Returns:
// - The run result and the dataset info it was scored with.
// - The first error met.
func Compute(ctx context.Context, layout dataset.Layout, opts Options) (*metrics.Result, *dataset.Info, error) {
	info, err := dataset.LoadInfo(layout.InfoPath())
	if err != nil {
		return nil, nil, err
	}
	pairs, err := dataset.LoadPairs(layout)
	if err != nil {
		return nil, nil, err
	}
	opts.Info = info
	opts.Pairs = pairs

	res, err := Run(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	return res, info, nil
}

// discard is a logger for callers that want no progress output.
var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// Quiet returns a logger that drops every record.
func Quiet() *slog.Logger {
	return discard
}
