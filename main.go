package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nvr-ai/go-segeval/common"
	"github.com/nvr-ai/go-segeval/dataset"
	"github.com/nvr-ai/go-segeval/evaluate"
	"github.com/nvr-ai/go-segeval/images"
	"github.com/nvr-ai/go-segeval/metrics"
	"github.com/spf13/cobra"
)

// cliOptions holds the parsed command line.
type cliOptions struct {
	devkitDir     string
	dset          string
	decoder       string
	outOfRange    string
	resizePred    bool
	colorDir      string
	reportPath    string
	progressEvery int
	verbose       bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts cliOptions

	cmd := &cobra.Command{
		Use:   "segeval <gt_dir> <pred_dir>",
		Short: "Compute per-class IoU and mIoU of segmentation predictions",
		Long: `segeval scores predicted label maps against ground-truth label maps
the way the Cityscapes benchmark does. Class metadata and the image lists
are read from <devkit_dir>/data/<dset>/{info.json,image.txt,label.txt}.`,
		Args:          cobra.ExactArgs(2),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Past argument parsing, failures are not usage problems.
			cmd.SilenceUsage = true
			return run(cmd.Context(), args[0], args[1], opts, stdout, stderr)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.devkitDir, "devkit_dir", "", "base directory holding data/<dset>/")
	flags.StringVar(&opts.dset, "dset", dataset.DefaultDataset, "dataset config to evaluate")
	flags.StringVar(&opts.decoder, "decoder", "native", "image decoder: native or opencv")
	flags.StringVar(&opts.outOfRange, "out_of_range", metrics.RejectOutOfRange.String(),
		"predictions outside [0, classes): reject (fail) or exclude (skip pixel)")
	flags.BoolVar(&opts.resizePred, "resize_pred", false, "resize predictions to the ground-truth size (nearest neighbor)")
	flags.StringVar(&opts.colorDir, "color_dir", "", "write colorized predictions to this directory")
	flags.StringVar(&opts.reportPath, "report", "", "also write the result to a .json or .yaml file")
	flags.IntVar(&opts.progressEvery, "progress_every", evaluate.DefaultProgressEvery, "log running mIoU every N pairs (negative disables)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log per-stage timings")

	return cmd
}

func run(ctx context.Context, gtDir, predDir string, opts cliOptions, stdout, stderr io.Writer) error {
	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	decoder, err := images.ParseDecoder(opts.decoder)
	if err != nil {
		return common.NewError(common.KindConfigMalformed, "parse flags", "", err)
	}
	policy, err := metrics.ParseOutOfRangePolicy(opts.outOfRange)
	if err != nil {
		return common.NewError(common.KindConfigMalformed, "parse flags", "", err)
	}

	layout := dataset.Layout{DevkitDir: opts.devkitDir, Dataset: opts.dset}
	res, _, err := evaluate.Compute(ctx, layout, evaluate.Options{
		GTDir:             gtDir,
		PredDir:           predDir,
		Decoder:           decoder,
		OutOfRange:        policy,
		ProgressEvery:     opts.progressEvery,
		ResizePredictions: opts.resizePred,
		ColorDir:          opts.colorDir,
		Logger:            logger,
	})
	if err != nil {
		return err
	}

	if err := evaluate.WriteReport(stdout, res); err != nil {
		return common.NewError(common.KindIO, "write report", "", err)
	}
	if res.Excluded > 0 {
		logger.Warn("excluded out-of-range predictions", slog.Int64("pixels", res.Excluded))
	}
	if opts.reportPath != "" {
		if err := evaluate.SaveReport(opts.reportPath, res); err != nil {
			return common.NewError(common.KindIO, "save report", opts.reportPath, err)
		}
		logger.Info("report saved", slog.String("path", opts.reportPath))
	}
	return nil
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the command and returns the process exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return common.ExitCode(err)
	}
	return 0
}
