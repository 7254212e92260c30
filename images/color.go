package images

import (
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/nvr-ai/go-segeval/dataset"
	"github.com/nvr-ai/go-segeval/labels"
	"github.com/nvr-ai/go-segeval/util"
	"github.com/pkg/errors"
)

// ColorSuffix is appended to the prediction name, minus extension, for
// colorized output files.
const ColorSuffix = "_color.png"

// Colorize paints each class id with its palette color. Ids without a
// palette entry, including ignore labels, are black.
func Colorize(pred *labels.Array, palette dataset.Palette) *image.RGBA {
	w, h := pred.Width(), pred.Height()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c, _ := palette.Color(pred.At(x, y))
			dst.SetRGBA(x, y, c)
		}
	}
	return dst
}

// ColorPath returns where the colorized version of name is written in dir.
func ColorPath(dir, name string) string {
	return filepath.Join(dir, util.TrimExt(util.BaseName(name))+ColorSuffix)
}

// SaveColor writes the colorized prediction as PNG.
//
// Arguments:
// - pred: Predicted class ids.
// - palette: Class colors.
// - dir: Output directory, created when missing.
// - name: Prediction file name; the output is <name-without-ext>_color.png.
//
// Returns:
// - The path written.
// - An error if the file cannot be written.
func SaveColor(pred *labels.Array, palette dataset.Palette, dir, name string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "creating %s", dir)
	}
	path := ColorPath(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrapf(err, "creating %s", path)
	}
	if err := png.Encode(f, Colorize(pred, palette)); err != nil {
		f.Close()
		return "", errors.Wrapf(err, "encoding %s", path)
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrapf(err, "closing %s", path)
	}
	return path, nil
}
