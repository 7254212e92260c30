package images

import (
	"github.com/nvr-ai/go-segeval/labels"
)

// ResizeNearest resamples a label map with nearest-neighbor sampling. Every
// output value is copied from exactly one source pixel, so class ids are
// never blended.
//
// Arguments:
// - src: The source labels.
// - width: Target width in pixels.
// - height: Target height in pixels.
//
// Returns:
// - A new label array of the target size. src is returned as a copy when the
// size already matches.
//
// @example
// pred = ResizeNearest(pred, gt.Width(), gt.Height())
func ResizeNearest(src *labels.Array, width, height int) *labels.Array {
	srcWidth, srcHeight := src.Width(), src.Height()
	if srcWidth == width && srcHeight == height {
		return src.Clone()
	}

	dst := labels.New(width, height)
	in := src.Flat()
	out := dst.Flat()

	// Sample at output pixel centers.
	xRatio := float64(srcWidth) / float64(width)
	yRatio := float64(srcHeight) / float64(height)

	cols := make([]int, width)
	for x := range cols {
		srcX := int((float64(x) + 0.5) * xRatio)
		if srcX >= srcWidth {
			srcX = srcWidth - 1
		}
		cols[x] = srcX
	}

	for y := 0; y < height; y++ {
		srcY := int((float64(y) + 0.5) * yRatio)
		if srcY >= srcHeight {
			srcY = srcHeight - 1
		}
		row := in[srcY*srcWidth : (srcY+1)*srcWidth]
		for x, srcX := range cols {
			out[y*width+x] = row[srcX]
		}
	}
	return dst
}
