// Package images - Label image decoding, colorized prediction output and
// label-safe resizing.
package images

import (
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/nvr-ai/go-segeval/common"
	"github.com/nvr-ai/go-segeval/labels"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decoder loads an image file as a map of class ids.
type Decoder interface {
	Decode(path string) (*labels.Array, error)
}

// NativeDecoder decodes label images with the Go image codecs (PNG, JPEG,
// BMP, TIFF, WebP).
//
// Pixel values become class ids as follows:
// - 8 and 16 bit grayscale: the gray value.
// - Paletted: the palette index, not the color.
// - Anything else: accepted only when R, G and B are equal, the id is that
// 8 bit value.
type NativeDecoder struct{}

// Decode implements Decoder.
func (NativeDecoder) Decode(path string) (*labels.Array, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, common.NewError(common.KindImageLoad, "open image", path, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, common.NewError(common.KindImageLoad, "decode image", path, err)
	}

	arr, err := ToLabels(img)
	if err != nil {
		return nil, common.NewError(common.KindImageLoad, "read "+format+" labels", path, err)
	}
	return arr, nil
}

// ToLabels converts a decoded image to class ids.
//
// Arguments:
// - img: A decoded label image.
//
// Returns:
// - The label array with the image's dimensions.
// - An error if the image is empty or a color pixel has unequal channels.
func ToLabels(img image.Image) (*labels.Array, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, errors.New("image has no pixels")
	}
	out := labels.New(w, h)
	dst := out.Flat()

	switch im := img.(type) {
	case *image.Gray:
		for y := 0; y < h; y++ {
			row := im.Pix[y*im.Stride : y*im.Stride+w]
			for x, v := range row {
				dst[y*w+x] = int32(v)
			}
		}
	case *image.Gray16:
		for y := 0; y < h; y++ {
			row := im.Pix[y*im.Stride : y*im.Stride+2*w]
			for x := 0; x < w; x++ {
				dst[y*w+x] = int32(row[2*x])<<8 | int32(row[2*x+1])
			}
		}
	case *image.Paletted:
		for y := 0; y < h; y++ {
			row := im.Pix[y*im.Stride : y*im.Stride+w]
			for x, v := range row {
				dst[y*w+x] = int32(v)
			}
		}
	default:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				if c.R != c.G || c.G != c.B {
					return nil, errors.Errorf("pixel (%d, %d) has color (%d, %d, %d), label images must be grayscale or paletted",
						x, y, c.R, c.G, c.B)
				}
				dst[y*w+x] = int32(c.R)
			}
		}
	}
	return out, nil
}
