package images

import (
	"github.com/nvr-ai/go-segeval/common"
	"github.com/nvr-ai/go-segeval/labels"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// OpenCVDecoder reads label images through OpenCV with IMReadUnchanged.
//
// Supports 8 and 16 bit single channel images, and 8 bit three channel images
// whose channels are equal. OpenCV expands paletted PNGs to colors, so use
// NativeDecoder for those.
type OpenCVDecoder struct{}

// Decode implements Decoder.
func (OpenCVDecoder) Decode(path string) (*labels.Array, error) {
	mat := gocv.IMRead(path, gocv.IMReadUnchanged)
	defer mat.Close()
	if mat.Empty() {
		return nil, common.Errorf(common.KindImageLoad, "imread", "cannot read %s", path)
	}

	arr, err := MatToLabels(mat)
	if err != nil {
		return nil, common.NewError(common.KindImageLoad, "imread", path, err)
	}
	return arr, nil
}

// MatToLabels converts a continuous Mat to class ids.
//
// Arguments:
// - mat: The Mat holding label values.
//
// Returns:
// - The label array with the Mat's dimensions.
// - An error for unsupported Mat types or color pixels.
func MatToLabels(mat gocv.Mat) (*labels.Array, error) {
	if mat.Empty() {
		return nil, errors.New("empty mat")
	}
	if !mat.IsContinuous() {
		return nil, errors.New("mat is not continuous")
	}

	w, h := mat.Cols(), mat.Rows()
	out := labels.New(w, h)
	dst := out.Flat()

	switch mat.Type() {
	case gocv.MatTypeCV8UC1:
		data, err := mat.DataPtrUint8()
		if err != nil {
			return nil, errors.Wrap(err, "reading 8 bit data")
		}
		for i := range dst {
			dst[i] = int32(data[i])
		}
	case gocv.MatTypeCV16UC1:
		data, err := mat.DataPtrUint16()
		if err != nil {
			return nil, errors.Wrap(err, "reading 16 bit data")
		}
		for i := range dst {
			dst[i] = int32(data[i])
		}
	case gocv.MatTypeCV8UC3:
		data, err := mat.DataPtrUint8()
		if err != nil {
			return nil, errors.Wrap(err, "reading 8 bit data")
		}
		for i := range dst {
			b, g, r := data[3*i], data[3*i+1], data[3*i+2]
			if b != g || g != r {
				return nil, errors.Errorf("pixel %d has color (%d, %d, %d), label images must be grayscale", i, r, g, b)
			}
			dst[i] = int32(b)
		}
	default:
		return nil, errors.Errorf("unsupported mat type %v", mat.Type())
	}
	return out, nil
}

// ParseDecoder returns the decoder for a flag value: "native" or "opencv".
func ParseDecoder(name string) (Decoder, error) {
	switch name {
	case "", "native":
		return NativeDecoder{}, nil
	case "opencv":
		return OpenCVDecoder{}, nil
	default:
		return nil, errors.Errorf("unknown decoder %q (want native or opencv)", name)
	}
}
