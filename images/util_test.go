package images

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestMatToLabels(t *testing.T) {
	t.Run("8 bit single channel", func(t *testing.T) {
		mat, err := gocv.NewMatFromBytes(2, 3, gocv.MatTypeCV8UC1, []byte{0, 1, 2, 3, 4, 255})
		require.NoError(t, err)
		defer mat.Close()

		arr, err := MatToLabels(mat)
		require.NoError(t, err)
		assert.Equal(t, 3, arr.Width())
		assert.Equal(t, 2, arr.Height())
		assert.Equal(t, []int32{0, 1, 2, 3, 4, 255}, arr.Flat())
	})

	t.Run("8 bit grey-equal bgr", func(t *testing.T) {
		mat, err := gocv.NewMatFromBytes(1, 2, gocv.MatTypeCV8UC3, []byte{7, 7, 7, 11, 11, 11})
		require.NoError(t, err)
		defer mat.Close()

		arr, err := MatToLabels(mat)
		require.NoError(t, err)
		assert.Equal(t, []int32{7, 11}, arr.Flat())
	})

	t.Run("color pixel rejected", func(t *testing.T) {
		mat, err := gocv.NewMatFromBytes(1, 1, gocv.MatTypeCV8UC3, []byte{1, 2, 3})
		require.NoError(t, err)
		defer mat.Close()

		_, err = MatToLabels(mat)
		assert.Error(t, err)
	})

	t.Run("empty mat", func(t *testing.T) {
		mat := gocv.NewMat()
		defer mat.Close()
		_, err := MatToLabels(mat)
		assert.Error(t, err)
	})
}
