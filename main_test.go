package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLabelPNG(t *testing.T, path string, pix ...uint8) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	img := image.NewGray(image.Rect(0, 0, len(pix), 1))
	copy(img.Pix, pix)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

// setupDevkit writes a two-class dataset with one image pair and returns the
// devkit, ground-truth and prediction directories.
func setupDevkit(t *testing.T, pred ...uint8) (string, string, string) {
	t.Helper()
	root := t.TempDir()
	devkit := filepath.Join(root, "devkit")
	data := filepath.Join(devkit, "data", "cityscapes")
	require.NoError(t, os.MkdirAll(data, 0o755))

	info := `{"classes": 2, "label": ["road", "car"], "label2train": [[7, 0], [26, 1]], "palette": [[128, 64, 128], [0, 0, 142]]}`
	require.NoError(t, os.WriteFile(filepath.Join(data, "info.json"), []byte(info), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(data, "image.txt"), []byte("frankfurt/f_0_leftImg8bit.png\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(data, "label.txt"), []byte("frankfurt/f_0_gtFine_labelIds.png\n"), 0o644))

	gtDir := filepath.Join(root, "gt")
	predDir := filepath.Join(root, "pred")
	writeLabelPNG(t, filepath.Join(gtDir, "frankfurt", "f_0_gtFine_labelIds.png"), 7, 7, 26, 26)
	writeLabelPNG(t, filepath.Join(predDir, "f_0_leftImg8bit.png"), pred...)
	return devkit, gtDir, predDir
}

func TestExecute(t *testing.T) {
	devkit, gtDir, predDir := setupDevkit(t, 0, 0, 1, 0)
	reportPath := filepath.Join(t.TempDir(), "report.json")

	var stdout, stderr bytes.Buffer
	code := execute([]string{gtDir, predDir, "--devkit_dir", devkit, "--report", reportPath}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	// road: 2 / (2 + 3 - 2); car: 1 / (2 + 1 - 1)
	assert.Equal(t, "===>road:\t66.67\n===>car:\t50\n===> mIoU: 58.33\n", stdout.String())
	assert.FileExists(t, reportPath)
}

func TestExecuteExitCodes(t *testing.T) {
	devkit, gtDir, predDir := setupDevkit(t, 0, 0, 1)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "missing config", args: []string{gtDir, predDir, "--devkit_dir", t.TempDir()}, want: 2},
		{name: "unknown decoder", args: []string{gtDir, predDir, "--devkit_dir", devkit, "--decoder", "pil"}, want: 3},
		{name: "shape mismatch", args: []string{gtDir, predDir, "--devkit_dir", devkit}, want: 5},
		{name: "missing ground truth dir", args: []string{filepath.Join(t.TempDir(), "none"), predDir, "--devkit_dir", devkit}, want: 4},
		{name: "wrong argument count", args: []string{gtDir}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := execute(tt.args, &stdout, &stderr)
			assert.Equal(t, tt.want, code)
			assert.Contains(t, stderr.String(), "error: ")
			assert.Empty(t, stdout.String(), "no report after a failure")
		})
	}
}
