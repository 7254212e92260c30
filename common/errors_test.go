package common

import (
	"errors"
	"fmt"
	"os"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: 0},
		{name: "plain error", err: errors.New("boom"), want: 1},
		{name: "config not found", err: NewError(KindConfigNotFound, "load info", "info.json", os.ErrNotExist), want: 2},
		{name: "config malformed", err: Errorf(KindConfigMalformed, "load info", "classes must be > 0"), want: 3},
		{name: "image load", err: NewError(KindImageLoad, "decode", "a.png", nil), want: 4},
		{name: "shape mismatch", err: Errorf(KindShapeMismatch, "accumulate", "%d != %d", 4, 5), want: 5},
		{name: "prediction out of range", err: Errorf(KindPredictionOutOfRange, "hist", "value 19"), want: 6},
		{
			name: "wrapped classified error",
			err:  fmt.Errorf("pair 3: %w", NewError(KindImageLoad, "decode", "b.png", nil)),
			want: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := NewError(KindConfigNotFound, "load info", "data/cityscapes/info.json", os.ErrNotExist)
	assert.Contains(t, err.Error(), "load info: config not found (data/cityscapes/info.json)")
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.True(t, IsKind(err, KindConfigNotFound))
	assert.False(t, IsKind(err, KindConfigMalformed))
}

func TestNewErrorKeepsExistingStack(t *testing.T) {
	cause := pkgerrors.New("decode failed")
	err := NewError(KindImageLoad, "decode", "x.png", cause)
	require.NotNil(t, err.Err)
	assert.Same(t, cause, err.Err)
}
