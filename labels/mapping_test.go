package labels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustArray(t *testing.T, w, h int, data ...int32) *Array {
	t.Helper()
	a, err := FromSlice(w, h, data)
	require.NoError(t, err)
	return a
}

func TestFromSlice(t *testing.T) {
	a := mustArray(t, 3, 2, 0, 1, 2, 3, 4, 5)
	assert.Equal(t, 3, a.Width())
	assert.Equal(t, 2, a.Height())
	assert.Equal(t, 6, a.Len())
	assert.Equal(t, int32(5), a.At(2, 1))

	a.Set(0, 1, 9)
	assert.Equal(t, []int32{0, 1, 2, 9, 4, 5}, a.Flat())

	_, err := FromSlice(2, 2, []int32{1, 2, 3})
	assert.Error(t, err)
	_, err = FromSlice(0, 2, nil)
	assert.Error(t, err)
}

func TestCloneIsIndependent(t *testing.T) {
	a := mustArray(t, 2, 1, 1, 2)
	b := a.Clone()
	b.Set(0, 0, 7)
	assert.Equal(t, int32(1), a.At(0, 0))
	assert.True(t, a.SameShape(b))
	assert.False(t, a.SameShape(New(1, 2)))
}

func TestMappingApply(t *testing.T) {
	tests := []struct {
		name    string
		mapping Mapping
		in      []int32
		want    []int32
	}{
		{
			name:    "empty mapping keeps values",
			mapping: nil,
			in:      []int32{0, 7, 26, 255},
			want:    []int32{0, 7, 26, 255},
		},
		{
			name:    "cityscapes style raw to train ids",
			mapping: Mapping{{7, 0}, {8, 1}, {26, 13}, {0, 255}},
			in:      []int32{7, 8, 26, 0, 33},
			want:    []int32{0, 1, 13, 255, 33},
		},
		{
			name:    "no cascading through target values",
			mapping: Mapping{{1, 2}, {2, 3}},
			in:      []int32{1, 2, 3},
			want:    []int32{2, 3, 3},
		},
		{
			name:    "last pair wins for repeated source",
			mapping: Mapping{{5, 1}, {5, 2}},
			in:      []int32{5, 5, 4},
			want:    []int32{2, 2, 4},
		},
		{
			name:    "ids outside a byte",
			mapping: Mapping{{-1, 255}, {1000, 3}},
			in:      []int32{-1, 1000, 999},
			want:    []int32{255, 3, 999},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := mustArray(t, len(tt.in), 1, append([]int32(nil), tt.in...)...)
			out := tt.mapping.Apply(in)
			assert.Equal(t, tt.want, out.Flat())
			assert.Equal(t, tt.in, in.Flat(), "input must not be mutated")
		})
	}
}

func TestMappingNotIdempotent(t *testing.T) {
	m := Mapping{{7, 0}, {0, 255}}
	raw := mustArray(t, 2, 1, 7, 0)

	once := m.Apply(raw)
	twice := m.Apply(once)

	assert.Equal(t, []int32{0, 255}, once.Flat())
	assert.Equal(t, []int32{255, 255}, twice.Flat())
}

func TestMappingLookup(t *testing.T) {
	m := Mapping{{3, 1}, {4, 2}, {3, 9}}

	v, ok := m.Lookup(3)
	assert.True(t, ok)
	assert.Equal(t, int32(9), v)

	_, ok = m.Lookup(5)
	assert.False(t, ok)
}
