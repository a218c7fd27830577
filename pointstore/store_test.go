package pointstore_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/elastic/goko/pointstore"
)

func TestNewInRAM_BasicAccess(t *testing.T) {
	data := []float32{0, 0, 1, 0, 0, 1}
	s, err := pointstore.NewInRAM(data, 3, 2, nil)
	require.NoError(t, err)
	require.Equal(t, 2, s.Dim())
	require.Equal(t, 3, s.Len())

	p, err := s.Point(1)
	require.NoError(t, err)
	require.Equal(t, []float32{1, 0}, p)
}

func TestNewInRAM_RejectsShapeMismatch(t *testing.T) {
	_, err := pointstore.NewInRAM([]float32{1, 2, 3}, 2, 2, nil)
	require.ErrorIs(t, err, pointstore.ErrDimensionMismatch)
}

func TestNewInRAM_RejectsNaN(t *testing.T) {
	data := []float32{0, float32(math.NaN())}
	_, err := pointstore.NewInRAM(data, 1, 2, nil)
	require.ErrorIs(t, err, pointstore.ErrInvalidPoint)
}

func TestDistance_L2(t *testing.T) {
	data := []float32{0, 0, 3, 4}
	s, err := pointstore.NewInRAM(data, 2, 2, nil)
	require.NoError(t, err)

	d, err := s.Distance(0, 1)
	require.NoError(t, err)
	require.InDelta(t, 5.0, d, 1e-6)
}

func TestDistanceToQuery_DimensionMismatch(t *testing.T) {
	data := []float32{0, 0, 1, 1}
	s, err := pointstore.NewInRAM(data, 2, 2, nil)
	require.NoError(t, err)

	_, err = s.DistanceToQuery([]float32{1, 2, 3}, 0)
	require.ErrorIs(t, err, pointstore.ErrDimensionMismatch)
}

func TestPoint_IndexOutOfRange(t *testing.T) {
	data := []float32{0, 0}
	s, err := pointstore.NewInRAM(data, 1, 2, nil)
	require.NoError(t, err)

	_, err = s.Point(5)
	require.ErrorIs(t, err, pointstore.ErrIndexOutOfRange)
}

func TestDecodeLittleEndianFloats(t *testing.T) {
	want := []float32{1.5, -2.25, 0}
	raw := make([]byte, len(want)*4)
	for i, v := range want {
		binary.LittleEndian.PutUint32(raw[i*4:i*4+4], math.Float32bits(v))
	}

	got, err := pointstore.DecodeLittleEndianFloats(raw)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestDecodeLittleEndianFloats_RejectsUnalignedLength(t *testing.T) {
	_, err := pointstore.DecodeLittleEndianFloats([]byte{1, 2, 3})
	require.ErrorIs(t, err, pointstore.ErrDimensionMismatch)
}

func TestCustomMetric(t *testing.T) {
	manhattan := func(a, b []float32) float32 {
		var sum float32
		for i := range a {
			d := a[i] - b[i]
			if d < 0 {
				d = -d
			}
			sum += d
		}
		return sum
	}
	data := []float32{0, 0, 3, 4}
	s, err := pointstore.NewInRAM(data, 2, 2, manhattan)
	require.NoError(t, err)

	d, err := s.Distance(0, 1)
	require.NoError(t, err)
	require.Equal(t, float32(7), d)
}
