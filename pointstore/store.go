package pointstore

import (
	"encoding/binary"
	"math"
	"os"

	mmap "github.com/edsrzf/mmap-go"
)

// NewInRAM builds a Store that owns data outright: a row-major float32
// slice of length count*dim. metric defaults to L2 when nil.
//
// Complexity: O(count*dim) to validate for NaN/Inf coordinates.
func NewInRAM(data []float32, count, dim int, metric Metric) (*Store, error) {
	if err := validateShape(len(data), count, dim); err != nil {
		return nil, err
	}
	if containsNaN(data) {
		return nil, ErrInvalidPoint
	}
	if metric == nil {
		metric = L2
	}

	return &Store{dim: dim, count: count, metric: metric, backing: data}, nil
}

// NewMemoryMapped builds a Store backed by a memory-mapped flat-float file
// of count*dim*4 bytes, little-endian, row-major. The mapping is read-only
// and lazily paged in by the OS; behavior is identical to NewInRAM from the
// caller's perspective (§4.A).
func NewMemoryMapped(path string, count, dim int, metric Metric) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IoError{Path: path, Cause: err}
	}

	wantBytes := int64(count) * int64(dim) * 4
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, &IoError{Path: path, Cause: err}
	}
	if info.Size() < wantBytes {
		f.Close()
		return nil, &IoError{Path: path, Cause: ErrIndexOutOfRange}
	}

	region, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, &IoError{Path: path, Cause: err}
	}

	if metric == nil {
		metric = L2
	}

	s := &Store{
		dim:    dim,
		count:  count,
		metric: metric,
		closer: func() error {
			unmapErr := region.Unmap()
			closeErr := f.Close()
			if unmapErr != nil {
				return unmapErr
			}
			return closeErr
		},
	}

	// Decode lazily is not meaningfully cheaper than decoding once here,
	// since the OS already defers the actual page-ins to first touch; doing
	// the float32 conversion eagerly keeps Point()/Distance() allocation-free
	// hot paths identical to the in-RAM backing.
	decoded := make([]float32, count*dim)
	for i := range decoded {
		bits := binary.LittleEndian.Uint32(region[i*4 : i*4+4])
		decoded[i] = math.Float32frombits(bits)
	}
	if containsNaN(decoded) {
		region.Unmap()
		f.Close()
		return nil, ErrInvalidPoint
	}
	s.backing = decoded

	return s, nil
}

// DecodeLittleEndianFloats decodes a raw little-endian f32 buffer (the
// data_path file format of §6) into a row-major float32 slice, suitable
// for passing to NewInRAM.
func DecodeLittleEndianFloats(raw []byte) ([]float32, error) {
	if len(raw)%4 != 0 {
		return nil, ErrDimensionMismatch
	}

	out := make([]float32, len(raw)/4)
	for i := range out {
		bits := binary.LittleEndian.Uint32(raw[i*4 : i*4+4])
		out[i] = math.Float32frombits(bits)
	}

	return out, nil
}

func validateShape(gotLen, count, dim int) error {
	if count <= 0 || dim <= 0 {
		return ErrEmptyStore
	}
	if gotLen != count*dim {
		return ErrDimensionMismatch
	}

	return nil
}

// Dim returns the fixed vector dimensionality.
func (s *Store) Dim() int { return s.dim }

// Len returns N, the number of points in the store.
func (s *Store) Len() int { return s.count }

// Point returns a read-only view of point pi's coordinates.
//
// Complexity: O(1).
func (s *Store) Point(pi int) ([]float32, error) {
	if pi < 0 || pi >= s.count {
		return nil, ErrIndexOutOfRange
	}

	return s.backing[pi*s.dim : (pi+1)*s.dim], nil
}

// Distance evaluates the store's metric between two points by index.
//
// Complexity: O(dim).
func (s *Store) Distance(piA, piB int) (float32, error) {
	a, err := s.Point(piA)
	if err != nil {
		return 0, err
	}
	b, err := s.Point(piB)
	if err != nil {
		return 0, err
	}

	return s.metric(a, b), nil
}

// DistanceToQuery evaluates the store's metric between an external query
// vector q and a stored point pi. Returns ErrDimensionMismatch if
// len(q) != s.dim.
//
// Complexity: O(dim).
func (s *Store) DistanceToQuery(q []float32, pi int) (float32, error) {
	if len(q) != s.dim {
		return 0, ErrDimensionMismatch
	}
	p, err := s.Point(pi)
	if err != nil {
		return 0, err
	}

	return s.metric(q, p), nil
}

// Metric returns the store's configured distance function.
func (s *Store) Metric() Metric { return s.metric }

// Close releases the backing memory map, if any. In-RAM stores return nil.
func (s *Store) Close() error {
	if s.closer == nil {
		return nil
	}

	return s.closer()
}
