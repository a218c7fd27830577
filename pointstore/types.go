package pointstore

// Metric computes a distance between two points given as raw coordinate
// slices of length dim. Implementations must satisfy d(x,x) == 0 and the
// triangle inequality; the engine does not assume symmetry beyond that.
//
// The builder and query engine treat Metric as opaque (§9 "SIMD/metric
// specialization"): they never inspect or specialize on its implementation.
type Metric func(a, b []float32) float32

// Options configures how a Store loads its backing data, mirroring the
// data_path/count/data_dim/in_ram configuration keys of §6.
type Options struct {
	// Path is the flat little-endian float32 file, row-major, shape
	// (Count, Dim). Required when InRAM is false.
	Path string

	// Count is N, the number of points.
	Count int

	// Dim is the fixed vector dimensionality.
	Dim int

	// InRAM selects between loading the whole file into memory (true) and
	// memory-mapping it (false). Both paths expose identical behavior.
	InRAM bool

	// Data supplies the raw row-major float32 data directly, bypassing the
	// file system entirely. NewInRAM takes such data as its own parameter;
	// no constructor in this package reads Options.
	Data []float32
}

// Store is an immutable, indexed collection of fixed-dimensional float
// vectors with an injectable metric. It is safe for concurrent read access
// from any number of goroutines once constructed.
type Store struct {
	dim    int
	count  int
	metric Metric

	// backing holds the row-major float32 data: the caller's slice (in-RAM)
	// or a copy decoded from the mapped file. len(backing) == count*dim.
	backing []float32

	// closer releases the backing mapping, if any (nil for in-RAM stores).
	closer func() error
}
