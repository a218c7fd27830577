package labels

import "errors"

// Sentinel errors for labels operations.
var (
	// ErrMissingIndexColumn indicates the CSV header has no "index" column.
	ErrMissingIndexColumn = errors.New("labels: CSV header is missing the required \"index\" column")

	// ErrUnknownColumn indicates the schema references a column absent from
	// the CSV header.
	ErrUnknownColumn = errors.New("labels: schema column not present in CSV header")

	// ErrBadValue indicates a cell could not be parsed as its schema type.
	ErrBadValue = errors.New("labels: value does not match its schema column type")

	// ErrDuplicateIndex indicates the same index value appeared twice.
	ErrDuplicateIndex = errors.New("labels: duplicate index value")
)

// ColumnType names the typed schema of one label column (§3, §6 schema).
type ColumnType int

const (
	// ColumnI32 is a 32-bit signed integer column.
	ColumnI32 ColumnType = iota
	// ColumnF32 is a 32-bit floating point column.
	ColumnF32
	// ColumnF64 is a 64-bit floating point column.
	ColumnF64
	// ColumnBool is a boolean column.
	ColumnBool
	// ColumnString is a discrete string column.
	ColumnString
)

// Schema maps a column name to its type, mirroring the `schema` config key
// of §6.
type Schema map[string]ColumnType

// Record is one row of the labels table, keyed by point index.
type Record struct {
	Index  int
	Values map[string]interface{} // column name -> typed value, or nil if null
}

// maxDiscreteCard bounds how many distinct values a discrete column's
// frequency map tracks before spilling the remainder into otherBucket.
const maxDiscreteCard = 64

// otherBucket is the frequency-map key for discrete values beyond the cap.
const otherBucket = "__other__"
