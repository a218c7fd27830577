package labels

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
)

// Load reads a CSV labels file (§6: "leading unique integer index column
// mapped to pi, plus one column per schema key") and returns the parsed
// records keyed by point index.
//
// stdlib encoding/csv is used deliberately here: this is a single,
// well-known tabular format with no corpus dependency that improves on it
// for an indexed-column reader (see DESIGN.md).
func Load(path string, schema Schema) (map[int]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f, schema)
}

// Decode parses CSV rows from r into records keyed by point index.
func Decode(r io.Reader, schema Schema) (map[int]Record, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, err
	}

	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[name] = i
	}
	indexCol, ok := colIndex["index"]
	if !ok {
		return nil, ErrMissingIndexColumn
	}
	for col := range schema {
		if _, ok := colIndex[col]; !ok {
			return nil, ErrUnknownColumn
		}
	}

	records := make(map[int]Record)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		pi, err := strconv.Atoi(row[indexCol])
		if err != nil {
			return nil, ErrBadValue
		}
		if _, exists := records[pi]; exists {
			return nil, ErrDuplicateIndex
		}

		values := make(map[string]interface{}, len(schema))
		for col, typ := range schema {
			raw := row[colIndex[col]]
			v, err := parseValue(raw, typ)
			if err != nil {
				return nil, err
			}
			values[col] = v
		}
		records[pi] = Record{Index: pi, Values: values}
	}

	return records, nil
}

// ToDense converts the map[int]Record produced by Load/Decode into a slice
// indexed directly by point index, the shape covertree.Tree.AttachLabels
// expects. Point indices beyond the record set, or simply absent from the
// CSV, map to a nil entry.
func ToDense(records map[int]Record, n int) []*Record {
	out := make([]*Record, n)
	for pi, rec := range records {
		if pi >= 0 && pi < n {
			rec := rec
			out[pi] = &rec
		}
	}

	return out
}

func parseValue(raw string, typ ColumnType) (interface{}, error) {
	if raw == "" {
		return nil, nil
	}

	switch typ {
	case ColumnI32:
		v, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return nil, ErrBadValue
		}
		return int32(v), nil
	case ColumnF32:
		v, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return nil, ErrBadValue
		}
		return float32(v), nil
	case ColumnF64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, ErrBadValue
		}
		return v, nil
	case ColumnBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, ErrBadValue
		}
		return v, nil
	case ColumnString:
		return raw, nil
	default:
		return nil, ErrBadValue
	}
}
