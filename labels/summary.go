package labels

// NumericAgg accumulates (count, sum, sum_of_squares, min, max) for a
// numeric column, per §3's label-summary contract.
type NumericAgg struct {
	Count  uint64
	Sum    float64
	SumSq  float64
	Min    float64
	Max    float64
	hasAny bool
}

func (n *NumericAgg) observe(v float64) {
	if !n.hasAny || v < n.Min {
		n.Min = v
	}
	if !n.hasAny || v > n.Max {
		n.Max = v
	}
	n.Count++
	n.Sum += v
	n.SumSq += v * v
	n.hasAny = true
}

func (n *NumericAgg) merge(o *NumericAgg) {
	if o == nil || o.Count == 0 {
		return
	}
	if !n.hasAny || o.Min < n.Min {
		n.Min = o.Min
	}
	if !n.hasAny || o.Max > n.Max {
		n.Max = o.Max
	}
	n.Count += o.Count
	n.Sum += o.Sum
	n.SumSq += o.SumSq
	n.hasAny = true
}

// Mean returns the arithmetic mean, or 0 if no values were observed.
func (n *NumericAgg) Mean() float64 {
	if n.Count == 0 {
		return 0
	}
	return n.Sum / float64(n.Count)
}

// Variance returns the population variance, or 0 if no values were
// observed.
func (n *NumericAgg) Variance() float64 {
	if n.Count == 0 {
		return 0
	}
	mean := n.Mean()
	return n.SumSq/float64(n.Count) - mean*mean
}

// DiscreteAgg accumulates a bounded-size frequency map for a discrete
// column, spilling values beyond maxDiscreteCard into otherBucket.
type DiscreteAgg struct {
	Counts map[string]uint64
}

func newDiscreteAgg() *DiscreteAgg {
	return &DiscreteAgg{Counts: make(map[string]uint64)}
}

func (d *DiscreteAgg) observe(key string) {
	if _, exists := d.Counts[key]; !exists && len(d.Counts) >= maxDiscreteCard {
		key = otherBucket
	}
	d.Counts[key]++
}

func (d *DiscreteAgg) merge(o *DiscreteAgg) {
	if o == nil {
		return
	}
	for k, v := range o.Counts {
		if _, exists := d.Counts[k]; !exists && len(d.Counts) >= maxDiscreteCard {
			d.Counts[otherBucket] += v
			continue
		}
		d.Counts[k] += v
	}
}

// ColumnSummary is the per-column aggregate for one node: either Numeric or
// Discrete is populated, matching the column's schema type, plus a null
// count for missing values.
type ColumnSummary struct {
	Type     ColumnType
	Numeric  *NumericAgg
	Discrete *DiscreteAgg
	Nulls    uint64
}

func newColumnSummary(typ ColumnType) *ColumnSummary {
	cs := &ColumnSummary{Type: typ}
	switch typ {
	case ColumnI32, ColumnF32, ColumnF64:
		cs.Numeric = &NumericAgg{}
	case ColumnBool, ColumnString:
		cs.Discrete = newDiscreteAgg()
	}
	return cs
}

func (cs *ColumnSummary) observe(v interface{}) {
	if v == nil {
		cs.Nulls++
		return
	}
	switch cs.Type {
	case ColumnI32:
		cs.Numeric.observe(float64(v.(int32)))
	case ColumnF32:
		cs.Numeric.observe(float64(v.(float32)))
	case ColumnF64:
		cs.Numeric.observe(v.(float64))
	case ColumnBool:
		if v.(bool) {
			cs.Discrete.observe("true")
		} else {
			cs.Discrete.observe("false")
		}
	case ColumnString:
		cs.Discrete.observe(v.(string))
	}
}

func (cs *ColumnSummary) merge(o *ColumnSummary) {
	if o == nil {
		return
	}
	cs.Nulls += o.Nulls
	if cs.Numeric != nil {
		cs.Numeric.merge(o.Numeric)
	}
	if cs.Discrete != nil {
		cs.Discrete.merge(o.Discrete)
	}
}

// Summary is the per-node label aggregate of §3/§4.E's label_summary().
type Summary struct {
	Schema  Schema
	Columns map[string]*ColumnSummary
}

// NewSummary returns an empty Summary for the given schema.
func NewSummary(schema Schema) *Summary {
	cols := make(map[string]*ColumnSummary, len(schema))
	for name, typ := range schema {
		cols[name] = newColumnSummary(typ)
	}
	return &Summary{Schema: schema, Columns: cols}
}

// Observe folds one record's values into the summary.
func (s *Summary) Observe(rec Record) {
	for name, col := range s.Columns {
		col.observe(rec.Values[name])
	}
}

// Merge folds another node's (already-computed) summary into s, used to
// combine child summaries into their parent bottom-up.
func (s *Summary) Merge(o *Summary) {
	if o == nil {
		return
	}
	for name, col := range s.Columns {
		col.merge(o.Columns[name])
	}
}
