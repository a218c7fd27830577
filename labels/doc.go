// Package labels implements the optional per-point tabular label summary
// plugin of §4.E: a CSV reader keyed by an integer "index" column mapped to
// point indices, and per-node bottom-up aggregation over whichever points a
// cover-tree node covers.
//
// Numeric columns (i32, f32, f64) accumulate (count, sum, sum_of_squares,
// min, max); discrete columns (bool, string) accumulate a bounded-size
// frequency map that spills excess distinct values into an "other" bucket
// once a cap is reached. Every column also tracks a null count for missing
// values. Summaries are folded once, bottom-up, by
// covertree.Tree.AttachLabels and then cached on the node; covertree.Build
// itself does not read or attach labels.
package labels
