// Package baseline runs the Monte-Carlo baseline simulator of §4.G: many
// independent synthetic trackers over uniformly random point sequences,
// snapshotted periodically and aggregated into a per-offset (mean,
// variance) table used to normalize a live tracker's drift statistics.
package baseline
