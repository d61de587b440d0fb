// Package domain models AIS vessel reports and the metocean reference data
// they are joined with.
//
// # Data Sources
//
// Vessel data comes from the NARI maritime dataset (Ray et al., 2017): a
// dynamic table of AIS position reports and a static table of vessel
// particulars. Wave conditions come from monthly wave-model grids
// (Boudière et al., 2013), one file per month from October to March. Weather
// comes from coastal station observations plus a station table with their
// coordinates.
//
// # AIS Conventions
//
// Timestamps:
//
//	All "t", "ts" and "local_time" values are unix seconds (UTC).
//
// Navigational status codes kept for speed modelling:
//
//	0 underway using engine, 3 restricted manoeuvrability,
//	4 constrained by draught, 8 underway sailing.
//	Anchored (1), moored (5) and undefined (15) reports are dropped.
//
// Ship type codes:
//
//	Two-digit AIS codes 0–99; the 7x range is cargo, used here as the
//	containership filter. Codes outside 0–99 are rejected as malformed.
//
// Missing values:
//
//	Empty and NaN cells are carried as NaN in reference rows and become
//	null (nil) in enriched output.
//
// # Nearest-Neighbour Join
//
// Each AIS report is matched against the ocean partition whose [min, max]
// time bound contains it, and against the merged weather series. Latitude,
// longitude and time are matched to their nearest reference values one axis
// at a time, and the resulting triple must occur in a single reference row.
// See [Index]. A report that falls in a gap between partitions, or whose
// nearest values do not co-occur, gets null readings; see [IsMiss].
//
// The hull volume proxy is (bow + stern) * (starboard + port) from the static
// record; see [VesselGeometry.Volume].
package domain
