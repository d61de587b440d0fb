package domain

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks the structural invariants of a dynamic AIS report:
// positive MMSI and timestamp, coordinates in range, known status code.
func (r AISRecord) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid ais record mmsi=%d t=%d: %w", r.SourceMMSI, r.T, err)
	}
	return nil
}

// Validate checks that a static record carries a positive MMSI and an AIS
// ship type code in 0–99.
func (r StaticRecord) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid static record mmsi=%d: %w", r.SourceMMSI, err)
	}
	return nil
}

// IsContainership reports whether an AIS ship type code is in the cargo
// category (70–79).
func IsContainership(shipType int) bool {
	return shipType >= 70 && shipType <= 79
}

// DefaultNavigationalStatuses are the AIS status codes kept for speed
// modelling: underway using engine (0), restricted manoeuvrability (3),
// constrained by draught (4) and underway sailing (8).
var DefaultNavigationalStatuses = []int{0, 3, 4, 8}

// DefaultMinSpeedOverGround is the speed over ground, in knots, a report
// must exceed to be kept.
const DefaultMinSpeedOverGround = 5.0

// CleanOptions configures CleanFacts.
type CleanOptions struct {
	NavigationalStatuses []int
	MinSpeedOverGround   float64
	SampleVessels        int // keep only the first N distinct vessels; 0 keeps all
}

// CleanStats counts the rows removed by each cleaning stage.
type CleanStats struct {
	Input            int `json:"input"`
	Invalid          int `json:"invalid"`
	NotContainership int `json:"not_containership"`
	Status           int `json:"status"`
	Speed            int `json:"speed"`
	Sampled          int `json:"sampled"`
	Output           int `json:"output"`
}

// ContainershipIndex returns the geometry of every valid containership in
// static, keyed by MMSI. The first record for an MMSI wins. Records with an
// invalid MMSI or ship type code are skipped and counted.
func ContainershipIndex(static []StaticRecord) (fleet map[int64]VesselGeometry, rejected int) {
	fleet = make(map[int64]VesselGeometry)
	for _, s := range static {
		if err := s.Validate(); err != nil {
			rejected++
			continue
		}
		if !IsContainership(s.ShipType) {
			continue
		}
		if _, ok := fleet[s.SourceMMSI]; !ok {
			fleet[s.SourceMMSI] = s.VesselGeometry
		}
	}
	return fleet, rejected
}

// CleanFacts produces the fact table for enrichment: valid containership
// reports with an allowed navigational status and a speed over ground above
// the threshold, joined with the vessel geometry. Row order is preserved.
func CleanFacts(dynamic []AISRecord, fleet map[int64]VesselGeometry, opts CleanOptions) ([]AISRecord, CleanStats) {
	statuses := opts.NavigationalStatuses
	if statuses == nil {
		statuses = DefaultNavigationalStatuses
	}
	allowed := make(map[int]struct{}, len(statuses))
	for _, s := range statuses {
		allowed[s] = struct{}{}
	}

	stats := CleanStats{Input: len(dynamic)}
	out := make([]AISRecord, 0, len(dynamic))
	for _, r := range dynamic {
		if err := r.Validate(); err != nil {
			stats.Invalid++
			continue
		}
		geom, ok := fleet[r.SourceMMSI]
		if !ok {
			stats.NotContainership++
			continue
		}
		if _, ok := allowed[r.NavigationalStatus]; !ok {
			stats.Status++
			continue
		}
		if !(r.SpeedOverGround > opts.MinSpeedOverGround) {
			stats.Speed++
			continue
		}
		r.VesselGeometry = geom
		out = append(out, r)
	}

	if opts.SampleVessels > 0 {
		before := len(out)
		out = SampleVessels(out, opts.SampleVessels)
		stats.Sampled = before - len(out)
	}
	stats.Output = len(out)
	return out, stats
}

// SampleVessels keeps the rows of the first n distinct vessels in order of
// first appearance.
func SampleVessels(rows []AISRecord, n int) []AISRecord {
	keep := make(map[int64]struct{}, n)
	out := make([]AISRecord, 0, len(rows))
	for _, r := range rows {
		if _, ok := keep[r.SourceMMSI]; !ok {
			if len(keep) >= n {
				continue
			}
			keep[r.SourceMMSI] = struct{}{}
		}
		out = append(out, r)
	}
	return out
}

// ValidFacts drops structurally invalid rows from an already cleaned fact
// table, returning the kept rows and the number dropped.
func ValidFacts(rows []AISRecord) ([]AISRecord, int) {
	out := make([]AISRecord, 0, len(rows))
	for _, r := range rows {
		if r.Validate() != nil {
			continue
		}
		out = append(out, r)
	}
	return out, len(rows) - len(out)
}
