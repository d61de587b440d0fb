package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/ais-metocean-etl/internal/adapter/csvio"
	"github.com/couchcryptid/ais-metocean-etl/internal/config"
	"github.com/couchcryptid/ais-metocean-etl/internal/domain"
	"github.com/couchcryptid/ais-metocean-etl/internal/observability"
)

// LoadReference reads and indexes the ocean partitions and the weather series
// named in the manifest. Ocean files are read concurrently. An ocean file with
// no rows and no declared bound is skipped, so its period matches nothing.
func LoadReference(ctx context.Context, m *config.Manifest, logger *slog.Logger, metrics *observability.Metrics) (*domain.Reference, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	partitions := make([]*domain.OceanPartition, len(m.Ocean))

	var g errgroup.Group
	for i, part := range m.Ocean {
		g.Go(func() error {
			rows, err := csvio.ReadOcean(part.Path)
			if err != nil {
				return fmt.Errorf("ocean partition %s: %w", part.Name, err)
			}
			metrics.RowsRead.WithLabelValues("ocean").Add(float64(len(rows)))

			if part.Bound != nil {
				p := domain.NewBoundedOceanPartition(part.Name, *part.Bound, rows)
				partitions[i] = &p
				return nil
			}
			if len(rows) == 0 {
				logger.Warn("ocean partition is empty, skipping", "partition", part.Name, "path", part.Path)
				return nil
			}
			p, err := domain.NewOceanPartition(part.Name, rows)
			if err != nil {
				return err
			}
			partitions[i] = &p
			return nil
		})
	}

	var weather []domain.WeatherRecord
	g.Go(func() error {
		var err error
		weather, err = loadWeather(m.Weather, logger, metrics)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	kept := make([]domain.OceanPartition, 0, len(partitions))
	for _, p := range partitions {
		if p == nil {
			continue
		}
		logger.Info("ocean partition loaded", "partition", p.Name, "rows", p.Len(), "low", p.Bound.Low, "high", p.Bound.High)
		kept = append(kept, *p)
	}

	ref := &domain.Reference{
		Ocean:   domain.NewOceanMatcher(kept...),
		Weather: domain.NewWeatherMatcher(weather),
	}
	logger.Info("reference data loaded", "ocean_partitions", len(kept), "weather_rows", ref.Weather.Len())
	return ref, nil
}

func loadWeather(files config.WeatherFiles, logger *slog.Logger, metrics *observability.Metrics) ([]domain.WeatherRecord, error) {
	obs, err := csvio.ReadWeatherObservations(files.Observations)
	if err != nil {
		return nil, fmt.Errorf("weather observations: %w", err)
	}
	metrics.RowsRead.WithLabelValues("weather").Add(float64(len(obs)))

	stations, err := csvio.ReadStations(files.Stations)
	if err != nil {
		return nil, fmt.Errorf("weather stations: %w", err)
	}
	metrics.RowsRead.WithLabelValues("stations").Add(float64(len(stations)))

	records, skipped := domain.AttachStationCoordinates(obs, stations)
	if skipped > 0 {
		logger.Warn("weather observations with unknown station dropped", "count", skipped)
	}
	return records, nil
}

// LoadFacts reads the AIS table named in the manifest and cleans it. With a
// static table the dynamic reports are filtered to containerships and joined
// with their geometry; without one the table is taken as an already cleaned
// fact table and only structurally invalid rows are dropped.
func LoadFacts(m *config.Manifest, opts domain.CleanOptions, logger *slog.Logger, metrics *observability.Metrics) ([]domain.AISRecord, domain.CleanStats, error) {
	dynamic, err := csvio.ReadDynamic(m.Dynamic)
	if err != nil {
		return nil, domain.CleanStats{}, fmt.Errorf("dynamic table: %w", err)
	}
	metrics.RowsRead.WithLabelValues("dynamic").Add(float64(len(dynamic)))

	if m.Static == "" {
		facts, dropped := domain.ValidFacts(dynamic)
		if opts.SampleVessels > 0 {
			facts = domain.SampleVessels(facts, opts.SampleVessels)
		}
		stats := domain.CleanStats{Input: len(dynamic), Invalid: dropped, Output: len(facts)}
		stats.Sampled = stats.Input - stats.Invalid - stats.Output
		logger.Info("fact table loaded", "rows", len(facts), "invalid", dropped)
		return facts, stats, nil
	}

	static, err := csvio.ReadStatic(m.Static)
	if err != nil {
		return nil, domain.CleanStats{}, fmt.Errorf("static table: %w", err)
	}
	metrics.RowsRead.WithLabelValues("static").Add(float64(len(static)))

	fleet, rejected := domain.ContainershipIndex(static)
	if rejected > 0 {
		logger.Warn("static records with invalid MMSI or ship type rejected", "count", rejected)
	}

	facts, stats := domain.CleanFacts(dynamic, fleet, opts)
	logger.Info("AIS reports cleaned",
		"input", stats.Input,
		"containerships", len(fleet),
		"invalid", stats.Invalid,
		"not_containership", stats.NotContainership,
		"status", stats.Status,
		"speed", stats.Speed,
		"sampled", stats.Sampled,
		"output", stats.Output,
	)
	return facts, stats, nil
}
