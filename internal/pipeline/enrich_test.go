package pipeline_test

import (
	"context"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/ais-metocean-etl/internal/domain"
	"github.com/couchcryptid/ais-metocean-etl/internal/mockdata"
	"github.com/couchcryptid/ais-metocean-etl/internal/pipeline"
)

// generatedReference builds reference data and a cleaned fact table from the
// mock dataset without touching the filesystem.
func generatedReference(t *testing.T) (*domain.Reference, []domain.AISRecord) {
	t.Helper()
	d := mockdata.Generate(mockdata.DefaultOptions())

	partitions := make([]domain.OceanPartition, 0, len(d.Ocean))
	for _, p := range d.Ocean {
		op, err := domain.NewOceanPartition(p.Name, p.Rows)
		require.NoError(t, err)
		partitions = append(partitions, op)
	}
	weather, _ := domain.AttachStationCoordinates(d.Observations, d.Stations)

	fleet, _ := domain.ContainershipIndex(d.Static)
	facts, _ := domain.CleanFacts(d.Dynamic, fleet, domain.CleanOptions{MinSpeedOverGround: domain.DefaultMinSpeedOverGround})
	require.NotEmpty(t, facts)

	return &domain.Reference{
		Ocean:   domain.NewOceanMatcher(partitions...),
		Weather: domain.NewWeatherMatcher(weather),
	}, facts
}

func TestEnricher_PreservesOrder(t *testing.T) {
	ref, facts := generatedReference(t)

	var baseline []domain.EnrichedRecord
	for _, workers := range []int{1, 3, 8} {
		out, err := pipeline.NewEnricher(ref, workers, slog.Default(), newTestMetrics()).Enrich(context.Background(), facts)
		require.NoError(t, err)
		require.Len(t, out, len(facts))

		for i := range facts {
			assert.Equal(t, facts[i].SourceMMSI, out[i].SourceMMSI)
			assert.Equal(t, facts[i].T, out[i].T)
		}
		if baseline == nil {
			baseline = out
			continue
		}
		if diff := cmp.Diff(baseline, out, cmpopts.EquateNaNs()); diff != "" {
			t.Fatalf("%d workers changed the result (-1 worker +%d):\n%s", workers, workers, diff)
		}
	}
}

func TestEnricher_PermutationCommutes(t *testing.T) {
	ref, facts := generatedReference(t)
	enricher := pipeline.NewEnricher(ref, 4, slog.Default(), newTestMetrics())

	out, err := enricher.Enrich(context.Background(), facts)
	require.NoError(t, err)

	perm := rand.New(rand.NewSource(7)).Perm(len(facts)) //nolint:gosec // test shuffle
	shuffled := make([]domain.AISRecord, len(facts))
	for i, j := range perm {
		shuffled[i] = facts[j]
	}
	permOut, err := enricher.Enrich(context.Background(), shuffled)
	require.NoError(t, err)

	for i, j := range perm {
		if diff := cmp.Diff(out[j], permOut[i], cmpopts.EquateNaNs()); diff != "" {
			t.Fatalf("row %d differs after shuffling (-original +shuffled):\n%s", j, diff)
		}
	}
}

func TestEnricher_SomeRowsMatch(t *testing.T) {
	ref, facts := generatedReference(t)
	out, err := pipeline.NewEnricher(ref, 2, slog.Default(), newTestMetrics()).Enrich(context.Background(), facts)
	require.NoError(t, err)

	c := domain.Summarize(out)
	weatherT, ok := c.Field("weather_T")
	require.True(t, ok)
	assert.Positive(t, weatherT.Matched)
}

func TestEnricher_RowOutsidePartitionsGetsNulls(t *testing.T) {
	enricher := pipeline.NewEnricher(testReference(t), 2, slog.Default(), newTestMetrics())

	rows := []domain.AISRecord{
		aisReport(227705102, 48.0, -4.5, 1443654000),
		aisReport(227705102, 48.0, -4.5, 1446321600+86400),
	}
	out, err := enricher.Enrich(context.Background(), rows)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.NotNil(t, out[0].OceanHs)
	assert.Nil(t, out[1].OceanHs)
	assert.Nil(t, out[1].OceanDir)
	assert.Nil(t, out[1].OceanLm)
	assert.NotNil(t, out[1].WeatherT, "weather has no partitions")
}

func TestEnricher_CancelledContext(t *testing.T) {
	ref, facts := generatedReference(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pipeline.NewEnricher(ref, 2, slog.Default(), newTestMetrics()).Enrich(ctx, facts)
	require.ErrorIs(t, err, context.Canceled)
}

func TestEnricher_RequiresReference(t *testing.T) {
	tests := []struct {
		name    string
		matcher domain.Matcher
	}{
		{"nil matcher", nil},
		{"nil reference", (*domain.Reference)(nil)},
		{"no weather", &domain.Reference{Ocean: domain.NewOceanMatcher()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enricher := pipeline.NewEnricher(tt.matcher, 1, slog.Default(), newTestMetrics())

			_, err := enricher.Enrich(context.Background(), []domain.AISRecord{aisReport(1, 48, -4.5, 1443654000)})
			require.ErrorIs(t, err, pipeline.ErrNoReference)

			_, err = enricher.EnrichRecord(aisReport(1, 48, -4.5, 1443654000))
			require.ErrorIs(t, err, pipeline.ErrNoReference)
		})
	}
}

func TestEnricher_EmptyInput(t *testing.T) {
	out, err := pipeline.NewEnricher(testReference(t), 4, slog.Default(), newTestMetrics()).Enrich(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestEnricher_DoesNotModifyInput(t *testing.T) {
	rows := []domain.AISRecord{aisReport(227705102, 48.0, -4.5, 1443654000)}
	before := rows[0]

	_, err := pipeline.NewEnricher(testReference(t), 1, slog.Default(), newTestMetrics()).Enrich(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, before, rows[0])
}
