package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/ais-metocean-etl/internal/domain"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ModeBatch, cfg.Mode)
	assert.Equal(t, "datasets", cfg.DataDir)
	assert.Empty(t, cfg.ManifestPath)
	assert.Equal(t, "enriched.csv", cfg.OutputCSV)
	assert.Empty(t, cfg.OutputParquet)
	assert.Empty(t, cfg.SQLitePath)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Equal(t, []int{0, 3, 4, 8}, cfg.NavigationalStatuses)
	assert.Equal(t, 5.0, cfg.MinSpeedOverGround)
	assert.Zero(t, cfg.SampleVessels)
	assert.Equal(t, 10000, cfg.MatchCacheSize)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "ais-dynamic", cfg.KafkaSourceTopic)
	assert.Equal(t, "ais-enriched", cfg.KafkaSinkTopic)
	assert.Equal(t, "ais-metocean-etl", cfg.KafkaGroupID)
	assert.False(t, cfg.KafkaPublish)
	assert.False(t, cfg.UsesKafka())
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.BatchFlushInterval)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("MODE", "stream")
	t.Setenv("DATA_DIR", "/data/nari")
	t.Setenv("MANIFEST_PATH", "/etc/ais/manifest.yaml")
	t.Setenv("OUTPUT_CSV", "out.csv")
	t.Setenv("OUTPUT_PARQUET", "out.parquet")
	t.Setenv("SQLITE_PATH", "out.db")
	t.Setenv("WORKERS", "3")
	t.Setenv("NAV_STATUS_CODES", "0, 8")
	t.Setenv("MIN_SPEED_OVER_GROUND", "2.5")
	t.Setenv("SAMPLE_VESSELS", "100")
	t.Setenv("MATCH_CACHE_SIZE", "0")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SOURCE_TOPIC", "custom-source")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("KAFKA_GROUP_ID", "custom-group")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("BATCH_FLUSH_INTERVAL", "1s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ModeStream, cfg.Mode)
	assert.True(t, cfg.UsesKafka())
	assert.Equal(t, "/data/nari", cfg.DataDir)
	assert.Equal(t, "/etc/ais/manifest.yaml", cfg.ManifestPath)
	assert.Equal(t, "out.csv", cfg.OutputCSV)
	assert.Equal(t, "out.parquet", cfg.OutputParquet)
	assert.Equal(t, "out.db", cfg.SQLitePath)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, []int{0, 8}, cfg.NavigationalStatuses)
	assert.Equal(t, 2.5, cfg.MinSpeedOverGround)
	assert.Equal(t, 100, cfg.SampleVessels)
	assert.Zero(t, cfg.MatchCacheSize)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-source", cfg.KafkaSourceTopic)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.Equal(t, "custom-group", cfg.KafkaGroupID)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 1*time.Second, cfg.BatchFlushInterval)
}

func TestLoad_KafkaPublishInBatchMode(t *testing.T) {
	t.Setenv("KAFKA_PUBLISH", "true")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.UsesKafka())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key, value, wantErr string
	}{
		{"SHUTDOWN_TIMEOUT", "not-a-duration", "SHUTDOWN_TIMEOUT"},
		{"SHUTDOWN_TIMEOUT", "-1s", "SHUTDOWN_TIMEOUT"},
		{"BATCH_SIZE", "0", "BATCH_SIZE"},
		{"BATCH_SIZE", "9999", "BATCH_SIZE"},
		{"BATCH_FLUSH_INTERVAL", "not-a-duration", "BATCH_FLUSH_INTERVAL"},
		{"MODE", "replay", "MODE"},
		{"WORKERS", "0", "WORKERS"},
		{"WORKERS", "many", "WORKERS"},
		{"NAV_STATUS_CODES", "0,16", "NAV_STATUS_CODES"},
		{"NAV_STATUS_CODES", "underway", "NAV_STATUS_CODES"},
		{"NAV_STATUS_CODES", " , ", "NAV_STATUS_CODES"},
		{"MIN_SPEED_OVER_GROUND", "-1", "MIN_SPEED_OVER_GROUND"},
		{"MIN_SPEED_OVER_GROUND", "fast", "MIN_SPEED_OVER_GROUND"},
		{"SAMPLE_VESSELS", "-5", "SAMPLE_VESSELS"},
		{"MATCH_CACHE_SIZE", "big", "MATCH_CACHE_SIZE"},
		{"KAFKA_PUBLISH", "maybe", "KAFKA_PUBLISH"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadManifest_Embedded(t *testing.T) {
	m, err := LoadManifest("", "datasets")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("datasets", "nari_dynamic.csv"), m.Dynamic)
	assert.Equal(t, filepath.Join("datasets", "nari_static.csv"), m.Static)
	require.Len(t, m.Ocean, 6)
	names := make([]string, 0, len(m.Ocean))
	for _, p := range m.Ocean {
		names = append(names, p.Name)
		assert.Nil(t, p.Bound)
	}
	assert.Equal(t, []string{"october", "november", "december", "january", "february", "march"}, names)
	assert.Equal(t, filepath.Join("datasets", "oc_october.csv"), m.Ocean[0].Path)
	assert.Equal(t, filepath.Join("datasets", "table_weather_observation.csv"), m.Weather.Observations)
	assert.Equal(t, filepath.Join("datasets", "table_weatherStation.csv"), m.Weather.Stations)
}

func TestLoadManifest_FileWithBounds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	doc := `
dynamic: facts.csv
ocean:
  - name: october
    path: /abs/oc_october.csv
    bound: {low: 1443654000, high: 1446321600}
  - name: november
    path: oc_november.csv
weather:
  observations: obs.csv
  stations: stations.csv
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	m, err := LoadManifest(path, "/data")
	require.NoError(t, err)

	assert.Equal(t, "/data/facts.csv", m.Dynamic)
	assert.Empty(t, m.Static)
	require.Len(t, m.Ocean, 2)
	assert.Equal(t, "/abs/oc_october.csv", m.Ocean[0].Path)
	require.NotNil(t, m.Ocean[0].Bound)
	assert.Equal(t, domain.Bound{Low: 1443654000, High: 1446321600}, *m.Ocean[0].Bound)
	assert.Equal(t, "/data/oc_november.csv", m.Ocean[1].Path)
}

func TestLoadManifest_Invalid(t *testing.T) {
	tests := map[string]string{
		"no dynamic":      "ocean: [{name: a, path: a.csv}]\nweather: {observations: o, stations: s}",
		"no ocean":        "dynamic: d.csv\nweather: {observations: o, stations: s}",
		"unnamed ocean":   "dynamic: d.csv\nocean: [{path: a.csv}]\nweather: {observations: o, stations: s}",
		"duplicate ocean": "dynamic: d.csv\nocean: [{name: a, path: a.csv}, {name: a, path: b.csv}]\nweather: {observations: o, stations: s}",
		"inverted bound":  "dynamic: d.csv\nocean: [{name: a, path: a.csv, bound: {low: 10, high: 1}}]\nweather: {observations: o, stations: s}",
		"no weather":      "dynamic: d.csv\nocean: [{name: a, path: a.csv}]",
		"not yaml":        "dynamic: [unclosed",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "manifest.yaml")
			require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
			_, err := LoadManifest(path, "")
			require.Error(t, err)
		})
	}
}

func TestLoadManifest_MissingFile(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "absent.yaml"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read manifest")
}
