//go:build integration

package integration_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/ais-metocean-etl/internal/domain"
	"github.com/couchcryptid/ais-metocean-etl/internal/mockdata"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node broker and returns its address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("ais-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates a single-partition topic through the cluster controller.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// loadMockData generates the reference data and the cleaned AIS fact rows
// that are published to the source topic.
func loadMockData(t *testing.T) (*domain.Reference, []domain.AISRecord) {
	t.Helper()
	opts := mockdata.DefaultOptions()
	opts.Months = 2
	d := mockdata.Generate(opts)

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
