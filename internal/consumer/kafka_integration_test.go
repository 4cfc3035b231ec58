//go:build integration

package consumer

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkaContainer "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/cache"
	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/catalog"
	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/domain"
	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/events"
)

func TestKafkaUpsertEventReachesDocumentFile(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
	defer cancel()

	kafkaC, err := kafkaContainer.RunContainer(ctx, testcontainers.WithEnv(map[string]string{
		"KAFKA_AUTO_CREATE_TOPICS_ENABLE": "true",
	}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = kafkaC.Terminate(context.Background()) })

	brokers, err := kafkaC.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	broker := brokers[0]
	topic := "exercise_catalog"

	store := catalog.NewDocumentStore(filepath.Join(t.TempDir(), "workout_database.json"))
	require.NoError(t, store.Save(ctx, catalog.SeedRecords()))
	cached := cache.NewCachedSource(store, time.Hour)
	_, err = cached.Load(ctx)
	require.NoError(t, err)

	logger, _ := logtest.NewNullLogger()
	handler := NewCatalogHandler(store, cached, logger)

	conn, err := kafka.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     []string{broker},
		GroupID:     "catalog-integration",
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
	})
	defer reader.Close()

	consumerCtx, stop := context.WithCancel(ctx)
	defer stop()
	go func() {
		_ = NewProcessor(reader, handler, WithLogger(logger)).Run(consumerCtx)
	}()

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(broker),
		Topic:                  topic,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	defer writer.Close()

	rec := domain.ExerciseRecord{
		Name:           "Weighted Pull-Ups",
		Equipment:      domain.BodyWeights,
		PrimaryGroup:   "Back & Biceps",
		TargetMuscle:   "Lats",
		IntensityScore: 10,
		Mechanics:      "Compound",
	}
	payload, err := json.Marshal(events.UpsertedFrom(rec, time.Now().UTC()))
	require.NoError(t, err)
	require.NoError(t, writer.WriteMessages(context.Background(), kafka.Message{
		Key:     []byte(rec.Name),
		Value:   payload,
		Headers: []kafka.Header{{Key: events.HeaderEventType, Value: []byte(events.TypeExerciseUpserted)}},
	}))

	service := domain.NewService(cached)
	require.Eventually(t, func() bool {
		got, err := service.Recommend(ctx, domain.BodyWeights, "Lats", domain.DefaultTopK)
		return err == nil && len(got.Items) == 1 && got.Items[0].Name == rec.Name
	}, 30*time.Second, 500*time.Millisecond)
}
