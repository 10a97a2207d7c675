package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashent3/redflags-sub002/internal/domain/event"
	"github.com/akashent3/redflags-sub002/internal/infrastructure/kafka"
	pkgkafka "github.com/akashent3/redflags-sub002/pkg/kafka"
)

type fakeProducer struct {
	topic    string
	messages []pkgkafka.Message
	err      error
}

func (f *fakeProducer) Publish(_ context.Context, topic string, messages ...pkgkafka.Message) error {
	f.topic = topic
	f.messages = append(f.messages, messages...)
	return f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublisher_Publish(t *testing.T) {
	analysisID := uuid.New()
	at := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	completed := event.NewAnalysisCompleted(analysisID, "ACME", 2024, 83.5, "CRITICAL", []int{1, 9}, []string{"AUDITOR"}, at)
	highRisk := event.NewHighRiskDetected(analysisID, "ACME", 2024, 83.5, []int{1, 9}, at)

	t.Run("wraps events in envelopes keyed by aggregate", func(t *testing.T) {
		producer := &fakeProducer{}
		pub := kafka.NewPublisher(producer, "redflags.events", discardLogger())

		require.NoError(t, pub.Publish(context.Background(), completed, highRisk))
		assert.Equal(t, "redflags.events", producer.topic)
		require.Len(t, producer.messages, 2)

		msg := producer.messages[0]
		assert.Equal(t, analysisID.String(), string(msg.Key))
		assert.Equal(t, event.EventTypeAnalysisCompleted, msg.Headers["event_type"])
		assert.Equal(t, event.AggregateTypeAnalysis, msg.Headers["aggregate_type"])

		var env kafka.Envelope
		require.NoError(t, json.Unmarshal(msg.Value, &env))
		assert.Equal(t, completed.EventID(), env.EventID)
		assert.Equal(t, analysisID, env.AggregateID)
		assert.True(t, at.Equal(env.OccurredAt))

		var payload struct {
			CompanyID        string  `json:"company_id"`
			CompositeScore   float64 `json:"composite_score"`
			TriggeredFlagIDs []int   `json:"triggered_flag_ids"`
		}
		require.NoError(t, json.Unmarshal(env.Payload, &payload))
		assert.Equal(t, "ACME", payload.CompanyID)
		assert.InDelta(t, 83.5, payload.CompositeScore, 0.001)
		assert.Equal(t, []int{1, 9}, payload.TriggeredFlagIDs)

		assert.Equal(t, event.EventTypeHighRiskDetected, producer.messages[1].Headers["event_type"])
	})

	t.Run("no events is a no-op", func(t *testing.T) {
		producer := &fakeProducer{}
		pub := kafka.NewPublisher(producer, "redflags.events", discardLogger())

		require.NoError(t, pub.Publish(context.Background()))
		assert.Empty(t, producer.topic)
	})

	t.Run("producer failure", func(t *testing.T) {
		producer := &fakeProducer{err: errors.New("broker down")}
		pub := kafka.NewPublisher(producer, "redflags.events", discardLogger())

		err := pub.Publish(context.Background(), completed)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to publish events to topic redflags.events")
	})
}
