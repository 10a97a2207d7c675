package testutil

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/testcontainers/testcontainers-go/modules/kafka"

	pkgkafka "github.com/akashent3/redflags-sub002/pkg/kafka"
)

// KafkaBroker is a single-node Kafka started for one test. It is terminated
// by t.Cleanup.
type KafkaBroker struct {
	Container *kafka.KafkaContainer
	Brokers   []string
}

// NewKafkaBroker starts Kafka and creates the given topics with one
// partition each. It skips the test unless integration tests are enabled.
func NewKafkaBroker(ctx context.Context, t *testing.T, topics ...string) *KafkaBroker {
	t.Helper()
	RequireIntegration(t)

	container, err := kafka.Run(ctx,
		"confluentinc/confluent-local:7.6.1",
		kafka.WithClusterID("redflags-test"),
	)
	if err != nil {
		t.Fatalf("failed to start kafka container: %v", err)
	}
	t.Cleanup(func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := container.Terminate(stopCtx); err != nil {
			t.Logf("warning: failed to terminate kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	if err != nil {
		t.Fatalf("failed to get kafka brokers: %v", err)
	}

	kb := &KafkaBroker{Container: container, Brokers: brokers}
	if len(topics) > 0 {
		kb.createTopics(ctx, t, topics)
	}
	return kb
}

// Config returns client settings for the broker under the given consumer group.
func (kb *KafkaBroker) Config(group string) pkgkafka.Config {
	return pkgkafka.Config{Brokers: kb.Brokers, ConsumerGroup: group, ClientID: group}
}

func (kb *KafkaBroker) createTopics(ctx context.Context, t *testing.T, topics []string) {
	t.Helper()

	conn, err := kafkago.DialContext(ctx, "tcp", kb.Brokers[0])
	if err != nil {
		t.Fatalf("failed to dial kafka: %v", err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		t.Fatalf("failed to find kafka controller: %v", err)
	}
	ctrl, err := kafkago.DialContext(ctx, "tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		t.Fatalf("failed to dial kafka controller: %v", err)
	}
	defer ctrl.Close()

	configs := make([]kafkago.TopicConfig, 0, len(topics))
	for _, topic := range topics {
		configs = append(configs, kafkago.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1})
	}
	if err := ctrl.CreateTopics(configs...); err != nil {
		t.Fatalf("failed to create topics %v: %v", topics, err)
	}
}
