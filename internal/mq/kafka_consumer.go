package mq

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	pkglog "github.com/weiawesome/wes-image-enhancer/pkg/log"
)

// KafkaConsumer implements NotificationConsumer using confluent-kafka-go.
type KafkaConsumer struct {
	consumer   *kafka.Consumer
	topic      string
	dispatcher BatchDispatcher
	filter     Filter
	doneCh     chan struct{}
}

// NewKafkaConsumer creates a new Kafka consumer for bucket notifications.
func NewKafkaConsumer(brokers, topic, groupID string, filter Filter, dispatcher BatchDispatcher) (*KafkaConsumer, error) {
	c, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":  brokers,
		"group.id":           groupID,
		"auto.offset.reset":  "latest",
		"enable.auto.commit": true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer: %w", err)
	}

	return &KafkaConsumer{
		consumer:   c,
		topic:      topic,
		dispatcher: dispatcher,
		filter:     filter,
		doneCh:     make(chan struct{}),
	}, nil
}

// Start begins consuming messages from Kafka in a background goroutine.
func (kc *KafkaConsumer) Start(ctx context.Context) error {
	if err := kc.consumer.Subscribe(kc.topic, nil); err != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", kc.topic, err)
	}

	l := pkglog.L()
	l.Info().Str(pkglog.FieldTopic, kc.topic).Msg("notification consumer started")

	go kc.consumeLoop(ctx)

	return nil
}

func (kc *KafkaConsumer) consumeLoop(ctx context.Context) {
	l := pkglog.L()
	defer close(kc.doneCh)

	for {
		select {
		case <-ctx.Done():
			l.Info().Msg("notification consumer shutting down")
			return
		default:
			msg, err := kc.consumer.ReadMessage(100 * time.Millisecond)
			if err != nil {
				var kerr kafka.Error
				if errors.As(err, &kerr) && kerr.Code() == kafka.ErrTimedOut {
					continue
				}
				l.Error().Err(err).Msg("kafka consumer error")
				continue
			}
			// In-flight batches complete even after the shutdown signal.
			kc.processMessage(context.WithoutCancel(ctx), msg)
		}
	}
}

func (kc *KafkaConsumer) processMessage(ctx context.Context, msg *kafka.Message) {
	l := pkglog.L()

	batch, err := DecodeNotifications(msg.Value, kc.filter)
	if err != nil {
		l.Error().Err(err).Str(pkglog.FieldTopic, kc.topic).Msg("failed to decode notification")
		return
	}
	if len(batch) == 0 {
		return
	}

	l.Info().Int(pkglog.FieldBatchSize, len(batch)).Msg("received bucket notification")

	kc.dispatcher.Dispatch(pkglog.WithLogger(ctx, l), batch)
}

// Close waits for the consume loop to drain, then closes the Kafka client.
// ctx must already be cancelled before calling Close.
func (kc *KafkaConsumer) Close() error {
	<-kc.doneCh
	if err := kc.consumer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka consumer: %w", err)
	}
	return nil
}
