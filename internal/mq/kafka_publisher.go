package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"github.com/weiawesome/wes-image-enhancer/internal/domain"
	pkglog "github.com/weiawesome/wes-image-enhancer/pkg/log"
)

// producer is the subset of *kafka.Producer used by KafkaPublisher.
type producer interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Events() chan kafka.Event
	Flush(timeoutMs int) int
	Close()
}

// KafkaPublisher implements EnhancedEventPublisher using confluent-kafka-go.
// Each publish waits for its delivery report.
type KafkaPublisher struct {
	producer producer
	topic    string
	doneCh   chan struct{}
}

// NewKafkaPublisher creates a new Kafka producer for enhanced events.
func NewKafkaPublisher(brokers, topic string) (*KafkaPublisher, error) {
	if err := ensureTopic(brokers, topic, 1); err != nil {
		l := pkglog.L()
		l.Warn().Err(err).Str(pkglog.FieldTopic, topic).Msg("failed to ensure topic, may already exist")
	}

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"acks":              "1",
		"linger.ms":         5,
		"compression.type":  "snappy",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return newKafkaPublisher(p, topic), nil
}

func newKafkaPublisher(p producer, topic string) *KafkaPublisher {
	kp := &KafkaPublisher{
		producer: p,
		topic:    topic,
		doneCh:   make(chan struct{}),
	}

	go kp.eventHandler()

	return kp
}

func ensureTopic(brokers, topic string, partitions int) error {
	admin, err := kafka.NewAdminClient(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
	})
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer admin.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	results, err := admin.CreateTopics(ctx, []kafka.TopicSpecification{
		{
			Topic:             topic,
			NumPartitions:     partitions,
			ReplicationFactor: 1,
		},
	})
	if err != nil {
		return err
	}

	for _, result := range results {
		if result.Error.Code() != kafka.ErrNoError && result.Error.Code() != kafka.ErrTopicAlreadyExists {
			return fmt.Errorf("failed to create topic %s: %v", result.Topic, result.Error)
		}
	}

	return nil
}

// eventHandler drains producer-level events. Delivery reports go to the
// per-message channels, so only client errors arrive here.
func (kp *KafkaPublisher) eventHandler() {
	l := pkglog.L()
	for e := range kp.producer.Events() {
		if ev, ok := e.(kafka.Error); ok {
			l.Error().Err(ev).Msg("kafka producer error")
		}
	}
	close(kp.doneCh)
}

// PublishEnhanced sends an enhanced event to Kafka, keyed by source key so
// events for one object stay on one partition.
func (kp *KafkaPublisher) PublishEnhanced(ctx context.Context, event *domain.EnhancedEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal enhanced event: %w", err)
	}

	deliveryCh := make(chan kafka.Event, 1)
	err = kp.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &kp.topic,
			Partition: kafka.PartitionAny,
		},
		Key:   []byte(event.SourceImage.Key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "subject", Value: []byte(domain.EnhancedEventSubject)},
		},
	}, deliveryCh)
	if err != nil {
		return fmt.Errorf("failed to produce message: %w", err)
	}

	select {
	case e := <-deliveryCh:
		switch ev := e.(type) {
		case *kafka.Message:
			if ev.TopicPartition.Error != nil {
				return fmt.Errorf("kafka delivery failed: %w", ev.TopicPartition.Error)
			}
			return nil
		case kafka.Error:
			return fmt.Errorf("kafka delivery failed: %w", ev)
		default:
			return fmt.Errorf("unexpected delivery event: %v", e)
		}
	case <-ctx.Done():
		return fmt.Errorf("waiting for kafka delivery: %w", ctx.Err())
	}
}

// Close flushes pending messages and releases producer resources.
func (kp *KafkaPublisher) Close() error {
	kp.producer.Flush(5000)
	kp.producer.Close()
	<-kp.doneCh
	return nil
}
