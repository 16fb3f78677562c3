package kafka

import (
	"encoding/json"

	"github.com/IBM/sarama"
)

// Producer wraps a sarama sync producer for JSON payloads.
type Producer struct {
	producer sarama.SyncProducer
}

// NewProducer creates a sync producer that waits for all in-sync replicas.
func NewProducer(brokers []string) (*Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, saramaConfig)
	if err != nil {
		return nil, err
	}
	return &Producer{producer: producer}, nil
}

// SendJSON marshals v and publishes it to topic keyed by key.
func (p *Producer) SendJSON(topic, key string, v any) (partition int32, offset int64, err error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return 0, 0, err
	}
	return p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(payload),
	})
}

// Close shuts down the producer.
func (p *Producer) Close() error {
	return p.producer.Close()
}
