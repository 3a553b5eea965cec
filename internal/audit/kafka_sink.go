package audit

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/segmentio/kafka-go"
)

// KafkaSink publishes audit events, keyed by entity, for downstream
// consumers such as reporting.
type KafkaSink struct {
	writer *kafka.Writer
}

func NewKafkaSink(brokers, topic string) *KafkaSink {
	var addrs []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			addrs = append(addrs, b)
		}
	}

	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(addrs...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		},
	}
}

func (k *KafkaSink) Write(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	key := ev.Entity
	if ev.EntityID != nil {
		key = ev.Entity + ":" + uintString(*ev.EntityID)
	}

	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(ev.Action)},
		},
	})
}

func (k *KafkaSink) Close() error {
	return k.writer.Close()
}
