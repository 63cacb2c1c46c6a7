// Package broker 将领域事件发布到 Kafka
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/d60-Lab/gin-social/config"
)

// MessageWriter kafka.Writer 的最小接口，便于测试替换
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher 发布 JSON 事件，key 决定分区
type Publisher interface {
	Publish(ctx context.Context, key string, event interface{}) error
	Close() error
}

type KafkaPublisher struct {
	w MessageWriter
}

// NewKafkaPublisher 同一 key 的事件落到同一分区，保证单个用户的事件有序
func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	return NewPublisherWithWriter(&kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		WriteTimeout:           10 * time.Second,
		AllowAutoTopicCreation: true,
	})
}

func NewPublisherWithWriter(w MessageWriter) *KafkaPublisher { return &KafkaPublisher{w: w} }

func (p *KafkaPublisher) Publish(ctx context.Context, key string, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.w.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: payload, Time: time.Now()}); err != nil {
		return fmt.Errorf("write kafka message: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error { return p.w.Close() }
