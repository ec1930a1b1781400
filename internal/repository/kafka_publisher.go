package repository

import (
	"context"
	"fmt"

	"TrendCast/internal/domain/models"
	"TrendCast/pkg/kafka"
)

// KafkaForecastPublisher emits forecast completion events keyed by project
// so one project's forecasts stay ordered within a partition.
type KafkaForecastPublisher struct {
	producer *kafka.Producer
	topic    string
}

func NewKafkaForecastPublisher(producer *kafka.Producer, topic string) *KafkaForecastPublisher {
	return &KafkaForecastPublisher{producer: producer, topic: topic}
}

func (p *KafkaForecastPublisher) PublishForecast(ctx context.Context, event models.ForecastEvent) error {
	if err := p.producer.Publish(ctx, p.topic, []byte(event.ProjectID), event); err != nil {
		return fmt.Errorf("publish forecast event: %w", err)
	}
	return nil
}

func (p *KafkaForecastPublisher) Close() error {
	return p.producer.Close()
}
