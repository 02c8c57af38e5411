package events

import (
	"context"
	"fmt"

	"importexport-hub/pkg/config"

	"go.uber.org/zap"
)

// NewPublisher builds the publisher selected by EVENTS_DRIVER
func NewPublisher(ctx context.Context, cfg config.EventsConfig, log *zap.Logger) (Publisher, error) {
	switch cfg.Driver {
	case config.EventsKafka:
		log.Info("Publishing ledger events to Kafka",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic", cfg.KafkaTopic))
		return NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic), nil
	case config.EventsAMQP:
		conn, ch, err := SetupConn(ctx, cfg.AMQPURL, cfg.AMQPExchange, log)
		if err != nil {
			return nil, err
		}
		log.Info("Publishing ledger events to RabbitMQ", zap.String("exchange", cfg.AMQPExchange))
		return NewAMQPPublisher(conn, ch, cfg.AMQPExchange), nil
	case config.EventsNone, "":
		return Noop{}, nil
	default:
		return nil, fmt.Errorf("unsupported events driver %q", cfg.Driver)
	}
}
