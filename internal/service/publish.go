package service

import (
	"context"

	"importexport-hub/pkg/events"
	"importexport-hub/prometheus"

	"go.uber.org/zap"
)

// publish hands the event to the broker. A failed publish never fails the
// ledger operation that produced it.
func publish(ctx context.Context, pub events.Publisher, log *zap.Logger, e events.Event) {
	err := pub.Publish(ctx, e)
	prometheus.RecordEventPublished(e.Type, err)
	if err != nil {
		log.Error("Failed to publish ledger event",
			zap.String("type", e.Type),
			zap.String("aggregate_id", e.AggregateID),
			zap.Error(err))
	}
}
