package services

import (
	"context"

	"expensetracker/internal/events"
	"expensetracker/internal/log"
)

// feed publishes record changes. A failed publish never fails the write
// that triggered it: the record is already stored.
type feed struct {
	publisher events.Publisher
	logger    *log.Logger
}

func newFeed(publisher events.Publisher, logger *log.Logger) feed {
	if logger == nil {
		logger = log.Nop()
	}
	return feed{publisher: publisher, logger: logger.WithComponent(log.ComponentService)}
}

func (f feed) publish(ctx context.Context, msg events.RecordChanged) {
	if f.publisher == nil {
		f.logger.DebugContext(ctx, "Change feed not available, skipping message",
			log.FieldCollection, msg.Collection,
			log.FieldOperation, string(msg.Operation))
		return
	}

	if err := f.publisher.Publish(ctx, msg); err != nil {
		fields := log.NewFields().
			WithOperation(log.OpPublish).
			WithRecord(msg.Collection, msg.ID).
			WithError(err)
		f.logger.ErrorContext(ctx, "Failed to publish record change",
			append(fields.ToSlice(), "change", string(msg.Operation))...)
	}
}
