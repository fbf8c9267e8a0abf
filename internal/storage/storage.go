package storage

import (
	"context"

	"ammpool/internal/model"
)

// Storage defines a sink for engine event records.
type Storage interface {
	PutEventBatch(ctx context.Context, events []model.EventRecord) error
}

// Multi fans event batches out to several sinks in order.
type Multi []Storage

func (m Multi) PutEventBatch(ctx context.Context, events []model.EventRecord) error {
	for _, s := range m {
		if err := s.PutEventBatch(ctx, events); err != nil {
			return err
		}
	}
	return nil
}
