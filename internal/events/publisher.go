// Package events publishes a feed of record changes. The feed is optional:
// without a broker the NopPublisher drops every message.
package events

import (
	"context"
	"sync"
)

// Publisher delivers change notifications.
type Publisher interface {
	Publish(ctx context.Context, msg RecordChanged) error
	Close() error
}

// NopPublisher drops every message.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, RecordChanged) error { return nil }
func (NopPublisher) Close() error                                 { return nil }

// Recorder keeps published messages in memory.
type Recorder struct {
	mu   sync.Mutex
	msgs []RecordChanged
}

func (r *Recorder) Publish(_ context.Context, msg RecordChanged) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Messages returns a copy of everything published so far.
func (r *Recorder) Messages() []RecordChanged {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]RecordChanged(nil), r.msgs...)
}
