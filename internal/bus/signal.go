package bus

import (
	"context"

	"go.uber.org/zap"
)

// Signal is the external change channel between service instances.
// It never reports an instance's own announcements back to it.
type Signal interface {
	Announce(ctx context.Context, e Event) error
	// Listen blocks until ctx is done, passing remote events to deliver
	Listen(ctx context.Context, deliver func(Event)) error
	Close() error
}

// NoopSignal is used when the service runs as a single instance
type NoopSignal struct{}

func (NoopSignal) Announce(context.Context, Event) error { return nil }

func (NoopSignal) Listen(ctx context.Context, _ func(Event)) error {
	<-ctx.Done()
	return nil
}

func (NoopSignal) Close() error { return nil }

// Bridge wires both channels: local publications are announced on the signal,
// remote announcements are delivered to local subscribers without being re-announced.
// It returns when ctx is done.
func Bridge(ctx context.Context, b *Bus, signal Signal, log *zap.Logger) error {
	unsubscribe := b.SubscribeAll(func(e Event) {
		if !b.Local(e) {
			return
		}
		if err := signal.Announce(ctx, e); err != nil {
			log.Warn("change announce failed", zap.String("topic", e.Topic), zap.Error(err))
		}
	})
	defer unsubscribe()

	return signal.Listen(ctx, b.Deliver)
}
