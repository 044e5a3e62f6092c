package batch

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const changeChannel = "batches.changed"

// Notifier publishes change events so other processes can reconcile their
// view of the batch tables. The payload is the table name only.
type Notifier struct {
	client *redis.Client
	logger *slog.Logger
}

func NewNotifier(client *redis.Client, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{client: client, logger: logger}
}

// Bump broadcasts that the named table changed. Delivery is best effort;
// a failed publish is logged and dropped.
func (n *Notifier) Bump(ctx context.Context, table string) {
	if n == nil || n.client == nil {
		return
	}
	if err := n.client.Publish(ctx, changeChannel, table).Err(); err != nil {
		n.logger.Warn("batch change publish failed", "table", table, "error", err)
	}
}

// Watcher subscribes to batch change events and invokes a callback per
// notification.
type Watcher struct {
	client *redis.Client
	logger *slog.Logger
}

func NewWatcher(client *redis.Client, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{client: client, logger: logger}
}

// Listen subscribes to the change channel and calls onChange with each table
// name until ctx is cancelled. Runs its loop in a goroutine and returns
// immediately.
func (w *Watcher) Listen(ctx context.Context, onChange func(table string)) error {
	if w == nil || w.client == nil {
		return nil
	}
	pubsub := w.client.Subscribe(ctx, changeChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return err
	}
	go func() {
		defer func() { _ = pubsub.Close() }()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if onChange != nil {
					onChange(msg.Payload)
				}
			}
		}
	}()
	return nil
}
