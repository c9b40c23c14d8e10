package redisclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/carelane/hospital-scheduling/internal/scheduling"
)

// EventChannel is the pub/sub channel lifecycle events are published to.
// Downstream consumers (reminder mailer, audit log) subscribe here.
const EventChannel = "appointments.events"

type eventNotifier struct {
	client *redis.Client
}

// NewEventNotifier creates a scheduling.Notifier that publishes events as
// JSON on EventChannel. Delivery is best-effort: the scheduling service logs
// and discards any error returned from here.
func NewEventNotifier(client *redis.Client) scheduling.Notifier {
	return &eventNotifier{client: client}
}

func (n *eventNotifier) Notify(ctx context.Context, ev scheduling.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := n.client.Publish(ctx, EventChannel, payload).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}
