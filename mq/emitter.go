package mq

import (
	"context"
	"encoding/json"
	"log"

	"pictora/models"
	"pictora/rdx"
)

const channel = "content-events"

// Emit publishes an entity event to the redis channel. Failures are logged
// and swallowed; event delivery is never on a request's critical path.
func Emit(ctx context.Context, eventName string, content models.Index) {
	data, err := json.Marshal(content)
	if err != nil {
		log.Printf("[Emit] Failed to marshal event content: %v", err)
		return
	}

	// outlive the request: callers fire this from goroutines whose request
	// context is usually cancelled by the time the publish lands
	if err := rdx.Conn.Publish(context.WithoutCancel(ctx), channel, data).Err(); err != nil {
		log.Printf("[Emit] Failed to publish %s: %v", eventName, err)
	}
}
