// Package notification implements the notification post-function: it turns
// a transition side effect into a NotificationRequested event for the host
// application's notifier to deliver.
package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/flowdeck/flowdeck/pkg/eventbus"
	"github.com/flowdeck/flowdeck/pkg/events"
	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/google/uuid"
)

type PostFunction struct {
	target    string
	template  string
	message   string
	publisher eventbus.EventPublisher
}

func NewPostFunction(config map[string]any, publisher eventbus.EventPublisher) (*PostFunction, error) {
	target, _ := config["target"].(string)
	if target == "" {
		return nil, fmt.Errorf("notification post-function requires a target")
	}

	template, _ := config["template"].(string)
	message, _ := config["message"].(string)

	return &PostFunction{
		target:    target,
		template:  template,
		message:   message,
		publisher: publisher,
	}, nil
}

func (p *PostFunction) Execute(ctx context.Context, execCtx models.ExecutionContext, logger *slog.Logger) error {
	logger = logger.With("post_function", "notification", "target", p.target)

	event := events.NotificationRequested{
		BaseEvent: events.BaseEvent{
			ID:        uuid.New().String(),
			Type:      events.NotificationRequestedEvent,
			Timestamp: time.Now().UTC(),
			EntityID:  execCtx.Entity.ID,
		},
		Target:   p.target,
		Template: p.template,
		Message:  p.message,
	}

	if err := p.publisher.Publish(ctx, execCtx.Entity.ID, event); err != nil {
		return fmt.Errorf("failed to publish notification request: %w", err)
	}

	logger.Info("Notification requested")

	return nil
}
