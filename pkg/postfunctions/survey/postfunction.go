// Package survey implements the satisfaction_survey post-function. It
// publishes a SurveyRequested event; actually sending the survey after the
// configured delay belongs to the host application.
package survey

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
	recipient  string
	delayHours int
	publisher  eventbus.EventPublisher
}

func NewPostFunction(config map[string]any, publisher eventbus.EventPublisher) (*PostFunction, error) {
	recipient, _ := config["recipient"].(string)

	delayHours := 0
	switch v := config["delay_hours"].(type) {
	case int:
		delayHours = v
	case float64:
		delayHours = int(v)
	}

	return &PostFunction{
		recipient:  recipient,
		delayHours: delayHours,
		publisher:  publisher,
	}, nil
}

func (p *PostFunction) Execute(ctx context.Context, execCtx models.ExecutionContext, logger *slog.Logger) error {
	logger = logger.With("post_function", "satisfaction_survey")

	recipient := p.recipient
	if recipient == "" {
		recipient = execCtx.Entity.RequesterID
	}

	event := events.SurveyRequested{
		BaseEvent: events.BaseEvent{
			ID:        uuid.New().String(),
			Type:      events.SurveyRequestedEvent,
			Timestamp: time.Now().UTC(),
			EntityID:  execCtx.Entity.ID,
		},
		RecipientID: recipient,
		DelayHours:  p.delayHours,
	}

	if err := p.publisher.Publish(ctx, execCtx.Entity.ID, event); err != nil {
		return fmt.Errorf("failed to publish survey request: %w", err)
	}

	logger.Info("Satisfaction survey requested", "recipient", recipient)

	return nil
}
