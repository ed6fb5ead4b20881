// Package events defines the event types published around entity
// transitions: the committed transition itself, the side-effect requests
// post-functions fan out, and SLA breaches.
package events

import (
	"time"

	"github.com/flowdeck/flowdeck/pkg/models"
)

type EventType string

// Topic carries all flowdeck events.
const Topic = "flowdeck.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// EntityTransitionedEvent is published once per committed transition and
	// consumed by the post-function worker.
	EntityTransitionedEvent EventType = "entity.transitioned"

	// NotificationRequestedEvent asks the host application's notifier to
	// deliver a message.
	NotificationRequestedEvent EventType = "notification.requested"

	// SurveyRequestedEvent asks the host application to send a satisfaction
	// survey for a closed entity.
	SurveyRequestedEvent EventType = "survey.requested"

	// SLABreachedEvent is published by the SLA monitor when a running clock
	// passes its deadline.
	SLABreachedEvent EventType = "sla.breached"
)

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	EntityID  string         `json:"entity_id"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// EntityTransitioned records a committed status change together with
// everything the worker needs to execute the declared post-functions.
type EntityTransitioned struct {
	BaseEvent

	TemplateID    string                `json:"template_id"`
	TransitionID  string                `json:"transition_id"`
	FromStatus    string                `json:"from_status"`
	ToStatus      string                `json:"to_status"`
	Entity        *models.Entity        `json:"entity"`
	User          models.User           `json:"user"`
	Proposed      map[string]any        `json:"proposed,omitempty"`
	PostFunctions []models.PostFunction `json:"post_functions,omitempty"`
}

func (e EntityTransitioned) GetType() EventType {
	return EntityTransitionedEvent
}

// NotificationRequested is the outbound side of a notification
// post-function; delivery belongs to the host application.
type NotificationRequested struct {
	BaseEvent

	Target   string `json:"target"`
	Template string `json:"template"`
	Message  string `json:"message,omitempty"`
}

func (e NotificationRequested) GetType() EventType {
	return NotificationRequestedEvent
}

// SurveyRequested is the outbound side of a satisfaction_survey
// post-function.
type SurveyRequested struct {
	BaseEvent

	RecipientID string `json:"recipient_id"`
	DelayHours  int    `json:"delay_hours,omitempty"`
}

func (e SurveyRequested) GetType() EventType {
	return SurveyRequestedEvent
}

// SLABreached reports a running SLA clock that passed its deadline.
type SLABreached struct {
	BaseEvent

	Metric    string    `json:"metric"`
	StartedAt time.Time `json:"started_at"`
	Deadline  time.Time `json:"deadline"`
}

func (e SLABreached) GetType() EventType {
	return SLABreachedEvent
}
