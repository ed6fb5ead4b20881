package catalog

import "github.com/flowdeck/flowdeck/pkg/models"

// TicketSimple is the default workflow for plain support tickets:
// open -> in_progress -> resolved -> closed, with an on-hold parking state
// that pauses the resolution clock.
func TicketSimple() *models.WorkflowTemplate {
	return &models.WorkflowTemplate{
		ID:          "template-ticket-simple",
		Name:        "Simple Ticket",
		Description: "Straightforward support ticket flow with an on-hold state and a resolution SLA.",
		EntityType:  models.EntityTypeTicket,
		Category:    "support",
		Tags:        []string{"ticket", "support", "default"},
		Config: models.WorkflowConfig{
			InitialStatus: "open",
			Statuses: []models.Status{
				{ID: "open", Name: "Open", Category: models.CategoryTodo},
				{ID: "in_progress", Name: "In Progress", Category: models.CategoryInProgress},
				{ID: "on_hold", Name: "On Hold", Category: models.CategoryInProgress},
				{ID: "resolved", Name: "Resolved", Category: models.CategoryDone},
				{ID: "closed", Name: "Closed", Category: models.CategoryDone},
			},
			Transitions: []models.Transition{
				{
					ID:         "start",
					Name:       "Start Progress",
					FromStatus: "open",
					ToStatus:   "in_progress",
					Conditions: []models.Condition{
						{Type: models.ConditionPermission, Config: map[string]any{"required": "agent"}},
					},
					PostFunctions: []models.PostFunction{
						{Type: models.PostFunctionSLAStart, Config: map[string]any{"sla_metric": "resolution_time"}},
						{Type: models.PostFunctionFieldUpdate, Config: map[string]any{
							"field": "started_at",
							"value": "{{now}}",
						}},
						{Type: models.PostFunctionAutoComment, Config: map[string]any{
							"body": "Work started by {{user.name}}.",
						}},
					},
				},
				{
					ID:         "hold",
					Name:       "Put On Hold",
					FromStatus: "in_progress",
					ToStatus:   "on_hold",
					Validators: []models.Validator{
						{
							Type:    models.ValidatorRequiredField,
							Config:  map[string]any{"field": "hold_reason"},
							Message: "Hold reason is required",
						},
					},
					PostFunctions: []models.PostFunction{
						{Type: models.PostFunctionSLAPause, Config: map[string]any{"sla_metric": "resolution_time"}},
						{Type: models.PostFunctionAutoComment, Config: map[string]any{
							"body": "Put on hold: {{context.hold_reason}}",
						}},
					},
				},
				{
					ID:         "resume",
					Name:       "Resume",
					FromStatus: "on_hold",
					ToStatus:   "in_progress",
					PostFunctions: []models.PostFunction{
						{Type: models.PostFunctionSLAResume, Config: map[string]any{"sla_metric": "resolution_time"}},
					},
				},
				{
					ID:         "resolve",
					Name:       "Resolve",
					FromStatus: "in_progress",
					ToStatus:   "resolved",
					Validators: []models.Validator{
						{
							Type:    models.ValidatorRequiredField,
							Config:  map[string]any{"field": "resolution"},
							Message: "Resolution is required",
						},
					},
					PostFunctions: []models.PostFunction{
						{Type: models.PostFunctionSLAStop, Config: map[string]any{"sla_metric": "resolution_time"}},
						{Type: models.PostFunctionFieldUpdate, Config: map[string]any{
							"field": "resolved_at",
							"value": "{{now}}",
						}},
						{Type: models.PostFunctionNotification, Config: map[string]any{
							"target":  "requester",
							"message": "Your ticket {{entity.title}} was resolved: {{context.resolution}}",
						}},
					},
				},
				{
					ID:         "reopen",
					Name:       "Reopen",
					FromStatus: "resolved",
					ToStatus:   "in_progress",
					Conditions: []models.Condition{
						{Type: models.ConditionUserIsRequester, Config: map[string]any{}},
					},
					PostFunctions: []models.PostFunction{
						{Type: models.PostFunctionSLAStart, Config: map[string]any{"sla_metric": "resolution_time"}},
						{Type: models.PostFunctionAutoComment, Config: map[string]any{
							"body": "Reopened by {{user.name}}.",
						}},
					},
				},
				{
					ID:         "close",
					Name:       "Close",
					FromStatus: "resolved",
					ToStatus:   "closed",
					Conditions: []models.Condition{
						{Type: models.ConditionTimeElapsed, Config: map[string]any{
							"since": "resolved_at",
							"hours": 24,
						}},
					},
					PostFunctions: []models.PostFunction{
						{Type: models.PostFunctionSurvey, Config: map[string]any{
							"recipient":   "{{entity.requester_id}}",
							"delay_hours": 1,
						}},
					},
				},
			},
		},
	}
}
