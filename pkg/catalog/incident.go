package catalog

import "github.com/flowdeck/flowdeck/pkg/models"

// IncidentStandard models an incident lifecycle with escalation gated on
// priority. Escalation is only reachable for high and critical incidents,
// and always records why it happened.
func IncidentStandard() *models.WorkflowTemplate {
	return &models.WorkflowTemplate{
		ID:          "template-incident-standard",
		Name:        "Standard Incident",
		Description: "Incident response flow with priority-gated escalation and response/resolution SLAs.",
		EntityType:  models.EntityTypeIncident,
		Category:    "operations",
		Tags:        []string{"incident", "operations"},
		Config: models.WorkflowConfig{
			InitialStatus: "new",
			Statuses: []models.Status{
				{ID: "new", Name: "New", Category: models.CategoryTodo},
				{ID: "investigating", Name: "Investigating", Category: models.CategoryInProgress},
				{ID: "escalated", Name: "Escalated", Category: models.CategoryInProgress},
				{ID: "identified", Name: "Identified", Category: models.CategoryInProgress},
				{ID: "monitoring", Name: "Monitoring", Category: models.CategoryInProgress},
				{ID: "resolved", Name: "Resolved", Category: models.CategoryDone},
				{ID: "closed", Name: "Closed", Category: models.CategoryDone},
			},
			Transitions: []models.Transition{
				{
					ID:         "acknowledge",
					Name:       "Acknowledge",
					FromStatus: "new",
					ToStatus:   "investigating",
					Conditions: []models.Condition{
						{Type: models.ConditionPermission, Config: map[string]any{"required": "agent"}},
					},
					PostFunctions: []models.PostFunction{
						{Type: models.PostFunctionSLAStop, Config: map[string]any{"sla_metric": "response_time"}},
						{Type: models.PostFunctionSLAStart, Config: map[string]any{"sla_metric": "resolution_time"}},
						{Type: models.PostFunctionFieldUpdate, Config: map[string]any{
							"field": "acknowledged_at",
							"value": "{{now}}",
						}},
					},
				},
				{
					ID:         "escalate",
					Name:       "Escalate",
					FromStatus: "investigating",
					ToStatus:   "escalated",
					Conditions: []models.Condition{
						{Type: models.ConditionFieldValue, Config: map[string]any{
							"field":    "priority",
							"operator": "in",
							"values":   []any{"high", "critical"},
						}},
					},
					Validators: []models.Validator{
						{
							Type:    models.ValidatorRequiredField,
							Config:  map[string]any{"field": "escalation_reason"},
							Message: "Escalation reason is required",
						},
					},
					PostFunctions: []models.PostFunction{
						{Type: models.PostFunctionNotification, Config: map[string]any{
							"target":  "on_call",
							"message": "Incident {{entity.title}} escalated: {{context.escalation_reason}}",
						}},
						{Type: models.PostFunctionFieldUpdate, Config: map[string]any{
							"field": "escalated_at",
							"value": "{{now}}",
						}},
					},
				},
				{
					ID:         "identify",
					Name:       "Root Cause Identified",
					FromStatus: "investigating",
					ToStatus:   "identified",
					Validators: []models.Validator{
						{
							Type:    models.ValidatorRequiredField,
							Config:  map[string]any{"field": "root_cause"},
							Message: "Root cause is required",
						},
					},
				},
				{
					ID:         "identify_after_escalation",
					Name:       "Root Cause Identified",
					FromStatus: "escalated",
					ToStatus:   "identified",
					Validators: []models.Validator{
						{
							Type:    models.ValidatorRequiredField,
							Config:  map[string]any{"field": "root_cause"},
							Message: "Root cause is required",
						},
					},
				},
				{
					ID:         "start_monitoring",
					Name:       "Fix Deployed",
					FromStatus: "identified",
					ToStatus:   "monitoring",
					PostFunctions: []models.PostFunction{
						{Type: models.PostFunctionAutoComment, Config: map[string]any{
							"body": "Fix deployed by {{user.name}}, monitoring for recurrence.",
						}},
					},
				},
				{
					ID:         "resolve",
					Name:       "Resolve",
					FromStatus: "monitoring",
					ToStatus:   "resolved",
					Validators: []models.Validator{
						{
							Type:    models.ValidatorRequiredField,
							Config:  map[string]any{"field": "resolution_notes"},
							Message: "Resolution notes are required",
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
							"message": "Incident {{entity.title}} has been resolved.",
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
							"hours": 48,
						}},
					},
					PostFunctions: []models.PostFunction{
						{Type: models.PostFunctionSurvey, Config: map[string]any{
							"recipient":   "{{entity.requester_id}}",
							"delay_hours": 2,
						}},
					},
				},
			},
		},
	}
}
