package catalog

import "github.com/flowdeck/flowdeck/pkg/models"

// ChangeStandard models a change request with a CAB (change advisory board)
// gate. Low-risk changes can bypass the board on a fast track, every other
// change goes through pending_cab.
func ChangeStandard() *models.WorkflowTemplate {
	return &models.WorkflowTemplate{
		ID:          "template-change-standard",
		Name:        "Standard Change",
		Description: "Change management flow with risk-based CAB approval and scheduled implementation windows.",
		EntityType:  models.EntityTypeChange,
		Category:    "change_management",
		Tags:        []string{"change", "cab"},
		Config: models.WorkflowConfig{
			InitialStatus: "draft",
			Statuses: []models.Status{
				{ID: "draft", Name: "Draft", Category: models.CategoryTodo},
				{ID: "pending_cab", Name: "Pending CAB Review", Category: models.CategoryTodo},
				{ID: "approved", Name: "Approved", Category: models.CategoryTodo},
				{ID: "scheduled", Name: "Scheduled", Category: models.CategoryTodo},
				{ID: "implementing", Name: "Implementing", Category: models.CategoryInProgress},
				{ID: "review", Name: "Post-Implementation Review", Category: models.CategoryInProgress},
				{ID: "completed", Name: "Completed", Category: models.CategoryDone},
				{ID: "rejected", Name: "Rejected", Category: models.CategoryDone},
			},
			Transitions: []models.Transition{
				{
					ID:         "submit_to_cab",
					Name:       "Submit to CAB",
					FromStatus: "draft",
					ToStatus:   "pending_cab",
					Conditions: []models.Condition{
						{Type: models.ConditionFieldValue, Config: map[string]any{
							"field":    "risk_level",
							"operator": "in",
							"values":   []any{"medium", "high", "critical"},
						}},
					},
					Validators: []models.Validator{
						{
							Type:    models.ValidatorRequiredField,
							Config:  map[string]any{"field": "implementation_plan"},
							Message: "Implementation plan is required",
						},
						{
							Type:    models.ValidatorRequiredField,
							Config:  map[string]any{"field": "rollback_plan"},
							Message: "Rollback plan is required",
						},
					},
					PostFunctions: []models.PostFunction{
						{Type: models.PostFunctionNotification, Config: map[string]any{
							"target":  "cab",
							"message": "Change {{entity.title}} submitted for CAB review by {{user.name}}.",
						}},
					},
				},
				{
					ID:         "fast_track",
					Name:       "Fast-Track Approval",
					FromStatus: "draft",
					ToStatus:   "approved",
					Conditions: []models.Condition{
						{Type: models.ConditionFieldValue, Config: map[string]any{
							"field":    "risk_level",
							"operator": "eq",
							"value":    "low",
						}},
						{Type: models.ConditionPermission, Config: map[string]any{"required": "change_manager"}},
					},
					PostFunctions: []models.PostFunction{
						{Type: models.PostFunctionAutoComment, Config: map[string]any{
							"body": "Fast-tracked by {{user.name}} (low risk).",
						}},
					},
				},
				{
					ID:         "approve",
					Name:       "Approve",
					FromStatus: "pending_cab",
					ToStatus:   "approved",
					Conditions: []models.Condition{
						{Type: models.ConditionPermission, Config: map[string]any{"required": "cab_member"}},
					},
					PostFunctions: []models.PostFunction{
						{Type: models.PostFunctionFieldUpdate, Config: map[string]any{
							"field": "approved_at",
							"value": "{{now}}",
						}},
						{Type: models.PostFunctionNotification, Config: map[string]any{
							"target":  "requester",
							"message": "Change {{entity.title}} was approved by the CAB.",
						}},
					},
				},
				{
					ID:         "reject",
					Name:       "Reject",
					FromStatus: "pending_cab",
					ToStatus:   "rejected",
					Conditions: []models.Condition{
						{Type: models.ConditionPermission, Config: map[string]any{"required": "cab_member"}},
					},
					Validators: []models.Validator{
						{
							Type:    models.ValidatorRequiredField,
							Config:  map[string]any{"field": "rejection_reason"},
							Message: "Rejection reason is required",
						},
					},
					PostFunctions: []models.PostFunction{
						{Type: models.PostFunctionNotification, Config: map[string]any{
							"target":  "requester",
							"message": "Change {{entity.title}} was rejected: {{context.rejection_reason}}",
						}},
					},
				},
				{
					ID:         "schedule",
					Name:       "Schedule",
					FromStatus: "approved",
					ToStatus:   "scheduled",
					Validators: []models.Validator{
						{
							Type:    models.ValidatorRequiredField,
							Config:  map[string]any{"field": "scheduled_at"},
							Message: "Scheduled start time is required",
						},
					},
					PostFunctions: []models.PostFunction{
						{Type: models.PostFunctionNotification, Config: map[string]any{
							"target":  "assignee",
							"message": "Change {{entity.title}} scheduled for {{context.scheduled_at}}.",
						}},
					},
				},
				{
					ID:         "begin_implementation",
					Name:       "Begin Implementation",
					FromStatus: "scheduled",
					ToStatus:   "implementing",
					Conditions: []models.Condition{
						{Type: models.ConditionTimeWindow, Config: map[string]any{
							"scheduled_field":             "scheduled_at",
							"within_minutes_of_scheduled": 60,
						}},
					},
					PostFunctions: []models.PostFunction{
						{Type: models.PostFunctionSLAStart, Config: map[string]any{"sla_metric": "implementation_time"}},
						{Type: models.PostFunctionAutoComment, Config: map[string]any{
							"body": "Implementation started by {{user.name}}.",
						}},
					},
				},
				{
					ID:         "finish_implementation",
					Name:       "Finish Implementation",
					FromStatus: "implementing",
					ToStatus:   "review",
					PostFunctions: []models.PostFunction{
						{Type: models.PostFunctionSLAStop, Config: map[string]any{"sla_metric": "implementation_time"}},
					},
				},
				{
					ID:         "complete",
					Name:       "Complete",
					FromStatus: "review",
					ToStatus:   "completed",
					Validators: []models.Validator{
						{
							Type:    models.ValidatorRequiredField,
							Config:  map[string]any{"field": "review_notes"},
							Message: "Post-implementation review notes are required",
						},
					},
					PostFunctions: []models.PostFunction{
						{Type: models.PostFunctionFieldUpdate, Config: map[string]any{
							"field": "completed_at",
							"value": "{{now}}",
						}},
						{Type: models.PostFunctionNotification, Config: map[string]any{
							"target":  "requester",
							"message": "Change {{entity.title}} completed.",
						}},
					},
				},
			},
		},
	}
}
