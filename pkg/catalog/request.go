package catalog

import "github.com/flowdeck/flowdeck/pkg/models"

// RequestStandard models a service request with an approval step and
// task-driven fulfillment. Requesters can cancel their own request until
// fulfillment starts.
func RequestStandard() *models.WorkflowTemplate {
	return &models.WorkflowTemplate{
		ID:          "template-request-standard",
		Name:        "Standard Service Request",
		Description: "Service request flow with approval, tracked fulfillment tasks, and a fulfillment SLA.",
		EntityType:  models.EntityTypeServiceRequest,
		Category:    "service_catalog",
		Tags:        []string{"request", "fulfillment"},
		Config: models.WorkflowConfig{
			InitialStatus: "submitted",
			Statuses: []models.Status{
				{ID: "submitted", Name: "Submitted", Category: models.CategoryTodo},
				{ID: "pending_approval", Name: "Pending Approval", Category: models.CategoryTodo},
				{ID: "in_fulfillment", Name: "In Fulfillment", Category: models.CategoryInProgress},
				{ID: "fulfilled", Name: "Fulfilled", Category: models.CategoryDone},
				{ID: "rejected", Name: "Rejected", Category: models.CategoryDone},
				{ID: "cancelled", Name: "Cancelled", Category: models.CategoryDone},
			},
			Transitions: []models.Transition{
				{
					ID:         "triage",
					Name:       "Send for Approval",
					FromStatus: "submitted",
					ToStatus:   "pending_approval",
					Conditions: []models.Condition{
						{Type: models.ConditionPermission, Config: map[string]any{"required": "agent"}},
					},
					PostFunctions: []models.PostFunction{
						{Type: models.PostFunctionNotification, Config: map[string]any{
							"target":  "approver",
							"message": "Request {{entity.title}} is awaiting your approval.",
						}},
					},
				},
				{
					ID:         "approve",
					Name:       "Approve",
					FromStatus: "pending_approval",
					ToStatus:   "in_fulfillment",
					Conditions: []models.Condition{
						{Type: models.ConditionPermission, Config: map[string]any{"required": "approver"}},
					},
					PostFunctions: []models.PostFunction{
						{Type: models.PostFunctionSLAStart, Config: map[string]any{"sla_metric": "fulfillment_time"}},
						{Type: models.PostFunctionCreateTasks, Config: map[string]any{
							"tasks": []any{
								"Provision requested item",
								"Verify with requester",
							},
						}},
						{Type: models.PostFunctionFieldUpdate, Config: map[string]any{
							"field": "approved_at",
							"value": "{{now}}",
						}},
					},
				},
				{
					ID:         "reject",
					Name:       "Reject",
					FromStatus: "pending_approval",
					ToStatus:   "rejected",
					Conditions: []models.Condition{
						{Type: models.ConditionPermission, Config: map[string]any{"required": "approver"}},
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
							"message": "Request {{entity.title}} was rejected: {{context.rejection_reason}}",
						}},
					},
				},
				{
					ID:         "fulfill",
					Name:       "Fulfill",
					FromStatus: "in_fulfillment",
					ToStatus:   "fulfilled",
					Validators: []models.Validator{
						{
							Type:    models.ValidatorRequiredField,
							Config:  map[string]any{"field": "fulfillment_notes"},
							Message: "Fulfillment notes are required",
						},
					},
					PostFunctions: []models.PostFunction{
						{Type: models.PostFunctionSLAStop, Config: map[string]any{"sla_metric": "fulfillment_time"}},
						{Type: models.PostFunctionNotification, Config: map[string]any{
							"target":  "requester",
							"message": "Request {{entity.title}} has been fulfilled.",
						}},
						{Type: models.PostFunctionSurvey, Config: map[string]any{
							"recipient":   "{{entity.requester_id}}",
							"delay_hours": 1,
						}},
					},
				},
				{
					ID:         "cancel",
					Name:       "Cancel",
					FromStatus: "submitted",
					ToStatus:   "cancelled",
					Conditions: []models.Condition{
						{Type: models.ConditionUserIsRequester, Config: map[string]any{}},
					},
				},
				{
					ID:         "cancel_pending",
					Name:       "Cancel",
					FromStatus: "pending_approval",
					ToStatus:   "cancelled",
					Conditions: []models.Condition{
						{Type: models.ConditionUserIsRequester, Config: map[string]any{}},
					},
					PostFunctions: []models.PostFunction{
						{Type: models.PostFunctionNotification, Config: map[string]any{
							"target":  "approver",
							"message": "Request {{entity.title}} was cancelled by the requester.",
						}},
					},
				},
			},
		},
	}
}
