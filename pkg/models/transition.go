package models

// Condition type identifiers shipped with the catalog. The set is open:
// additional types are added by registering an evaluator factory, not by
// extending an enum.
const (
	ConditionPermission      = "permission"
	ConditionFieldValue      = "field_value"
	ConditionTimeElapsed     = "time_elapsed"
	ConditionTimeWindow      = "time_window"
	ConditionUserIsRequester = "user_is_requester"
)

// Validator type identifiers.
const (
	ValidatorRequiredField = "required_field"
)

// Post-function type identifiers.
const (
	PostFunctionNotification = "notification"
	PostFunctionSLAStart     = "sla_start"
	PostFunctionSLAStop      = "sla_stop"
	PostFunctionSLAPause     = "sla_pause"
	PostFunctionSLAResume    = "sla_resume"
	PostFunctionFieldUpdate  = "field_update"
	PostFunctionAutoComment  = "auto_comment"
	PostFunctionCreateTasks  = "create_tasks"
	PostFunctionSurvey       = "satisfaction_survey"
)

// Condition is a guard that must hold for a transition to be eligible.
// Config shape depends on Type.
type Condition struct {
	Type   string         `json:"type"   validate:"required"`
	Config map[string]any `json:"config,omitempty"`
}

// Validator is a field-level check applied to the proposed entity state at
// transition time. Message is user-facing and surfaced verbatim on failure.
type Validator struct {
	Type    string         `json:"type"    validate:"required"`
	Config  map[string]any `json:"config,omitempty"`
	Message string         `json:"message" validate:"required"`
}

// PostFunction declares a side effect to execute, in list order, strictly
// after the transition is committed. Config values may contain placeholders
// ({{now}}, {{user.id}}, {{context.<field>}}) expanded by the executor.
type PostFunction struct {
	Type   string         `json:"type"   validate:"required"`
	Config map[string]any `json:"config,omitempty"`
}

// Transition is a directed, guarded edge between two statuses of the same
// template. All conditions must hold for eligibility (logical AND).
type Transition struct {
	ID            string         `json:"id"          validate:"required"`
	Name          string         `json:"name"        validate:"required"`
	FromStatus    string         `json:"from_status" validate:"required"`
	ToStatus      string         `json:"to_status"   validate:"required"`
	Conditions    []Condition    `json:"conditions,omitempty"`
	Validators    []Validator    `json:"validators,omitempty"`
	PostFunctions []PostFunction `json:"post_functions,omitempty"`
}

// ValidationFailure carries one validator's verbatim failure message.
type ValidationFailure struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
