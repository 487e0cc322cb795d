package types

import (
	"encoding/json"
)

// Assistant request modes. Dry runs interpretation and validation but does
// not execute the intent.
const (
	ModeDry     = "dry"
	ModeExecute = "execute"
)

// AssistantRequest is the parsed body of a POST /assistant call. Either a
// structured intent+params pair (direct execution, post-confirmation) or
// free text awaiting interpretation.
type AssistantRequest struct {
	Intent string          `json:"intent,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
	Text   string          `json:"text,omitempty"`
	Mode   string          `json:"mode,omitempty"`
}

// AssistantResult is the reply returned to the caller.
type AssistantResult struct {
	Reply   string                 `json:"reply"`
	Intent  string                 `json:"intent,omitempty"`
	Params  map[string]interface{} `json:"params,omitempty"`
	Result  interface{}            `json:"result,omitempty"`
	DryRun  bool                   `json:"dry_run,omitempty"`
	Pending bool                   `json:"pending,omitempty"` // candidate awaiting confirmation (dry mode)
}

// IntentCandidate is what the free-text interpretation step produces: a
// candidate intent with raw params, or a plain conversational reply when no
// action was recognized.
type IntentCandidate struct {
	Intent string                 `json:"intent,omitempty"`
	Params map[string]interface{} `json:"params,omitempty"`
	Reply  string                 `json:"reply,omitempty"`
}

// ValidationResult is the outcome of checking raw params against an intent
// schema. It is never partially valid: OK implies Value carries every
// declared field, coerced and defaulted; !OK implies Need is non-empty.
type ValidationResult struct {
	OK    bool                   `json:"ok"`
	Value map[string]interface{} `json:"value,omitempty"`
	Need  []string               `json:"need,omitempty"`
}

// Classification kinds produced by the text classifier.
const (
	ClassExpense   = "expense"
	ClassInventory = "inventory"
)

// Classification is the result of heuristic text matching, used to pre-fill
// transaction or inventory fields before an intent runs.
type Classification struct {
	Kind               string `json:"kind"`
	CategoryName       string `json:"category_name,omitempty"`
	ParentCategoryName string `json:"parent_category_name,omitempty"`
	ProductName        string `json:"product_name,omitempty"`
}

// ExecutionResult is what an intent executor returns on success.
type ExecutionResult struct {
	Message string      `json:"message"`
	ID      string      `json:"id,omitempty"`
	Existed bool        `json:"existed,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// GeneratePlanAppointmentRequest is the body of POST /plans/appointments.
type GeneratePlanAppointmentRequest struct {
	PlanID    string `json:"planId" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"startTime,omitempty" validate:"omitempty,datetime=15:04"`
	EndTime   string `json:"endTime,omitempty" validate:"omitempty,datetime=15:04"`
	AllDay    bool   `json:"allDay,omitempty"`
}
