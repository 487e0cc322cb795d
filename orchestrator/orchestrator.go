// Package orchestrator drives one assistant request end to end: decide
// whether the input is a direct structured action or free text, interpret,
// validate, execute, and shape the reply.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	internalIntents "github.com/verdeflow/verde-assistant-service/internal/intents"
	"github.com/verdeflow/verde-assistant-service/intents"
	"github.com/verdeflow/verde-assistant-service/types"
)

// Interpreter is the free-text reasoning collaborator: it maps a phrase to a
// candidate intent+params, or a plain conversational reply.
type Interpreter interface {
	Interpret(ctx context.Context, text string) (*types.IntentCandidate, error)
}

type Orchestrator struct {
	Deps        *internalIntents.Dependencies
	Interpreter Interpreter
}

func New(deps *internalIntents.Dependencies, interpreter Interpreter) *Orchestrator {
	return &Orchestrator{Deps: deps, Interpreter: interpreter}
}

// Handle runs the request state machine.
//
// A body carrying intent+params is a direct execution (the post-confirmation
// flow) and skips interpretation entirely. Otherwise the text is handed to
// the interpreter and its candidate goes through the exact same
// validate-then-execute path. Neither present fails with missing_text.
//
// Mode "dry" stops after validation and returns the candidate without
// executing; "execute" (or absence) runs the executor.
func (o *Orchestrator) Handle(ctx context.Context, ownerID string, req *types.AssistantRequest) (*types.AssistantResult, error) {
	dry := req.Mode == types.ModeDry

	if req.Intent != "" {
		params := map[string]interface{}{}
		if len(req.Params) > 0 {
			if err := json.Unmarshal(req.Params, &params); err != nil {
				return nil, types.NewError(types.ErrInvalidParams, "params is not an object")
			}
		}
		return o.runIntent(ctx, ownerID, req.Intent, params, dry)
	}

	if req.Text == "" {
		return nil, types.NewError(types.ErrMissingInput, "missing_text")
	}

	candidate, err := o.Interpreter.Interpret(ctx, req.Text)
	if err != nil {
		return nil, types.NewError(types.ErrExecution, "interpretation failed: %v", err)
	}

	if candidate.Intent == "" {
		reply := candidate.Reply
		if reply == "" {
			reply = "Não entendi o pedido. Pode reformular?"
		}
		return &types.AssistantResult{Reply: reply}, nil
	}

	params := candidate.Params
	if params == nil {
		params = map[string]interface{}{}
	}
	return o.runIntent(ctx, ownerID, candidate.Intent, params, dry)
}

// runIntent is the shared validate-then-execute tail of both paths.
func (o *Orchestrator) runIntent(ctx context.Context, ownerID, name string, params map[string]interface{}, dry bool) (*types.AssistantResult, error) {
	validation, err := intents.ValidateIntent(name, params)
	if err != nil {
		return nil, err
	}
	if !validation.OK {
		return nil, types.InvalidParams(validation.Need)
	}

	if dry {
		return &types.AssistantResult{
			Reply:   fmt.Sprintf("Pronto para executar %s. Confirma?", name),
			Intent:  name,
			Params:  validation.Value,
			DryRun:  true,
			Pending: true,
		}, nil
	}

	result, err := intents.ExecuteIntent(ctx, o.Deps, ownerID, name, validation.Value)
	if err != nil {
		log.Printf("intent %s failed for user %s: %v", name, ownerID, err)
		return nil, err
	}

	return &types.AssistantResult{
		Reply:  result.Message,
		Intent: name,
		Params: validation.Value,
		Result: result,
	}, nil
}
