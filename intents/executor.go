package intents

import (
	"context"
	"fmt"
	"log"

	internalIntents "github.com/verdeflow/verde-assistant-service/internal/intents"
	"github.com/verdeflow/verde-assistant-service/types"
)

// ExecuteIntent invokes the executor bound to an intent with validated
// params, scoping all backend access to the owner. Executors hold no state;
// a panic inside one is caught here and surfaced as an execution error so a
// bad intent cannot take the request loop down.
func ExecuteIntent(ctx context.Context, deps *internalIntents.Dependencies, ownerID, name string, params map[string]interface{}) (result *types.ExecutionResult, err error) {
	intent, exists := GetIntent(name)
	if !exists {
		return nil, types.NewError(types.ErrUnknownIntent, "unknown intent %q", name)
	}
	if deps == nil || deps.Store == nil {
		return nil, types.NewError(types.ErrExecution, "executor not initialized")
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("CRITICAL: executor for %q panicked: %v", name, r)
			result = nil
			err = types.NewError(types.ErrExecution, "internal error executing %q", name)
		}
	}()

	result, err = intent.Execute(ctx, deps, ownerID, params)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("executor for %q returned no result", name)
	}
	return result, nil
}
