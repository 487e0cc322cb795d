package intents

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/verdeflow/verde-assistant-service/types"
)

// Store is the data-access collaborator. Implementations are scoped to one
// owner: every read and write applies only to that user's rows. Filters use
// PostgREST operator syntax ("eq.x", "gte.x").
type Store interface {
	Find(ctx context.Context, table string, filter map[string]string, dest interface{}) error
	Insert(ctx context.Context, table string, record interface{}, dest interface{}) error
	Update(ctx context.Context, table string, id string, patch map[string]interface{}) error
}

// Dependencies carries everything an executor needs. Clock and NewID exist
// so tests can pin time and ids; when nil the real implementations are used.
type Dependencies struct {
	Store Store
	Clock func() time.Time
	NewID func() string
}

func (d *Dependencies) now() time.Time {
	if d.Clock != nil {
		return d.Clock()
	}
	return time.Now()
}

func (d *Dependencies) newID() string {
	if d.NewID != nil {
		return d.NewID()
	}
	return uuid.New().String()
}

// Func is the signature every intent executor implements. Params arrive
// validated and coerced; ownerID scopes all backend access.
type Func func(ctx context.Context, deps *Dependencies, ownerID string, params map[string]interface{}) (*types.ExecutionResult, error)

func paramString(params map[string]interface{}, key string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return ""
}

func paramFloat(params map[string]interface{}, key string) float64 {
	if v, ok := params[key].(float64); ok {
		return v
	}
	return 0
}

func paramBool(params map[string]interface{}, key string) bool {
	if v, ok := params[key].(bool); ok {
		return v
	}
	return false
}
