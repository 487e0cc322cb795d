package orchestrator

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	internalIntents "github.com/verdeflow/verde-assistant-service/internal/intents"
	"github.com/verdeflow/verde-assistant-service/types"
)

// recordingStore returns canned rows and counts writes; enough to drive the
// orchestrator paths without a backend.
type recordingStore struct {
	rows    map[string][]interface{}
	inserts int
	updates int
}

func (s *recordingStore) Find(ctx context.Context, table string, filter map[string]string, dest interface{}) error {
	rows := s.rows[table]
	if rows == nil {
		rows = []interface{}{}
	}
	data, _ := json.Marshal(rows)
	return json.Unmarshal(data, dest)
}

func (s *recordingStore) Insert(ctx context.Context, table string, record interface{}, dest interface{}) error {
	s.inserts++
	return nil
}

func (s *recordingStore) Update(ctx context.Context, table string, id string, patch map[string]interface{}) error {
	s.updates++
	return nil
}

type fakeInterpreter struct {
	candidate *types.IntentCandidate
	err       error
	calls     int
}

func (f *fakeInterpreter) Interpret(ctx context.Context, text string) (*types.IntentCandidate, error) {
	f.calls++
	return f.candidate, f.err
}

func newTestOrchestrator(store *recordingStore, interp *fakeInterpreter) *Orchestrator {
	deps := &internalIntents.Dependencies{
		Store: store,
		Clock: func() time.Time { return time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC) },
		NewID: func() string { return "fixed-id" },
	}
	return New(deps, interp)
}

func TestHandle_DirectExecution(t *testing.T) {
	store := &recordingStore{}
	interp := &fakeInterpreter{}
	orch := newTestOrchestrator(store, interp)

	params, _ := json.Marshal(map[string]interface{}{
		"title": "Poda", "date": "2026-09-10", "start_time": "14:00",
	})
	result, err := orch.Handle(context.Background(), "user-1", &types.AssistantRequest{
		Intent: "create_appointment",
		Params: params,
	})
	if err != nil {
		t.Fatalf("direct execution failed: %v", err)
	}
	if result.Intent != "create_appointment" {
		t.Errorf("expected intent echoed back, got %q", result.Intent)
	}
	if result.Result == nil || result.Reply == "" {
		t.Error("expected an execution result and a reply")
	}
	if interp.calls != 0 {
		t.Error("direct execution must skip interpretation")
	}
	if store.inserts != 1 {
		t.Errorf("expected 1 insert, got %d", store.inserts)
	}
}

func TestHandle_DirectExecutionInvalidParams(t *testing.T) {
	store := &recordingStore{}
	orch := newTestOrchestrator(store, &fakeInterpreter{})

	params, _ := json.Marshal(map[string]interface{}{"title": "Poda"})
	_, err := orch.Handle(context.Background(), "user-1", &types.AssistantRequest{
		Intent: "create_appointment",
		Params: params,
	})
	if err == nil {
		t.Fatal("expected invalid_params")
	}
	var de *types.DomainError
	if ok := types.KindOf(err) == types.ErrInvalidParams; !ok {
		t.Fatalf("expected invalid_params, got %v", err)
	}
	if ok := asDomainError(err, &de); !ok || len(de.Need) != 2 {
		t.Errorf("expected need with 2 fields, got %+v", de)
	}
	if store.inserts != 0 || store.updates != 0 {
		t.Error("invalid params must cause no backend writes")
	}
}

func TestHandle_FreeTextPath(t *testing.T) {
	store := &recordingStore{}
	interp := &fakeInterpreter{candidate: &types.IntentCandidate{
		Intent: "record_transaction",
		Params: map[string]interface{}{"description": "almoço da equipe", "amount": 45.5},
	}}
	orch := newTestOrchestrator(store, interp)

	result, err := orch.Handle(context.Background(), "user-1", &types.AssistantRequest{
		Text: "gastei 45,50 no almoço da equipe",
	})
	if err != nil {
		t.Fatalf("free-text path failed: %v", err)
	}
	if interp.calls != 1 {
		t.Errorf("expected one interpretation call, got %d", interp.calls)
	}
	if result.Intent != "record_transaction" {
		t.Errorf("expected candidate intent executed, got %q", result.Intent)
	}
	if store.inserts != 1 {
		t.Errorf("expected the transaction to be written, got %d inserts", store.inserts)
	}
}

func TestHandle_ConversationalReply(t *testing.T) {
	store := &recordingStore{}
	interp := &fakeInterpreter{candidate: &types.IntentCandidate{Reply: "Bom dia! Como posso ajudar?"}}
	orch := newTestOrchestrator(store, interp)

	result, err := orch.Handle(context.Background(), "user-1", &types.AssistantRequest{Text: "bom dia"})
	if err != nil {
		t.Fatalf("conversational path failed: %v", err)
	}
	if result.Reply != "Bom dia! Como posso ajudar?" {
		t.Errorf("unexpected reply %q", result.Reply)
	}
	if result.Intent != "" {
		t.Errorf("no intent expected, got %q", result.Intent)
	}
	if store.inserts != 0 {
		t.Error("a conversational reply must not write anything")
	}
}

func TestHandle_DryRunSkipsExecution(t *testing.T) {
	store := &recordingStore{}
	interp := &fakeInterpreter{candidate: &types.IntentCandidate{
		Intent: "create_client",
		Params: map[string]interface{}{"name": "Dona Marta"},
	}}
	orch := newTestOrchestrator(store, interp)

	result, err := orch.Handle(context.Background(), "user-1", &types.AssistantRequest{
		Text: "cadastra a cliente Dona Marta",
		Mode: types.ModeDry,
	})
	if err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
	if !result.DryRun || !result.Pending {
		t.Errorf("expected a pending dry-run result, got %+v", result)
	}
	if result.Intent != "create_client" {
		t.Errorf("expected candidate intent, got %q", result.Intent)
	}
	if result.Params["name"] != "Dona Marta" {
		t.Errorf("expected coerced params in the result, got %v", result.Params)
	}
	if store.inserts != 0 {
		t.Error("dry run must not execute")
	}
}

func TestHandle_MissingInput(t *testing.T) {
	orch := newTestOrchestrator(&recordingStore{}, &fakeInterpreter{})

	_, err := orch.Handle(context.Background(), "user-1", &types.AssistantRequest{})
	if types.KindOf(err) != types.ErrMissingInput {
		t.Errorf("expected missing_text, got %v", err)
	}
}

func asDomainError(err error, target **types.DomainError) bool {
	de, ok := err.(*types.DomainError)
	if ok {
		*target = de
	}
	return ok
}
