package intents

import (
	"context"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/verdeflow/verde-assistant-service/types"
)

// resolveClientByName matches a spoken or typed client name against stored
// clients. Exact (case-insensitive) match wins, then substring, then the
// closest name within a small edit distance. Transcribed speech routinely
// mangles accents and endings, hence the fuzzy tail.
func resolveClientByName(ctx context.Context, deps *Dependencies, name string) (*types.Client, error) {
	var clients []types.Client
	if err := deps.Store.Find(ctx, "clients", nil, &clients); err != nil {
		return nil, types.NewError(types.ErrExecution, "failed to load clients: %v", err)
	}

	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil, types.NewError(types.ErrNotFound, "client name is empty")
	}

	var best *types.Client
	bestDist := -1
	for i := range clients {
		stored := strings.ToLower(clients[i].Name)
		if stored == needle {
			return &clients[i], nil
		}
		if strings.Contains(stored, needle) || strings.Contains(needle, stored) {
			return &clients[i], nil
		}
		dist := levenshtein.ComputeDistance(stored, needle)
		if bestDist < 0 || dist < bestDist {
			best = &clients[i]
			bestDist = dist
		}
	}

	// Tolerate up to two edits, three for longer names.
	maxDist := 2
	if len(needle) > 8 {
		maxDist = 3
	}
	if best != nil && bestDist <= maxDist {
		return best, nil
	}
	return nil, types.NewError(types.ErrNotFound, "no client matching %q", name)
}

// CreateClient is the executor behind the create_client intent.
func CreateClient(ctx context.Context, deps *Dependencies, ownerID string, params map[string]interface{}) (*types.ExecutionResult, error) {
	name := strings.TrimSpace(paramString(params, "name"))
	if name == "" {
		return nil, types.InvalidParams([]string{"name"})
	}

	// Re-registering an existing client is treated as a lookup, not an error.
	if existing, err := resolveClientByName(ctx, deps, name); err == nil && strings.EqualFold(existing.Name, name) {
		return &types.ExecutionResult{
			ID:      existing.ID,
			Existed: true,
			Message: fmt.Sprintf("Cliente %q já cadastrado.", existing.Name),
			Data:    existing,
		}, nil
	}

	client := types.Client{
		ID:      deps.newID(),
		OwnerID: ownerID,
		Name:    name,
		Phone:   paramString(params, "phone"),
		Address: paramString(params, "address"),
	}
	if err := deps.Store.Insert(ctx, "clients", &client, nil); err != nil {
		return nil, types.NewError(types.ErrExecution, "failed to create client: %v", err)
	}
	return &types.ExecutionResult{
		ID:      client.ID,
		Message: fmt.Sprintf("Cliente %q cadastrado.", client.Name),
		Data:    client,
	}, nil
}
