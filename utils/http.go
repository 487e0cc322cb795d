package utils

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/verdeflow/verde-assistant-service/types"
)

// WriteJSON writes a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// WriteError maps a domain error onto the wire contract: invalid_params
// carries the need list, everything else carries the error message under its
// kind's HTTP status. Unexpected internal errors are masked with a generic
// message so backend details never leak to the client.
func WriteError(w http.ResponseWriter, err error) {
	kind := types.KindOf(err)
	status := types.StatusOf(kind)

	if kind == types.ErrInvalidParams {
		var de *types.DomainError
		if ok := AsDomainError(err, &de); ok && len(de.Need) > 0 {
			WriteJSON(w, status, map[string]interface{}{"error": "invalid_params", "need": de.Need})
			return
		}
	}

	message := err.Error()
	if kind == types.ErrExecution {
		log.Printf("Internal error: %v", err)
		message = "internal error"
	}
	WriteJSON(w, status, map[string]interface{}{"error": message})
}

// AsDomainError is a small wrapper so callers do not need to import errors
// alongside types everywhere.
func AsDomainError(err error, target **types.DomainError) bool {
	return errors.As(err, target)
}
