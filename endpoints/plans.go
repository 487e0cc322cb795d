package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	internalIntents "github.com/verdeflow/verde-assistant-service/internal/intents"
	"github.com/verdeflow/verde-assistant-service/internal/supabase"
	"github.com/verdeflow/verde-assistant-service/middleware"
	"github.com/verdeflow/verde-assistant-service/types"
	"github.com/verdeflow/verde-assistant-service/utils"
)

var planRequestValidator = validator.New()

// GeneratePlanAppointmentHandler creates the appointment for a maintenance
// plan's current cycle. Replies {ok:true,id}, {ok:true,existed:true,id} on
// an idempotent re-call, or {ok:false,error} with a status matching the
// failure kind.
func GeneratePlanAppointmentHandler(sb *supabase.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		user := middleware.UserFrom(r)
		if user == nil {
			utils.WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "not_authenticated"})
			return
		}

		var req types.GeneratePlanAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writePlanError(w, http.StatusBadRequest, "unreadable request body")
			return
		}
		if err := planRequestValidator.Struct(&req); err != nil {
			writePlanError(w, http.StatusBadRequest, err.Error())
			return
		}

		deps := &internalIntents.Dependencies{
			Store: sb.Scoped(user.ID, middleware.TokenFrom(r)),
		}

		result, err := internalIntents.GeneratePlanAppointment(r.Context(), deps, user.ID, &req)
		if err != nil {
			writePlanError(w, types.StatusOf(types.KindOf(err)), err.Error())
			return
		}

		resp := map[string]interface{}{"ok": true, "id": result.ID}
		if result.Existed {
			resp["existed"] = true
		}
		utils.WriteJSON(w, http.StatusOK, resp)
	}
}

func writePlanError(w http.ResponseWriter, status int, message string) {
	utils.WriteJSON(w, status, map[string]interface{}{"ok": false, "error": message})
}
