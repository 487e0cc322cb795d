package endpoints

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/verdeflow/verde-assistant-service/config"
	"github.com/verdeflow/verde-assistant-service/internal/groq"
	internalIntents "github.com/verdeflow/verde-assistant-service/internal/intents"
	"github.com/verdeflow/verde-assistant-service/internal/supabase"
	"github.com/verdeflow/verde-assistant-service/middleware"
	"github.com/verdeflow/verde-assistant-service/orchestrator"
	"github.com/verdeflow/verde-assistant-service/types"
	"github.com/verdeflow/verde-assistant-service/utils"
)

const maxAudioBytes = 25 << 20 // provider upload limit

// AssistantHandler accepts either multipart form data (optional audio file,
// optional text, optional mode) or a JSON body (direct intent execution or
// free text) and runs the orchestrator for the authenticated caller.
func AssistantHandler(cfg *config.Config, sb *supabase.Client, gq *groq.Client) http.HandlerFunc {
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

		req, err := parseAssistantRequest(r, cfg, gq)
		if err != nil {
			utils.WriteError(w, err)
			return
		}

		// The free-text path needs the interpretation model.
		if req.Intent == "" && gq == nil {
			utils.WriteError(w, cfg.RequireGroq())
			return
		}

		deps := &internalIntents.Dependencies{
			Store: sb.Scoped(user.ID, middleware.TokenFrom(r)),
		}
		orch := orchestrator.New(deps, gq)

		result, err := orch.Handle(r.Context(), user.ID, req)
		if err != nil {
			utils.WriteError(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, result)
	}
}

// parseAssistantRequest normalizes the two accepted body shapes into one
// AssistantRequest. Audio, when present, is transcribed here and the
// transcript joined after any explicit text prompt.
func parseAssistantRequest(r *http.Request, cfg *config.Config, gq *groq.Client) (*types.AssistantRequest, error) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxAudioBytes); err != nil {
			return nil, types.NewError(types.ErrMissingInput, "unreadable form body")
		}

		req := &types.AssistantRequest{
			Text: strings.TrimSpace(r.FormValue("text")),
			Mode: r.FormValue("mode"),
		}

		file, header, err := r.FormFile("audio")
		if err == nil {
			defer func() { _ = file.Close() }()
			if gq == nil {
				return nil, cfg.RequireGroq()
			}
			transcript, err := gq.Transcribe(r.Context(), header.Filename, file)
			if err != nil {
				return nil, err
			}
			req.Text = groq.JoinPromptAndTranscript(req.Text, transcript)
		}

		if req.Text == "" {
			return nil, types.NewError(types.ErrMissingInput, "missing_text")
		}
		return req, nil
	}

	var req types.AssistantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, types.NewError(types.ErrMissingInput, "unreadable request body")
	}
	if req.Intent == "" && strings.TrimSpace(req.Text) == "" {
		return nil, types.NewError(types.ErrMissingInput, "missing_text")
	}
	req.Text = strings.TrimSpace(req.Text)
	return &req, nil
}
