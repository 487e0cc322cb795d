// Package groq wraps the two Groq endpoints the assistant depends on:
// Whisper transcription for audio, and a JSON-mode chat completion that maps
// free text to a candidate intent. Both are opaque external collaborators;
// only their request/response contracts matter here.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/verdeflow/verde-assistant-service/types"
)

const (
	DefaultBaseURL        = "https://api.groq.com/openai/v1"
	whisperModel          = "whisper-large-v3"
	transcriptionLanguage = "pt"
)

type Client struct {
	BaseURL string
	APIKey  string
	Model   string

	httpClient *http.Client
}

func NewClient(baseURL, apiKey, model string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		Model:      model,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Transcribe sends audio to the speech-to-text endpoint and returns plain
// text. Failures come back as transcription_failed errors so the caller can
// distinguish them from an empty recording.
func (c *Client) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", err
	}
	_ = writer.WriteField("model", whisperModel)
	_ = writer.WriteField("language", transcriptionLanguage)
	_ = writer.WriteField("response_format", "json")
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/audio/transcriptions", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", types.NewError(types.ErrTranscription, "transcription request failed: %v", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("Error closing transcription response body: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", types.NewError(types.ErrTranscription, "transcription returned status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", types.NewError(types.ErrTranscription, "transcription response unreadable: %v", err)
	}
	return strings.TrimSpace(result.Text), nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

const interpretSystemPrompt = `Você é o assistente de um aplicativo de gestão para jardinagem.
Analise a mensagem do usuário e responda SOMENTE com JSON no formato:
{"intent": "<nome>", "params": {...}} para uma ação, ou {"reply": "<resposta>"} para conversa.
Intents disponíveis: create_appointment(title, date, start_time, end_time, all_day, client_name),
record_transaction(description, amount, type, date), generate_monthly_task(plan_id, date),
create_client(name, phone, address), list_appointments(date),
register_stock_purchase(product_name, quantity, unit_cost, date).
Datas no formato 2006-01-02, horários 15:04. Hoje é %s.`

// Interpret maps free text to an intent candidate via a JSON-mode chat
// completion. A pure conversational answer comes back as Reply with no
// intent set.
func (c *Client) Interpret(ctx context.Context, text string) (*types.IntentCandidate, error) {
	reqBody := chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: fmt.Sprintf(interpretSystemPrompt, time.Now().Format("2006-01-02"))},
			{Role: "user", Content: text},
		},
	}
	reqBody.ResponseFormat.Type = "json_object"

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("Error closing chat response body: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("chat completion returned status %d: %s", resp.StatusCode, string(body))
	}

	var response chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, err
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	var candidate types.IntentCandidate
	if err := json.Unmarshal([]byte(response.Choices[0].Message.Content), &candidate); err != nil {
		// Model ignored the JSON instruction; treat the text as a plain reply.
		return &types.IntentCandidate{Reply: response.Choices[0].Message.Content}, nil
	}
	return &candidate, nil
}

// JoinPromptAndTranscript concatenates explicit prompt text with a
// transcription result, prompt first, newline-joined, empty parts dropped.
func JoinPromptAndTranscript(prompt, transcript string) string {
	parts := make([]string, 0, 2)
	if p := strings.TrimSpace(prompt); p != "" {
		parts = append(parts, p)
	}
	if t := strings.TrimSpace(transcript); t != "" {
		parts = append(parts, t)
	}
	return strings.Join(parts, "\n")
}
