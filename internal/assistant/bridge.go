// Package assistant relays operator prompts to the external text-generation
// endpoint. The surface is gated identically to the authenticated views and
// degrades to fixed in-conversation strings on any failure.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"neoncore/console/internal/domain"
)

const (
	// Greeting seeds every conversation before sign-in.
	Greeting = "Saludos, operador. Soy NOVA. Inicia sesión para acceder al núcleo táctico."
	// MsgAuthRequired is returned instead of sending when no User is present.
	MsgAuthRequired = "Acceso denegado. Autenticación requerida."
	// MsgLinkError is the canned reply for transport or endpoint failure.
	MsgLinkError = "Error de enlace neuronal. Reintenta la conexión."
	// MsgNoSync is the canned reply for an empty generation result.
	MsgNoSync = "No se pudo sincronizar con el núcleo de procesamiento."
)

const systemInstruction = "Eres NOVA, una IA de soporte técnico para una arena competitiva neón. Responde de forma concisa y futurista."

// SessionContext is the current session state serialized into the prompt.
type SessionContext struct {
	User  *domain.User  `json:"user,omitempty"`
	Teams []domain.Team `json:"teams,omitempty"`
}

// Bridge is the request/response client for the generation endpoint.
type Bridge struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

func NewBridge(endpoint, apiKey, model string) *Bridge {
	return &Bridge{
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type generateRequest struct {
	Model             string  `json:"model"`
	SystemInstruction string  `json:"systemInstruction"`
	Temperature       float64 `json:"temperature"`
	Contents          string  `json:"contents"`
}

type generateResponse struct {
	Text string `json:"text"`
}

// Generate returns the assistant's reply. It never returns an error: every
// failure mode resolves to one of the canned user-visible strings.
func (b *Bridge) Generate(ctx context.Context, prompt string, sctx SessionContext) string {
	if sctx.User == nil {
		return MsgAuthRequired
	}

	contextJSON, err := json.Marshal(sctx)
	if err != nil {
		log.Printf("assistant: encode context: %v", err)
		return MsgLinkError
	}

	payload := generateRequest{
		Model:             b.model,
		SystemInstruction: systemInstruction,
		Temperature:       0.7,
		Contents: fmt.Sprintf(
			"Actúa como NOVA, un asistente táctico futurista. Contexto del usuario: %s. Mensaje del usuario: %s",
			contextJSON, prompt),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("assistant: encode request: %v", err)
		return MsgLinkError
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(body))
	if err != nil {
		log.Printf("assistant: build request: %v", err)
		return MsgLinkError
	}
	req.Header.Set("Content-Type", "application/json")
	if b.apiKey != "" {
		req.Header.Set("X-API-Key", b.apiKey)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		log.Printf("assistant: generation endpoint unreachable: %v", err)
		return MsgLinkError
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("assistant: generation endpoint returned status %d", resp.StatusCode)
		return MsgLinkError
	}

	var generated generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&generated); err != nil {
		log.Printf("assistant: decode response: %v", err)
		return MsgLinkError
	}
	if strings.TrimSpace(generated.Text) == "" {
		return MsgNoSync
	}
	return generated.Text
}
