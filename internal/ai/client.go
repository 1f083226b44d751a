// Package ai turns free-text descriptions into invoice drafts through
// an OpenAI JSON-mode chat completion.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/kadiapp/kadi/internal/domain"
)

const (
	defaultBaseURL = "https://api.openai.com/v1/chat/completions"
	defaultModel   = "gpt-4o-mini"
)

// systemPrompt pins the output shape the frontend merges into its draft
// form. The model answers in JSON mode, so the content is guaranteed to
// be a single JSON object.
const systemPrompt = `Tu es un assistant de facturation. À partir du texte fourni, ` +
	`génère un objet JSON représentant un brouillon de facture avec les clés: ` +
	`"client" (nom du client si mentionné), "items" (tableau d'objets ` +
	`{"description", "quantity", "unitPrice"}), "notes" (texte libre éventuel). ` +
	`Réponds uniquement avec le JSON, sans commentaire.`

// Drafter issues one synchronous completion per call. No retry: the
// caller is an interactive form and a failed draft is simply retried by
// the user.
type Drafter struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// Option tweaks a Drafter.
type Option func(*Drafter)

// WithBaseURL overrides the completions endpoint, used in tests.
func WithBaseURL(url string) Option {
	return func(d *Drafter) { d.baseURL = url }
}

// WithModel overrides the model name.
func WithModel(model string) Option {
	return func(d *Drafter) { d.model = model }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(d *Drafter) { d.client = client }
}

// NewDrafter creates a drafter. An empty API key is allowed at
// construction; calls fail with EINVALID until one is configured.
func NewDrafter(apiKey string, opts ...Option) *Drafter {
	d := &Drafter{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		model:   defaultModel,
		client:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat responseFmt   `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFmt struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// DraftInvoice sends the text to the model and returns the raw draft
// object for the frontend to merge, without reshaping it server-side.
func (d *Drafter) DraftInvoice(ctx context.Context, text string) (json.RawMessage, error) {
	const op = "ai.draft"

	if d.apiKey == "" {
		return nil, domain.Invalid(op, "La clé API du service IA n'est pas configurée")
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.Invalid(op, "Le texte est requis")
	}

	body, err := json.Marshal(chatRequest{
		Model: d.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: text},
		},
		ResponseFormat: responseFmt{Type: "json_object"},
	})
	if err != nil {
		return nil, domain.Internal(err, op, "")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, domain.Internal(err, op, "")
	}
	req.Header.Set("Authorization", "Bearer "+d.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, domain.Upstream(err, op, "")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.Upstream(err, op, "")
	}

	if resp.StatusCode != http.StatusOK {
		var detail apiError
		if json.Unmarshal(respBody, &detail) == nil && detail.Error.Message != "" {
			err = fmt.Errorf("openai: status %d: %s", resp.StatusCode, detail.Error.Message)
		} else {
			err = fmt.Errorf("openai: status %d", resp.StatusCode)
		}
		return nil, domain.Upstream(err, op, "")
	}

	var completion chatResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return nil, domain.Upstream(err, op, "")
	}
	if len(completion.Choices) == 0 {
		return nil, domain.Upstream(fmt.Errorf("openai: empty choices"), op, "")
	}

	content := completion.Choices[0].Message.Content
	if !json.Valid([]byte(content)) {
		return nil, domain.Upstream(fmt.Errorf("openai: non-JSON completion"), op, "")
	}

	return json.RawMessage(content), nil
}
