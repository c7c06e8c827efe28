package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/providers"
)

// Ollama is a provider for a local Ollama server, using /api/chat.
//
// Ollama messages carry a single text body plus a list of images, so text parts
// of one Content are joined with blank lines (their order is kept) and image
// parts are attached to the message's images list. Interleaving of text and
// images inside a message is therefore lost. Parts whose mime type is not
// image/* cannot be attached and are replaced by a providers.ImagePlaceholder.
type Ollama struct {
	baseURL string
	model   string
	client  *http.Client
}

// New returns a new Ollama provider. A zero timeout leaves calls bounded only
// by the request context.
func New(baseURL, model string, timeout time.Duration) *Ollama {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return &Ollama{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

func (o *Ollama) Name() providers.ID {
	return providers.Ollama
}

func (o *Ollama) Capabilities() providers.Capabilities {
	return providers.Capabilities{ImageInput: true, ImageOutput: false}
}

type chatMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

type chatOptions struct {
	Temperature *float64 `json:"temperature,omitempty"`
	TopP        *float64 `json:"top_p,omitempty"`
	TopK        *int     `json:"top_k,omitempty"`
	NumPredict  *int     `json:"num_predict,omitempty"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  *chatOptions  `json:"options,omitempty"`
}

type chatResponse struct {
	Model   string      `json:"model"`
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

// GenerateContent sends the contents to Ollama's chat endpoint.
func (o *Ollama) GenerateContent(ctx context.Context, contents []providers.Content, cfg *providers.GenerationConfig) (*providers.Result, error) {
	requestBody, err := json.Marshal(o.buildRequest(contents, cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/chat", bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return nil, &providers.ProviderError{
			Provider:   providers.Ollama,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	var response chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	model := response.Model
	if model == "" {
		model = o.model
	}
	if response.Message.Content == "" {
		return nil, &providers.NoContentError{Provider: providers.Ollama, Model: model}
	}

	return &providers.Result{
		Parts: []providers.Part{providers.Text(response.Message.Content)},
		Model: model,
	}, nil
}

func (o *Ollama) buildRequest(contents []providers.Content, cfg *providers.GenerationConfig) *chatRequest {
	req := &chatRequest{Model: o.model, Stream: false}

	for _, content := range contents {
		var texts []string
		msg := chatMessage{Role: chatRole(content.Role)}
		for _, part := range content.Parts {
			switch p := part.(type) {
			case providers.TextPart:
				texts = append(texts, p.Text)
			case providers.ImagePart:
				if p.MIMEType != "" && !strings.HasPrefix(p.MIMEType, "image/") {
					texts = append(texts, providers.ImagePlaceholder(p))
					continue
				}
				msg.Images = append(msg.Images, p.Data)
			}
		}
		msg.Content = strings.Join(texts, "\n\n")
		req.Messages = append(req.Messages, msg)
	}

	if cfg != nil && (cfg.Temperature != nil || cfg.TopP != nil || cfg.TopK != nil || cfg.MaxOutputTokens != nil) {
		req.Options = &chatOptions{
			Temperature: cfg.Temperature,
			TopP:        cfg.TopP,
			TopK:        cfg.TopK,
			NumPredict:  cfg.MaxOutputTokens,
		}
	}

	return req
}

func chatRole(role string) string {
	switch role {
	case providers.RoleModel:
		return "assistant"
	case "":
		return providers.RoleUser
	default:
		return role
	}
}
