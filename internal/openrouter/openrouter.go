package openrouter

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

// OpenRouter is a provider for OpenRouter's OpenAI-compatible chat completions API.
//
// Image parts are embedded as data: URIs in the message content array. When the
// adapter is built with TextOnly set, every image part is replaced by a
// providers.ImagePlaceholder text part instead. The API never returns images,
// so Capabilities().ImageOutput is false.
type OpenRouter struct {
	apiKey   string
	model    string
	baseURL  string
	referer  string
	title    string
	textOnly bool
	client   *http.Client
}

// Options configure an OpenRouter adapter.
type Options struct {
	APIKey   string
	Model    string
	BaseURL  string
	Referer  string
	Title    string
	TextOnly bool
	Timeout  time.Duration // zero means no client timeout
}

// New returns a new OpenRouter provider
func New(opts Options) *OpenRouter {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}
	return &OpenRouter{
		apiKey:   opts.APIKey,
		model:    opts.Model,
		baseURL:  baseURL,
		referer:  opts.Referer,
		title:    opts.Title,
		textOnly: opts.TextOnly,
		client:   &http.Client{Timeout: opts.Timeout},
	}
}

func (o *OpenRouter) Name() providers.ID {
	return providers.OpenRouter
}

func (o *OpenRouter) Capabilities() providers.Capabilities {
	return providers.Capabilities{ImageInput: !o.textOnly, ImageOutput: false}
}

// Model returns the OpenRouter model ID requests are sent to.
func (o *OpenRouter) Model() string {
	return o.model
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type message struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
	TopP        *float64  `json:"top_p,omitempty"`
	TopK        *int      `json:"top_k,omitempty"`
	MaxTokens   *int      `json:"max_tokens,omitempty"`
	Stream      bool      `json:"stream"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content json.RawMessage `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateContent sends the contents as one chat completion request.
func (o *OpenRouter) GenerateContent(ctx context.Context, contents []providers.Content, cfg *providers.GenerationConfig) (*providers.Result, error) {
	body, err := json.Marshal(o.buildRequest(contents, cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	if o.referer != "" {
		req.Header.Set("HTTP-Referer", o.referer)
	}
	if o.title != "" {
		req.Header.Set("X-Title", o.title)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(resp.Body)
		return nil, &providers.ProviderError{
			Provider:   providers.OpenRouter,
			StatusCode: resp.StatusCode,
			Body:       string(errBody),
		}
	}

	var response chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	return o.parseResponse(&response)
}

func (o *OpenRouter) buildRequest(contents []providers.Content, cfg *providers.GenerationConfig) *chatRequest {
	req := &chatRequest{
		Model:    o.model,
		Messages: make([]message, 0, len(contents)),
	}

	for _, content := range contents {
		msg := message{Role: chatRole(content.Role), Content: make([]contentPart, 0, len(content.Parts))}
		for _, part := range content.Parts {
			switch p := part.(type) {
			case providers.TextPart:
				msg.Content = append(msg.Content, contentPart{Type: "text", Text: p.Text})
			case providers.ImagePart:
				if o.textOnly {
					msg.Content = append(msg.Content, contentPart{Type: "text", Text: providers.ImagePlaceholder(p)})
					continue
				}
				msg.Content = append(msg.Content, contentPart{Type: "image_url", ImageURL: &imageURL{URL: p.DataURL()}})
			}
		}
		req.Messages = append(req.Messages, msg)
	}

	if cfg != nil {
		req.Temperature = cfg.Temperature
		req.TopP = cfg.TopP
		req.TopK = cfg.TopK
		req.MaxTokens = cfg.MaxOutputTokens
	}

	return req
}

func (o *OpenRouter) parseResponse(response *chatResponse) (*providers.Result, error) {
	model := response.Model
	if model == "" {
		model = o.model
	}
	if len(response.Choices) == 0 {
		return nil, &providers.NoContentError{Provider: providers.OpenRouter, Model: model}
	}

	text, err := flattenContent(response.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	return &providers.Result{
		Parts: []providers.Part{providers.Text(text)},
		Model: model,
	}, nil
}

// flattenContent accepts either a plain string or an array of typed parts.
func flattenContent(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var parts []contentPart
	if err := json.Unmarshal(raw, &parts); err != nil {
		return "", fmt.Errorf("unexpected message content format: %w", err)
	}
	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
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
