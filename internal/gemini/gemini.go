package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/providers"
)

// Gemini is a provider for Google Gemini.
//
// Every Part variant is preserved: image parts travel as inline blobs and
// inline blobs in the answer come back as providers.ImagePart. Contents with
// the system role become the model's system instruction.
type Gemini struct {
	model   string
	backend backend
}

// backend performs one translated call. The SDK-backed implementation is used
// in production; tests substitute a fake.
type backend interface {
	generate(ctx context.Context, req *request) (*genai.GenerateContentResponse, error)
}

type request struct {
	model   string
	system  *genai.Content
	config  genai.GenerationConfig
	history []*genai.Content
	parts   []genai.Part
}

// New returns a new Gemini provider
func New(apiKey, model string) *Gemini {
	return &Gemini{
		model:   model,
		backend: &sdkBackend{apiKey: apiKey},
	}
}

func (g *Gemini) Name() providers.ID {
	return providers.Gemini
}

func (g *Gemini) Capabilities() providers.Capabilities {
	return providers.Capabilities{ImageInput: true, ImageOutput: true}
}

// Model returns the Gemini model requests are sent to.
func (g *Gemini) Model() string {
	return g.model
}

// GenerateContent sends the contents to Gemini. The last non-system content is
// the message; earlier ones are replayed as chat history.
func (g *Gemini) GenerateContent(ctx context.Context, contents []providers.Content, cfg *providers.GenerationConfig) (*providers.Result, error) {
	req, err := g.buildRequest(contents, cfg)
	if err != nil {
		return nil, err
	}

	resp, err := g.backend.generate(ctx, req)
	if err != nil {
		return nil, translateError(err)
	}

	return g.parseResponse(resp)
}

func (g *Gemini) buildRequest(contents []providers.Content, cfg *providers.GenerationConfig) (*request, error) {
	req := &request{model: g.model}

	var turns []*genai.Content
	for _, content := range contents {
		parts := toGenaiParts(content.Parts)
		if content.Role == providers.RoleSystem {
			if req.system == nil {
				req.system = &genai.Content{}
			}
			req.system.Parts = append(req.system.Parts, parts...)
			continue
		}
		role := content.Role
		if role == "" {
			role = providers.RoleUser
		}
		turns = append(turns, &genai.Content{Role: role, Parts: parts})
	}

	if len(turns) == 0 {
		return nil, fmt.Errorf("gemini request has no user content")
	}

	last := turns[len(turns)-1]
	req.history = turns[:len(turns)-1]
	req.parts = last.Parts

	if cfg != nil {
		if cfg.Temperature != nil {
			v := float32(*cfg.Temperature)
			req.config.Temperature = &v
		}
		if cfg.TopP != nil {
			v := float32(*cfg.TopP)
			req.config.TopP = &v
		}
		if cfg.TopK != nil {
			v := int32(*cfg.TopK)
			req.config.TopK = &v
		}
		if cfg.MaxOutputTokens != nil {
			v := int32(*cfg.MaxOutputTokens)
			req.config.MaxOutputTokens = &v
		}
	}

	return req, nil
}

func toGenaiParts(parts []providers.Part) []genai.Part {
	out := make([]genai.Part, 0, len(parts))
	for _, part := range parts {
		switch p := part.(type) {
		case providers.TextPart:
			out = append(out, genai.Text(p.Text))
		case providers.ImagePart:
			data, err := base64.StdEncoding.DecodeString(p.Data)
			if err != nil {
				// Keep the slot so ordering stays intact; the model is told what was lost.
				out = append(out, genai.Text(providers.ImagePlaceholder(p)))
				continue
			}
			mimeType := p.MIMEType
			if mimeType == "" {
				mimeType = providers.DefaultImageMIMEType
			}
			out = append(out, genai.Blob{MIMEType: mimeType, Data: data})
		}
	}
	return out
}

func (g *Gemini) parseResponse(resp *genai.GenerateContentResponse) (*providers.Result, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, &providers.NoContentError{Provider: providers.Gemini, Model: g.model}
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, &providers.NoContentError{Provider: providers.Gemini, Model: g.model}
	}

	result := &providers.Result{Model: g.model}
	for _, part := range candidate.Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			result.Parts = append(result.Parts, providers.Text(string(p)))
		case genai.Blob:
			result.Parts = append(result.Parts, providers.ImagePart{
				MIMEType: p.MIMEType,
				Data:     base64.StdEncoding.EncodeToString(p.Data),
			})
		}
	}

	return result, nil
}

func translateError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		body := gerr.Body
		if body == "" {
			body = gerr.Message
		}
		return &providers.ProviderError{Provider: providers.Gemini, StatusCode: gerr.Code, Body: body, Err: err}
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPCode() > 0 {
		return &providers.ProviderError{Provider: providers.Gemini, StatusCode: apiErr.HTTPCode(), Body: apiErr.Error(), Err: err}
	}

	return fmt.Errorf("failed to generate content: %w", err)
}

type sdkBackend struct {
	apiKey string
}

func (b *sdkBackend) generate(ctx context.Context, req *request) (*genai.GenerateContentResponse, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(b.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create new gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(req.model)
	model.SystemInstruction = req.system
	model.GenerationConfig = req.config

	if len(req.history) == 0 {
		return model.GenerateContent(ctx, req.parts...)
	}

	session := model.StartChat()
	session.History = req.history
	return session.SendMessage(ctx, req.parts...)
}
