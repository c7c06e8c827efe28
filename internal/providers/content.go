package providers

import (
	"fmt"
	"strings"
)

// Role values used by the pipeline. Adapters translate RoleSystem into their
// backend's native system-instruction channel.
const (
	RoleUser   = "user"
	RoleModel  = "model"
	RoleSystem = "system"
)

// DefaultImageMIMEType is assumed when a data URL carries no usable mime type.
const DefaultImageMIMEType = "image/png"

// Content is one role-tagged message made of ordered parts.
type Content struct {
	Role  string
	Parts []Part
}

// Part is either a TextPart or an ImagePart.
type Part interface {
	isPart()
}

// TextPart is a plain text segment.
type TextPart struct {
	Text string
}

// ImagePart is inline binary data; Data is base64 encoded.
type ImagePart struct {
	MIMEType string
	Data     string
}

func (TextPart) isPart()  {}
func (ImagePart) isPart() {}

// Text is shorthand for building a TextPart.
func Text(s string) TextPart {
	return TextPart{Text: s}
}

// DataURL renders the image as a data: URI.
func (p ImagePart) DataURL() string {
	mimeType := p.MIMEType
	if mimeType == "" {
		mimeType = DefaultImageMIMEType
	}
	return "data:" + mimeType + ";base64," + p.Data
}

// ImageFromDataURL parses "data:<mime>;base64,<payload>". A bare base64 payload
// without the data: header is accepted and tagged as DefaultImageMIMEType.
func ImageFromDataURL(dataURL string) (ImagePart, error) {
	dataURL = strings.TrimSpace(dataURL)
	if dataURL == "" {
		return ImagePart{}, fmt.Errorf("empty data URL")
	}

	if !strings.HasPrefix(dataURL, "data:") {
		return ImagePart{MIMEType: DefaultImageMIMEType, Data: dataURL}, nil
	}

	header, payload, ok := strings.Cut(dataURL, ",")
	if !ok {
		return ImagePart{}, fmt.Errorf("malformed data URL: missing ',' separator")
	}
	if !strings.HasSuffix(header, ";base64") {
		return ImagePart{}, fmt.Errorf("unsupported data URL encoding %q: only base64 is accepted", header)
	}
	if payload == "" {
		return ImagePart{}, fmt.Errorf("data URL has an empty payload")
	}

	mimeType := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	if mimeType == "" {
		mimeType = DefaultImageMIMEType
	}

	return ImagePart{MIMEType: mimeType, Data: payload}, nil
}

// GenerationConfig holds optional sampling settings. A nil field means "not
// set" and must not be forwarded to the backend.
type GenerationConfig struct {
	Temperature     *float64
	TopP            *float64
	TopK            *int
	MaxOutputTokens *int
}

// Float64 returns a pointer to v, for filling GenerationConfig literals.
func Float64(v float64) *float64 { return &v }

// Int returns a pointer to v, for filling GenerationConfig literals.
func Int(v int) *int { return &v }

// Result is a backend answer normalized to the content model.
type Result struct {
	// Parts are the parts of the first candidate, in backend order.
	Parts []Part

	// Model is the model that answered, when the backend reports it.
	Model string
}

// Text concatenates every TextPart of the result.
func (r *Result) Text() string {
	if r == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range r.Parts {
		if t, ok := part.(TextPart); ok {
			sb.WriteString(t.Text)
		}
	}
	return sb.String()
}

// FirstImage returns the first ImagePart of the result.
func (r *Result) FirstImage() (ImagePart, bool) {
	if r == nil {
		return ImagePart{}, false
	}
	for _, part := range r.Parts {
		if img, ok := part.(ImagePart); ok {
			return img, true
		}
	}
	return ImagePart{}, false
}

// TextParts returns the text of every TextPart across the contents, in order.
func TextParts(contents []Content) []string {
	var texts []string
	for _, c := range contents {
		for _, part := range c.Parts {
			if t, ok := part.(TextPart); ok {
				texts = append(texts, t.Text)
			}
		}
	}
	return texts
}

// ImagePlaceholder is the textual stand-in used by adapters that cannot embed
// binary data. Only the first 32 base64 characters survive.
func ImagePlaceholder(p ImagePart) string {
	const keep = 32
	preview := p.Data
	if len(preview) > keep {
		preview = preview[:keep] + "…"
	}
	mimeType := p.MIMEType
	if mimeType == "" {
		mimeType = DefaultImageMIMEType
	}
	return fmt.Sprintf("[image omitted: %s, %d bytes base64, %s]", mimeType, len(p.Data), preview)
}
