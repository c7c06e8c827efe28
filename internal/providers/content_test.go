package providers

import (
	"errors"
	"strings"
	"testing"
)

func TestImageFromDataURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantMIME string
		wantData string
		wantErr  bool
	}{
		{
			name:     "png data url",
			input:    "data:image/png;base64,iVBORw0KGgo=",
			wantMIME: "image/png",
			wantData: "iVBORw0KGgo=",
		},
		{
			name:     "jpeg data url",
			input:    "data:image/jpeg;base64,/9j/4AAQ",
			wantMIME: "image/jpeg",
			wantData: "/9j/4AAQ",
		},
		{
			name:     "svg+xml keeps full mime",
			input:    "data:image/svg+xml;base64,PHN2Zz4=",
			wantMIME: "image/svg+xml",
			wantData: "PHN2Zz4=",
		},
		{
			name:     "missing mime defaults to png",
			input:    "data:;base64,AAAA",
			wantMIME: "image/png",
			wantData: "AAAA",
		},
		{
			name:     "bare base64 payload",
			input:    "AAAA",
			wantMIME: "image/png",
			wantData: "AAAA",
		},
		{
			name:    "empty",
			input:   "  ",
			wantErr: true,
		},
		{
			name:    "no separator",
			input:   "data:image/png;base64",
			wantErr: true,
		},
		{
			name:    "not base64",
			input:   "data:text/plain,hello",
			wantErr: true,
		},
		{
			name:    "empty payload",
			input:   "data:image/png;base64,",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ImageFromDataURL(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.MIMEType != tt.wantMIME {
				t.Errorf("Expected mime %s, got %s", tt.wantMIME, got.MIMEType)
			}
			if got.Data != tt.wantData {
				t.Errorf("Expected data %s, got %s", tt.wantData, got.Data)
			}
		})
	}
}

func TestImagePartDataURLRoundTrip(t *testing.T) {
	in := "data:image/webp;base64,UklGRg=="
	part, err := ImageFromDataURL(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := part.DataURL(); got != in {
		t.Errorf("Expected %s, got %s", in, got)
	}
}

func TestResultAccessors(t *testing.T) {
	r := &Result{Parts: []Part{
		Text("hello "),
		ImagePart{MIMEType: "image/jpeg", Data: "first"},
		Text("world"),
		ImagePart{MIMEType: "image/png", Data: "second"},
	}}

	if got := r.Text(); got != "hello world" {
		t.Errorf("Expected flattened text %q, got %q", "hello world", got)
	}

	img, ok := r.FirstImage()
	if !ok {
		t.Fatal("expected an image part")
	}
	if img.Data != "first" || img.MIMEType != "image/jpeg" {
		t.Errorf("Expected first image, got %+v", img)
	}

	var nilResult *Result
	if nilResult.Text() != "" {
		t.Error("nil result should flatten to empty text")
	}
	if _, ok := nilResult.FirstImage(); ok {
		t.Error("nil result should have no image")
	}
}

func TestTextPartsKeepsOrder(t *testing.T) {
	contents := []Content{
		{Role: RoleSystem, Parts: []Part{Text("sys")}},
		{Role: RoleUser, Parts: []Part{Text("a"), ImagePart{Data: "x"}, Text("b")}},
	}
	got := strings.Join(TextParts(contents), ",")
	if got != "sys,a,b" {
		t.Errorf("Expected sys,a,b got %s", got)
	}
}

func TestImagePlaceholderTruncates(t *testing.T) {
	p := ImagePart{MIMEType: "image/png", Data: strings.Repeat("A", 100)}
	got := ImagePlaceholder(p)
	if !strings.Contains(got, "image/png") || !strings.Contains(got, "100 bytes") {
		t.Errorf("placeholder missing metadata: %s", got)
	}
	if strings.Contains(got, strings.Repeat("A", 33)) {
		t.Errorf("placeholder should keep at most 32 payload characters: %s", got)
	}
}

func TestErrorMessages(t *testing.T) {
	cfgErr := &ConfigurationError{Provider: Gemini, Credential: "GOOGLE_GEMINI_API_KEY"}
	if !strings.Contains(cfgErr.Error(), "GOOGLE_GEMINI_API_KEY") {
		t.Errorf("configuration error should name the credential: %s", cfgErr)
	}

	cause := errors.New("boom")
	provErr := &ProviderError{Provider: OpenRouter, StatusCode: 429, Body: `{"error":"slow down"}`, Err: cause}
	if !strings.Contains(provErr.Error(), "429") || !strings.Contains(provErr.Error(), "slow down") {
		t.Errorf("provider error should carry status and body: %s", provErr)
	}
	if !errors.Is(provErr, cause) {
		t.Error("provider error should unwrap to its cause")
	}
}
