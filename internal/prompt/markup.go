// Package prompt builds the ordered parts sent to a provider for each generation intent.
package prompt

import (
	"fmt"

	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/providers"
	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/sampling"
)

const markupPreamble = "Generate Tailwind CSS UI code based on this description:"

var canvasInstructions = map[sampling.Band]string{
	sampling.High:   "Use this canvas image as a strict blueprint for the UI. Reproduce its layout, element positions, proportions and hierarchy as closely as possible.",
	sampling.Medium: "Use this canvas image as a reference for the UI layout and elements.",
	sampling.Low:    "Use this canvas image as loose inspiration only. Elements may be rearranged and restyled as long as the overall intent is kept.",
}

var referenceInstructions = map[sampling.Band]string{
	sampling.High:   "Match these reference images closely: replicate their visual style, color palette, typography and spacing.",
	sampling.Medium: "Also use these reference images to guide the UI design, style, and layout.",
	sampling.Low:    "Take only light stylistic cues from these reference images. The description takes priority over them.",
}

// MarkupInput is everything the markup intent needs.
type MarkupInput struct {
	Prompt string

	// Canvas is the rasterized sketch, nil when the canvas is not used.
	Canvas         *providers.ImagePart
	CanvasStrength int

	References        []providers.ImagePart
	ReferenceStrength int

	Width  int
	Height int
}

// Markup returns
//
//	[preamble, prompt, (canvas, canvasInstruction)?, reference*, referenceInstruction?, outputFormat]
//
// Instructions are worded by the strength band of their input.
func Markup(in MarkupInput) []providers.Part {
	parts := []providers.Part{
		providers.Text(markupPreamble),
		providers.Text(fmt.Sprintf("\"%s\".", in.Prompt)),
	}

	if in.Canvas != nil {
		parts = append(parts, *in.Canvas, providers.Text(CanvasInstruction(in.CanvasStrength)))
	}

	if len(in.References) > 0 {
		for _, ref := range in.References {
			parts = append(parts, ref)
		}
		parts = append(parts, providers.Text(ReferenceInstruction(in.ReferenceStrength)))
	}

	return append(parts, providers.Text(MarkupOutputFormat(in.Width, in.Height)))
}

// CanvasInstruction is the canvas framing for strength.
func CanvasInstruction(strength int) string {
	return canvasInstructions[sampling.BandOf(strength)]
}

// ReferenceInstruction is the reference-image framing for strength.
func ReferenceInstruction(strength int) string {
	return referenceInstructions[sampling.BandOf(strength)]
}

// MarkupOutputFormat tells the model what to return and at which size.
func MarkupOutputFormat(width, height int) string {
	return fmt.Sprintf("Generate only the HTML code with Tailwind CSS classes for the specific UI mockup. "+
		"The UI should be responsive and match the dimensions of %dx%dpx. "+
		"Do not include <!DOCTYPE html>, <html>, <head>, or <body> tags. "+
		"Only return the specific UI component or section with appropriate Tailwind classes. "+
		"Focus on the visual elements and layout without generating full page structure.", width, height)
}
