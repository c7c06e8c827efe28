package prompt

import (
	"fmt"
	"math"

	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/providers"
)

// ProductSystemInstruction is the system instruction for image synthesis.
const ProductSystemInstruction = "You are a specialized Product Visualization Engine. " +
	"Your task is to interpret sketches or CAD drawings and render them as finished physical products. " +
	"Always prioritize physical accuracy and realistic materials. " +
	"When provided with a material reference image, carefully analyze its color, grain, texture, and reflectivity, " +
	"and apply those exact properties to the primary object in the sketch. " +
	"Maintain photorealistic quality and professional lighting."

// DefaultMaterialWeight applies to material references sent without a weight.
const DefaultMaterialWeight = 0.7

// Material is a material reference image and how strongly it should apply.
type Material struct {
	Image  providers.ImagePart
	Weight float64
}

// ImageInput is everything the image intent needs.
type ImageInput struct {
	// Prompt is the final main prompt, usually built with ImageMainPrompt.
	Prompt    string
	Materials []Material

	// Canvas is the rasterized sketch, nil when the canvas is not used.
	Canvas *providers.ImagePart
}

// Image returns [(materialInstruction, material)*, prompt, canvas?]. Every
// material gets its own instruction right before it.
func Image(in ImageInput) []providers.Part {
	parts := make([]providers.Part, 0, 2*len(in.Materials)+2)
	for _, m := range in.Materials {
		parts = append(parts, providers.Text(MaterialInstruction(m.Weight)), m.Image)
	}

	parts = append(parts, providers.Text(in.Prompt))

	if in.Canvas != nil {
		parts = append(parts, *in.Canvas)
	}
	return parts
}

// MaterialInstruction frames one material image with its weight as a percentage.
func MaterialInstruction(weight float64) string {
	return fmt.Sprintf("Material reference (%d%%): analyze color, surface properties, reflectivity, and grain pattern, "+
		"then apply these properties to the product surface:", WeightPercent(weight))
}

// WeightPercent converts a 0-1 weight to a rounded percentage.
func WeightPercent(weight float64) int {
	return int(math.Round(weight * 100))
}

// ImageMainPrompt appends the output size hint. The size is only a hint; the
// post-processor enforces it.
func ImageMainPrompt(prompt string, width, height int) string {
	return fmt.Sprintf("%s\n\nOutput constraints: %dx%dpx. Fill the frame edge-to-edge. No borders.", prompt, width, height)
}
