package prompt

import (
	"fmt"

	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/providers"
)

// Enhancement builds the vision request that folds a sketch into the prompt.
func Enhancement(prompt string, canvas providers.ImagePart) []providers.Part {
	return []providers.Part{
		providers.Text(fmt.Sprintf("Analyze this sketch/image and enhance the following prompt for AI image generation: \"%s\".\n"+
			"Combine the visual elements from the sketch with the text description to create a detailed, comprehensive prompt.\n"+
			"Focus on: style, composition, colors, mood, and key elements.\n"+
			"Respond ONLY with the enhanced prompt, no other text.", prompt)),
		canvas,
	}
}

// EnhancementFallback builds the request sent instead of image synthesis to a
// provider that cannot return images. The answer is a detailed prompt the
// caller can take to an image-capable backend.
func EnhancementFallback(prompt string, canvas *providers.ImagePart, materials []Material) []providers.Part {
	parts := []providers.Part{
		providers.Text(fmt.Sprintf("Write a detailed, comprehensive prompt for an AI image generation model that renders: \"%s\".\n"+
			"Describe style, composition, colors, materials, lighting, mood, and key elements.\n"+
			"Respond ONLY with the enhanced prompt, no other text.", prompt)),
	}
	for _, m := range materials {
		parts = append(parts, providers.Text(MaterialInstruction(m.Weight)), m.Image)
	}
	if canvas != nil {
		parts = append(parts, providers.Text("Base the composition on this sketch:"), *canvas)
	}
	return parts
}
