package prompt

import "sort"

// LightingPresets maps preset keys to the environment text appended to image prompts.
var LightingPresets = map[string]string{
	"studio":      "clean professional studio lighting with a seamless neutral backdrop and soft shadows",
	"golden-hour": "warm golden hour sunlight with long soft shadows and a gentle glow",
	"overcast":    "diffuse overcast daylight with even illumination and minimal shadows",
	"neon":        "vibrant neon lighting with saturated magenta and cyan reflections in a dark setting",
	"dramatic":    "dramatic low-key lighting with a single hard key light and deep contrast",
	"softbox":     "large softbox lighting from the front left with a subtle rim light and smooth gradients",
}

// WithLighting appends the preset's environment to prompt. "none", empty and
// unknown presets leave prompt unchanged.
func WithLighting(prompt, preset string) string {
	env, ok := LightingPresets[preset]
	if !ok {
		return prompt
	}
	return prompt + ". Environment: " + env + "."
}

// LightingPresetKeys lists the known presets in sorted order.
func LightingPresetKeys() []string {
	keys := make([]string, 0, len(LightingPresets))
	for k := range LightingPresets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
