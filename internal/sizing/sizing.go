// Package sizing resolves the exact pixel size of a generated image.
package sizing

import (
	"math"
	"strconv"
	"strings"
)

const (
	MinEdge         = 64
	MaxEdge         = 4096
	DefaultLongEdge = 2048
)

// Mode selects how the output size is derived.
type Mode string

const (
	ModeCanvas Mode = "canvas"
	ModePreset Mode = "preset"
)

// LongEdges are the long edges offered as presets.
var LongEdges = []int{1024, 2048, 4096}

// AspectRatios are the accepted preset aspect ratios, "W:H".
var AspectRatios = []string{"1:1", "4:3", "3:4", "16:9", "9:16"}

// Spec describes the requested output size.
type Spec struct {
	Mode Mode

	// Canvas mode.
	Width  float64
	Height float64

	// Preset mode.
	LongEdge    int
	AspectRatio string
}

// Size is a resolved output size. Both edges are even and within [MinEdge, MaxEdge].
type Size struct {
	Width  int
	Height int
}

// Resolve computes the target size for spec. Canvas mode without positive
// dimensions falls back to preset mode.
func Resolve(spec Spec) Size {
	if spec.Mode == ModeCanvas && spec.Width > 0 && spec.Height > 0 {
		return fromCanvas(spec.Width, spec.Height)
	}
	return fromPreset(spec.LongEdge, spec.AspectRatio)
}

func fromCanvas(width, height float64) Size {
	// Scale in floating point so huge inputs never overflow int.
	if long := max(math.Round(width), math.Round(height)); long > MaxEdge {
		scale := MaxEdge / long
		width *= scale
		height *= scale
	}
	w := int(math.Round(width))
	h := int(math.Round(height))

	return Size{Width: even(clamp(w)), Height: even(clamp(h))}
}

func fromPreset(longEdge int, aspect string) Size {
	if longEdge <= 0 {
		longEdge = DefaultLongEdge
	}
	long := clamp(longEdge)

	ratio := parseAspectRatio(aspect)
	var w, h int
	if ratio >= 1 {
		w = long
		h = int(math.Round(float64(long) / ratio))
	} else {
		h = long
		w = int(math.Round(float64(long) * ratio))
	}

	return Size{Width: even(max(MinEdge, w)), Height: even(max(MinEdge, h))}
}

// parseAspectRatio returns W/H for one of AspectRatios, or 1 for anything else.
func parseAspectRatio(aspect string) float64 {
	if !validAspect(aspect) {
		return 1
	}
	ws, hs, _ := strings.Cut(aspect, ":")
	w, _ := strconv.Atoi(ws)
	h, _ := strconv.Atoi(hs)
	return float64(w) / float64(h)
}

func validAspect(aspect string) bool {
	for _, a := range AspectRatios {
		if a == aspect {
			return true
		}
	}
	return false
}

func clamp(n int) int {
	return max(MinEdge, min(MaxEdge, n))
}

// even rounds down to an even number. Inputs are already >= MinEdge.
func even(n int) int {
	return n - n%2
}

// FindPreset returns the preset producing exactly width x height, if any.
func FindPreset(width, height int) (longEdge int, aspect string, ok bool) {
	for _, le := range LongEdges {
		for _, a := range AspectRatios {
			s := fromPreset(le, a)
			if s.Width == width && s.Height == height {
				return le, a, true
			}
		}
	}
	return 0, "", false
}
