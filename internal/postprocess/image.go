package postprocess

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"math"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/providers"
)

// OutputMIMEType is the format every processed image is encoded in.
const OutputMIMEType = "image/png"

// NoImageDataError means the provider answered without any inline image.
type NoImageDataError struct {
	Provider providers.ID
	Model    string
}

func (e *NoImageDataError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("no image data in response from %s (model %s)", e.Provider, e.Model)
	}
	return "no image data in response"
}

// Resizer produces an image of exactly width x height from src.
type Resizer interface {
	Resize(src image.Image, width, height int) image.Image
}

// CoverResizer scales src to fill the target box and crops the overflow,
// keeping the center.
type CoverResizer struct {
	// Interpolator defaults to draw.CatmullRom.
	Interpolator draw.Interpolator
}

func (r CoverResizer) Resize(src image.Image, width, height int) image.Image {
	interp := r.Interpolator
	if interp == nil {
		interp = draw.CatmullRom
	}

	b := src.Bounds()
	sw, sh := b.Dx(), b.Dy()
	scale := math.Max(float64(width)/float64(sw), float64(height)/float64(sh))

	cw := min(sw, max(1, int(math.Round(float64(width)/scale))))
	ch := min(sh, max(1, int(math.Round(float64(height)/scale))))
	x0 := b.Min.X + (sw-cw)/2
	y0 := b.Min.Y + (sh-ch)/2

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	interp.Scale(dst, dst.Bounds(), src, image.Rect(x0, y0, x0+cw, y0+ch), draw.Src, nil)
	return dst
}

// Image is a processed, pixel-exact PNG.
type Image struct {
	PNG            []byte
	SourceMIMEType string
	Width          int
	Height         int
}

// DataURL renders the PNG as a data: URI.
func (i *Image) DataURL() string {
	return "data:" + OutputMIMEType + ";base64," + base64.StdEncoding.EncodeToString(i.PNG)
}

// ImageProcessor extracts the generated image from a provider result and
// resizes it to the target size.
type ImageProcessor struct {
	resizer Resizer
}

// NewImageProcessor returns a processor using resizer, or a CoverResizer when nil.
func NewImageProcessor(resizer Resizer) *ImageProcessor {
	if resizer == nil {
		resizer = CoverResizer{}
	}
	return &ImageProcessor{resizer: resizer}
}

// Process locates the first ImagePart of result, decodes it (png, jpeg, gif or
// webp) and returns it resized to width x height as PNG.
func (p *ImageProcessor) Process(ctx context.Context, result *providers.Result, width, height int) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid target size %dx%d", width, height)
	}

	part, ok := result.FirstImage()
	if !ok {
		return nil, &NoImageDataError{Model: modelOf(result)}
	}

	raw, err := base64.StdEncoding.DecodeString(part.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image payload: %w", err)
	}

	src, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s image: %w", part.MIMEType, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resized := p.resizer.Resize(src, width, height)

	var buf bytes.Buffer
	if err := png.Encode(&buf, resized); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}

	sourceMIMEType := part.MIMEType
	if sourceMIMEType == "" {
		sourceMIMEType = "image/" + format
	}

	return &Image{
		PNG:            buf.Bytes(),
		SourceMIMEType: sourceMIMEType,
		Width:          width,
		Height:         height,
	}, nil
}

func modelOf(result *providers.Result) string {
	if result == nil {
		return ""
	}
	return result.Model
}
