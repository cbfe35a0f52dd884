package raster

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/rezonia/invoice-composer/internal/model"
	"github.com/rezonia/invoice-composer/internal/render"
)

// Rasterizer converts a rendered document into a pixel image at a scale factor
type Rasterizer interface {
	Rasterize(ctx context.Context, doc render.Document, scale float64) (image.Image, error)
}

// Unscaled geometry of the built-in rasterizer, in pixels
const (
	DefaultWidth  = 600
	padding       = 24
	bodyHeight    = 16
	headingHeight = 22
	ruleHeight    = 9
	blankHeight   = 10
	logoHeight    = 48
	logoGap       = 8
)

// TextRasterizer draws the flattened document lines with a fixed-size bitmap
// font. Glyphs outside printable ASCII are skipped.
type TextRasterizer struct {
	Width    int
	Viewport *Viewport
}

// NewTextRasterizer creates a rasterizer of the given unscaled width that
// honours vp's clip
func NewTextRasterizer(width int, vp *Viewport) *TextRasterizer {
	if width <= 0 {
		width = DefaultWidth
	}
	return &TextRasterizer{Width: width, Viewport: vp}
}

// Rasterize implements Rasterizer
func (r *TextRasterizer) Rasterize(ctx context.Context, doc render.Document, scale float64) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if scale <= 0 {
		return nil, fmt.Errorf("invalid scale %v", scale)
	}

	logo := decodeLogo(doc.Header.Logo)
	lines := doc.Lines()

	height := padding * 2
	if logo != nil {
		height += logoHeight + logoGap
	}
	for _, line := range lines {
		height += lineHeight(line.Kind)
	}
	if clip, ok := r.Viewport.Clip(); ok && height > clip {
		height = clip
	}

	canvas := image.NewRGBA(image.Rect(0, 0, r.Width, height))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	y := padding
	if logo != nil {
		b := logo.Bounds()
		w := b.Dx() * logoHeight / max(1, b.Dy())
		dst := image.Rect(padding, y, padding+min(w, r.Width-2*padding), y+logoHeight)
		xdraw.CatmullRom.Scale(canvas, dst, logo, b, xdraw.Over, nil)
		y += logoHeight + logoGap
	}

	d := &font.Drawer{Dst: canvas, Src: image.Black, Face: basicfont.Face7x13}
	for _, line := range lines {
		if y >= height {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		h := lineHeight(line.Kind)
		switch line.Kind {
		case render.LineRule:
			rule := image.Rect(padding, y+h/2, r.Width-padding, y+h/2+1)
			draw.Draw(canvas, rule, &image.Uniform{C: color.Gray{Y: 0x99}}, image.Point{}, draw.Src)
		case render.LineHeading:
			baseline := y + h - 6
			d.Dot = fixed.P(padding, baseline)
			d.DrawString(line.Text)
			d.Dot = fixed.P(padding+1, baseline)
			d.DrawString(line.Text)
		case render.LineBody:
			d.Dot = fixed.P(padding, y+h-4)
			d.DrawString(line.Text)
		}
		y += h
	}

	if scale == 1 {
		return canvas, nil
	}
	scaled := image.NewRGBA(image.Rect(0, 0, int(float64(r.Width)*scale), int(float64(height)*scale)))
	xdraw.NearestNeighbor.Scale(scaled, scaled.Bounds(), canvas, canvas.Bounds(), xdraw.Src, nil)
	return scaled, nil
}

func lineHeight(kind render.LineKind) int {
	switch kind {
	case render.LineHeading:
		return headingHeight
	case render.LineRule:
		return ruleHeight
	case render.LineBlank:
		return blankHeight
	default:
		return bodyHeight
	}
}

func decodeLogo(dataURL string) image.Image {
	logo, err := model.ParseDataURL(dataURL)
	if err != nil || logo == nil {
		return nil
	}
	img, _, err := image.Decode(bytes.NewReader(logo.Data))
	if err != nil {
		return nil
	}
	return img
}
