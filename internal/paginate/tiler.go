// Package paginate splits a tall raster into page-sized horizontal slices.
package paginate

import (
	"fmt"
	"image"
	"math"
)

// Layout is a physical page with uniform margins, in millimetres
type Layout struct {
	PageWidthMM  float64
	PageHeightMM float64
	MarginMM     float64
}

// A4 is the portrait page used for PDF export
var A4 = Layout{PageWidthMM: 210, PageHeightMM: 297, MarginMM: 10}

// ContentWidth is the usable width inside the margins, in millimetres
func (l Layout) ContentWidth() float64 { return l.PageWidthMM - 2*l.MarginMM }

// ContentHeight is the usable height inside the margins, in millimetres
func (l Layout) ContentHeight() float64 { return l.PageHeightMM - 2*l.MarginMM }

// Plan describes how an image of Width x Height pixels is spread over pages.
type Plan struct {
	Width  int
	Height int

	// Scale maps source pixels to page units so the image fills the content width
	Scale float64
	// ScaledHeight is the full image height in page units
	ScaledHeight float64
	// SliceHeight is the content height expressed in source pixels
	SliceHeight float64
	// RowsPerPage is the tallest slice in source rows; slices differ by at
	// most one row
	RowsPerPage int

	Pages []Page
}

// Page is one horizontal slice [Y0, Y1) of the source image.
type Page struct {
	Index int
	Y0    int
	Y1    int
	Width int
}

// Height returns the number of source rows on the page
func (p Page) Height() int { return p.Y1 - p.Y0 }

// Rect returns the source rectangle of the slice
func (p Page) Rect() image.Rectangle { return image.Rect(0, p.Y0, p.Width, p.Y1) }

// PlacedHeight returns the slice height in page units for a plan's scale
func (p Page) PlacedHeight(scale float64) float64 { return float64(p.Height()) * scale }

// Tile plans the pages for an image of the given pixel size placed at
// contentWidth on pages with contentHeight of usable space. The page count is
// the scaled image height over the content height, rounded up; an overhang of
// less than half a source row does not start a new page. Slice boundaries are
// the multiples of SliceHeight rounded to whole rows, so every source row
// lands on exactly one page and rounding never accumulates.
func Tile(width, height int, contentWidth, contentHeight float64) (Plan, error) {
	if width <= 0 || height <= 0 {
		return Plan{}, fmt.Errorf("invalid image size %dx%d", width, height)
	}
	if contentWidth <= 0 || contentHeight <= 0 {
		return Plan{}, fmt.Errorf("invalid content box %.2fx%.2f", contentWidth, contentHeight)
	}

	plan := Plan{Width: width, Height: height}
	plan.Scale = contentWidth / float64(width)
	plan.ScaledHeight = float64(height) * plan.Scale
	plan.SliceHeight = contentHeight / plan.Scale

	// a page holds at least one row
	step := math.Max(plan.SliceHeight, 1)
	count := max(1, int(math.Ceil((float64(height)-0.5)/step)))

	plan.Pages = make([]Page, 0, count)
	for i := 0; i < count; i++ {
		y1 := height
		if i < count-1 {
			y1 = boundary(i+1, step)
		}
		page := Page{Index: i, Y0: boundary(i, step), Y1: y1, Width: width}
		plan.RowsPerPage = max(plan.RowsPerPage, page.Height())
		plan.Pages = append(plan.Pages, page)
	}
	return plan, nil
}

func boundary(i int, step float64) int {
	return int(math.Round(float64(i) * step))
}

// TileLayout plans pages for l, with the page unit being millimetres
func TileLayout(width, height int, l Layout) (Plan, error) {
	return Tile(width, height, l.ContentWidth(), l.ContentHeight())
}
