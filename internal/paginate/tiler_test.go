package paginate_test

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-composer/internal/paginate"
)

func TestTile_ThreePages(t *testing.T) {
	plan, err := paginate.Tile(800, 1000, 700, 400)
	require.NoError(t, err)

	assert.InDelta(t, 0.875, plan.Scale, 1e-9)
	assert.InDelta(t, 875, plan.ScaledHeight, 1e-9)
	assert.InDelta(t, 457.142857, plan.SliceHeight, 1e-6)
	assert.Equal(t, 457, plan.RowsPerPage)

	require.Len(t, plan.Pages, 3)
	assert.Equal(t, paginate.Page{Index: 0, Y0: 0, Y1: 457, Width: 800}, plan.Pages[0])
	assert.Equal(t, paginate.Page{Index: 1, Y0: 457, Y1: 914, Width: 800}, plan.Pages[1])
	assert.Equal(t, paginate.Page{Index: 2, Y0: 914, Y1: 1000, Width: 800}, plan.Pages[2])
	assert.Equal(t, image.Rect(0, 914, 800, 1000), plan.Pages[2].Rect())
	assert.InDelta(t, 75.25, plan.Pages[2].PlacedHeight(plan.Scale), 1e-9)
}

func TestTile_SinglePage(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
	}{
		{"short", 800, 200},
		{"exactly fits", 700, 400},
		{"narrow and tall but fits after scaling", 1400, 800},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := paginate.Tile(tt.width, tt.height, 700, 400)
			require.NoError(t, err)
			require.Len(t, plan.Pages, 1)
			assert.Equal(t, 0, plan.Pages[0].Y0)
			assert.Equal(t, tt.height, plan.Pages[0].Y1)
		})
	}
}

// pageCount is the scaled image height over the content height, rounded up,
// ignoring an overhang of under half a source row.
func pageCount(width, height int, cw, ch float64) int {
	slice := ch * float64(width) / cw
	return max(1, int(math.Ceil((float64(height)-0.5)/slice)))
}

func TestTile_Coverage(t *testing.T) {
	sizes := [][2]int{{600, 601}, {600, 2000}, {1200, 5000}, {640, 9999}, {1600, 4665}, {1200, 40000}, {10000, 7}}
	for _, size := range sizes {
		plan, err := paginate.TileLayout(size[0], size[1], paginate.A4)
		require.NoError(t, err)

		next := 0
		for i, page := range plan.Pages {
			assert.Equal(t, i, page.Index)
			assert.Equal(t, next, page.Y0, "gap or overlap before page %d of %v", i, size)
			assert.Greater(t, page.Height(), 0)
			assert.LessOrEqual(t, page.Height(), plan.RowsPerPage)
			assert.LessOrEqual(t, page.PlacedHeight(plan.Scale), paginate.A4.ContentHeight()+plan.Scale,
				"page %d of %v overruns the content box by more than a row", i, size)
			next = page.Y1
		}
		assert.Equal(t, size[1], next, "rows not fully covered for %v", size)
		assert.Len(t, plan.Pages, pageCount(size[0], size[1], paginate.A4.ContentWidth(), paginate.A4.ContentHeight()), "%v", size)
	}
}

func TestTile_PageCountAtBoundaries(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		cw, ch        float64
		pages         int
	}{
		{"exact multiple of the slice", 800, 3200, 700, 400, 7},
		{"one row past the exact fit", 800, 3201, 700, 400, 8},
		{"A4 at scale 2 just under two pages", 1600, 4665, 190, 277, 2},
		{"A4 at scale 2 past two pages", 1600, 4667, 190, 277, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := paginate.Tile(tt.width, tt.height, tt.cw, tt.ch)
			require.NoError(t, err)
			require.Len(t, plan.Pages, tt.pages)

			last := plan.Pages[len(plan.Pages)-1]
			assert.Equal(t, tt.height, last.Y1)
			assert.LessOrEqual(t, last.Height(), plan.RowsPerPage)
		})
	}
}

func TestTile_NoDriftOverManyPages(t *testing.T) {
	const width = 800
	for height := 401; height <= 20000; height += 37 {
		plan, err := paginate.Tile(width, height, 700, 400)
		require.NoError(t, err)
		require.Len(t, plan.Pages, pageCount(width, height, 700, 400), "height %d", height)

		for i, page := range plan.Pages {
			assert.InDelta(t, float64(i)*plan.SliceHeight, float64(page.Y0), 1, "height %d page %d", height, i)
			if i < len(plan.Pages)-1 {
				assert.InDelta(t, plan.SliceHeight, float64(page.Height()), 1, "height %d page %d", height, i)
			}
		}
	}
}

func TestTile_Invalid(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		cw, ch        float64
	}{
		{"zero width", 0, 10, 100, 100},
		{"zero height", 10, 0, 100, 100},
		{"negative content", 10, 10, -1, 100},
		{"zero content height", 10, 10, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := paginate.Tile(tt.width, tt.height, tt.cw, tt.ch)
			assert.Error(t, err)
		})
	}
}

func TestLayout_A4(t *testing.T) {
	assert.Equal(t, 190.0, paginate.A4.ContentWidth())
	assert.Equal(t, 277.0, paginate.A4.ContentHeight())
}
