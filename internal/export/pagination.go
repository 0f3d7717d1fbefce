// Package export converts a rendered resume into a paginated PDF.
package export

import (
	"errors"
	"math"
)

// epsilon absorbs float rounding when deciding whether another page is needed.
const epsilon = 1e-6

// PageSize is a physical page in millimetres
type PageSize struct {
	WidthMM  float64
	HeightMM float64
}

// A4 is the export page size.
var A4 = PageSize{WidthMM: 210, HeightMM: 297}

// ErrInvalidImage is returned when the rasterized document has no usable size.
var ErrInvalidImage = errors.New("rasterized image has invalid dimensions")

// Slice is one page of the export. The full image is drawn at OffsetMM (zero or negative)
// from the top of the page, so the page shows the next page-height band of the image.
type Slice struct {
	Index    int
	OffsetMM float64
}

// Plan places a single tall image across pages.
type Plan struct {
	Page          PageSize
	ImageWidthMM  float64
	ImageHeightMM float64
	Slices        []Slice
}

// Pages returns the number of pages in the plan.
func (p Plan) Pages() int {
	return len(p.Slices)
}

// Paginate scales an image of the given pixel size to the page width and cuts it into
// page-height slices at offsets 0, -h, -2h, ... until the whole image is covered.
// An image no taller than one page yields exactly one slice.
func Paginate(widthPx, heightPx int, page PageSize) (Plan, error) {
	if widthPx <= 0 || heightPx < 0 || page.WidthMM <= 0 || page.HeightMM <= 0 {
		return Plan{}, ErrInvalidImage
	}

	imageHeight := float64(heightPx) * page.WidthMM / float64(widthPx)
	plan := Plan{
		Page:          page,
		ImageWidthMM:  page.WidthMM,
		ImageHeightMM: imageHeight,
	}

	pages := PageCount(imageHeight, page.HeightMM)
	plan.Slices = make([]Slice, pages)
	for i := range plan.Slices {
		plan.Slices[i] = Slice{Index: i, OffsetMM: float64(-i) * page.HeightMM}
	}
	return plan, nil
}

// PageCount returns ceil(imageHeight / pageHeight), at least one.
func PageCount(imageHeight, pageHeight float64) int {
	if pageHeight <= 0 {
		return 0
	}
	n := int(math.Ceil(imageHeight/pageHeight - epsilon))
	return max(n, 1)
}
