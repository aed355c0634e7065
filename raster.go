package docdiff

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"docdiff/model"
)

// Highlight overlay colors, translucent so page content stays readable.
var (
	insertColor  = color.RGBA{R: 0x2e, G: 0xa0, B: 0x43, A: 0x60}
	deleteColor  = color.RGBA{R: 0xd0, G: 0x3a, B: 0x2e, A: 0x60}
	replaceColor = color.RGBA{R: 0xe8, G: 0xc5, B: 0x2a, A: 0x60}
)

// ComposeSideBySide renders one merged page as a bitmap from the two
// pre-rendered source page images (as produced by the extractor or
// renderer collaborator). Each side is scaled into its placement and the
// page's highlights are drawn as translucent rectangles. A nil image
// leaves its side blank. pixelsPerPoint controls output resolution; 2
// roughly corresponds to 144dpi.
func ComposeSideBySide(page MergedPage, pageImageA, pageImageB image.Image, pixelsPerPoint float64) *image.RGBA {
	if pixelsPerPoint <= 0 {
		pixelsPerPoint = 1
	}
	px := func(v float64) int { return int(v*pixelsPerPoint + 0.5) }

	dst := image.NewRGBA(image.Rect(0, 0, px(page.Width), px(page.Height)))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	if page.A.Present && pageImageA != nil {
		rect := image.Rect(px(page.A.OffsetX), 0, px(page.A.OffsetX+page.A.Width), px(page.A.Height))
		draw.CatmullRom.Scale(dst, rect, pageImageA, pageImageA.Bounds(), draw.Src, nil)
	}
	if page.B.Present && pageImageB != nil {
		rect := image.Rect(px(page.B.OffsetX), 0, px(page.B.OffsetX+page.B.Width), px(page.B.Height))
		draw.CatmullRom.Scale(dst, rect, pageImageB, pageImageB.Bounds(), draw.Src, nil)
	}

	for _, h := range page.Highlights {
		// Merged geometry puts the origin at the bottom left; the bitmap
		// puts it at the top left.
		rect := image.Rect(
			px(h.BBox.Left()),
			px(page.Height-h.BBox.Top()),
			px(h.BBox.Right()),
			px(page.Height-h.BBox.Bottom()),
		)
		draw.Draw(dst, rect, image.NewUniform(highlightColor(h.Op)), image.Point{}, draw.Over)
	}
	return dst
}

func highlightColor(op model.Op) color.RGBA {
	switch op {
	case model.OpInsert:
		return insertColor
	case model.OpDelete:
		return deleteColor
	default:
		return replaceColor
	}
}
