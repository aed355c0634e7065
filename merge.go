package docdiff

import (
	"docdiff/model"
)

// Side distinguishes the two halves of a merged page.
type Side int

const (
	SideA Side = iota
	SideB
)

// Placement describes where one source page lands on a merged page.
type Placement struct {
	// Present is false for blank padding pages.
	Present bool
	// OffsetX shifts the page right in merged coordinates (0 for A).
	OffsetX float64
	// Scale maps source page coordinates to merged coordinates.
	Scale float64
	// Width and Height are the scaled page extent.
	Width  float64
	Height float64
}

// Highlight is one change region projected into merged-page coordinates.
type Highlight struct {
	Side Side
	Kind model.Kind
	Op   model.Op
	BBox model.BBox
}

// MergedPage lays page i of document A and page i of document B side by
// side, scaled to a common height with aspect ratio preserved.
type MergedPage struct {
	Index  int
	Width  float64
	Height float64
	A      Placement
	B      Placement
	// Highlights covers every projected non-Equal change on this page,
	// in diff-result order.
	Highlights []Highlight
}

// defaultPageSize stands in when a blank padding page has no counterpart
// geometry at all (US Letter in points).
var defaultPageSize = [2]float64{612, 792}

// MergePages produces the side-by-side page sequence for two documents.
// The shorter document is padded with blank pages. When diff is non-nil,
// every non-Equal record is projected onto the merged geometry: Insert
// and Delete highlight only the side that has the content, Replace
// highlights both sides.
func MergePages(a, b *model.Document, diff *model.DiffResult) []MergedPage {
	count := a.PageCount()
	if b.PageCount() > count {
		count = b.PageCount()
	}

	merged := make([]MergedPage, count)
	for i := 0; i < count; i++ {
		wA, hA, presentA := pageSize(a, i)
		wB, hB, presentB := pageSize(b, i)
		// A blank padding page mirrors its counterpart's size.
		if !presentA && presentB {
			wA, hA = wB, hB
		}
		if !presentB && presentA {
			wB, hB = wA, hA
		}

		height := hA
		if hB > height {
			height = hB
		}
		scaleA := height / hA
		scaleB := height / hB

		placeA := Placement{Present: presentA, Scale: scaleA, Width: wA * scaleA, Height: height}
		placeB := Placement{
			Present: presentB,
			OffsetX: placeA.Width,
			Scale:   scaleB,
			Width:   wB * scaleB,
			Height:  height,
		}
		merged[i] = MergedPage{
			Index:  i,
			Width:  placeA.Width + placeB.Width,
			Height: height,
			A:      placeA,
			B:      placeB,
		}
	}

	if diff != nil {
		projectHighlights(merged, diff)
	}
	return merged
}

func pageSize(doc *model.Document, i int) (w, h float64, present bool) {
	if i >= doc.PageCount() {
		return defaultPageSize[0], defaultPageSize[1], false
	}
	page := &doc.Pages[i]
	w, h = page.Width, page.Height
	if w <= 0 || h <= 0 {
		w, h = defaultPageSize[0], defaultPageSize[1]
	}
	return w, h, true
}

// projectHighlights translates each non-Equal record's source bounding
// boxes into merged-page coordinates.
func projectHighlights(merged []MergedPage, diff *model.DiffResult) {
	for _, rec := range diff.Records {
		if rec.Op == model.OpEqual {
			continue
		}
		if rec.A != nil && rec.A.Page < len(merged) {
			page := &merged[rec.A.Page]
			page.Highlights = append(page.Highlights, Highlight{
				Side: SideA,
				Kind: rec.Kind,
				Op:   rec.Op,
				BBox: rec.A.BBox.Scale(page.A.Scale),
			})
		}
		if rec.B != nil && rec.B.Page < len(merged) {
			page := &merged[rec.B.Page]
			page.Highlights = append(page.Highlights, Highlight{
				Side: SideB,
				Kind: rec.Kind,
				Op:   rec.Op,
				BBox: rec.B.BBox.Scale(page.B.Scale).Translate(page.B.OffsetX, 0),
			})
		}
	}
}
