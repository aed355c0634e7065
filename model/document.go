// Package model holds the comparison engine's data model: documents as
// extracted (pages, text blocks, tables, images) and the change records
// the engine produces. Everything here is built once per comparison and
// read-only afterwards.
package model

import "image"

// Document is one side of a comparison: the ordered pages of a single
// source file, fully populated by the extractor before the engine runs.
// Documents are immutable once built and safe to share across workers.
type Document struct {
	// Label identifies the source (path or display name).
	Label string
	Pages []Page
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return len(d.Pages) }

// Page holds the extracted content of one page, in extraction order.
type Page struct {
	// Index is the 0-based page number.
	Index  int
	Width  float64 // page width in points
	Height float64 // page height in points

	TextBlocks []TextBlock
	Tables     []Table
	Images     []Image
}

// TextBlock is a run of text (paragraph or line) owned by its page.
type TextBlock struct {
	Text string
	BBox BBox
	Page int
}

// Table is a 2-D grid of cells. Row lengths may differ between tables but
// are uniform within one table as extracted.
type Table struct {
	Rows [][]Cell
	BBox BBox
	Page int
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int { return len(t.Rows) }

// ColCount returns the number of columns in the widest row.
func (t *Table) ColCount() int {
	cols := 0
	for _, row := range t.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	return cols
}

// Cell is a single table cell.
type Cell struct {
	Text string
	// Merged marks a cell covered by a row/column span.
	Merged bool
}

// Image is an embedded raster image. Either Pixels or a precomputed
// fingerprint (or both) must be populated by the extractor.
type Image struct {
	Pixels image.Image
	BBox   BBox
	Page   int

	fp    uint64
	hasFP bool
}

// SetFingerprint seeds the cached fingerprint, e.g. from a persistent
// store. Must be called before the image enters a comparison.
func (im *Image) SetFingerprint(fp uint64) {
	im.fp = fp
	im.hasFP = true
}

// CachedFingerprint returns the fingerprint if one has been computed or
// seeded.
func (im *Image) CachedFingerprint() (uint64, bool) {
	return im.fp, im.hasFP
}

// Fingerprint returns the image fingerprint, computing it at most once
// via compute and memoizing the result on the image. Images of one page
// are only touched by that page's worker, so the memo needs no lock.
func (im *Image) Fingerprint(compute func(image.Image) uint64) uint64 {
	if !im.hasFP {
		im.fp = compute(im.Pixels)
		im.hasFP = true
	}
	return im.fp
}
