package model

// Op is the kind of change an edit or record describes.
type Op int

const (
	// OpEqual indicates matching content on both sides.
	OpEqual Op = iota
	// OpInsert indicates content present only in document B.
	OpInsert
	// OpDelete indicates content present only in document A.
	OpDelete
	// OpReplace indicates matched-but-modified content.
	OpReplace
)

func (op Op) String() string {
	switch op {
	case OpEqual:
		return "equal"
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	case OpReplace:
		return "replace"
	}
	return "unknown"
}

// Kind discriminates the closed set of change variants.
type Kind int

const (
	KindText Kind = iota
	KindTable
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindTable:
		return "table"
	case KindImage:
		return "image"
	}
	return "unknown"
}

// Location points at a source element: page index plus bounding box in
// that page's coordinates.
type Location struct {
	Page int
	BBox BBox
}

// EditOp is one run of a token-level edit script.
type EditOp struct {
	Op Op
	// TokensA holds the run's tokens from the A side (Equal, Delete,
	// Replace); TokensB from the B side (Equal carries them in TokensA
	// only, Insert and Replace in TokensB).
	TokensA []string
	TokensB []string
	// ContextBefore and ContextAfter surround non-equal runs with
	// unchanged tokens, like unified-diff context lines.
	ContextBefore []string
	ContextAfter  []string
	// Similarity is set for Replace runs, in [0,1].
	Similarity float64
}

// TextDetail is the payload of a text change.
type TextDetail struct {
	// BlockA and BlockB are block indices within their page, -1 when the
	// record is a pure insert or delete.
	BlockA int
	BlockB int
	// Script is the token edit script for Replace records; empty for
	// Equal, Insert and Delete.
	Script []EditOp
}

// TableDetail is the payload of a table change. Row- and table-level
// records leave Col at -1; whole-table records leave the rows at -1 too.
type TableDetail struct {
	// Table is the positional table index on the page.
	Table int
	RowA  int
	RowB  int
	Col   int
	// Script is the cell token edit script for cell-level Replace records.
	Script []EditOp
}

// ImageDetail is the payload of an image change.
type ImageDetail struct {
	// IndexA and IndexB are image indices within their page, -1 when the
	// record is a pure insert or delete.
	IndexA int
	IndexB int
	// Distance is the fingerprint Hamming distance for matched pairs.
	Distance int
}

// ChangeRecord is a single reported difference (or confirmed equality)
// between corresponding elements of the two documents. Exactly one of the
// detail payloads matching Kind is non-nil.
type ChangeRecord struct {
	Kind Kind
	Op   Op
	// A and B locate the element in document A and B; nil for the side a
	// pure insert or delete does not touch.
	A *Location
	B *Location
	// Similarity is set for Replace records (and 1 for Equal), in [0,1].
	Similarity float64

	Text  *TextDetail
	Table *TableDetail
	Image *ImageDetail
}

// OpCounts tallies records by operation.
type OpCounts struct {
	Equal   int
	Insert  int
	Delete  int
	Replace int
}

func (c *OpCounts) add(op Op) {
	switch op {
	case OpEqual:
		c.Equal++
	case OpInsert:
		c.Insert++
	case OpDelete:
		c.Delete++
	case OpReplace:
		c.Replace++
	}
}

// Total returns the number of counted records.
func (c OpCounts) Total() int {
	return c.Equal + c.Insert + c.Delete + c.Replace
}

// Summary aggregates a DiffResult per change kind.
type Summary struct {
	Text  OpCounts
	Table OpCounts
	Image OpCounts
}

// DiffResult is the engine's sole output: the ordered change records of
// one comparison plus deterministic summary counters.
type DiffResult struct {
	Records []ChangeRecord
	Summary Summary
}

// Recount rebuilds the summary from the records.
func (r *DiffResult) Recount() {
	r.Summary = Summary{}
	for _, rec := range r.Records {
		switch rec.Kind {
		case KindText:
			r.Summary.Text.add(rec.Op)
		case KindTable:
			r.Summary.Table.add(rec.Op)
		case KindImage:
			r.Summary.Image.add(rec.Op)
		}
	}
}

// HasChanges reports whether any record is not Equal.
func (r *DiffResult) HasChanges() bool {
	for _, rec := range r.Records {
		if rec.Op != OpEqual {
			return true
		}
	}
	return false
}
