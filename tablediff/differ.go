// Package tablediff aligns table rows between two documents and diffs the
// cells of matched rows.
package tablediff

import (
	"docdiff/model"
	"docdiff/textdiff"
)

// Options tunes the table differ.
type Options struct {
	Policy textdiff.Policy
	// RowThreshold is the minimum row similarity for a row pair to count
	// as matched-but-modified instead of delete+insert.
	RowThreshold float64
	// ContextSize is the number of context tokens kept around cell-level
	// changes.
	ContextSize int
}

// cellBoundary separates cells inside a row signature so that content
// cannot shift across cell borders and still compare equal.
const cellBoundary = "\x1e"

// Diff compares the tables of one page pair. Tables are paired
// positionally (n-th table of the page in A against n-th in B); a count
// mismatch yields whole-table insert/delete records. Every cell of every
// input table is covered by exactly one record.
func Diff(page int, tablesA, tablesB []model.Table, opts Options) []model.ChangeRecord {
	count := len(tablesA)
	if len(tablesB) > count {
		count = len(tablesB)
	}

	var records []model.ChangeRecord
	for t := 0; t < count; t++ {
		switch {
		case t >= len(tablesA):
			records = append(records, wholeTable(model.OpInsert, page, t, &tablesB[t]))
		case t >= len(tablesB):
			records = append(records, wholeTable(model.OpDelete, page, t, &tablesA[t]))
		default:
			records = append(records, diffTable(page, t, &tablesA[t], &tablesB[t], opts)...)
		}
	}
	return records
}

func wholeTable(op model.Op, page, index int, table *model.Table) model.ChangeRecord {
	rec := model.ChangeRecord{
		Kind:  model.KindTable,
		Op:    op,
		Table: &model.TableDetail{Table: index, RowA: -1, RowB: -1, Col: -1},
	}
	loc := &model.Location{Page: page, BBox: table.BBox}
	if op == model.OpInsert {
		rec.B = loc
	} else {
		rec.A = loc
	}
	return rec
}

// diffTable runs the two-phase algorithm: row alignment on content
// signatures, then per-column cell diffs for matched rows. A table with
// zero rows on either side degrades to all-insert or all-delete rows.
func diffTable(page, index int, tableA, tableB *model.Table, opts Options) []model.ChangeRecord {
	rowsA := rowSignatures(tableA, opts.Policy)
	rowsB := rowSignatures(tableB, opts.Policy)

	locA := &model.Location{Page: page, BBox: tableA.BBox}
	locB := &model.Location{Page: page, BBox: tableB.BBox}

	var records []model.ChangeRecord
	for _, pair := range textdiff.MatchSequences(rowsA, rowsB, opts.RowThreshold) {
		switch pair.Op {
		case model.OpEqual:
			records = append(records, model.ChangeRecord{
				Kind:       model.KindTable,
				Op:         model.OpEqual,
				A:          locA,
				B:          locB,
				Similarity: 1,
				Table:      &model.TableDetail{Table: index, RowA: pair.A, RowB: pair.B, Col: -1},
			})
		case model.OpReplace:
			records = append(records, diffRow(index, pair, tableA.Rows[pair.A], tableB.Rows[pair.B], locA, locB, opts)...)
		case model.OpDelete:
			records = append(records, model.ChangeRecord{
				Kind:  model.KindTable,
				Op:    model.OpDelete,
				A:     locA,
				Table: &model.TableDetail{Table: index, RowA: pair.A, RowB: -1, Col: -1},
			})
		case model.OpInsert:
			records = append(records, model.ChangeRecord{
				Kind:  model.KindTable,
				Op:    model.OpInsert,
				B:     locB,
				Table: &model.TableDetail{Table: index, RowA: -1, RowB: pair.B, Col: -1},
			})
		}
	}
	return records
}

// diffRow diffs a matched row pair column by column. Column count
// mismatches are handled positionally, with unmatched trailing columns
// reported as column-level insert/delete.
func diffRow(index int, pair textdiff.Pair, rowA, rowB []model.Cell, locA, locB *model.Location, opts Options) []model.ChangeRecord {
	cols := len(rowA)
	if len(rowB) > cols {
		cols = len(rowB)
	}

	records := make([]model.ChangeRecord, 0, cols)
	for c := 0; c < cols; c++ {
		detail := &model.TableDetail{Table: index, RowA: pair.A, RowB: pair.B, Col: c}
		switch {
		case c >= len(rowA):
			records = append(records, model.ChangeRecord{
				Kind: model.KindTable, Op: model.OpInsert, B: locB, Table: detail,
			})
		case c >= len(rowB):
			records = append(records, model.ChangeRecord{
				Kind: model.KindTable, Op: model.OpDelete, A: locA, Table: detail,
			})
		default:
			tokensA := opts.Policy.Tokenize(rowA[c].Text)
			tokensB := opts.Policy.Tokenize(rowB[c].Text)
			if tokensEqual(tokensA, tokensB) {
				records = append(records, model.ChangeRecord{
					Kind: model.KindTable, Op: model.OpEqual, A: locA, B: locB,
					Similarity: 1, Table: detail,
				})
				continue
			}
			detail.Script = textdiff.Align(tokensA, tokensB, opts.ContextSize)
			records = append(records, model.ChangeRecord{
				Kind: model.KindTable, Op: model.OpReplace, A: locA, B: locB,
				Similarity: textdiff.Similarity(tokensA, tokensB), Table: detail,
			})
		}
	}
	return records
}

// rowSignatures reduces each row to its normalized cell tokens with cell
// boundaries preserved.
func rowSignatures(table *model.Table, policy textdiff.Policy) [][]string {
	rows := make([][]string, len(table.Rows))
	for i, row := range table.Rows {
		var tokens []string
		for c, cell := range row {
			if c > 0 {
				tokens = append(tokens, cellBoundary)
			}
			tokens = append(tokens, policy.Tokenize(cell.Text)...)
		}
		rows[i] = tokens
	}
	return rows
}

func tokensEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
