package textdiff

import (
	"strings"

	"docdiff/model"
)

// Pair reports how one element of sequence a lines up with one of b after
// matching. A and B are element indices, -1 for the missing side of an
// insert or delete.
type Pair struct {
	A          int
	B          int
	Op         model.Op
	Similarity float64
}

// sigSep keeps cell/token boundaries from colliding in signatures.
const sigSep = "\x1f"

// MatchSequences aligns two sequences of token bundles (table rows, text
// blocks) by exact-signature alignment, then pairs leftover deleted and
// inserted elements positionally: a pair whose token similarity reaches
// threshold becomes a Replace (matched-but-modified), anything below
// splits into an independent Delete plus Insert. Pair order is
// deterministic for identical input.
func MatchSequences(a, b [][]string, threshold float64) []Pair {
	sa := make([]string, len(a))
	for i, tokens := range a {
		sa[i] = strings.Join(tokens, sigSep)
	}
	sb := make([]string, len(b))
	for i, tokens := range b {
		sb[i] = strings.Join(tokens, sigSep)
	}

	runs := slideToEnd(sa, sb, myersRuns(sa, sb))

	var pairs []Pair
	for i := 0; i < len(runs); {
		r := runs[i]
		if r.op == model.OpEqual {
			for off := 0; off < r.aHi-r.aLo; off++ {
				pairs = append(pairs, Pair{A: r.aLo + off, B: r.bLo + off, Op: model.OpEqual, Similarity: 1})
			}
			i++
			continue
		}

		var deleted, inserted []int
		j := i
		for ; j < len(runs) && runs[j].op != model.OpEqual; j++ {
			for ai := runs[j].aLo; ai < runs[j].aHi; ai++ {
				deleted = append(deleted, ai)
			}
			for bi := runs[j].bLo; bi < runs[j].bHi; bi++ {
				inserted = append(inserted, bi)
			}
		}
		i = j

		k := 0
		for ; k < len(deleted) && k < len(inserted); k++ {
			ai, bi := deleted[k], inserted[k]
			sim := Similarity(a[ai], b[bi])
			if sim >= threshold {
				pairs = append(pairs, Pair{A: ai, B: bi, Op: model.OpReplace, Similarity: sim})
			} else {
				pairs = append(pairs, Pair{A: ai, B: -1, Op: model.OpDelete})
				pairs = append(pairs, Pair{A: -1, B: bi, Op: model.OpInsert})
			}
		}
		for ; k < len(deleted); k++ {
			pairs = append(pairs, Pair{A: deleted[k], B: -1, Op: model.OpDelete})
		}
		for ; k < len(inserted); k++ {
			pairs = append(pairs, Pair{A: -1, B: inserted[k], Op: model.OpInsert})
		}
	}
	return pairs
}
