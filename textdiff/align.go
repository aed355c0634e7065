package textdiff

import (
	"strings"

	"docdiff/model"
)

// run is a half-open span pair [aLo,aHi) x [bLo,bHi) with one operation.
// Delete runs have an empty b span, insert runs an empty a span.
type run struct {
	op                 model.Op
	aLo, aHi, bLo, bHi int
}

// myersRuns computes a minimal edit script between a and b using the
// greedy O(ND) algorithm, returned as coalesced equal/insert/delete runs.
func myersRuns(a, b []string) []run {
	n, m := len(a), len(b)
	if n == 0 && m == 0 {
		return nil
	}
	max := n + m
	offset := max
	v := make([]int, 2*max+2)
	var trace [][]int

search:
	for d := 0; d <= max; d++ {
		snapshot := make([]int, len(v))
		copy(snapshot, v)
		trace = append(trace, snapshot)
		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
				x = v[offset+k+1]
			} else {
				x = v[offset+k-1] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[offset+k] = x
			if x >= n && y >= m {
				break search
			}
		}
	}

	// Walk the trace backwards to recover the edit steps.
	steps := make([]byte, 0, max)
	x, y := n, m
	for d := len(trace) - 1; d >= 0; d-- {
		vd := trace[d]
		k := x - y
		var prevK int
		if k == -d || (k != d && vd[offset+k-1] < vd[offset+k+1]) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := vd[offset+prevK]
		prevY := prevX - prevK
		for x > prevX && y > prevY {
			steps = append(steps, 'e')
			x--
			y--
		}
		if d > 0 {
			if x == prevX {
				steps = append(steps, 'i')
				y--
			} else {
				steps = append(steps, 'd')
				x--
			}
		}
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}

	var runs []run
	ai, bi := 0, 0
	for _, s := range steps {
		var op model.Op
		var da, db int
		switch s {
		case 'e':
			op, da, db = model.OpEqual, 1, 1
		case 'd':
			op, da, db = model.OpDelete, 1, 0
		case 'i':
			op, da, db = model.OpInsert, 0, 1
		}
		if len(runs) > 0 && runs[len(runs)-1].op == op {
			runs[len(runs)-1].aHi += da
			runs[len(runs)-1].bHi += db
		} else {
			runs = append(runs, run{op: op, aLo: ai, aHi: ai + da, bLo: bi, bHi: bi + db})
		}
		ai += da
		bi += db
	}
	return runs
}

// slideToEnd shifts insert/delete runs as far toward the end of the
// sequence as token equality allows. Of all minimal-cost alignments this
// picks the one with the longest equal run nearest the start, so repeated
// content always diffs the same way.
func slideToEnd(a, b []string, runs []run) []run {
	for i := 0; i < len(runs); i++ {
		r := &runs[i]
		if r.op == model.OpEqual {
			continue
		}
		for i+1 < len(runs) && runs[i+1].op == model.OpEqual && runs[i+1].aHi > runs[i+1].aLo {
			var canSlide bool
			if r.op == model.OpDelete {
				canSlide = a[r.aLo] == a[r.aHi]
			} else {
				canSlide = b[r.bLo] == b[r.bHi]
			}
			if !canSlide {
				break
			}
			if i > 0 && runs[i-1].op == model.OpEqual {
				runs[i-1].aHi++
				runs[i-1].bHi++
			} else {
				lead := run{op: model.OpEqual, aLo: r.aLo, aHi: r.aLo + 1, bLo: r.bLo, bHi: r.bLo + 1}
				runs = append(runs, run{})
				copy(runs[i+1:], runs[i:])
				runs[i] = lead
				i++
				r = &runs[i]
			}
			r.aLo++
			r.aHi++
			r.bLo++
			r.bHi++
			runs[i+1].aLo++
			runs[i+1].bLo++
		}
	}
	return compactRuns(runs)
}

// compactRuns drops empty runs and merges adjacent runs with the same op.
func compactRuns(runs []run) []run {
	out := runs[:0]
	for _, r := range runs {
		if r.aHi == r.aLo && r.bHi == r.bLo {
			continue
		}
		if len(out) > 0 && out[len(out)-1].op == r.op &&
			out[len(out)-1].aHi == r.aLo && out[len(out)-1].bHi == r.bLo {
			out[len(out)-1].aHi = r.aHi
			out[len(out)-1].bHi = r.bHi
			continue
		}
		out = append(out, r)
	}
	return out
}

// Align computes the token-level edit script between a and b. Adjacent
// delete+insert runs of comparable length coalesce into a single Replace
// run; fully disjoint sequences degrade to one Replace spanning
// everything. Non-equal runs carry up to contextSize unchanged tokens on
// each side.
func Align(a, b []string, contextSize int) []model.EditOp {
	runs := slideToEnd(a, b, myersRuns(a, b))

	hasEqual := false
	for _, r := range runs {
		if r.op == model.OpEqual {
			hasEqual = true
			break
		}
	}

	var script []model.EditOp
	for i := 0; i < len(runs); {
		r := runs[i]
		if r.op == model.OpEqual {
			script = append(script, model.EditOp{
				Op:      model.OpEqual,
				TokensA: a[r.aLo:r.aHi],
			})
			i++
			continue
		}

		// Gather the maximal block of consecutive non-equal runs.
		var del, ins []string
		j := i
		for ; j < len(runs) && runs[j].op != model.OpEqual; j++ {
			del = append(del, a[runs[j].aLo:runs[j].aHi]...)
			ins = append(ins, b[runs[j].bLo:runs[j].bHi]...)
		}
		before, after := contextAround(a, runs, i, j, contextSize)
		script = append(script, coalesce(del, ins, !hasEqual, before, after)...)
		i = j
	}
	return script
}

// coalesce turns one block of deleted and inserted tokens into script ops.
// force emits a single Replace regardless of length ratio (degraded
// alignment for disjoint inputs).
func coalesce(del, ins []string, force bool, before, after []string) []model.EditOp {
	switch {
	case len(del) == 0 && len(ins) == 0:
		return nil
	case len(ins) == 0:
		return []model.EditOp{{Op: model.OpDelete, TokensA: del, ContextBefore: before, ContextAfter: after}}
	case len(del) == 0:
		return []model.EditOp{{Op: model.OpInsert, TokensB: ins, ContextBefore: before, ContextAfter: after}}
	}

	if force || comparableLength(len(del), len(ins)) {
		return []model.EditOp{{
			Op:            model.OpReplace,
			TokensA:       del,
			TokensB:       ins,
			ContextBefore: before,
			ContextAfter:  after,
			Similarity:    charSimilarity(strings.Join(del, " "), strings.Join(ins, " ")),
		}}
	}
	return []model.EditOp{
		{Op: model.OpDelete, TokensA: del, ContextBefore: before, ContextAfter: after},
		{Op: model.OpInsert, TokensB: ins, ContextBefore: before, ContextAfter: after},
	}
}

// comparableLength reports whether the shorter run is at least half the
// longer one.
func comparableLength(x, y int) bool {
	lo, hi := x, y
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo*2 >= hi
}

// contextAround returns up to size unchanged tokens before runs[i] and
// after runs[j-1], taken from the a side of the neighboring equal runs.
func contextAround(a []string, runs []run, i, j, size int) (before, after []string) {
	if size <= 0 {
		return nil, nil
	}
	if i > 0 && runs[i-1].op == model.OpEqual {
		prev := runs[i-1]
		lo := prev.aHi - size
		if lo < prev.aLo {
			lo = prev.aLo
		}
		before = a[lo:prev.aHi]
	}
	if j < len(runs) && runs[j].op == model.OpEqual {
		next := runs[j]
		hi := next.aLo + size
		if hi > next.aHi {
			hi = next.aHi
		}
		after = a[next.aLo:hi]
	}
	return before, after
}

// Similarity returns the token-level similarity of two sequences: the
// number of tokens a minimal alignment matches, divided by the longer
// length. Symmetric, in [0,1]; two empty sequences are identical.
func Similarity(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	matched := 0
	for _, r := range myersRuns(a, b) {
		if r.op == model.OpEqual {
			matched += r.aHi - r.aLo
		}
	}
	longer := len(a)
	if len(b) > longer {
		longer = len(b)
	}
	return float64(matched) / float64(longer)
}

// charSimilarity scores two strings by character-level alignment. Used
// for Replace runs, where token-level overlap is zero by construction.
func charSimilarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	ta := make([]string, len(ra))
	for i, r := range ra {
		ta[i] = string(r)
	}
	tb := make([]string, len(rb))
	for i, r := range rb {
		tb[i] = string(r)
	}
	return Similarity(ta, tb)
}
