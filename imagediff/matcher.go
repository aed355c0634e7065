package imagediff

import (
	"sort"

	"docdiff/model"
)

// Options tunes the matcher.
type Options struct {
	// Threshold is the maximum acceptable Hamming distance as a fraction
	// of the fingerprint width; pairs above it stay unmatched.
	Threshold float64
}

// Assignment pairs image index A with image index B at the given
// fingerprint Hamming distance. The full assignment is a partial
// bijection; indices absent from it are implicit deletions/insertions.
type Assignment struct {
	A        int
	B        int
	Distance int
}

// Assign solves the per-page matching problem with greedy
// nearest-neighbor assignment: all candidate pairs sorted by ascending
// cost, ties broken by ascending (A, B) index so reruns are reproducible.
// Greedy is an approximation of the optimal bipartite assignment; for the
// small per-page candidate sets this engine sees the difference is
// negligible, a page with very many images may diverge from optimal.
func Assign(imagesA, imagesB []model.Image, maxDistance int) []Assignment {
	type candidate struct {
		a, b, cost int
	}
	var candidates []candidate
	for i := range imagesA {
		fpA := imagesA[i].Fingerprint(Fingerprint)
		for j := range imagesB {
			cost := HammingDistance(fpA, imagesB[j].Fingerprint(Fingerprint))
			if cost <= maxDistance {
				candidates = append(candidates, candidate{a: i, b: j, cost: cost})
			}
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].cost != candidates[j].cost {
			return candidates[i].cost < candidates[j].cost
		}
		if candidates[i].a != candidates[j].a {
			return candidates[i].a < candidates[j].a
		}
		return candidates[i].b < candidates[j].b
	})

	usedA := make([]bool, len(imagesA))
	usedB := make([]bool, len(imagesB))
	var assignments []Assignment
	for _, c := range candidates {
		if usedA[c.a] || usedB[c.b] {
			continue
		}
		usedA[c.a] = true
		usedB[c.b] = true
		assignments = append(assignments, Assignment{A: c.a, B: c.b, Distance: c.cost})
	}
	sort.Slice(assignments, func(i, j int) bool { return assignments[i].A < assignments[j].A })
	return assignments
}

// Match pairs the images of one page pair and reports each image in
// exactly one change record: Equal at distance zero, Replace with
// similarity 1-distance/width for matched pairs, Delete/Insert for
// unmatched images. Images are only matched within the same page index.
func Match(page int, imagesA, imagesB []model.Image, opts Options) []model.ChangeRecord {
	maxDistance := int(opts.Threshold * FingerprintBits)
	assignments := Assign(imagesA, imagesB, maxDistance)

	matchedA := make(map[int]Assignment, len(assignments))
	matchedB := make(map[int]bool, len(assignments))
	for _, as := range assignments {
		matchedA[as.A] = as
		matchedB[as.B] = true
	}

	var records []model.ChangeRecord
	for i := range imagesA {
		locA := &model.Location{Page: page, BBox: imagesA[i].BBox}
		as, ok := matchedA[i]
		if !ok {
			records = append(records, model.ChangeRecord{
				Kind:  model.KindImage,
				Op:    model.OpDelete,
				A:     locA,
				Image: &model.ImageDetail{IndexA: i, IndexB: -1},
			})
			continue
		}
		rec := model.ChangeRecord{
			Kind:       model.KindImage,
			A:          locA,
			B:          &model.Location{Page: page, BBox: imagesB[as.B].BBox},
			Similarity: 1 - float64(as.Distance)/FingerprintBits,
			Image:      &model.ImageDetail{IndexA: i, IndexB: as.B, Distance: as.Distance},
		}
		if as.Distance == 0 {
			rec.Op = model.OpEqual
		} else {
			rec.Op = model.OpReplace
		}
		records = append(records, rec)
	}
	for j := range imagesB {
		if matchedB[j] {
			continue
		}
		records = append(records, model.ChangeRecord{
			Kind:  model.KindImage,
			Op:    model.OpInsert,
			B:     &model.Location{Page: page, BBox: imagesB[j].BBox},
			Image: &model.ImageDetail{IndexA: -1, IndexB: j},
		})
	}
	return records
}
