package docdiff

import (
	"sort"

	"docdiff/model"
)

// Assemble merges per-page change streams into one ordered DiffResult.
// Records sort by page index, then top-to-bottom source position, then
// kind (text before table before image) for stable ties. Assembly adds no
// records and drops none, so the coverage of the inputs carries through
// unchanged.
func Assemble(pageRecords ...[]model.ChangeRecord) *model.DiffResult {
	total := 0
	for _, records := range pageRecords {
		total += len(records)
	}
	all := make([]model.ChangeRecord, 0, total)
	for _, records := range pageRecords {
		all = append(all, records...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		pi, ti := orderKey(&all[i])
		pj, tj := orderKey(&all[j])
		if pi != pj {
			return pi < pj
		}
		if ti != tj {
			// Larger top edge means higher on the page.
			return ti > tj
		}
		return all[i].Kind < all[j].Kind
	})

	result := &model.DiffResult{Records: all}
	result.Recount()
	return result
}

// orderKey returns the record's page and top edge, preferring the A-side
// location.
func orderKey(rec *model.ChangeRecord) (page int, top float64) {
	loc := rec.A
	if loc == nil {
		loc = rec.B
	}
	if loc == nil {
		return 0, 0
	}
	return loc.Page, loc.BBox.Top()
}
