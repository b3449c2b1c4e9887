package report

import (
	"github.com/sentlog/sentlog/internal/model"
)

// Build turns a snapshot into spreadsheet rows: a header, one row per
// conversation in first-seen order, and a totals row when anything was sent.
func Build(snap *model.Snapshot, f *Formatter) [][]any {
	l := f.Labels
	rows := [][]any{{l.Name, l.Count, l.Date, l.Period}}
	if snap == nil || snap.Tally == nil {
		return rows
	}

	for _, conv := range snap.Rows() {
		rows = append(rows, []any{
			conv.Name,
			conv.Count,
			f.Date(conv.FirstSeen),
			f.Period(conv.FirstSeen, conv.LastSeen),
		})
	}

	if !snap.Totals.Empty() {
		rows = append(rows, []any{
			l.Total,
			snap.Totals.Count,
			f.Date(snap.Totals.First),
			f.Duration(snap.Totals.Last.Sub(snap.Totals.First)),
		})
	}
	return rows
}
