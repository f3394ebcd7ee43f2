// package export persists tabular datasets: CSV for intermediate pulls and
// spreadsheets for the published report artifacts.
package export

// Table is an ordered, header-first tabular dataset ready for encoding.
type Table struct {
	Header []string
	Rows   [][]string
}

// RowCount returns the number of data rows (header excluded).
func (t Table) RowCount() int { return len(t.Rows) }
