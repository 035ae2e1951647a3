package extract

import "github.com/Sandiven/DataVerser/internal/core/domain"

// records accumulates keyed rows and keeps columns in first-seen order.
type records struct {
	columns []string
	seen    map[string]bool
	rows    []map[string]domain.Value
}

func (r *records) newRow() map[string]domain.Value {
	row := make(map[string]domain.Value)
	r.rows = append(r.rows, row)
	return row
}

func (r *records) addColumn(name string) {
	if r.seen == nil {
		r.seen = make(map[string]bool)
	}
	if !r.seen[name] {
		r.seen[name] = true
		r.columns = append(r.columns, name)
	}
}

// fragment renders the rows as a rectangular fragment. Absent keys are
// missing cells.
func (r *records) fragment() *domain.Fragment {
	if len(r.columns) == 0 || len(r.rows) == 0 {
		return nil
	}
	frag := &domain.Fragment{Columns: r.columns}
	for _, row := range r.rows {
		cells := make([]domain.Value, len(r.columns))
		for i, col := range r.columns {
			if v, ok := row[col]; ok {
				cells[i] = v
			} else {
				cells[i] = domain.Missing()
			}
		}
		frag.Rows = append(frag.Rows, cells)
	}
	return frag
}
