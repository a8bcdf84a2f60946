package grouping

// Engine is the run-length grouping Provider. All per-row slices are indexed
// by absolute row and have the same length, the number of rows known so far.
type Engine struct {
	columns []string

	loaded  []bool
	uris    map[string][]string
	present map[string][]bool

	// Derived by recompute.
	repeated map[string][]bool
	counts   []int
	maxCount int
}

var _ Provider = (*Engine)(nil)

// NewEngine returns an empty Engine.
func NewEngine() *Engine {
	e := &Engine{}
	e.Reset()
	return e
}

// Reset implements Provider.
func (e *Engine) Reset() {
	e.columns = nil
	e.loaded = nil
	e.uris = map[string][]string{}
	e.present = map[string][]bool{}
	e.repeated = map[string][]bool{}
	e.counts = nil
	e.maxCount = 0
}

// ProcessPage implements Provider. The latest columnIDs replace the column
// order; values recorded for other columns are kept.
func (e *Engine) ProcessPage(rows []Row, offset int, columnIDs []string) {
	if offset < 0 {
		offset = 0
	}
	e.columns = append(e.columns[:0:0], columnIDs...)
	e.grow(offset + len(rows))

	for i, row := range rows {
		abs := offset + i
		if row == nil {
			continue
		}
		e.loaded[abs] = true
		for _, col := range e.columns {
			item, ok := row[col]
			e.uris[col][abs] = item.URI
			e.present[col][abs] = ok
		}
	}
	e.recompute()
}

// grow extends every per-row slice to n rows with gaps.
func (e *Engine) grow(n int) {
	for _, col := range e.columns {
		if _, ok := e.uris[col]; !ok {
			e.uris[col] = nil
			e.present[col] = nil
		}
	}
	if n < len(e.loaded) {
		n = len(e.loaded)
	}
	e.loaded = extend(e.loaded, n)
	for col := range e.uris {
		e.uris[col] = extend(e.uris[col], n)
		e.present[col] = extend(e.present[col], n)
	}
}

func extend[T any](s []T, n int) []T {
	if len(s) >= n {
		return s
	}
	return append(s, make([]T, n-len(s))...)
}

// recompute rebuilds the repeat flags of every row from scratch. A row
// repeats in a column when both it and the row above are loaded, carry the
// same value uri, and the column to the left repeats at that row.
func (e *Engine) recompute() {
	n := len(e.loaded)
	e.repeated = make(map[string][]bool, len(e.columns))
	e.counts = make([]int, n)
	e.maxCount = 0

	var left []bool
	for _, col := range e.columns {
		uris, present := e.uris[col], e.present[col]
		rep := make([]bool, n)
		for r := 1; r < n; r++ {
			if !e.loaded[r] || !e.loaded[r-1] || !present[r] || !present[r-1] {
				continue
			}
			if uris[r] != uris[r-1] {
				continue
			}
			if left != nil && !left[r] {
				continue
			}
			rep[r] = true
			e.counts[r]++
		}
		e.repeated[col] = rep
		left = rep
	}

	for _, c := range e.counts {
		if c > e.maxCount {
			e.maxCount = c
		}
	}
}

// IsRepeated implements Provider.
func (e *Engine) IsRepeated(columnID string, row int) bool {
	rep, ok := e.repeated[columnID]
	return ok && row >= 0 && row < len(rep) && rep[row]
}

// IsGroupBoundary implements Provider. A row closes a group when the row
// after it repeats fewer columns than the deepest repetition seen. Gaps and
// rows beyond the loaded range are boundaries.
func (e *Engine) IsGroupBoundary(row int) bool {
	if row < 0 || row >= len(e.loaded) || !e.loaded[row] {
		return true
	}
	next := 0
	if row+1 < len(e.counts) && e.loaded[row+1] {
		next = e.counts[row+1]
	}
	return next < e.maxCount
}

// IsColumnWithGrouping implements Provider.
func (e *Engine) IsColumnWithGrouping(columnID string) bool {
	_, ok := e.repeated[columnID]
	return ok
}

// RepeatCount returns how many columns repeat at row.
func (e *Engine) RepeatCount(row int) int {
	if row < 0 || row >= len(e.counts) {
		return 0
	}
	return e.counts[row]
}

// Rows returns the number of rows known, loaded or not.
func (e *Engine) Rows() int { return len(e.loaded) }
