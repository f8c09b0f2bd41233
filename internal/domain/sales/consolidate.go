package sales

// Consolidate tags every table with its store and concatenates them in input
// order. Row order within a table is preserved. All tables must carry the same
// set of columns; rows are projected onto the first table's column order.
func Consolidate(tables []Table) (*Unified, error) {
	if len(tables) == 0 {
		return nil, &DataSourceError{Err: ErrNoTables}
	}

	base := tables[0].Header
	if dups := duplicates(base); len(dups) > 0 {
		return nil, &SchemaMismatchError{Store: tables[0].Store, Duplicate: dups}
	}

	// An existing store column is overwritten rather than duplicated.
	header := append([]string(nil), base...)
	storePos := indexOf(header, ColumnStore)
	if storePos < 0 {
		header = append(header, ColumnStore)
		storePos = len(header) - 1
	}

	total := 0
	for _, t := range tables {
		total += len(t.Rows)
	}

	u := &Unified{
		Header: header,
		Rows:   make([]Row, 0, total),
		Stores: make([]string, 0, len(tables)),
	}

	for _, t := range tables {
		perm, err := projection(base, t)
		if err != nil {
			return nil, err
		}
		for i, raw := range t.Rows {
			if len(raw) != len(t.Header) {
				return nil, &DataSourceError{Store: t.Store, Ref: t.Ref, Row: i + 1, Err: ErrRowWidth}
			}
			values := make([]string, len(header))
			for j, src := range perm {
				values[j] = raw[src]
			}
			values[storePos] = t.Store
			u.Rows = append(u.Rows, Row{Store: t.Store, Index: i + 1, Values: values})
		}
		u.Stores = append(u.Stores, t.Store)
	}
	return u, nil
}

// projection maps each base column to its position in t.
func projection(base []string, t Table) ([]int, error) {
	if dups := duplicates(t.Header); len(dups) > 0 {
		return nil, &SchemaMismatchError{Store: t.Store, Duplicate: dups}
	}

	pos := make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		pos[h] = i
	}

	var missing, extra []string
	perm := make([]int, len(base))
	for i, name := range base {
		p, ok := pos[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		perm[i] = p
	}
	for _, h := range t.Header {
		if indexOf(base, h) < 0 {
			extra = append(extra, h)
		}
	}
	if len(missing) > 0 || len(extra) > 0 {
		return nil, &SchemaMismatchError{Store: t.Store, Missing: missing, Extra: extra}
	}
	return perm, nil
}

func duplicates(header []string) []string {
	seen := make(map[string]bool, len(header))
	var dups []string
	for _, h := range header {
		if seen[h] {
			dups = append(dups, h)
			continue
		}
		seen[h] = true
	}
	return dups
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}
