package sales

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel error kinds. The first three classify fatal pipeline errors; the
// rest are causes carried inside them.
var (
	ErrDataSource     = errors.New("data source error")
	ErrSchemaMismatch = errors.New("schema mismatch")
	ErrDateParse      = errors.New("date parse error")

	ErrNoTables    = errors.New("no tables to consolidate")
	ErrEmptySource = errors.New("source has no header row")
	ErrRowWidth    = errors.New("row width does not match header")
)

// DataSourceError reports a source that could not be retrieved or parsed.
type DataSourceError struct {
	Store  string
	Ref    string
	Row    int    // 1-based data row, 0 when not row specific
	Column string // set for malformed values
	Err    error
}

func (e *DataSourceError) Error() string {
	var b strings.Builder
	b.WriteString("data source")
	if e.Store != "" {
		fmt.Fprintf(&b, " %q", e.Store)
	}
	if e.Ref != "" {
		fmt.Fprintf(&b, " (%s)", e.Ref)
	}
	if e.Row > 0 {
		fmt.Fprintf(&b, " row %d", e.Row)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, " column %q", e.Column)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *DataSourceError) Unwrap() []error { return unwrap(ErrDataSource, e.Err) }

// SchemaMismatchError reports a table whose columns differ from the first table.
type SchemaMismatchError struct {
	Store     string
	Missing   []string
	Extra     []string
	Duplicate []string
}

func (e *SchemaMismatchError) Error() string {
	parts := make([]string, 0, 3)
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+quoteAll(e.Missing))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, "unexpected "+quoteAll(e.Extra))
	}
	if len(e.Duplicate) > 0 {
		parts = append(parts, "duplicated "+quoteAll(e.Duplicate))
	}
	return fmt.Sprintf("schema mismatch in %q: %s", e.Store, strings.Join(parts, "; "))
}

func (e *SchemaMismatchError) Unwrap() error { return ErrSchemaMismatch }

// DateParseError reports a purchase date that does not match DateLayout.
type DateParseError struct {
	Store string
	Row   int // 1-based data row within the store's source
	Index int // 0-based position in the unified table
	Value string
	Err   error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("invalid %s %q in %q row %d (want DD/MM/YYYY)", ColumnDate, e.Value, e.Store, e.Row)
}

func (e *DateParseError) Unwrap() []error { return unwrap(ErrDateParse, e.Err) }

func unwrap(kind, cause error) []error {
	if cause == nil {
		return []error{kind}
	}
	return []error{kind, cause}
}

func quoteAll(names []string) string {
	q := make([]string, len(names))
	for i, n := range names {
		q[i] = fmt.Sprintf("%q", n)
	}
	return strings.Join(q, ", ")
}
