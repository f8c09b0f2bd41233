package sales

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ParseDate parses a DD/MM/YYYY purchase date.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// Normalize converts consolidated rows into typed records. The first purchase
// date that does not match DateLayout aborts with a *DateParseError; numeric
// columns that do not parse abort with a *DataSourceError.
func Normalize(u *Unified) ([]Record, error) {
	if u == nil || len(u.Rows) == 0 {
		return []Record{}, nil
	}

	cols := make(map[string]int, len(RequiredColumns))
	var missing []string
	for _, name := range RequiredColumns {
		i := u.Column(name)
		if i < 0 {
			missing = append(missing, name)
			continue
		}
		cols[name] = i
	}
	if len(missing) > 0 {
		return nil, &SchemaMismatchError{Store: u.Rows[0].Store, Missing: missing}
	}

	passthrough := make([]int, 0, len(u.Header))
	for i, h := range u.Header {
		if h == ColumnStore {
			continue
		}
		if _, required := cols[h]; required {
			continue
		}
		passthrough = append(passthrough, i)
	}

	records := make([]Record, 0, len(u.Rows))
	for idx, row := range u.Rows {
		raw := row.Values[cols[ColumnDate]]
		date, err := ParseDate(raw)
		if err != nil {
			return nil, &DateParseError{Store: row.Store, Row: row.Index, Index: idx, Value: raw, Err: err}
		}

		rec := Record{
			Store:        row.Store,
			Product:      row.Values[cols[ColumnProduct]],
			Category:     row.Values[cols[ColumnCategory]],
			PurchaseDate: date,
			Extra:        make(map[string]string, len(passthrough)),
		}
		for _, f := range []struct {
			column string
			dst    *decimal.Decimal
		}{
			{ColumnPrice, &rec.Price},
			{ColumnRating, &rec.Rating},
			{ColumnShipping, &rec.ShippingCost},
		} {
			v, err := decimal.NewFromString(strings.TrimSpace(row.Values[cols[f.column]]))
			if err != nil {
				return nil, &DataSourceError{Store: row.Store, Row: row.Index, Column: f.column, Err: err}
			}
			*f.dst = v
		}
		for _, i := range passthrough {
			rec.Extra[u.Header[i]] = row.Values[i]
		}
		records = append(records, rec)
	}
	return records, nil
}
