// Package sales contains the sales table model passed between pipeline stages.
package sales

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Column names of the store CSV exports. Matched exactly.
const (
	ColumnStore    = "Tienda"
	ColumnProduct  = "Producto"
	ColumnCategory = "Categoría del Producto"
	ColumnPrice    = "Precio"
	ColumnDate     = "Fecha de Compra"
	ColumnRating   = "Calificación"
	ColumnShipping = "Costo de envío"
)

// DateLayout is the DD/MM/YYYY purchase date format. Day and month may be a
// single digit; the year must have four.
const DateLayout = "2/1/2006"

// RequiredColumns lists the columns every source must provide.
var RequiredColumns = []string{ //nolint:gochecknoglobals // fixed schema
	ColumnProduct,
	ColumnCategory,
	ColumnPrice,
	ColumnDate,
	ColumnRating,
	ColumnShipping,
}

// Source identifies one store and where its CSV lives (URL or path).
type Source struct {
	Store string
	Ref   string
}

// Table is a single source as loaded: header plus raw string rows.
type Table struct {
	Store  string
	Ref    string
	Header []string
	Rows   [][]string
}

// Len returns the number of data rows.
func (t Table) Len() int { return len(t.Rows) }

// Row is a consolidated row tagged with its store.
type Row struct {
	Store  string
	Index  int      // 1-based position within the store's source
	Values []string // aligned with Unified.Header
}

// Unified is the concatenation of every store table.
type Unified struct {
	Header []string
	Rows   []Row
	Stores []string // input order
}

// Len returns the number of consolidated rows.
func (u *Unified) Len() int { return len(u.Rows) }

// Column returns the position of name in the header, or -1.
func (u *Unified) Column(name string) int { return indexOf(u.Header, name) }

// Record is a normalized sale.
type Record struct {
	Store        string
	Product      string
	Category     string
	Price        decimal.Decimal
	PurchaseDate time.Time
	Rating       decimal.Decimal
	ShippingCost decimal.Decimal
	Extra        map[string]string // passthrough columns by header name
}

// CleanHeader trims whitespace and a leading byte order mark from header cells.
func CleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		out[i] = strings.TrimSpace(h)
	}
	return out
}
