package service

import (
	"context"
	"errors"

	"github.com/okian/alurastore/internal/adapters/chart"
	"github.com/okian/alurastore/internal/adapters/export"
	"github.com/okian/alurastore/internal/domain/sales"
)

// errorKind classifies err for the errors_total metric.
func errorKind(err error) string {
	switch {
	case errors.Is(err, sales.ErrDateParse):
		return "date_parse"
	case errors.Is(err, sales.ErrSchemaMismatch):
		return "schema_mismatch"
	case errors.Is(err, sales.ErrDataSource):
		return "data_source"
	case errors.Is(err, chart.ErrInvalidChart), errors.Is(err, chart.ErrRender):
		return "chart"
	case errors.Is(err, export.ErrExport):
		return "export"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}
