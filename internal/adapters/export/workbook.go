// Package export writes the run's aggregate results to an xlsx workbook.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/okian/alurastore/internal/domain/analysis"
	"github.com/okian/alurastore/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// ErrExport wraps every workbook failure.
var ErrExport = errors.New("workbook export failed")

// Sheet names, one per metric.
const (
	SheetRevenue    = "Ingresos"
	SheetRating     = "Calificacion"
	SheetShipping   = "Envio"
	SheetCategories = "Top Categorias"
	SheetProducts   = "Top Productos"
)

const defaultSheet = "Sheet1"

// Workbook exports an analysis.Summary.
type Workbook struct {
	log logger.Logger
}

// Option configures a Workbook.
type Option func(*Workbook)

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(w *Workbook) {
		if log != nil {
			w.log = log
		}
	}
}

// NewWorkbook builds a Workbook exporter.
func NewWorkbook(opts ...Option) *Workbook {
	w := &Workbook{}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write saves s to path, replacing any existing file.
func (w *Workbook) Write(ctx context.Context, s analysis.Summary, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(defaultSheet, SheetRevenue); err != nil {
		return fmt.Errorf("%w: %w", ErrExport, err)
	}
	steps := []func(*excelize.File) error{
		func(f *excelize.File) error { return writeValues(f, SheetRevenue, "Ingresos Totales", s.Revenue) },
		func(f *excelize.File) error { return writeValues(f, SheetRating, "Calificación Promedio", s.Rating) },
		func(f *excelize.File) error { return writeValues(f, SheetShipping, "Costo de Envío Promedio", s.Shipping) },
		func(f *excelize.File) error { return writeRanking(f, SheetCategories, "Categoría del Producto", s.Categories) },
		func(f *excelize.File) error { return writeRanking(f, SheetProducts, "Producto", s.Products) },
	}
	for _, step := range steps {
		if err := step(f); err != nil {
			return fmt.Errorf("%w: %w", ErrExport, err)
		}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: %w", ErrExport, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrExport, path, err)
	}
	if w.log != nil {
		w.log.Info(ctx, "workbook written", logger.String("path", path))
	}
	return nil
}

func ensureSheet(f *excelize.File, name string) error {
	idx, err := f.GetSheetIndex(name)
	if err != nil {
		return err
	}
	if idx >= 0 {
		return nil
	}
	_, err = f.NewSheet(name)
	return err
}

func writeValues(f *excelize.File, sheet, metric string, values analysis.StoreValues) error {
	if err := ensureSheet(f, sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &[]interface{}{"Tienda", metric}); err != nil {
		return err
	}
	for i, sv := range values {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &[]interface{}{sv.Store, sv.Value.InexactFloat64()}); err != nil {
			return err
		}
	}
	return nil
}

func writeRanking(f *excelize.File, sheet, group string, ranking analysis.Ranking) error {
	if err := ensureSheet(f, sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &[]interface{}{"Tienda", "Posición", group, "Ingresos"}); err != nil {
		return err
	}
	row := 2
	for _, sr := range ranking {
		for rank, g := range sr.Groups {
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheet, cell, &[]interface{}{sr.Store, rank + 1, g.Key, g.Value.InexactFloat64()}); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}
