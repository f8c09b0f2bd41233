package service

import (
	"fmt"

	"github.com/okian/alurastore/internal/adapters/chart"
	"github.com/okian/alurastore/internal/domain/analysis"
	"github.com/okian/alurastore/internal/domain/sales"
	"gonum.org/v1/plot/vg"
)

// Chart file names, without extension.
const (
	ChartRevenue    = "ingresos_totales_por_tienda"
	ChartRating     = "calificacion_promedio_por_tienda"
	ChartShipping   = "costo_envio_promedio_por_tienda"
	ChartCategories = "top_categorias_por_tienda"
)

// ChartNames lists every chart a successful run writes.
var ChartNames = []string{ChartRevenue, ChartRating, ChartShipping, ChartCategories} //nolint:gochecknoglobals // fixed output set

const maxRating = 5

// Charts derives the four chart definitions from a summary. Bars follow the
// result order of each metric.
func Charts(s analysis.Summary) ([]chart.BarChart, chart.GroupedBarChart) {
	bars := []chart.BarChart{
		{
			Name:   ChartRevenue,
			Title:  "Ingresos Totales por Tienda",
			XLabel: sales.ColumnStore,
			YLabel: "Ingresos Totales (COP)",
			Labels: s.Revenue.Labels(),
			Values: s.Revenue.Floats(),
		},
		{
			Name:   ChartRating,
			Title:  "Calificación Promedio por Tienda",
			XLabel: sales.ColumnStore,
			YLabel: "Calificación Promedio",
			Labels: s.Rating.Labels(),
			Values: s.Rating.Floats(),
			YRange: &chart.Range{Min: 0, Max: maxRating},
		},
		{
			Name:   ChartShipping,
			Title:  "Costo de Envío Promedio por Tienda",
			XLabel: sales.ColumnStore,
			YLabel: "Costo de Envío Promedio (COP)",
			Labels: s.Shipping.Labels(),
			Values: s.Shipping.Floats(),
		},
	}
	return bars, categoryChart(s.Categories, s.TopN)
}

// categoryChart draws one series per category; a store outside a category's
// top N gets a zero-height bar.
func categoryChart(r analysis.Ranking, n int) chart.GroupedBarChart {
	if n < 1 {
		n = analysis.DefaultTopN
	}
	labels := make([]string, len(r))
	for i, sr := range r {
		labels[i] = sr.Store
	}

	keys := r.Keys()
	series := make([]chart.Series, len(keys))
	for k, key := range keys {
		values := make([]float64, len(r))
		for i, sr := range r {
			for _, g := range sr.Groups {
				if g.Key == key {
					values[i] = g.Value.InexactFloat64()
				}
			}
		}
		series[k] = chart.Series{Name: key, Values: values}
	}

	return chart.GroupedBarChart{
		Name:        ChartCategories,
		Title:       fmt.Sprintf("Ingresos de las Top %d Categorías por Tienda", n),
		XLabel:      sales.ColumnStore,
		YLabel:      "Ingresos (COP)",
		LegendTitle: sales.ColumnCategory,
		Labels:      labels,
		Series:      series,
		Width:       12 * vg.Inch,
		Height:      7 * vg.Inch,
	}
}
