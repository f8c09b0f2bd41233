// Package report prints the console transcript of a pipeline run.
//
// Every line is derived from its arguments only, so identical input yields
// byte-identical output.
package report

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/okian/alurastore/internal/domain/analysis"
	"github.com/okian/alurastore/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// Reporter writes to w. The first write error sticks and turns every later
// call into a no-op; check it with Err.
type Reporter struct {
	w   io.Writer
	err error
}

// New returns a Reporter writing to w.
func New(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Err returns the first write error.
func (r *Reporter) Err() error { return r.err }

func (r *Reporter) printf(format string, args ...any) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, args...)
}

func (r *Reporter) println(s string) { r.printf("%s\n", s) }

// LoadStarted announces the fetch stage.
func (r *Reporter) LoadStarted() { r.println("Cargando datos desde URLs...") }

// Loaded prints one status line per table in the given order.
func (r *Reporter) Loaded(tables []sales.Table) {
	for _, t := range tables {
		r.printf("Datos cargados: %s (%d registros)\n", t.Store, t.Len())
	}
}

// LoadFinished closes the fetch stage.
func (r *Reporter) LoadFinished() { r.println("Datos cargados exitosamente.") }

// AnalysisStarted announces the metrics stage.
func (r *Reporter) AnalysisStarted() { r.println("\nRealizando el análisis de métricas clave...") }

// ChartsStarted announces the chart stage.
func (r *Reporter) ChartsStarted() { r.println("\nGenerando visualizaciones...") }

// Completed closes the run.
func (r *Reporter) Completed() {
	r.println("\nAnálisis completado. Los gráficos se han guardado como archivos PNG.")
}

// WriteResults prints the five metric listings.
func (r *Reporter) WriteResults(s analysis.Summary) {
	r.println("\n--- Resultados del Análisis ---")

	r.println("\nIngresos Totales por Tienda:")
	r.values(s.Revenue)
	r.println("\nCalificación Promedio por Tienda:")
	r.values(s.Rating)
	r.println("\nCosto de Envío Promedio por Tienda:")
	r.values(s.Shipping)

	r.printf("\nTop %d Categorías más Vendidas (por ingresos) por Tienda:\n", topN(s))
	r.ranking(s.Categories)
	r.printf("\nTop %d Productos más Vendidos (por ingresos) por Tienda:\n", topN(s))
	r.ranking(s.Products)
}

func topN(s analysis.Summary) int {
	if s.TopN > 0 {
		return s.TopN
	}
	return analysis.DefaultTopN
}

func (r *Reporter) values(v analysis.StoreValues) {
	storeW, valueW := 0, 0
	for _, sv := range v {
		storeW = max(storeW, utf8.RuneCountInString(sv.Store))
		valueW = max(valueW, len(money(sv.Value)))
	}
	for _, sv := range v {
		r.printf("%-*s  %*s\n", storeW, sv.Store, valueW, money(sv.Value))
	}
}

func (r *Reporter) ranking(rk analysis.Ranking) {
	storeW, keyW, valueW := 0, 0, 0
	for _, sr := range rk {
		storeW = max(storeW, utf8.RuneCountInString(sr.Store))
		for _, g := range sr.Groups {
			keyW = max(keyW, utf8.RuneCountInString(g.Key))
			valueW = max(valueW, len(money(g.Value)))
		}
	}
	for _, sr := range rk {
		for i, g := range sr.Groups {
			r.printf("%-*s  %d. %-*s  %*s\n", storeW, sr.Store, i+1, keyW, g.Key, valueW, money(g.Value))
		}
	}
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }

// WriteRecommendation prints which store to sell, derived from the aggregates:
// the lowest-revenue store is the candidate, contrasted with the leader.
func (r *Reporter) WriteRecommendation(s analysis.Summary) {
	r.println("\n--- Recomendación ---")
	for _, p := range recommendation(s) {
		r.println(p)
	}
}

func recommendation(s analysis.Summary) []string {
	low, ok := s.Revenue.Min()
	if !ok {
		return []string{"No hay datos de ventas suficientes para generar una recomendación."}
	}
	if len(s.Revenue) == 1 {
		return []string{
			fmt.Sprintf("Solo se cargaron datos de la %s (ingresos totales: %s), por lo que no es posible comparar tiendas.", low.Store, money(low.Value)),
			fmt.Sprintf("Se recomienda mantener la %s hasta contar con datos de otras tiendas.", low.Store),
		}
	}
	top, _ := s.Revenue.Max()
	if top.Value.Equal(low.Value) {
		return []string{
			fmt.Sprintf("Todas las tiendas presentan los mismos ingresos totales (%s), por lo que no hay una candidata clara para vender.", money(low.Value)),
			"Se recomienda mantener todas las tiendas y repetir el análisis con más datos.",
		}
	}

	paras := make([]string, 0, 4)
	paras = append(paras, fmt.Sprintf("Basándonos en el análisis, la %s es la que presenta los ingresos totales más bajos (%s).", low.Store, money(low.Value)))

	lowShipping, _ := s.Shipping.Get(low.Store)
	if cheapest, ok := s.Shipping.Min(); ok && cheapest.Store == low.Store {
		paras = append(paras, fmt.Sprintf("Aunque tiene el costo de envío más eficiente (%s), su bajo rendimiento en ventas la hace la candidata ideal para vender.", money(lowShipping)))
	} else {
		paras = append(paras, fmt.Sprintf("Su costo de envío promedio (%s) no compensa su bajo rendimiento en ventas, lo que la hace la candidata ideal para vender.", money(lowShipping)))
	}

	var drawbacks []string
	if worst, ok := s.Rating.Min(); ok && worst.Store == top.Store {
		drawbacks = append(drawbacks, "las calificaciones más bajas")
	}
	if dearest, ok := s.Shipping.Max(); ok && dearest.Store == top.Store {
		drawbacks = append(drawbacks, "los costos de envío más altos")
	}
	if len(drawbacks) > 0 {
		paras = append(paras, fmt.Sprintf("La %s, a pesar de tener %s, compensa con los ingresos más altos (%s).", top.Store, strings.Join(drawbacks, " y "), money(top.Value)))
	} else {
		rating, _ := s.Rating.Get(top.Store)
		shipping, _ := s.Shipping.Get(top.Store)
		paras = append(paras, fmt.Sprintf("La %s lidera con los ingresos más altos (%s), con una calificación promedio de %s y un costo de envío promedio de %s.", top.Store, money(top.Value), money(rating), money(shipping)))
	}

	paras = append(paras, fmt.Sprintf("Por lo tanto, se recomienda vender la %s para capitalizar el capital y reorientar el negocio.", low.Store))
	return paras
}
