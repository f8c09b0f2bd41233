package report_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/okian/alurastore/internal/domain/analysis"
	"github.com/okian/alurastore/internal/domain/sales"
	"github.com/okian/alurastore/internal/report"
	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"
)

func sale(store, product, category string, price, rating, shipping int64) sales.Record {
	return sales.Record{
		Store:        store,
		Product:      product,
		Category:     category,
		Price:        decimal.NewFromInt(price),
		Rating:       decimal.NewFromInt(rating),
		ShippingCost: decimal.NewFromInt(shipping),
	}
}

func twoStores() analysis.Summary {
	return analysis.Summarize([]sales.Record{
		sale("Tienda 1", "TV", "Electrónicos", 100, 3, 20),
		sale("Tienda 1", "Silla", "Muebles", 200, 4, 30),
		sale("Tienda 4", "Lápiz", "Papelería", 10, 5, 1),
		sale("Tienda 4", "Goma", "Papelería", 5, 4, 2),
	}, analysis.DefaultTopN)
}

const wantResults = `
--- Resultados del Análisis ---

Ingresos Totales por Tienda:
Tienda 1  300.00
Tienda 4   15.00

Calificación Promedio por Tienda:
Tienda 4  4.50
Tienda 1  3.50

Costo de Envío Promedio por Tienda:
Tienda 1  25.00
Tienda 4   1.50

Top 3 Categorías más Vendidas (por ingresos) por Tienda:
Tienda 1  1. Muebles       200.00
Tienda 1  2. Electrónicos  100.00
Tienda 4  1. Papelería      15.00

Top 3 Productos más Vendidos (por ingresos) por Tienda:
Tienda 1  1. Silla  200.00
Tienda 1  2. TV     100.00
Tienda 4  1. Lápiz   10.00
Tienda 4  2. Goma     5.00
`

const wantRecommendation = `
--- Recomendación ---
Basándonos en el análisis, la Tienda 4 es la que presenta los ingresos totales más bajos (15.00).
Aunque tiene el costo de envío más eficiente (1.50), su bajo rendimiento en ventas la hace la candidata ideal para vender.
La Tienda 1, a pesar de tener las calificaciones más bajas y los costos de envío más altos, compensa con los ingresos más altos (300.00).
Por lo tanto, se recomienda vender la Tienda 4 para capitalizar el capital y reorientar el negocio.
`

func TestWriteResults(t *testing.T) {
	Convey("Given the summary of two stores", t, func() {
		var buf bytes.Buffer
		r := report.New(&buf)

		Convey("When writing the results", func() {
			r.WriteResults(twoStores())

			Convey("Then every listing is printed in result order", func() {
				So(r.Err(), ShouldBeNil)
				So(buf.String(), ShouldEqual, wantResults)
			})
		})

		Convey("When writing the recommendation", func() {
			r.WriteRecommendation(twoStores())

			Convey("Then the lowest-revenue store is the one to sell", func() {
				So(buf.String(), ShouldEqual, wantRecommendation)
			})
		})
	})
}

func TestRecommendationVariants(t *testing.T) {
	Convey("Given a leader with good ratings and cheap shipping", t, func() {
		var buf bytes.Buffer
		s := analysis.Summarize([]sales.Record{
			sale("Tienda 1", "TV", "Electrónicos", 500, 5, 2),
			sale("Tienda 2", "Mesa", "Muebles", 50, 3, 1),
			sale("Tienda 3", "Cama", "Muebles", 80, 4, 9),
		}, analysis.DefaultTopN)
		report.New(&buf).WriteRecommendation(s)
		out := buf.String()

		Convey("Then the leader is described by its averages", func() {
			So(out, ShouldContainSubstring, "la Tienda 2 es la que presenta los ingresos totales más bajos (50.00)")
			So(out, ShouldContainSubstring, "Aunque tiene el costo de envío más eficiente (1.00)")
			So(out, ShouldContainSubstring, "La Tienda 1 lidera con los ingresos más altos (500.00), con una calificación promedio de 5.00 y un costo de envío promedio de 2.00.")
			So(out, ShouldContainSubstring, "se recomienda vender la Tienda 2")
		})
	})

	Convey("Given a weakest store that does not have the cheapest shipping", t, func() {
		var buf bytes.Buffer
		s := analysis.Summarize([]sales.Record{
			sale("Tienda 1", "TV", "Electrónicos", 500, 2, 30),
			sale("Tienda 2", "Mesa", "Muebles", 50, 3, 10),
			sale("Tienda 3", "Cama", "Muebles", 80, 4, 1),
		}, analysis.DefaultTopN)
		report.New(&buf).WriteRecommendation(s)

		Convey("Then its shipping cost is called out as not compensating", func() {
			So(buf.String(), ShouldContainSubstring, "Su costo de envío promedio (10.00) no compensa su bajo rendimiento en ventas")
			So(buf.String(), ShouldContainSubstring, "a pesar de tener las calificaciones más bajas y los costos de envío más altos")
		})
	})

	Convey("Given a single store", t, func() {
		var buf bytes.Buffer
		s := analysis.Summarize([]sales.Record{sale("Tienda 1", "TV", "Electrónicos", 100, 3, 20)}, analysis.DefaultTopN)
		report.New(&buf).WriteRecommendation(s)

		Convey("Then no comparison is possible and the store is kept", func() {
			So(buf.String(), ShouldContainSubstring, "no es posible comparar tiendas")
			So(buf.String(), ShouldContainSubstring, "Se recomienda mantener la Tienda 1")
			So(buf.String(), ShouldNotContainSubstring, "vender")
		})
	})

	Convey("Given stores with equal revenue", t, func() {
		var buf bytes.Buffer
		s := analysis.Summarize([]sales.Record{
			sale("Tienda 1", "TV", "Electrónicos", 100, 3, 20),
			sale("Tienda 2", "Mesa", "Muebles", 100, 4, 10),
		}, analysis.DefaultTopN)
		report.New(&buf).WriteRecommendation(s)

		Convey("Then there is no candidate", func() {
			So(buf.String(), ShouldContainSubstring, "no hay una candidata clara para vender")
		})
	})

	Convey("Given no sales", t, func() {
		var buf bytes.Buffer
		report.New(&buf).WriteRecommendation(analysis.Summarize(nil, analysis.DefaultTopN))

		Convey("Then the recommendation says so", func() {
			So(buf.String(), ShouldContainSubstring, "No hay datos de ventas")
		})
	})
}

func TestTranscript(t *testing.T) {
	run := func() string {
		var buf bytes.Buffer
		r := report.New(&buf)
		r.LoadStarted()
		r.Loaded([]sales.Table{
			{Store: "Tienda 1", Rows: make([][]string, 2)},
			{Store: "Tienda 4", Rows: make([][]string, 2)},
		})
		r.LoadFinished()
		r.AnalysisStarted()
		s := twoStores()
		r.WriteResults(s)
		r.WriteRecommendation(s)
		r.ChartsStarted()
		r.Completed()
		return buf.String()
	}

	Convey("Given a complete run transcript", t, func() {
		out := run()

		Convey("Then the stages appear in order", func() {
			So(out, ShouldStartWith, "Cargando datos desde URLs...\nDatos cargados: Tienda 1 (2 registros)\nDatos cargados: Tienda 4 (2 registros)\nDatos cargados exitosamente.\n\nRealizando el análisis de métricas clave...\n")
			So(out, ShouldContainSubstring, wantResults+wantRecommendation+"\nGenerando visualizaciones...\n")
			So(out, ShouldEndWith, "\nAnálisis completado. Los gráficos se han guardado como archivos PNG.\n")
		})

		Convey("Then a second run prints the same bytes", func() {
			So(run(), ShouldEqual, out)
		})
	})
}

type failingWriter struct{ calls int }

func (w *failingWriter) Write(p []byte) (int, error) {
	w.calls++
	return 0, errors.New("disk full")
}

func TestStickyError(t *testing.T) {
	Convey("Given a writer that fails", t, func() {
		w := &failingWriter{}
		r := report.New(w)
		r.LoadStarted()
		r.WriteResults(twoStores())

		Convey("Then the first error is kept and later writes are skipped", func() {
			So(r.Err(), ShouldNotBeNil)
			So(r.Err().Error(), ShouldEqual, "disk full")
			So(w.calls, ShouldEqual, 1)
		})
	})
}
