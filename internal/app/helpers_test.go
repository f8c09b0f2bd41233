package service_test

import (
	"github.com/okian/alurastore/internal/domain/analysis"
	"github.com/okian/alurastore/internal/domain/sales"
)

func summaryOf(tables []sales.Table) analysis.Summary {
	u, err := sales.Consolidate(tables)
	if err != nil {
		panic(err)
	}
	records, err := sales.Normalize(u)
	if err != nil {
		panic(err)
	}
	return analysis.Summarize(records, analysis.DefaultTopN)
}
