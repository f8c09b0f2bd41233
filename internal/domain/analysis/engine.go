package analysis

import (
	"sort"

	"github.com/okian/alurastore/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// DefaultTopN is the number of groups kept per store by the ranked metrics.
const DefaultTopN = 3

// meanPrecision is the number of decimal places kept by averages.
const meanPrecision = 16

type accumulator struct {
	sum   decimal.Decimal
	count int64
}

// perStore accumulates field per store. The returned order is the order in
// which stores first appear in records.
func perStore(records []sales.Record, field func(sales.Record) decimal.Decimal) ([]string, map[string]*accumulator) {
	var order []string
	acc := make(map[string]*accumulator)
	for _, r := range records {
		a, ok := acc[r.Store]
		if !ok {
			a = &accumulator{}
			acc[r.Store] = a
			order = append(order, r.Store)
		}
		a.sum = a.sum.Add(field(r))
		a.count++
	}
	return order, acc
}

func sortDesc(v StoreValues) StoreValues {
	sort.SliceStable(v, func(i, j int) bool { return v[i].Value.GreaterThan(v[j].Value) })
	return v
}

func price(r sales.Record) decimal.Decimal    { return r.Price }
func rating(r sales.Record) decimal.Decimal   { return r.Rating }
func shipping(r sales.Record) decimal.Decimal { return r.ShippingCost }

func totals(records []sales.Record, field func(sales.Record) decimal.Decimal) StoreValues {
	order, acc := perStore(records, field)
	out := make(StoreValues, 0, len(order))
	for _, s := range order {
		out = append(out, StoreValue{Store: s, Value: acc[s].sum})
	}
	return sortDesc(out)
}

func means(records []sales.Record, field func(sales.Record) decimal.Decimal) StoreValues {
	order, acc := perStore(records, field)
	out := make(StoreValues, 0, len(order))
	for _, s := range order {
		a := acc[s]
		out = append(out, StoreValue{Store: s, Value: a.sum.DivRound(decimal.NewFromInt(a.count), meanPrecision)})
	}
	return sortDesc(out)
}

// TotalRevenue sums the price of every sale per store.
func TotalRevenue(records []sales.Record) StoreValues { return totals(records, price) }

// AverageRating is the arithmetic mean of ratings per store.
func AverageRating(records []sales.Record) StoreValues { return means(records, rating) }

// AverageShipping is the arithmetic mean of shipping cost per store.
func AverageShipping(records []sales.Record) StoreValues { return means(records, shipping) }

// TopCategories ranks categories by revenue within each store.
func TopCategories(records []sales.Record, n int) Ranking {
	return TopN(records, n, func(r sales.Record) string { return r.Category })
}

// TopProducts ranks products by revenue within each store.
func TopProducts(records []sales.Record, n int) Ranking {
	return TopN(records, n, func(r sales.Record) string { return r.Product })
}

// TopN groups records by (store, key), sums price and keeps the n largest
// groups of every store. Equal sums keep the order in which the keys first
// appear in records.
func TopN(records []sales.Record, n int, key func(sales.Record) string) Ranking {
	type partition struct {
		groups []GroupValue
		index  map[string]int
	}

	var stores []string
	parts := make(map[string]*partition)
	for _, r := range records {
		p, ok := parts[r.Store]
		if !ok {
			p = &partition{index: make(map[string]int)}
			parts[r.Store] = p
			stores = append(stores, r.Store)
		}
		k := key(r)
		i, ok := p.index[k]
		if !ok {
			i = len(p.groups)
			p.index[k] = i
			p.groups = append(p.groups, GroupValue{Key: k})
		}
		p.groups[i].Value = p.groups[i].Value.Add(r.Price)
	}

	if n < 0 {
		n = 0
	}
	out := make(Ranking, 0, len(stores))
	for _, s := range stores {
		g := parts[s].groups
		sort.SliceStable(g, func(i, j int) bool { return g[i].Value.GreaterThan(g[j].Value) })
		if len(g) > n {
			g = g[:n]
		}
		out = append(out, StoreRanking{Store: s, Groups: g})
	}
	return out
}

// Summarize computes all five metrics.
func Summarize(records []sales.Record, n int) Summary {
	stores, _ := perStore(records, price)
	return Summary{
		Stores:     stores,
		Revenue:    TotalRevenue(records),
		Rating:     AverageRating(records),
		Shipping:   AverageShipping(records),
		Categories: TopCategories(records, n),
		Products:   TopProducts(records, n),
		TopN:       n,
	}
}
