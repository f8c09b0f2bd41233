// Package analysis computes comparative store metrics over normalized sales
// records. Every function is pure: identical input yields identical output,
// including the order of ties.
package analysis

import "github.com/shopspring/decimal"

// StoreValue is a scalar metric for one store.
type StoreValue struct {
	Store string
	Value decimal.Decimal
}

// StoreValues is a scalar metric for every store that has rows, sorted by
// value descending.
type StoreValues []StoreValue

// Get returns the value recorded for store.
func (v StoreValues) Get(store string) (decimal.Decimal, bool) {
	for _, sv := range v {
		if sv.Store == store {
			return sv.Value, true
		}
	}
	return decimal.Zero, false
}

// Max returns the entry with the largest value; the earliest wins a tie.
func (v StoreValues) Max() (StoreValue, bool) {
	return v.pick(func(a, b decimal.Decimal) bool { return a.GreaterThan(b) })
}

// Min returns the entry with the smallest value; the earliest wins a tie.
func (v StoreValues) Min() (StoreValue, bool) {
	return v.pick(func(a, b decimal.Decimal) bool { return a.LessThan(b) })
}

func (v StoreValues) pick(better func(a, b decimal.Decimal) bool) (StoreValue, bool) {
	if len(v) == 0 {
		return StoreValue{}, false
	}
	best := v[0]
	for _, sv := range v[1:] {
		if better(sv.Value, best.Value) {
			best = sv
		}
	}
	return best, true
}

// Labels returns the store labels in result order.
func (v StoreValues) Labels() []string {
	out := make([]string, len(v))
	for i, sv := range v {
		out[i] = sv.Store
	}
	return out
}

// Floats returns the values in result order as float64.
func (v StoreValues) Floats() []float64 {
	out := make([]float64, len(v))
	for i, sv := range v {
		out[i] = sv.Value.InexactFloat64()
	}
	return out
}

// GroupValue is the summed revenue of one group (category or product).
type GroupValue struct {
	Key   string
	Value decimal.Decimal
}

// StoreRanking holds the top groups of one store.
type StoreRanking struct {
	Store  string
	Groups []GroupValue
}

// Ranking holds the top groups of every store, stores in input order.
type Ranking []StoreRanking

// Keys returns every distinct group key in ranking order.
func (r Ranking) Keys() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, sr := range r {
		for _, g := range sr.Groups {
			if !seen[g.Key] {
				seen[g.Key] = true
				keys = append(keys, g.Key)
			}
		}
	}
	return keys
}

// Summary bundles the five metrics computed for a run.
type Summary struct {
	Stores     []string // input order
	Revenue    StoreValues
	Rating     StoreValues
	Shipping   StoreValues
	Categories Ranking
	Products   Ranking
	TopN       int
}
