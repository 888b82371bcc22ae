package store

import (
	"sort"

	"github.com/samber/lo"
)

// Matches evaluates every filter of q against doc. Used by backends
// that filter in-process.
func (q Query) Matches(doc Document) bool {
	for _, f := range q.Filters {
		switch f.Op {
		case OpEq:
			if !equalValues(doc.Fields[f.Field], f.Value) {
				return false
			}
		case OpArrayContains:
			needle, ok := f.Value.(string)
			if !ok || !lo.Contains(doc.Strings(f.Field), needle) {
				return false
			}
		}
	}
	return true
}

// Apply filters, orders, and limits docs in-process, for backends
// whose storage layer cannot evaluate the query itself. Ties are
// always broken by document id so the result order is total.
func (q Query) Apply(docs []Document) []Document {
	out := lo.Filter(docs, func(d Document, _ int) bool {
		return q.Matches(d)
	})
	sort.SliceStable(out, func(i, j int) bool {
		return q.less(out[i], out[j])
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

func (q Query) less(a, b Document) bool {
	for _, o := range q.Orders {
		c := compareValues(a.Fields[o.Field], b.Fields[o.Field])
		if c == 0 {
			continue
		}
		if o.Direction == Descending {
			return c > 0
		}
		return c < 0
	}
	return a.ID < b.ID
}

// compareValues orders two field values: nil first, then times,
// numbers, and strings.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	at, bt := toTime(a), toTime(b)
	if !at.IsZero() && !bt.IsZero() {
		switch {
		case at.Before(bt):
			return -1
		case at.After(bt):
			return 1
		}
		return 0
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}
	as, _ := a.(string)
	bs, _ := b.(string)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	}
	return 0
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func equalValues(a, b any) bool {
	return compareValues(a, b) == 0 && (a == nil) == (b == nil)
}
