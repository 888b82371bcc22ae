// Package store defines the document-store contract the services are
// written against: filtered reads, inserts, partial updates, and live
// queries delivering full result snapshots. Backends live in the
// subpackages.
package store

import (
	"context"
	"time"
)

type Op int

const (
	OpEq Op = iota
	OpArrayContains
)

type Direction int

const (
	Ascending Direction = iota
	Descending
)

type Filter struct {
	Field string
	Op    Op
	Value any
}

func Eq(field string, value any) Filter {
	return Filter{Field: field, Op: OpEq, Value: value}
}

// ArrayContains matches documents whose field, a string sequence,
// contains value. Backends support at most one of these per query;
// further membership tests must be applied by the caller on the
// result set.
func ArrayContains(field, value string) Filter {
	return Filter{Field: field, Op: OpArrayContains, Value: value}
}

type Order struct {
	Field     string
	Direction Direction
}

type Query struct {
	Filters []Filter
	Orders  []Order
	Limit   int
}

// serverTime is the sentinel replaced by the backend's own clock at
// write time.
type serverTime struct{}

// ServerTimestamp marks a field to be assigned by the store, not the
// caller.
var ServerTimestamp = serverTime{}

// Document is an id plus a field map. Accessors normalize the value
// types the backends produce (JSON round-trips turn times into
// strings and numbers into float64).
type Document struct {
	ID     string
	Fields map[string]any
}

func (d Document) String(field string) string {
	if s, ok := d.Fields[field].(string); ok {
		return s
	}
	return ""
}

func (d Document) Strings(field string) []string {
	switch v := d.Fields[field].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func (d Document) Time(field string) time.Time {
	return toTime(d.Fields[field])
}

func toTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}
		}
		return parsed
	}
	return time.Time{}
}

// Store is the contract every backend implements. All operations are
// context-bound; Subscribe returns a live query whose snapshots are
// complete result sets, causally ordered and possibly coalesced.
type Store interface {
	Get(ctx context.Context, collection string, q Query) ([]Document, error)
	Insert(ctx context.Context, collection string, fields map[string]any) (string, error)
	Update(ctx context.Context, collection string, id string, fields map[string]any) error
	Subscribe(ctx context.Context, collection string, q Query) (*Subscription, error)
	Close() error
}
