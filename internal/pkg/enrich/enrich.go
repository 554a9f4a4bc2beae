// Package enrich attaches counts and names from related tables to a list of
// rows with one batched query per relation.
package enrich

import (
	"context"
	"fmt"
	"slices"

	"github.com/ems-hr/ems-backend-go/internal/pkg/refid"
	"golang.org/x/sync/errgroup"
)

// CountFunc returns the number of dependents for each key. Keys with no
// dependents may be absent from the map.
type CountFunc func(ctx context.Context, keys []int64) (map[int64]int64, error)

// FetchFunc returns the related value for each key that exists.
type FetchFunc[V any] func(ctx context.Context, keys []int64) (map[int64]V, error)

// Relation describes one relation to attach to rows of type T.
type Relation[T any] struct {
	name string
	load func(ctx context.Context, rows []T) (func(*T), error)
}

// Count attaches the number of dependents found for key(row). Rows whose key
// has no dependents receive 0.
func Count[T any](name string, key func(T) int64, count CountFunc, set func(*T, int64)) Relation[T] {
	return Relation[T]{
		name: name,
		load: func(ctx context.Context, rows []T) (func(*T), error) {
			keys := collectKeys(rows, key)
			counts := map[int64]int64{}
			if len(keys) > 0 {
				var err error
				if counts, err = count(ctx, keys); err != nil {
					return nil, err
				}
			}
			return func(row *T) {
				set(row, counts[key(*row)])
			}, nil
		},
	}
}

// Lookup attaches the related value for key(row). set receives found=false
// when the reference is dangling so callers can choose a fallback.
func Lookup[T any, V any](name string, key func(T) int64, fetch FetchFunc[V], set func(row *T, value V, found bool)) Relation[T] {
	return Relation[T]{
		name: name,
		load: func(ctx context.Context, rows []T) (func(*T), error) {
			keys := collectKeys(rows, key)
			values := map[int64]V{}
			if len(keys) > 0 {
				var err error
				if values, err = fetch(ctx, keys); err != nil {
					return nil, err
				}
			}
			return func(row *T) {
				v, ok := values[key(*row)]
				set(row, v, ok)
			}, nil
		},
	}
}

// Apply returns a copy of rows with every relation attached. The input slice is
// never modified. Relations load concurrently and are applied in the order given,
// so a later relation may overwrite a field set by an earlier one.
func Apply[T any](ctx context.Context, rows []T, relations ...Relation[T]) ([]T, error) {
	out := slices.Clone(rows)
	if out == nil {
		out = []T{}
	}
	if len(out) == 0 || len(relations) == 0 {
		return out, nil
	}

	appliers := make([]func(*T), len(relations))
	g, gctx := errgroup.WithContext(ctx)
	for i, rel := range relations {
		g.Go(func() error {
			apply, err := rel.load(gctx, out)
			if err != nil {
				return fmt.Errorf("enrich %s: %w", rel.name, err)
			}
			appliers[i] = apply
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range out {
		for _, apply := range appliers {
			apply(&out[i])
		}
	}
	return out, nil
}

func collectKeys[T any](rows []T, key func(T) int64) []int64 {
	keys := make([]int64, 0, len(rows))
	for _, row := range rows {
		keys = append(keys, key(row))
	}
	return refid.Distinct(keys)
}
