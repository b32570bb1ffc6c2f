// Package pipeline provides the typed stages the analytics queries are
// composed from: filter, flatten, group, sort, truncate, project. Each stage
// is a generic function, so a query reads as a statically-checked chain of
// transforms instead of a loosely-typed stage array.
package pipeline

import "sort"

// Match keeps the elements for which pred returns true.
func Match[T any](in []T, pred func(T) bool) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if pred(v) {
			out = append(out, v)
		}
	}
	return out
}

// Unwind flattens each element into zero or more elements of another type,
// preserving order. It is the typed equivalent of unwinding an embedded
// array field.
func Unwind[T, E any](in []T, f func(T) []E) []E {
	var out []E
	for _, v := range in {
		out = append(out, f(v)...)
	}
	return out
}

// GroupBy buckets elements by key and folds each bucket into an accumulator.
// The zero value of A seeds every bucket.
func GroupBy[T any, K comparable, A any](in []T, key func(T) K, fold func(A, T) A) map[K]A {
	out := make(map[K]A)
	for _, v := range in {
		k := key(v)
		out[k] = fold(out[k], v)
	}
	return out
}

// SortBy returns a sorted copy of in. The sort is stable so callers can
// layer tie-breaks by composing less functions.
func SortBy[T any](in []T, less func(a, b T) bool) []T {
	out := make([]T, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// Head truncates to at most n elements. n <= 0 yields an empty slice.
func Head[T any](in []T, n int) []T {
	if n <= 0 {
		return []T{}
	}
	if len(in) <= n {
		return in
	}
	return in[:n]
}

// Map projects each element through f.
func Map[T, R any](in []T, f func(T) R) []R {
	out := make([]R, len(in))
	for i, v := range in {
		out[i] = f(v)
	}
	return out
}
