// Package listing flattens paginated AWS list calls into a single lazy
// sequence of items.
package listing

import (
	"context"
	"iter"
)

// Pager is satisfied by the paginators generated in aws-sdk-go-v2,
// e.g. *iam.ListUsersPaginator with O = *iam.Options.
type Pager[P any, O any] interface {
	HasMorePages() bool
	NextPage(ctx context.Context, optFns ...func(O)) (P, error)
}

// Flatten yields the items batch selects from every page, in page order.
// Only the current page is held in memory. A page error is yielded once
// and ends the sequence. The underlying pager is consumed, so ranging a
// second time yields nothing.
func Flatten[P, O, T any](ctx context.Context, pager Pager[P, O], batch func(P) []T) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for pager.HasMorePages() {
			page, err := pager.NextPage(ctx)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			for _, item := range batch(page) {
				if !yield(item, nil) {
					return
				}
			}
		}
	}
}

// Map converts every item of seq with fn, passing errors through.
func Map[T, R any](seq iter.Seq2[T, error], fn func(T) R) iter.Seq2[R, error] {
	return func(yield func(R, error) bool) {
		for item, err := range seq {
			if err != nil {
				var zero R
				yield(zero, err)
				return
			}
			if !yield(fn(item), nil) {
				return
			}
		}
	}
}

// Collect drains seq, returning the items read before the first error.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	items := []T{}
	for item, err := range seq {
		if err != nil {
			return items, err
		}
		items = append(items, item)
	}
	return items, nil
}
