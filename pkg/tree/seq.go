package tree

import "iter"

// Collect materializes a sequence into a slice. A nil sequence yields nil.
func Collect[T any](seq iter.Seq[T]) []T {
	if seq == nil {
		return nil
	}
	var out []T
	for v := range seq {
		out = append(out, v)
	}
	return out
}

// seqOf returns a sequence over the given items.
func seqOf[T any](items ...T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range items {
			if !yield(v) {
				return
			}
		}
	}
}

// mapSeq lazily applies f to every item of seq. Consumes seq at most once.
func mapSeq[A, B any](seq iter.Seq[A], f func(A) B) iter.Seq[B] {
	return func(yield func(B) bool) {
		if seq == nil {
			return
		}
		for v := range seq {
			if !yield(f(v)) {
				return
			}
		}
	}
}

// prepend returns a sequence yielding head first, then whatever tail yields.
// Used to re-splice items that were materialized during lookahead back in
// front of the unread remainder, so no item is lost or duplicated.
func prepend[T any](head []T, tail iter.Seq[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range head {
			if !yield(v) {
				return
			}
		}
		if tail == nil {
			return
		}
		for v := range tail {
			if !yield(v) {
				return
			}
		}
	}
}

// take materializes up to n items of seq and returns them together with the
// unread tail as a new sequence. The tail shares the underlying iteration
// state, so both the call and its result consume seq exactly once in total.
// A nil tail means the sequence was exhausted within the first n items.
func take[T any](seq iter.Seq[T], n int) ([]T, iter.Seq[T]) {
	if seq == nil {
		return nil, nil
	}
	next, stop := iter.Pull(seq)
	head := make([]T, 0, n)
	for len(head) < n {
		v, ok := next()
		if !ok {
			stop()
			return head, nil
		}
		head = append(head, v)
	}
	tail := func(yield func(T) bool) {
		defer stop()
		for {
			v, ok := next()
			if !ok {
				return
			}
			if !yield(v) {
				return
			}
		}
	}
	return head, tail
}
