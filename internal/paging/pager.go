// Package paging splits an immutable snapshot into fixed-size pages and keeps
// snapshots addressable by token so clients can come back to any page.
package paging

import "errors"

var ErrPageOutOfRange = errors.New("page out of range")

// Pager never copies or reorders items; page n is the same slice window on every call.
type Pager[T any] struct {
	items []T
	size  int
}

func New[T any](items []T, size int) *Pager[T] {
	if size <= 0 {
		size = 1
	}
	return &Pager[T]{items: items, size: size}
}

func (p *Pager[T]) PageSize() int { return p.size }

func (p *Pager[T]) Len() int { return len(p.items) }

func (p *Pager[T]) Empty() bool { return len(p.items) == 0 }

// PageCount is 0 for an empty snapshot.
func (p *Pager[T]) PageCount() int {
	return (len(p.items) + p.size - 1) / p.size
}

// Page returns the zero-based page n along with the offset of its first item.
func (p *Pager[T]) Page(n int) ([]T, int, error) {
	if n < 0 || n >= p.PageCount() {
		return nil, 0, ErrPageOutOfRange
	}
	start := n * p.size
	end := min(start+p.size, len(p.items))
	return p.items[start:end:end], start, nil
}
