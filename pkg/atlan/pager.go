package atlan

import (
	"context"
	"iter"
	"time"

	"github.com/matzehuels/atlan-go/pkg/observability"
)

// Page is one fetched page of a listing.
type Page[T any] struct {
	Items []T
	Total int  // total matching items reported by the server, if known
	More  bool // whether another page should be requested
}

// PageFunc fetches limit items starting at offset.
type PageFunc[T any] func(ctx context.Context, offset, limit int) (Page[T], error)

// Pager walks a paged listing. Call Next until it returns false, reading
// each page with Current, then check Err:
//
//	for p.Next(ctx) {
//	    for _, u := range p.Current() { ... }
//	}
//	if err := p.Err(); err != nil { ... }
//
// Or range over All. A Pager is not safe for concurrent use.
type Pager[T any] struct {
	kind    string
	size    int
	fetch   PageFunc[T]
	key     func(T) string
	seen    map[string]struct{}
	offset  int
	current []T
	total   int
	started bool
	done    bool
	err     error
}

// NewPager creates a pager over fetch with the given page size.
// kind names the listing in paging hooks.
func NewPager[T any](kind string, size int, fetch PageFunc[T]) *Pager[T] {
	return &Pager[T]{kind: kind, size: size, fetch: fetch}
}

// dedupBy drops items whose key was seen on an earlier page. Offsets still
// advance by the raw page length.
func (p *Pager[T]) dedupBy(key func(T) string) *Pager[T] {
	p.key = key
	p.seen = map[string]struct{}{}
	return p
}

// Next fetches the next non-empty page. It returns false when the listing
// is exhausted or a request failed.
func (p *Pager[T]) Next(ctx context.Context) bool {
	for !p.done && p.err == nil {
		start := time.Now()
		page, err := p.fetch(ctx, p.offset, p.size)
		observability.Paging().OnPage(ctx, p.kind, p.offset, len(page.Items), time.Since(start), err)
		if err != nil {
			p.err = err
			break
		}
		p.started = true
		p.total = page.Total
		p.offset += len(page.Items)
		p.done = !page.More || len(page.Items) == 0
		p.current = p.filter(page.Items)
		if len(p.current) > 0 {
			return true
		}
	}
	p.current = nil
	return false
}

func (p *Pager[T]) filter(items []T) []T {
	if p.key == nil {
		return items
	}
	out := items[:0:0]
	for _, it := range items {
		k := p.key(it)
		if _, ok := p.seen[k]; ok {
			continue
		}
		p.seen[k] = struct{}{}
		out = append(out, it)
	}
	return out
}

// Current returns the items of the last page fetched by Next.
func (p *Pager[T]) Current() []T { return p.current }

// Total returns the server-reported total from the last page.
func (p *Pager[T]) Total() int { return p.total }

// Err returns the error that stopped paging, if any.
func (p *Pager[T]) Err() error { return p.err }

// All yields every remaining item, starting with the current page if one
// was already fetched. A failure is yielded once as the final element.
func (p *Pager[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		if p.started {
			for _, v := range p.current {
				if !yield(v, nil) {
					return
				}
			}
		}
		for p.Next(ctx) {
			for _, v := range p.current {
				if !yield(v, nil) {
					return
				}
			}
		}
		if p.err != nil {
			var zero T
			yield(zero, p.err)
		}
	}
}

// Collect drains All into a slice.
func (p *Pager[T]) Collect(ctx context.Context) ([]T, error) {
	var out []T
	for v, err := range p.All(ctx) {
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}

// hasMore reports whether an offset listing continues past this page.
func hasMore(offset, n, total int) bool {
	return n > 0 && offset+n < total
}
