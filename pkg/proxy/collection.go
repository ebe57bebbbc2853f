package proxy

import (
	"iter"
	"slices"
)

// Collection is an ordered list of proxies. It keeps insertion order and
// does not remove duplicates. The zero value is an empty collection.
type Collection struct {
	items []Proxy
	f     *Factory
}

// NewCollection creates a collection holding items.
func NewCollection(f *Factory, items ...Proxy) *Collection {
	return &Collection{items: slices.Clone(items), f: f.orDefault()}
}

// Len returns the number of proxies.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// IsEmpty reports whether the collection holds nothing.
func (c *Collection) IsEmpty() bool {
	return c.Len() == 0
}

// Get returns the proxy at index i, or the empty proxy when i is out of range.
func (c *Collection) Get(i int) Proxy {
	if i < 0 || i >= c.Len() {
		return c.factory().Wrap(nil)
	}
	return c.items[i]
}

// First returns the first proxy, or the empty proxy.
func (c *Collection) First() Proxy {
	return c.Get(0)
}

// Add appends proxies. Nil values are skipped.
func (c *Collection) Add(items ...Proxy) *Collection {
	for _, p := range items {
		if p != nil {
			c.items = append(c.items, p)
		}
	}
	return c
}

// All iterates over index and proxy pairs.
func (c *Collection) All() iter.Seq2[int, Proxy] {
	return func(yield func(int, Proxy) bool) {
		for i := 0; i < c.Len(); i++ {
			if !yield(i, c.items[i]) {
				return
			}
		}
	}
}

// IDs returns the ids of the proxies in order.
func (c *Collection) IDs() []string {
	ids := make([]string, 0, c.Len())
	for _, p := range c.All() {
		ids = append(ids, p.ID())
	}
	return ids
}

// Filter keeps the members matched by selector. An invalid selector keeps nothing.
func (c *Collection) Filter(selector string) *Collection {
	out := &Collection{f: c.factory()}
	filter := out.f.compiler.Compile(selector)
	if filter == nil {
		return out
	}
	for _, p := range c.All() {
		if filter.Accept(p.Node()) {
			out.Add(p)
		}
	}
	return out
}

// Find concatenates the Find results of every member.
func (c *Collection) Find(selectors ...string) *Collection {
	out := &Collection{f: c.factory()}
	for _, p := range c.All() {
		out.Add(p.Find(selectors...).items...)
	}
	return out
}

// Delete deletes every member in order and stops at the first error.
// Members already removed by an earlier cascade are skipped.
func (c *Collection) Delete() error {
	for _, p := range c.All() {
		if n := p.Node(); n == nil || n.Model() == nil {
			continue
		}
		if err := p.Delete(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collection) factory() *Factory {
	if c == nil {
		return fallbackFactory()
	}
	return c.f.orDefault()
}
