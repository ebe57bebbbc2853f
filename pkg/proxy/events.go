package proxy

import "time"

// FindEvent describes one selector search.
type FindEvent struct {
	Selector string
	ScopeID  string
	Matches  int
	Elapsed  time.Duration
}

// DeleteEvent describes one delete call, successful or not.
type DeleteEvent struct {
	ID   string
	Kind Kind
	// Removed counts the nodes that left the model, the deleted node included.
	Removed int
	Err     error
}

// AttrEvent describes one attribute write, successful or not.
type AttrEvent struct {
	ID  string
	Key string
	Err error
}

// Hooks are observability callbacks fired by proxies created from a Factory.
// Nil callbacks are skipped.
type Hooks struct {
	OnFind    func(*FindEvent)
	OnDelete  func(*DeleteEvent)
	OnAttrSet func(*AttrEvent)
}

func (h Hooks) find(e *FindEvent) {
	if h.OnFind != nil {
		h.OnFind(e)
	}
}

func (h Hooks) delete(e *DeleteEvent) {
	if h.OnDelete != nil {
		h.OnDelete(e)
	}
}

func (h Hooks) attrSet(e *AttrEvent) {
	if h.OnAttrSet != nil {
		h.OnAttrSet(e)
	}
}

// Merge returns hooks that fire h first and then other.
func (h Hooks) Merge(other Hooks) Hooks {
	return Hooks{
		OnFind: func(e *FindEvent) {
			h.find(e)
			other.find(e)
		},
		OnDelete: func(e *DeleteEvent) {
			h.delete(e)
			other.delete(e)
		},
		OnAttrSet: func(e *AttrEvent) {
			h.attrSet(e)
			other.attrSet(e)
		},
	}
}
