package machine

import (
	"strings"

	"github.com/dolthub/swiss"
	"golang.org/x/exp/slices"
)

// Label is a security label: an unordered set of string tags (spec.md §3).
// The partial order is subset inclusion, join is union, and bottom is the
// empty set. It is backed by a swiss-table set, the same structure the
// teacher package uses for its language-level Map value (lang/machine/map.go
// in the original nenuphar tree), since a label is exactly a small hash set.
//
// The zero value is the empty (public) label and is ready to use.
type Label struct {
	m *swiss.Map[string, struct{}]
}

// NewLabel returns a label containing the given tags.
func NewLabel(tags ...string) Label {
	if len(tags) == 0 {
		return Label{}
	}
	m := swiss.NewMap[string, struct{}](uint32(len(tags)))
	for _, t := range tags {
		m.Put(t, struct{}{})
	}
	return Label{m: m}
}

// Empty is the bottom label, the empty (public) set.
var Empty = Label{}

// Len returns the number of tags in the label.
func (l Label) Len() int {
	if l.m == nil {
		return 0
	}
	return l.m.Count()
}

// Contains reports whether tag is in the label.
func (l Label) Contains(tag string) bool {
	if l.m == nil {
		return false
	}
	return l.m.Has(tag)
}

// Tags returns the label's tags in sorted order, for deterministic output.
func (l Label) Tags() []string {
	if l.m == nil || l.m.Count() == 0 {
		return nil
	}
	tags := make([]string, 0, l.m.Count())
	l.m.Iter(func(k string, _ struct{}) bool {
		tags = append(tags, k)
		return false
	})
	slices.Sort(tags)
	return tags
}

// Union returns the join of l and o: a new label containing every tag from
// both. Neither l nor o is mutated.
func (l Label) Union(o Label) Label {
	if l.Len() == 0 {
		return o.clone()
	}
	if o.Len() == 0 {
		return l.clone()
	}
	out := l.clone()
	o.m.Iter(func(k string, _ struct{}) bool {
		out.m.Put(k, struct{}{})
		return false
	})
	return out
}

// clone returns an independent copy of l.
func (l Label) clone() Label {
	if l.Len() == 0 {
		return Label{}
	}
	m := swiss.NewMap[string, struct{}](uint32(l.m.Count()))
	l.m.Iter(func(k string, _ struct{}) bool {
		m.Put(k, struct{}{})
		return false
	})
	return Label{m: m}
}

// Subset reports whether l ⊆ o.
func (l Label) Subset(o Label) bool {
	if l.Len() == 0 {
		return true
	}
	if l.m.Count() > o.Len() {
		return false
	}
	ok := true
	l.m.Iter(func(k string, _ struct{}) bool {
		if !o.Contains(k) {
			ok = false
			return true // stop iterating
		}
		return false
	})
	return ok
}

// Equal reports whether l and o contain exactly the same tags.
func (l Label) Equal(o Label) bool {
	return l.Len() == o.Len() && l.Subset(o)
}

// String renders the label as {"tag1","tag2"}, tags sorted, for debugging
// and for the labelPrint builtin.
func (l Label) String() string {
	tags := l.Tags()
	if len(tags) == 0 {
		return "{}"
	}
	quoted := make([]string, len(tags))
	for i, t := range tags {
		quoted[i] = `"` + t + `"`
	}
	return "{" + strings.Join(quoted, ",") + "}"
}
