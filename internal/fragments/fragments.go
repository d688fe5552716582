// Package fragments orders and reveals the sub-elements of a single panel.
package fragments

import (
	"sort"

	"github.com/zjrosen/podium/internal/deck"
)

// Sort orders fs in place: explicitly indexed fragments first, grouped and
// ascending by index, then unindexed fragments in document order, each in its
// own group. Every fragment is then given the dense index of its group, so a
// second pass yields the same indices.
func Sort(fs []*deck.Fragment) [][]*deck.Fragment {
	indexed := make(map[int][]*deck.Fragment)
	var keys []int
	var unordered [][]*deck.Fragment

	for _, f := range fs {
		if f.Index == nil {
			unordered = append(unordered, []*deck.Fragment{f})
			continue
		}
		i := *f.Index
		if _, ok := indexed[i]; !ok {
			keys = append(keys, i)
		}
		indexed[i] = append(indexed[i], f)
	}
	sort.Ints(keys)

	groups := make([][]*deck.Fragment, 0, len(keys)+len(unordered))
	for _, k := range keys {
		groups = append(groups, indexed[k])
	}
	groups = append(groups, unordered...)

	pos := 0
	for i, g := range groups {
		for _, f := range g {
			idx := i
			f.Index = &idx
			fs[pos] = f
			pos++
		}
	}
	return groups
}

// SortDeck sorts the fragments of every panel in d.
func SortDeck(d *deck.Deck) {
	d.Walk(func(_, _ int, p *deck.Panel) {
		Sort(p.Fragments)
	})
}

// Count returns the number of fragment groups of a sorted panel.
func Count(p *deck.Panel) int {
	n := 0
	if p == nil {
		return n
	}
	for _, f := range p.Fragments {
		if f.Order()+1 > n {
			n = f.Order() + 1
		}
	}
	return n
}

// Cursor returns the index of the last revealed group, or -1.
func Cursor(p *deck.Panel) int {
	cursor := -1
	if p == nil {
		return cursor
	}
	for _, f := range p.Fragments {
		if f.State.Shown() && f.Order() > cursor {
			cursor = f.Order()
		}
	}
	return cursor
}

// CurrentOrFirst returns a fragment of the current group, else the first
// fragment, else nil.
func CurrentOrFirst(p *deck.Panel) *deck.Fragment {
	if !p.HasFragments() {
		return nil
	}
	for _, f := range p.Fragments {
		if f.State == deck.Current {
			return f
		}
	}
	return p.Fragments[0]
}

// Visible counts revealed fragments and the total.
func Visible(p *deck.Panel) (visible, total int) {
	if p == nil {
		return 0, 0
	}
	for _, f := range p.Fragments {
		if f.State.Shown() {
			visible++
		}
	}
	return visible, len(p.Fragments)
}

// ShowAll marks every fragment visible without a current group.
func ShowAll(p *deck.Panel) {
	for _, f := range p.Fragments {
		f.State = deck.Visible
	}
}

// HideAll marks every fragment hidden.
func HideAll(p *deck.Panel) {
	for _, f := range p.Fragments {
		f.State = deck.Hidden
	}
}
