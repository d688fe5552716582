package watcher

import (
	"fmt"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/zjrosen/podium/internal/deck"
)

// PanelChange describes how one panel differs after a reload.
type PanelChange struct {
	H, V int
	// Kind is "added", "removed" or "edited".
	Kind string
	// Inserted and Deleted count changed characters of an edited panel.
	Inserted, Deleted int
}

func (c PanelChange) String() string {
	if c.Kind == "edited" {
		return fmt.Sprintf("%d/%d edited (+%d -%d)", c.H, c.V, c.Inserted, c.Deleted)
	}
	return fmt.Sprintf("%d/%d %s", c.H, c.V, c.Kind)
}

// Changes compares two decks panel by panel, by position.
func Changes(before, after *deck.Deck) []PanelChange {
	dmp := diffmatchpatch.New()
	type key struct{ h, v int }
	old := map[key]*deck.Panel{}
	before.Walk(func(h, v int, p *deck.Panel) { old[key{h, v}] = p })

	var out []PanelChange
	after.Walk(func(h, v int, p *deck.Panel) {
		k := key{h, v}
		prev, ok := old[k]
		delete(old, k)
		if !ok {
			out = append(out, PanelChange{H: h, V: v, Kind: "added"})
			return
		}
		a, b := panelText(prev), panelText(p)
		if a == b {
			return
		}
		c := PanelChange{H: h, V: v, Kind: "edited"}
		for _, d := range dmp.DiffMain(a, b, false) {
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				c.Inserted += len([]rune(d.Text))
			case diffmatchpatch.DiffDelete:
				c.Deleted += len([]rune(d.Text))
			}
		}
		out = append(out, c)
	})
	before.Walk(func(h, v int, _ *deck.Panel) {
		if _, gone := old[key{h, v}]; gone {
			out = append(out, PanelChange{H: h, V: v, Kind: "removed"})
		}
	})
	return out
}

func panelText(p *deck.Panel) string {
	s := p.Title + "\n" + p.Body + "\n" + p.Notes
	for _, f := range p.Fragments {
		s += "\n" + f.Text
	}
	return s
}
