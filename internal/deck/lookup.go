package deck

import (
	"fmt"

	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance bounds how far a typo may be from a real id.
const maxSuggestDistance = 3

// UnknownIDError is returned when no panel carries the requested id.
type UnknownIDError struct {
	ID         string
	Suggestion string
}

func (e *UnknownIDError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown slide id %q (did you mean %q?)", e.ID, e.Suggestion)
	}
	return fmt.Sprintf("unknown slide id %q", e.ID)
}

// Resolve finds the coordinates of the panel with the given id.
func (d *Deck) Resolve(id string) (h, v int, err error) {
	found := false
	best, bestDist := "", maxSuggestDistance+1
	d.Walk(func(ph, pv int, p *Panel) {
		if found || p.ID == "" {
			return
		}
		if p.ID == id {
			h, v, found = ph, pv, true
			return
		}
		if dist := levenshtein.ComputeDistance(id, p.ID); dist < bestDist {
			best, bestDist = p.ID, dist
		}
	})
	if found {
		return h, v, nil
	}
	return 0, 0, &UnknownIDError{ID: id, Suggestion: best}
}

// IDs returns every panel id in document order.
func (d *Deck) IDs() []string {
	var ids []string
	d.Walk(func(_, _ int, p *Panel) {
		if p.ID != "" {
			ids = append(ids, p.ID)
		}
	})
	return ids
}
