package query

import (
	"errors"

	"github.com/agentic-research/depscope/api"
	"github.com/agentic-research/depscope/internal/model"
)

// Elements resolves each requested path independently. One bad path never
// aborts the batch: misses are reported inline as not-found entries and the
// batch as a whole succeeds.
func Elements(g *model.Graph, paths []string) *api.BatchResult {
	result := &api.BatchResult{
		Requested: len(paths),
		Entries:   make([]api.BatchEntry, 0, len(paths)),
	}
	for _, p := range paths {
		el, err := g.Resolve(p)
		if err != nil {
			result.Entries = append(result.Entries, api.BatchEntry{Path: p})
			result.NotFound = append(result.NotFound, p)
			continue
		}
		view := ElementView(el)
		result.Entries = append(result.Entries, api.BatchEntry{Path: p, Found: true, Element: &view})
		result.FoundCount++
	}
	return result
}

// ElementAssociations lists the direct associations of a single element in
// the given direction, children's associations excluded.
func ElementAssociations(g *model.Graph, path string, dir Direction) (*api.AssociationList, error) {
	if _, err := ParseDirection(string(dir)); err != nil {
		return nil, err
	}
	el, err := g.Resolve(path)
	if err != nil {
		return nil, err
	}

	var assocs []*model.Association
	if dir == DirectionOutgoing {
		assocs = g.Outgoing(el)
	} else {
		assocs = g.Incoming(el)
	}

	out := &api.AssociationList{
		ElementPath:  el.Path,
		Associations: make([]api.AssociationView, 0, len(assocs)),
	}
	for _, a := range assocs {
		out.Associations = append(out.Associations, AssociationView(a))
	}
	out.Count = len(out.Associations)
	return out, nil
}

// IsNotFound reports whether err is either element- or scope-not-found.
func IsNotFound(err error) bool {
	return errors.Is(err, model.ErrElementNotFound) || errors.Is(err, model.ErrScopeNotFound)
}
