// Package query implements the read-only query engines that run against a
// cached graph: scoped search, dependency traversal, hierarchical overview,
// and batch element retrieval. Every traversal here is an explicit worklist;
// association graphs may be cyclic and hierarchies may be deeper than the
// call stack allows.
package query

import (
	"github.com/agentic-research/depscope/api"
	"github.com/agentic-research/depscope/internal/model"
)

// ElementView projects an element into its wire form.
func ElementView(el *model.Element) api.ElementView {
	v := api.ElementView{
		Name:       el.Name,
		Path:       el.Path,
		Type:       el.Type,
		Attributes: attrsToAny(el.Attributes),
		ChildPaths: make([]string, 0, len(el.Children)),
	}
	for _, c := range el.Children {
		v.ChildPaths = append(v.ChildPaths, c.Path)
	}
	return v
}

// ElementViews projects a slice of elements, preserving order.
func ElementViews(els []*model.Element) []api.ElementView {
	out := make([]api.ElementView, 0, len(els))
	for _, el := range els {
		out = append(out, ElementView(el))
	}
	return out
}

// AssociationView projects an association into its wire form.
func AssociationView(a *model.Association) api.AssociationView {
	return api.AssociationView{
		From:       a.From,
		To:         a.To,
		Type:       a.Type,
		Attributes: attrsToAny(a.Attributes),
	}
}

func attrsToAny(attrs map[string]model.AttrValue) map[string]any {
	if len(attrs) == 0 {
		return nil
	}
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = v.Any()
	}
	return out
}
