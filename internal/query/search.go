package query

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/agentic-research/depscope/internal/model"
)

// ErrInvalidPattern is returned when a search pattern fails to compile as its
// declared kind. Detected before any traversal begins.
var ErrInvalidPattern = errors.New("invalid search pattern")

// PatternKind selects how a name pattern is interpreted.
type PatternKind string

const (
	PatternRegex PatternKind = "regex"
	PatternGlob  PatternKind = "glob"
)

// namePredicate matches an element name.
type namePredicate func(name string) bool

func compilePattern(pattern string, kind PatternKind) (namePredicate, error) {
	switch kind {
	case PatternRegex, "":
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
		}
		return re.MatchString, nil
	case PatternGlob:
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("%w: bad glob %q", ErrInvalidPattern, pattern)
		}
		return func(name string) bool {
			ok, err := doublestar.Match(pattern, name)
			return err == nil && ok
		}, nil
	}
	return nil, fmt.Errorf("%w: unknown pattern kind %q", ErrInvalidPattern, kind)
}

// SearchByName returns, in pre-order, every element under the scope whose
// name matches the pattern, optionally restricted to an exact element type.
// External subtrees are not treated specially; their elements match like any
// other. The pattern is compiled before the scope is enumerated, so an
// invalid pattern never yields a partial search.
func SearchByName(g *model.Graph, pattern string, kind PatternKind, elementType, scopePath string) ([]*model.Element, error) {
	match, err := compilePattern(pattern, kind)
	if err != nil {
		return nil, err
	}
	candidates, err := g.UnderScope(scopePath)
	if err != nil {
		return nil, err
	}

	var results []*model.Element
	for _, el := range candidates {
		if !match(el.Name) {
			continue
		}
		if elementType != "" && el.Type != elementType {
			continue
		}
		results = append(results, el)
	}
	return results, nil
}

// SearchByType returns, in pre-order, every element of the given type under
// the scope. Served from the per-type bitmap index; no pattern compilation
// and no candidate scan.
func SearchByType(g *model.Graph, elementType, scopePath string) ([]*model.Element, error) {
	scope, err := resolveScope(g, scopePath)
	if err != nil {
		return nil, err
	}
	return g.ElementsOfType(elementType, scope), nil
}

// SearchByAttributes returns, in pre-order, every element under the scope
// carrying all of the given attributes with kind-sensitive equal values. An
// element missing any filtered attribute does not match.
func SearchByAttributes(g *model.Graph, filters map[string]model.AttrValue, scopePath string) ([]*model.Element, error) {
	candidates, err := g.UnderScope(scopePath)
	if err != nil {
		return nil, err
	}

	var results []*model.Element
	for _, el := range candidates {
		matched := true
		for name, want := range filters {
			got, ok := el.Attributes[name]
			if !ok || !got.Equal(want) {
				matched = false
				break
			}
		}
		if matched {
			results = append(results, el)
		}
	}
	return results, nil
}

// resolveScope maps a scope path to its element; the empty path means the
// whole graph (the root element). Misses surface as ErrScopeNotFound, which
// callers must keep distinct from an empty result.
func resolveScope(g *model.Graph, scopePath string) (*model.Element, error) {
	if model.NormalizePath(scopePath) == "" {
		return g.Root(), nil
	}
	el, err := g.Resolve(scopePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", model.ErrScopeNotFound, scopePath)
	}
	return el, nil
}
