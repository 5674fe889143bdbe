package model

import "strconv"

// AttrKind discriminates the closed set of attribute value types.
type AttrKind int

const (
	AttrString AttrKind = iota
	AttrNumber
	AttrBool
)

// AttrValue is a tagged union over the three value types a model may carry.
// Comparisons are kind-sensitive: the string "5" never equals the number 5.
type AttrValue struct {
	Kind AttrKind
	Str  string
	Num  float64
	Bool bool
}

func String(s string) AttrValue  { return AttrValue{Kind: AttrString, Str: s} }
func Number(f float64) AttrValue { return AttrValue{Kind: AttrNumber, Num: f} }
func Boolean(b bool) AttrValue   { return AttrValue{Kind: AttrBool, Bool: b} }

// AttrFromAny converts a dynamically typed value (as produced by JSON or
// SQLite loaders) into an AttrValue. The second return is false for types
// outside the closed union.
func AttrFromAny(v any) (AttrValue, bool) {
	switch x := v.(type) {
	case string:
		return String(x), true
	case float64:
		return Number(x), true
	case int:
		return Number(float64(x)), true
	case int64:
		return Number(float64(x)), true
	case bool:
		return Boolean(x), true
	}
	return AttrValue{}, false
}

// Equal reports kind-sensitive value equality.
func (v AttrValue) Equal(o AttrValue) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case AttrString:
		return v.Str == o.Str
	case AttrNumber:
		return v.Num == o.Num
	case AttrBool:
		return v.Bool == o.Bool
	}
	return false
}

// Any returns the plain Go value, used when building wire views.
func (v AttrValue) Any() any {
	switch v.Kind {
	case AttrNumber:
		return v.Num
	case AttrBool:
		return v.Bool
	default:
		return v.Str
	}
}

func (v AttrValue) GoString() string {
	switch v.Kind {
	case AttrNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case AttrBool:
		return strconv.FormatBool(v.Bool)
	default:
		return strconv.Quote(v.Str)
	}
}

// Element is a node in the hierarchy. Name, Type, Attributes and Children are
// set by the loader; Path, Parent and the pre-order bookkeeping are assigned
// by NewGraph and must not be modified afterwards.
type Element struct {
	Name       string
	Type       string
	Attributes map[string]AttrValue
	Children   []*Element
	Parent     *Element

	// Path is the slash-delimited path from the graph root, unique per graph.
	Path string

	ord uint32 // pre-order rank within the graph
	end uint32 // exclusive pre-order end of this element's subtree
}

// Ord returns the element's pre-order rank. Ranks are assigned densely from 0
// in declared child order, so sorting by Ord reproduces pre-order.
func (e *Element) Ord() uint32 { return e.ord }

// Contains reports whether other lies in e's subtree (inclusive of e itself).
// Constant time via pre-order interval containment.
func (e *Element) Contains(other *Element) bool {
	return other.ord >= e.ord && other.ord < e.end
}

// SubtreeSize returns the number of elements in e's subtree, e included.
func (e *Element) SubtreeSize() int { return int(e.end - e.ord) }
