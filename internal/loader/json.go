package loader

import (
	"context"
	"fmt"
	"os"

	"github.com/ohler55/ojg/oj"

	"github.com/agentic-research/depscope/internal/model"
)

// JSONLoader parses a JSON model document:
//
//	{
//	  "version": "1",
//	  "root": {"name": "P", "type": "repository", "attributes": {...}, "children": [...]},
//	  "associations": [{"from": "/P/a", "to": "/P/b", "type": "call", "attributes": {...}}]
//	}
//
// Attribute values keep their JSON types (string, number, boolean); anything
// else is a parse error.
type JSONLoader struct{}

func (l *JSONLoader) Load(ctx context.Context, sourceRef string) (*model.Graph, error) {
	data, err := os.ReadFile(sourceRef)
	if err != nil {
		return nil, fmt.Errorf("read model %s: %w", sourceRef, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parsed, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse model json %s: %w", sourceRef, err)
	}
	doc, ok := parsed.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("model json %s: top level must be an object", sourceRef)
	}

	rootRaw, ok := doc["root"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("model json %s: missing root object", sourceRef)
	}

	root, err := buildElementTree(ctx, rootRaw)
	if err != nil {
		return nil, fmt.Errorf("model json %s: %w", sourceRef, err)
	}

	var assocs []*model.Association
	if rawAssocs, present := doc["associations"]; present {
		list, ok := rawAssocs.([]any)
		if !ok {
			return nil, fmt.Errorf("model json %s: associations must be an array", sourceRef)
		}
		assocs = make([]*model.Association, 0, len(list))
		for i, raw := range list {
			a, err := parseAssociation(raw)
			if err != nil {
				return nil, fmt.Errorf("model json %s: association %d: %w", sourceRef, i, err)
			}
			assocs = append(assocs, a)
		}
	}

	g, err := model.NewGraph(root, assocs)
	if err != nil {
		return nil, fmt.Errorf("model json %s: %w", sourceRef, err)
	}
	return g, nil
}

// buildElementTree converts the nested JSON objects into Elements with an
// explicit worklist; model depth is unbounded and must not consume call stack.
func buildElementTree(ctx context.Context, rootRaw map[string]any) (*model.Element, error) {
	type item struct {
		raw    map[string]any
		parent *model.Element
	}

	var root *model.Element
	built := 0
	stack := []item{{raw: rootRaw}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		el, children, err := parseElement(it.raw)
		if err != nil {
			return nil, err
		}
		if it.parent == nil {
			root = el
		} else {
			it.parent.Children = append(it.parent.Children, el)
		}

		// Reverse push keeps declared child order once the parent's Children
		// slice is appended to in pop order.
		for i := len(children) - 1; i >= 0; i-- {
			childRaw, ok := children[i].(map[string]any)
			if !ok {
				return nil, fmt.Errorf("element %q: child %d is not an object", el.Name, i)
			}
			stack = append(stack, item{raw: childRaw, parent: el})
		}

		built++
		if built%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
	}
	return root, nil
}

func parseElement(raw map[string]any) (*model.Element, []any, error) {
	name, _ := raw["name"].(string)
	typ, _ := raw["type"].(string)

	el := &model.Element{Name: name, Type: typ}
	if attrsRaw, present := raw["attributes"]; present {
		attrsObj, ok := attrsRaw.(map[string]any)
		if !ok {
			return nil, nil, fmt.Errorf("element %q: attributes must be an object", name)
		}
		attrs, err := parseAttributes(attrsObj)
		if err != nil {
			return nil, nil, fmt.Errorf("element %q: %w", name, err)
		}
		el.Attributes = attrs
	}

	var children []any
	if childrenRaw, present := raw["children"]; present {
		list, ok := childrenRaw.([]any)
		if !ok {
			return nil, nil, fmt.Errorf("element %q: children must be an array", name)
		}
		children = list
	}
	return el, children, nil
}

func parseAssociation(raw any) (*model.Association, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("association must be an object")
	}
	from, _ := obj["from"].(string)
	to, _ := obj["to"].(string)
	if from == "" || to == "" {
		return nil, fmt.Errorf("association requires from and to paths")
	}
	typ, _ := obj["type"].(string)

	a := &model.Association{From: from, To: to, Type: typ}
	if attrsRaw, present := obj["attributes"]; present {
		attrsObj, ok := attrsRaw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("association attributes must be an object")
		}
		attrs, err := parseAttributes(attrsObj)
		if err != nil {
			return nil, err
		}
		a.Attributes = attrs
	}
	return a, nil
}

func parseAttributes(obj map[string]any) (map[string]model.AttrValue, error) {
	attrs := make(map[string]model.AttrValue, len(obj))
	for k, v := range obj {
		av, ok := model.AttrFromAny(v)
		if !ok {
			return nil, fmt.Errorf("attribute %q: unsupported value type %T", k, v)
		}
		attrs[k] = av
	}
	return attrs, nil
}
