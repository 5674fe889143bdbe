package loader

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/agentic-research/depscope/internal/model"
)

// XMLLoader parses an XML model document:
//
//	<model version="1">
//	  <e n="P" t="repository" lang="python">
//	    <e n="a" t="file">
//	      <e n="Foo" t="class">
//	        <r to="/P/b/Bar" t="call"/>
//	      </e>
//	    </e>
//	  </e>
//	</model>
//
// Elements nest structurally; an <r> records an association whose From is the
// enclosing element. XML attributes other than n and t become element
// attributes; the document format carries strings only, so every attribute
// value loads as a string.
//
// A .zip source is an archive holding one such document (the first .xml
// entry), the container format used for large distributed models.
type XMLLoader struct{}

func (l *XMLLoader) Load(ctx context.Context, sourceRef string) (*model.Graph, error) {
	if strings.HasSuffix(strings.ToLower(sourceRef), ".zip") {
		return l.loadZip(ctx, sourceRef)
	}
	f, err := os.Open(sourceRef)
	if err != nil {
		return nil, fmt.Errorf("open model %s: %w", sourceRef, err)
	}
	defer func() { _ = f.Close() }() // read-only

	g, err := parseModelXML(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("model xml %s: %w", sourceRef, err)
	}
	return g, nil
}

func (l *XMLLoader) loadZip(ctx context.Context, sourceRef string) (*model.Graph, error) {
	zr, err := zip.OpenReader(sourceRef)
	if err != nil {
		return nil, fmt.Errorf("open model archive %s: %w", sourceRef, err)
	}
	defer func() { _ = zr.Close() }() // read-only

	for _, entry := range zr.File {
		if !strings.HasSuffix(strings.ToLower(entry.Name), ".xml") {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("open archive entry %s: %w", entry.Name, err)
		}
		g, err := parseModelXML(ctx, rc)
		_ = rc.Close() // read-only
		if err != nil {
			return nil, fmt.Errorf("model xml %s!%s: %w", sourceRef, entry.Name, err)
		}
		return g, nil
	}
	return nil, fmt.Errorf("model archive %s: no .xml entry", sourceRef)
}

// parseModelXML walks the token stream with an explicit element stack; the
// document nesting depth equals the hierarchy depth and must not recurse.
func parseModelXML(ctx context.Context, r io.Reader) (*model.Graph, error) {
	dec := xml.NewDecoder(r)

	var (
		root   *model.Element
		assocs []*model.Association
		stack  []*model.Element // open <e> elements
		paths  []string         // path of each open element, parallel to stack
		parsed int
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "model":
				// Envelope, nothing to record.
			case "e":
				el, err := elementFromXML(t)
				if err != nil {
					return nil, err
				}
				var path string
				if len(stack) == 0 {
					if root != nil {
						return nil, fmt.Errorf("multiple top-level elements (%q and %q)", root.Name, el.Name)
					}
					root = el
					if el.Name != "" {
						path = "/" + el.Name
					}
				} else {
					parent := stack[len(stack)-1]
					parent.Children = append(parent.Children, el)
					path = paths[len(paths)-1] + "/" + el.Name
				}
				stack = append(stack, el)
				paths = append(paths, path)

				parsed++
				if parsed%checkEvery == 0 {
					if err := ctx.Err(); err != nil {
						return nil, err
					}
				}
			case "r":
				if len(stack) == 0 {
					return nil, fmt.Errorf("<r> outside of any element")
				}
				a, err := associationFromXML(t, paths[len(paths)-1])
				if err != nil {
					return nil, err
				}
				assocs = append(assocs, a)
			default:
				return nil, fmt.Errorf("unexpected tag <%s>", t.Name.Local)
			}
		case xml.EndElement:
			if t.Name.Local == "e" {
				if len(stack) == 0 {
					return nil, fmt.Errorf("unbalanced </e>")
				}
				stack = stack[:len(stack)-1]
				paths = paths[:len(paths)-1]
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("document has no elements")
	}
	return model.NewGraph(root, assocs)
}

func elementFromXML(t xml.StartElement) (*model.Element, error) {
	el := &model.Element{}
	for _, attr := range t.Attr {
		switch attr.Name.Local {
		case "n":
			el.Name = attr.Value
		case "t":
			el.Type = attr.Value
		default:
			if el.Attributes == nil {
				el.Attributes = make(map[string]model.AttrValue)
			}
			el.Attributes[attr.Name.Local] = model.String(attr.Value)
		}
	}
	return el, nil
}

func associationFromXML(t xml.StartElement, fromPath string) (*model.Association, error) {
	a := &model.Association{From: fromPath}
	for _, attr := range t.Attr {
		switch attr.Name.Local {
		case "to":
			a.To = attr.Value
		case "t":
			a.Type = attr.Value
		default:
			if a.Attributes == nil {
				a.Attributes = make(map[string]model.AttrValue)
			}
			a.Attributes[attr.Name.Local] = model.String(attr.Value)
		}
	}
	if a.To == "" {
		return nil, fmt.Errorf("<r> under %q is missing its to path", fromPath)
	}
	return a, nil
}
