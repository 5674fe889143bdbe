package query

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agentic-research/depscope/internal/model"
)

// fixtureGraph is the shared test model:
//
//	/P (repository)
//	  /P/a (file)            attrs: lang=python, lines=120
//	    /P/a/Foo (class)     attrs: public=true
//	  /P/b (file)            attrs: lang=go, lines="120" (string!)
//	    /P/b/Bar (class)
//	  /P/External (directory)
//	    /P/External/requests (library)
//
// Associations:
//
//	/P/a/Foo -> /P/b/Bar             call
//	/P/b/Bar -> /P/a/Foo             call      (cycle)
//	/P/a/Foo -> /P/External/requests import
//	/P/a -> /P/a/Foo                 contains  (internal to /P/a)
func fixtureGraph(t *testing.T) *model.Graph {
	t.Helper()
	root := &model.Element{
		Name: "P", Type: "repository",
		Children: []*model.Element{
			{Name: "a", Type: "file",
				Attributes: map[string]model.AttrValue{
					"lang":  model.String("python"),
					"lines": model.Number(120),
				},
				Children: []*model.Element{
					{Name: "Foo", Type: "class",
						Attributes: map[string]model.AttrValue{"public": model.Boolean(true)}},
				}},
			{Name: "b", Type: "file",
				Attributes: map[string]model.AttrValue{
					"lang":  model.String("go"),
					"lines": model.String("120"),
				},
				Children: []*model.Element{
					{Name: "Bar", Type: "class"},
				}},
			{Name: "External", Type: "directory", Children: []*model.Element{
				{Name: "requests", Type: "library"},
			}},
		},
	}
	g, err := model.NewGraph(root, []*model.Association{
		{From: "/P/a/Foo", To: "/P/b/Bar", Type: "call"},
		{From: "/P/b/Bar", To: "/P/a/Foo", Type: "call"},
		{From: "/P/a/Foo", To: "/P/External/requests", Type: "import"},
		{From: "/P/a", To: "/P/a/Foo", Type: "contains"},
	})
	require.NoError(t, err)
	return g
}

func paths(els []*model.Element) []string {
	out := make([]string, 0, len(els))
	for _, el := range els {
		out = append(out, el.Path)
	}
	return out
}
