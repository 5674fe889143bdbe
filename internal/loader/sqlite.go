package loader

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/agentic-research/depscope/internal/model"
)

// SQLiteLoader reads a model database:
//
//	CREATE TABLE elements (path TEXT PRIMARY KEY, type TEXT NOT NULL DEFAULT '', attrs TEXT);
//	CREATE TABLE associations (from_path TEXT, to_path TEXT, type TEXT NOT NULL DEFAULT '', attrs TEXT);
//
// Rows are consumed in rowid order, which is the declared child order.
// Missing ancestor rows are materialized as untyped elements, so a producer
// may emit leaf paths only. attrs columns hold JSON objects whose values keep
// their JSON types.
type SQLiteLoader struct{}

func (l *SQLiteLoader) Load(ctx context.Context, sourceRef string) (*model.Graph, error) {
	db, err := sql.Open("sqlite", sourceRef)
	if err != nil {
		return nil, fmt.Errorf("open model db %s: %w", sourceRef, err)
	}
	defer func() { _ = db.Close() }() // read-only

	b := newTreeBuilder()

	rows, err := db.QueryContext(ctx, "SELECT path, type, attrs FROM elements ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("query elements: %w", err)
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	for rows.Next() {
		var path, typ string
		var attrsRaw sql.NullString
		if err := rows.Scan(&path, &typ, &attrsRaw); err != nil {
			return nil, fmt.Errorf("scan element row: %w", err)
		}
		attrs, err := attrsFromJSON(attrsRaw)
		if err != nil {
			return nil, fmt.Errorf("element %s: %w", path, err)
		}
		el, err := b.ensure(path)
		if err != nil {
			return nil, err
		}
		el.Type = typ
		el.Attributes = attrs
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate elements: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	arows, err := db.QueryContext(ctx, "SELECT from_path, to_path, type, attrs FROM associations ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("query associations: %w", err)
	}
	defer func() { _ = arows.Close() }() // safe to ignore

	var assocs []*model.Association
	for arows.Next() {
		var from, to, typ string
		var attrsRaw sql.NullString
		if err := arows.Scan(&from, &to, &typ, &attrsRaw); err != nil {
			return nil, fmt.Errorf("scan association row: %w", err)
		}
		attrs, err := attrsFromJSON(attrsRaw)
		if err != nil {
			return nil, fmt.Errorf("association %s -> %s: %w", from, to, err)
		}
		assocs = append(assocs, &model.Association{From: from, To: to, Type: typ, Attributes: attrs})
	}
	if err := arows.Err(); err != nil {
		return nil, fmt.Errorf("iterate associations: %w", err)
	}

	if b.root == nil {
		return nil, fmt.Errorf("model db %s: elements table is empty", sourceRef)
	}
	g, err := model.NewGraph(b.root, assocs)
	if err != nil {
		return nil, fmt.Errorf("model db %s: %w", sourceRef, err)
	}
	return g, nil
}

// treeBuilder assembles a hierarchy from flat path rows, creating missing
// ancestors on demand.
type treeBuilder struct {
	root   *model.Element
	byPath map[string]*model.Element
}

func newTreeBuilder() *treeBuilder {
	return &treeBuilder{byPath: make(map[string]*model.Element)}
}

func (b *treeBuilder) ensure(path string) (*model.Element, error) {
	norm := model.NormalizePath(path)
	if norm == "" {
		return nil, fmt.Errorf("element row with empty path")
	}
	if el, ok := b.byPath[norm]; ok {
		return el, nil
	}

	segments := strings.Split(strings.TrimPrefix(norm, "/"), "/")
	if b.root == nil {
		b.root = &model.Element{Name: segments[0]}
		b.byPath["/"+segments[0]] = b.root
	} else if b.root.Name != segments[0] {
		return nil, fmt.Errorf("element %s is outside root /%s", norm, b.root.Name)
	}

	cur := b.root
	curPath := "/" + segments[0]
	for _, seg := range segments[1:] {
		curPath += "/" + seg
		next, ok := b.byPath[curPath]
		if !ok {
			next = &model.Element{Name: seg}
			cur.Children = append(cur.Children, next)
			b.byPath[curPath] = next
		}
		cur = next
	}
	return cur, nil
}

func attrsFromJSON(raw sql.NullString) (map[string]model.AttrValue, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw.String), &obj); err != nil {
		return nil, fmt.Errorf("parse attrs json: %w", err)
	}
	return parseAttributes(obj)
}
