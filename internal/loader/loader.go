// Package loader builds model.Graph values from on-disk model documents.
// Three formats are supported, dispatched by file extension: JSON model
// documents, XML model documents (optionally inside a .zip archive), and
// SQLite model databases.
package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/agentic-research/depscope/internal/model"
)

// Loader parses one source reference into a validated graph. Implementations
// must honor ctx cancellation: model files can reach hundreds of megabytes
// and the cache bounds load time.
type Loader interface {
	Load(ctx context.Context, sourceRef string) (*model.Graph, error)
}

// ForSource picks a loader for the given source reference by extension.
func ForSource(sourceRef string) (Loader, error) {
	switch strings.ToLower(filepath.Ext(sourceRef)) {
	case ".json":
		return &JSONLoader{}, nil
	case ".xml", ".zip":
		return &XMLLoader{}, nil
	case ".db", ".sqlite", ".sqlite3":
		return &SQLiteLoader{}, nil
	}
	return nil, fmt.Errorf("unsupported model format: %s", sourceRef)
}

// Load is a convenience wrapper: dispatch by extension, then load.
func Load(ctx context.Context, sourceRef string) (*model.Graph, error) {
	l, err := ForSource(sourceRef)
	if err != nil {
		return nil, err
	}
	return l.Load(ctx, sourceRef)
}

// checkEvery is how many elements a loader materializes between context
// checks. Parsing APIs are not context-aware, so cancellation is polled.
const checkEvery = 4096
