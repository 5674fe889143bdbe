// Package api defines the wire-level view types returned across the tool
// boundary. Field names are a compatibility contract for callers; changing a
// JSON tag is a breaking change.
package api

import "time"

// ElementView is the outward projection of a graph element.
type ElementView struct {
	Name       string         `json:"name"`
	Path       string         `json:"path"`
	Type       string         `json:"type"`
	Attributes map[string]any `json:"attributes,omitempty"`
	ChildPaths []string       `json:"child_paths"`
}

// AssociationView is the outward projection of a directed edge.
type AssociationView struct {
	From       string         `json:"from"`
	To         string         `json:"to"`
	Type       string         `json:"type"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// ModelInfo describes one cached model.
type ModelInfo struct {
	ID               string    `json:"model_id"`
	Source           string    `json:"source"`
	LoadedAt         time.Time `json:"loaded_at"`
	ElementCount     int       `json:"element_count"`
	AssociationCount int       `json:"association_count"`
	RootName         string    `json:"root_name"`
	RootChildren     int       `json:"root_children"`
}

// SearchResult carries the elements matched by a search query, in pre-order.
type SearchResult struct {
	Elements []ElementView `json:"elements"`
	Count    int           `json:"count"`
}

// SubtreeDependency is one association touching an analyzed scope.
// AttributedTo is the path of the nearest analyzed ancestor of the inside
// endpoint: the endpoint itself when it lies within the depth bound, else the
// boundary element whose unexpanded subtree contains it.
type SubtreeDependency struct {
	AssociationView
	AttributedTo string `json:"attributed_to"`
}

// SubtreeDependencies partitions every association touching a scope into
// three disjoint sets.
type SubtreeDependencies struct {
	RootPath        string              `json:"root_path"`
	SubtreeElements []ElementView       `json:"subtree_elements"`
	Internal        []SubtreeDependency `json:"internal_dependencies"`
	Incoming        []SubtreeDependency `json:"incoming_dependencies"`
	Outgoing        []SubtreeDependency `json:"outgoing_dependencies"`
}

// ChainHop is one element reached during a chain expansion together with the
// association that reached it. Via is nil only at depth 0.
type ChainHop struct {
	Element ElementView      `json:"element"`
	Via     *AssociationView `json:"via,omitempty"`
}

// ChainLevel groups hops by their breadth-first depth.
type ChainLevel struct {
	Depth int        `json:"depth"`
	Hops  []ChainHop `json:"hops"`
}

// DependencyChain is the result of a bounded breadth-first expansion.
type DependencyChain struct {
	RootPath  string       `json:"root_path"`
	Direction string       `json:"direction"`
	MaxDepth  int          `json:"max_depth"`
	Levels    []ChainLevel `json:"levels"`
}

// SubtreeAggregate summarizes an unexpanded subtree at the overview depth
// boundary: element counts by type, no further structure.
type SubtreeAggregate struct {
	Elements int            `json:"elements"`
	Types    map[string]int `json:"types"`
}

// OverviewNode is one visited element of a depth-bounded overview.
type OverviewNode struct {
	Name          string            `json:"name"`
	Path          string            `json:"path"`
	Type          string            `json:"type"`
	Depth         int               `json:"depth"`
	ChildCount    int               `json:"child_count,omitempty"`
	IncomingCount int               `json:"incoming_count,omitempty"`
	OutgoingCount int               `json:"outgoing_count,omitempty"`
	Children      []OverviewNode    `json:"children,omitempty"`
	Unexpanded    *SubtreeAggregate `json:"unexpanded,omitempty"`
}

// OverviewSummary aggregates the visited part of an overview.
type OverviewSummary struct {
	TotalElements    int            `json:"total_elements"`
	DepthCounts      map[int]int    `json:"depth_counts"`
	TypeDistribution map[string]int `json:"type_distribution"`
}

// Overview is the depth-bounded hierarchical summary of a model.
type Overview struct {
	RootPath string          `json:"root_path"`
	MaxDepth int             `json:"max_depth"`
	Tree     OverviewNode    `json:"tree_structure"`
	Summary  OverviewSummary `json:"summary"`
}

// BatchEntry is the per-path outcome of a multi-element retrieval. Element is
// nil exactly when Found is false.
type BatchEntry struct {
	Path    string       `json:"path"`
	Found   bool         `json:"found"`
	Element *ElementView `json:"element,omitempty"`
}

// BatchResult reports a multi-element retrieval. Partial failure per entry is
// expected; the batch itself always succeeds.
type BatchResult struct {
	Requested  int          `json:"requested_count"`
	FoundCount int          `json:"found_count"`
	Entries    []BatchEntry `json:"entries"`
	NotFound   []string     `json:"not_found,omitempty"`
}

// AssociationList reports the direct associations of a single element.
type AssociationList struct {
	ElementPath  string            `json:"element_path"`
	Associations []AssociationView `json:"associations"`
	Count        int               `json:"count"`
}
