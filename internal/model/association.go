package model

// Association is a directed, typed edge between two elements of the same
// graph, addressed by path. Self-loops are allowed, as are parallel edges of
// different types between the same pair.
type Association struct {
	From       string
	To         string
	Type       string
	Attributes map[string]AttrValue
}
