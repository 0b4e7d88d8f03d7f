package rdf

import "sort"

// Graph is an unordered set of triples. Duplicate inserts collapse. A Graph
// is not safe for concurrent mutation; during a crawl it is owned exclusively
// by the orchestrator and touched only at wave-merge points.
type Graph struct {
	triples map[string]Triple
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{triples: make(map[string]Triple)}
}

// Add inserts a triple. Re-adding an existing triple is a no-op.
func (g *Graph) Add(t Triple) {
	g.triples[t.String()] = t
}

// Has reports whether the exact triple is present.
func (g *Graph) Has(t Triple) bool {
	_, ok := g.triples[t.String()]
	return ok
}

// Len returns the number of distinct triples.
func (g *Graph) Len() int {
	return len(g.triples)
}

// Merge inserts every triple of other into g. The other graph is unchanged.
func (g *Graph) Merge(other *Graph) {
	if other == nil {
		return
	}
	for k, t := range other.triples {
		g.triples[k] = t
	}
}

// Copy returns an independent graph holding the same triples.
func (g *Graph) Copy() *Graph {
	out := NewGraph()
	out.Merge(g)
	return out
}

// Remove deletes every triple matching the pattern and returns the number
// removed. Nil subject/object and an empty predicate value act as wildcards.
func (g *Graph) Remove(pattern Triple) int {
	removed := 0
	for k, t := range g.triples {
		if !matches(pattern, t) {
			continue
		}
		delete(g.triples, k)
		removed++
	}
	return removed
}

// Triples returns all triples in a stable lexicographic order.
func (g *Graph) Triples() []Triple {
	keys := make([]string, 0, len(g.triples))
	for k := range g.triples {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Triple, 0, len(keys))
	for _, k := range keys {
		out = append(out, g.triples[k])
	}
	return out
}

// Objects returns the objects of all triples using the given predicate.
func (g *Graph) Objects(predicate IRI) []Term {
	var out []Term
	for _, t := range g.Triples() {
		if t.P == predicate {
			out = append(out, t.O)
		}
	}
	return out
}

func matches(pattern, t Triple) bool {
	if pattern.S != nil && !sameTerm(pattern.S, t.S) {
		return false
	}
	if pattern.P.Value != "" && pattern.P != t.P {
		return false
	}
	if pattern.O != nil && !sameTerm(pattern.O, t.O) {
		return false
	}
	return true
}

func sameTerm(a, b Term) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Kind() == b.Kind() && termKey(a) == termKey(b)
}
