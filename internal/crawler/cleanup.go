package crawler

import (
	"github.com/mpievolbio-scicomp/tripser-go/internal/rdf"
	"github.com/mpievolbio-scicomp/tripser-go/internal/vocab"
)

// Cleanup strips the pagination bookkeeping statements from the graph and
// returns the number removed. It matches three fixed patterns: the local
// placeholder view object, the canonical collection-view object, and any
// statement using the hydra:PartialCollectionView predicate. Running it
// again on the same graph removes nothing.
func Cleanup(g *rdf.Graph) int {
	removed := 0
	removed += g.Remove(rdf.Triple{O: rdf.IRI{Value: vocab.LocalViewPlaceholder}})
	removed += g.Remove(rdf.Triple{O: rdf.IRI{Value: vocab.ContentViewObject}})
	removed += g.Remove(rdf.Triple{P: rdf.IRI{Value: vocab.PartialCollectionView}})
	return removed
}
