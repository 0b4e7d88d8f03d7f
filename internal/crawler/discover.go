package crawler

import (
	"strings"

	"github.com/mpievolbio-scicomp/tripser-go/internal/rdf"
	"github.com/mpievolbio-scicomp/tripser-go/internal/vocab"
)

// DiscoverLinks scans a freshly fetched graph for object IRIs that should
// become new tasks. Statements under the hydra paging predicates are
// bookkeeping and never followed; objects outside the content namespace or
// already known to the tracker are skipped. The returned slice preserves
// graph iteration order and may contain a URI at most once.
func DiscoverLinks(g *rdf.Graph, namespace string, tracker *Tracker) []Task {
	var out []Task
	emitted := make(map[Task]struct{})
	for _, t := range g.Triples() {
		if t.P.Value == vocab.PartialCollectionView || t.P.Value == vocab.TotalItems {
			continue
		}
		obj, ok := t.O.(rdf.IRI)
		if !ok {
			continue
		}
		if !strings.HasPrefix(obj.Value, namespace) {
			continue
		}
		task := Task(obj.Value)
		if tracker.Seen(task) {
			continue
		}
		if _, dup := emitted[task]; dup {
			continue
		}
		emitted[task] = struct{}{}
		out = append(out, task)
	}
	return out
}
