package crawler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mpievolbio-scicomp/tripser-go/internal/rdf"
	"github.com/mpievolbio-scicomp/tripser-go/internal/vocab"
)

// DefaultPageSize is the page size the upstream collection endpoints serve.
const DefaultPageSize = 25

// ExpandPages synthesizes the page tasks needed to enumerate a collection.
//
// A task whose URI already carries a query string is terminal: it is never
// expanded again, even if its document reports a total item count. That also
// means an entry point with its own query string bypasses pagination
// entirely; the behavior is load-bearing for page tasks and is kept as-is
// for entry points.
//
// Otherwise the document's hydra:totalItems value N yields ceil(N/pageSize)
// tasks of the form <task>?limit=<pageSize>&page=<k>. N = 0, or no
// totalItems statement, yields none. A non-integer totalItems object is an
// error and aborts the crawl.
func ExpandPages(task Task, g *rdf.Graph, pageSize int) ([]Task, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if strings.Contains(string(task), "?") {
		return nil, nil
	}

	objects := g.Objects(rdf.IRI{Value: vocab.TotalItems})
	if len(objects) == 0 {
		return nil, nil
	}

	total, err := totalItemCount(objects[0])
	if err != nil {
		return nil, fmt.Errorf("task %s: %w", task, err)
	}
	if total <= 0 {
		return nil, nil
	}

	pages := (total + pageSize - 1) / pageSize
	tasks := make([]Task, 0, pages)
	for page := 1; page <= pages; page++ {
		tasks = append(tasks, Task(fmt.Sprintf("%s?limit=%d&page=%d", task, pageSize, page)))
	}
	return tasks, nil
}

func totalItemCount(o rdf.Term) (int, error) {
	lit, ok := o.(rdf.Literal)
	if !ok {
		return 0, fmt.Errorf("totalItems object %s is not a literal", o)
	}
	n, err := strconv.Atoi(strings.TrimSpace(lit.Lexical))
	if err != nil {
		return 0, fmt.Errorf("totalItems value %q is not an integer", lit.Lexical)
	}
	return n, nil
}
