// Package resolver orders installable statements so that every statement is
// emitted after the objects it references.
package resolver

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/xingh/bsn-modulestore/internal/logger"
	"github.com/xingh/bsn-modulestore/internal/sqlast"
)

// CycleError is returned by GetInOrder when no pending statement can make
// progress, either because of a reference cycle or a missing object.
type CycleError struct {
	Unresolved []Unresolved
}

// Unresolved is one statement left over by a stalled resolution.
type Unresolved struct {
	Name  string
	Edges []string
}

func (e *CycleError) Error() string {
	var b strings.Builder
	b.WriteString("cycle or missing dependency detected")
	for i, u := range e.Unresolved {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s seems to depend on %s", u.Name, strings.Join(u.Edges, ", "))
	}
	return b.String()
}

// Referencer is implemented by statements that report their references
// themselves, such as wrappers around another statement.
type Referencer interface {
	ReferencedNames() []string
}

type node struct {
	stmt  sqlast.InstallStatement
	key   string
	edges []string
	done  bool
}

// Resolver is a topological sequencer over named statements. Names are
// compared case-insensitively. A Resolver is not safe for concurrent use.
type Resolver struct {
	existing map[string]bool
	blocked  map[string]bool
	pending  map[string][]*node
	nodes    []*node
}

// New returns an empty resolver.
func New() *Resolver {
	return &Resolver{
		existing: map[string]bool{},
		blocked:  map[string]bool{},
		pending:  map[string][]*node{},
	}
}

// AddExistingObject marks name as already present in the target database.
func (r *Resolver) AddExistingObject(name string) {
	key := strings.ToLower(name)
	r.existing[key] = true
	delete(r.blocked, key)
}

// Block declares that name will only exist after a later AddExistingObject
// call. Statements referencing a blocked name wait until then.
func (r *Resolver) Block(name string) {
	key := strings.ToLower(name)
	if !r.existing[key] {
		r.blocked[key] = true
	}
}

// Add registers stmt under its object name. Several statements may share a
// name; statements named after a variable are ignored.
func (r *Resolver) Add(stmt sqlast.InstallStatement) {
	name := stmt.ObjectName()
	if strings.HasPrefix(name, "@") {
		return
	}
	n := &node{stmt: stmt, key: strings.ToLower(name)}
	var refs []string
	if ref, ok := stmt.(Referencer); ok {
		refs = ref.ReferencedNames()
	} else {
		refs = sqlast.ReferencedNames(stmt)
	}
	for _, ref := range refs {
		n.edges = append(n.edges, strings.ToLower(ref))
	}
	r.pending[n.key] = append(r.pending[n.key], n)
	r.nodes = append(r.nodes, n)
}

// Pending returns the number of statements not emitted yet.
func (r *Resolver) Pending() int {
	count := 0
	for _, list := range r.pending {
		count += len(list)
	}
	return count
}

// GetInOrder yields the pending statements in dependency order. The sequence
// consumes the resolver state: emitted statements are not yielded again and
// their names count as existing afterwards.
//
// When no progress can be made and throwOnCycle is set, the sequence ends with
// a *CycleError. Otherwise it ends silently; the output is then incomplete and
// only useful for diagnostics.
//
// Pending index creations and table alterations targeting an existing table
// are emitted first, together with everything they depend on. The same
// priority applies to the alterations of a table when the table itself is
// emitted.
func (r *Resolver) GetInOrder(throwOnCycle bool) iter.Seq2[sqlast.InstallStatement, error] {
	return func(yield func(sqlast.InstallStatement, error) bool) {
		queue := r.queue()
		direct := r.direct(queue, func(table string) bool { return r.existing[table] })
		skip := 0
		for len(queue) > 0 {
			n := queue[0]
			queue = queue[1:]
			if (len(direct) == 0 || direct[n]) && r.satisfied(n) {
				r.remove(n)
				skip = 0
				if n.stmt.IsPartOfSchemaDefinition() {
					for d := range r.direct(queue, func(table string) bool { return table == n.key }) {
						direct[d] = true
					}
				}
				if !yield(n.stmt, nil) {
					return
				}
				for d := range direct {
					if d.done {
						delete(direct, d)
					}
				}
				continue
			}
			queue = append(queue, n)
			if skip > len(queue) {
				logger.Get().Debug("dependency resolution stalled", "remaining", len(queue), "throw", throwOnCycle)
				if throwOnCycle {
					yield(nil, r.cycleError(queue))
				}
				return
			}
			skip++
		}
	}
}

// queue returns the pending nodes ordered by name, keeping insertion order
// among equal names.
func (r *Resolver) queue() []*node {
	var queue []*node
	for _, n := range r.nodes {
		if !n.done {
			queue = append(queue, n)
		}
	}
	slices.SortStableFunc(queue, func(a, b *node) int { return strings.Compare(a.key, b.key) })
	return queue
}

func (r *Resolver) satisfied(n *node) bool {
	for _, edge := range n.edges {
		if len(r.pending[edge]) > 0 {
			return false
		}
		if !r.existing[edge] && r.blocked[edge] {
			return false
		}
	}
	return true
}

func (r *Resolver) remove(n *node) {
	n.done = true
	list := slices.DeleteFunc(r.pending[n.key], func(o *node) bool { return o == n })
	if len(list) > 0 {
		r.pending[n.key] = list
		return
	}
	delete(r.pending, n.key)
	r.existing[n.key] = true
	delete(r.blocked, n.key)
}

// alteredTable returns the lower case name of the table an index creation or
// table alteration targets.
func alteredTable(stmt sqlast.InstallStatement) (string, bool) {
	switch s := stmt.(type) {
	case *sqlast.CreateIndex:
		return strings.ToLower(s.Table.Name.Value), true
	case *sqlast.ConstraintFragment:
		return strings.ToLower(s.Table.Name.Value), true
	case sqlast.TableAlteration:
		return strings.ToLower(s.AlteredTable().Name.Value), true
	}
	return "", false
}

// direct computes the priority set for the nodes altering a matching table:
// each such node plus the transitive closure of its pending dependencies.
func (r *Resolver) direct(nodes []*node, match func(table string) bool) map[*node]bool {
	result := map[*node]bool{}
	for _, n := range nodes {
		if table, ok := alteredTable(n.stmt); ok && match(table) {
			r.closure(n, result)
		}
	}
	return result
}

func (r *Resolver) closure(start *node, result map[*node]bool) {
	work := []*node{start}
	for len(work) > 0 {
		n := work[0]
		work = work[1:]
		if result[n] {
			continue
		}
		result[n] = true
		for _, edge := range n.edges {
			work = append(work, r.pending[edge]...)
		}
	}
}

func (r *Resolver) cycleError(queue []*node) *CycleError {
	err := &CycleError{}
	for _, n := range queue {
		u := Unresolved{Name: n.stmt.ObjectName()}
		for _, edge := range n.edges {
			if len(r.pending[edge]) > 0 || (!r.existing[edge] && r.blocked[edge]) {
				u.Edges = append(u.Edges, edge)
			}
		}
		err.Unresolved = append(err.Unresolved, u)
	}
	return err
}
