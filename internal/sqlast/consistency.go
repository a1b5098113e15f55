package sqlast

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// ConsistencyProblem is one field that the descriptor table does not cover.
type ConsistencyProblem struct {
	Type   string
	Field  string
	Reason string
}

// ConsistencyError lists every descriptor problem found by CheckConsistency.
type ConsistencyError struct {
	Problems []ConsistencyProblem
}

func (e *ConsistencyError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d descriptor problem(s):", len(e.Problems))
	for _, p := range e.Problems {
		fmt.Fprintf(&b, "\n  %s.%s: %s", p.Type, p.Field, p.Reason)
	}
	return b.String()
}

var nodeInterface = reflect.TypeFor[Node]()

// CheckConsistency verifies that every node-typed field of every registered
// type is reachable through its descriptor, and that every concrete node type
// referenced from a field is registered. Fields tagged `walk:"-"` are exempt.
// It is meant for tests; traversal never calls it.
func CheckConsistency() error {
	var problems []ConsistencyProblem
	types := make([]reflect.Type, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i].String() < types[j].String() })

	for _, t := range types {
		covered := map[string]accessor{}
		for _, a := range registry[t] {
			covered[a.field] = a
		}
		st := t.Elem()
		seen := map[string]bool{}
		for i := 0; i < st.NumField(); i++ {
			f := st.Field(i)
			if f.Tag.Get("walk") == "-" {
				continue
			}
			if f.Anonymous {
				seen[f.Name] = true
				a, ok := covered[f.Name]
				switch {
				case !ok:
					problems = append(problems, ConsistencyProblem{t.String(), f.Name, "embedded base not inherited"})
				case a.base != reflect.PointerTo(f.Type):
					problems = append(problems, ConsistencyProblem{t.String(), f.Name, "inherited base has wrong type"})
				}
				continue
			}
			elem, isNode := nodeField(f.Type)
			if !isNode {
				continue
			}
			seen[f.Name] = true
			if _, ok := covered[f.Name]; !ok {
				problems = append(problems, ConsistencyProblem{t.String(), f.Name, "no accessor"})
			}
			if elem.Kind() == reflect.Pointer {
				if _, ok := registry[elem]; !ok {
					problems = append(problems, ConsistencyProblem{t.String(), f.Name, "type " + elem.String() + " not registered"})
				}
			}
		}
		for field := range covered {
			if !seen[field] {
				problems = append(problems, ConsistencyProblem{t.String(), field, "accessor without node field"})
			}
		}
	}
	if len(problems) > 0 {
		sort.SliceStable(problems, func(i, j int) bool {
			if problems[i].Type != problems[j].Type {
				return problems[i].Type < problems[j].Type
			}
			return problems[i].Field < problems[j].Field
		})
		return &ConsistencyError{Problems: problems}
	}
	return nil
}

// nodeField reports whether a field type holds nodes, returning the node type.
func nodeField(t reflect.Type) (reflect.Type, bool) {
	if t.Kind() == reflect.Slice {
		t = t.Elem()
	}
	if t.Implements(nodeInterface) {
		return t, true
	}
	return nil, false
}
