package sqlast

import (
	"iter"
	"reflect"
	"sync"
)

type priority int

const (
	priorityNone priority = iota
	priorityCTE
	priorityOptions
)

// accessor yields the children held by one field of a node type. Accessors
// created by inherit project the node onto an embedded base instead.
type accessor struct {
	field    string
	priority priority
	children func(any) iter.Seq[Node]

	base    reflect.Type
	project func(any) any
}

var (
	registry    = map[reflect.Type][]accessor{}
	descriptors sync.Map // reflect.Type -> []accessor
)

func register[N any](accessors ...accessor) {
	registry[reflect.TypeFor[N]()] = accessors
}

// one describes a field holding at most one child.
func one[N any, C Node](field string, get func(N) C) accessor {
	p := priorityNone
	if reflect.TypeFor[C]() == reflect.TypeFor[*QueryOptions]() {
		p = priorityOptions
	}
	return accessor{
		field:    field,
		priority: p,
		children: func(n any) iter.Seq[Node] {
			return func(yield func(Node) bool) {
				if c := get(n.(N)); !isNil(c) {
					yield(c)
				}
			}
		},
	}
}

// many describes a field holding an ordered sequence of children.
func many[N any, C Node](field string, get func(N) []C) accessor {
	p := priorityNone
	if reflect.TypeFor[C]() == reflect.TypeFor[*CommonTableExpression]() {
		p = priorityCTE
	}
	return accessor{
		field:    field,
		priority: p,
		children: func(n any) iter.Seq[Node] {
			return func(yield func(Node) bool) {
				for _, c := range get(n.(N)) {
					if isNil(c) {
						continue
					}
					if !yield(c) {
						return
					}
				}
			}
		},
	}
}

// inherit composes the descriptor of an embedded base struct.
func inherit[N any, B any](field string, get func(N) *B) accessor {
	return accessor{
		field:   field,
		base:    reflect.TypeFor[*B](),
		project: func(n any) any { return get(n.(N)) },
	}
}

func isNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// descriptorFor returns the composed accessor list of a type, building it on
// first use.
func descriptorFor(t reflect.Type) []accessor {
	if d, ok := descriptors.Load(t); ok {
		return d.([]accessor)
	}
	d, _ := descriptors.LoadOrStore(t, compose(t))
	return d.([]accessor)
}

// compose orders accessors: common table expressions, query options,
// inherited base accessors, then the type's own fields in declaration order.
func compose(t reflect.Type) []accessor {
	var ctes, options, bases, rest []accessor
	for _, a := range registry[t] {
		switch {
		case a.base != nil:
			for _, b := range descriptorFor(a.base) {
				project, children := a.project, b.children
				bases = append(bases, accessor{
					field:    a.field + "." + b.field,
					priority: b.priority,
					children: func(n any) iter.Seq[Node] { return children(project(n)) },
				})
			}
		case a.priority == priorityCTE:
			ctes = append(ctes, a)
		case a.priority == priorityOptions:
			options = append(options, a)
		default:
			rest = append(rest, a)
		}
	}
	result := make([]accessor, 0, len(ctes)+len(options)+len(bases)+len(rest))
	result = append(result, ctes...)
	result = append(result, options...)
	result = append(result, bases...)
	return append(result, rest...)
}

// Children yields the direct children of n in descriptor order. Children for
// which skip reports true are left out together with their subtrees.
func Children(n Node, skip func(Node) bool) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		if isNil(n) {
			return
		}
		for _, a := range descriptorFor(reflect.TypeOf(n)) {
			for c := range a.children(n) {
				if skip != nil && skip(c) {
					continue
				}
				if !yield(c) {
					return
				}
			}
		}
	}
}

// Walk yields every descendant of n depth-first, parents before children.
// The root itself is not yielded.
func Walk(n Node, skip func(Node) bool) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		walk(n, skip, yield)
	}
}

func walk(n Node, skip func(Node) bool, yield func(Node) bool) bool {
	for c := range Children(n, skip) {
		if !yield(c) || !walk(c, skip, yield) {
			return false
		}
	}
	return true
}

// SkipType returns a skip predicate matching nodes assignable to T.
func SkipType[T any]() func(Node) bool {
	return func(n Node) bool {
		_, ok := n.(T)
		return ok
	}
}
