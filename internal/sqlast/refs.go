package sqlast

import (
	"slices"
	"sort"
	"strings"
)

type objectNamer interface {
	ObjectName() string
}

// ReferencedNames returns the distinct names of the given kinds referenced
// anywhere below stmt, sorted case-insensitively. With no kinds, ObjectKinds
// are used. Session-local names, the statement's own object name, and
// unqualified references to common table expressions declared in the
// statement are left out. Table aliases never shadow object names. Nested create statements (inside CREATE SCHEMA)
// are not entered.
func ReferencedNames(stmt Node, kinds ...NameKind) []string {
	if len(kinds) == 0 {
		kinds = ObjectKinds
	}
	self := ""
	if n, ok := stmt.(objectNamer); ok {
		self = n.ObjectName()
	}
	skip := SkipType[CreateStatement]()

	declared := map[string]bool{}
	for n := range Walk(stmt, skip) {
		if cte, ok := n.(*CommonTableExpression); ok {
			declared[strings.ToLower(cte.Name.Value)] = true
		}
	}

	shadowed := map[*Name]bool{}
	seen := map[string]bool{}
	var result []string
	for n := range Walk(stmt, skip) {
		switch n := n.(type) {
		case *Qualified:
			if !n.IsQualified() && declared[strings.ToLower(n.Name.Value)] {
				shadowed[n.Name] = true
			}
		case *Name:
			if shadowed[n] || !slices.Contains(kinds, n.Kind) || n.IsLocal() || strings.EqualFold(n.Value, self) {
				continue
			}
			key := strings.ToLower(n.Value)
			if !seen[key] {
				seen[key] = true
				result = append(result, n.Value)
			}
		}
	}
	sort.Slice(result, func(i, j int) bool { return strings.ToLower(result[i]) < strings.ToLower(result[j]) })
	return result
}

// ObjectSchemaQualifiedNames returns every schema-qualified name below stmt,
// in traversal order.
func ObjectSchemaQualifiedNames(stmt Node) []*Qualified {
	var result []*Qualified
	if q, ok := stmt.(*Qualified); ok && q.IsQualified() {
		result = append(result, q)
	}
	for n := range Walk(stmt, SkipType[CreateStatement]()) {
		if q, ok := n.(*Qualified); ok && q.IsQualified() {
			result = append(result, q)
		}
	}
	return result
}

// DependsOn reports whether stmt references any of the given names; keys of
// names are lower case.
func DependsOn(stmt Node, names map[string]bool) bool {
	if len(names) == 0 {
		return false
	}
	for _, n := range ReferencedNames(stmt) {
		if names[strings.ToLower(n)] {
			return true
		}
	}
	return false
}
