// Package sqlast holds the syntax tree of the T-SQL subset understood by the
// module store, together with generic traversal, name extraction, canonical
// rendering and hashing over that tree.
//
// Nodes are created once by the parser and never mutated afterwards. Every
// node type is a pointer to a struct; the children of a node are discovered
// through a declarative descriptor table (see descriptors.go) instead of
// hand-written visitors.
package sqlast

import "strings"

// Node is implemented by every syntax tree element.
type Node interface {
	node()
}

// Statement is a top-level or nested SQL statement.
type Statement interface {
	Node
	statement()
}

// Expression is a scalar or boolean expression.
type Expression interface {
	Node
	expression()
}

// TableSource is an element of a FROM clause.
type TableSource interface {
	Node
	tableSource()
}

// TableDefinition is a column or a constraint inside CREATE TABLE or ALTER TABLE ADD.
type TableDefinition interface {
	Node
	tableDefinition()
}

// NameKind classifies identifiers.
type NameKind int

const (
	KindUnknown NameKind = iota
	KindSchema
	// KindObject is a reference to a table, view or table-valued function
	// whose exact category is not known at parse time.
	KindObject
	KindTable
	KindView
	KindProcedure
	KindFunction
	KindIndex
	KindConstraint
	KindTrigger
	KindColumn
	KindType
	KindVariable
	KindParameter
	KindAlias
	KindBuiltin
	KindHint
)

var nameKindNames = map[NameKind]string{
	KindUnknown:    "unknown",
	KindSchema:     "schema",
	KindObject:     "object",
	KindTable:      "table",
	KindView:       "view",
	KindProcedure:  "procedure",
	KindFunction:   "function",
	KindIndex:      "index",
	KindConstraint: "constraint",
	KindTrigger:    "trigger",
	KindColumn:     "column",
	KindType:       "type",
	KindVariable:   "variable",
	KindParameter:  "parameter",
	KindAlias:      "alias",
	KindBuiltin:    "builtin",
	KindHint:       "hint",
}

func (k NameKind) String() string {
	if s, ok := nameKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ObjectKinds are the name kinds that identify schema objects and therefore
// form dependency edges.
var ObjectKinds = []NameKind{KindObject, KindTable, KindView, KindProcedure, KindFunction, KindTrigger}

// Name is a single identifier.
type Name struct {
	Kind  NameKind
	Value string
}

// IsLocal reports whether the name is session-local: a variable, a parameter
// or a temporary table.
func (n *Name) IsLocal() bool {
	return strings.HasPrefix(n.Value, "@") || strings.HasPrefix(n.Value, "#")
}

// EqualFold compares two names case-insensitively.
func (n *Name) EqualFold(value string) bool {
	return n != nil && strings.EqualFold(n.Value, value)
}

// Qualified is an optionally schema-qualified object name.
type Qualified struct {
	Qualifier *Name
	Name      *Name
}

// IsQualified reports whether the name carries a schema qualifier.
func (q *Qualified) IsQualified() bool {
	return q.Qualifier != nil && q.Qualifier.Kind == KindSchema
}

// Schema returns the schema qualifier or an empty string.
func (q *Qualified) Schema() string {
	if q.IsQualified() {
		return q.Qualifier.Value
	}
	return ""
}

// String renders the name without brackets, for messages and logs.
func (q *Qualified) String() string {
	if q.Qualifier != nil {
		return q.Qualifier.Value + "." + q.Name.Value
	}
	return q.Name.Value
}

// DataType is a column, parameter or variable type.
type DataType struct {
	Name   *Qualified
	Params []string
}

func (*Name) node()      {}
func (*Qualified) node() {}
func (*DataType) node()  {}

func (*Name) expression() {}

// Category is the kind of schema object an installable statement creates.
type Category int

const (
	CategoryUnknown Category = iota
	CategorySchema
	CategoryTable
	CategoryView
	CategoryProcedure
	CategoryFunction
	CategoryIndex
	CategoryConstraint
	CategoryTrigger
)

var categoryNames = map[Category]string{
	CategoryUnknown:    "unknown",
	CategorySchema:     "schema",
	CategoryTable:      "table",
	CategoryView:       "view",
	CategoryProcedure:  "procedure",
	CategoryFunction:   "function",
	CategoryIndex:      "index",
	CategoryConstraint: "constraint",
	CategoryTrigger:    "trigger",
}

func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return "unknown"
}

// keyword returns the SQL keyword used in CREATE/ALTER/DROP for the category.
func (c Category) keyword() string {
	return strings.ToUpper(c.String())
}
