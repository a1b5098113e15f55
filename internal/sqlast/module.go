package sqlast

import "strings"

// CreateView is CREATE VIEW (or ALTER VIEW when Alter is set).
type CreateView struct {
	Alter       bool
	View        *Qualified
	Columns     []*Name
	Options     []string
	Query       *SelectQuery
	CheckOption bool
}

// Routine is the shared part of procedures and functions.
type Routine struct {
	Alter      bool
	Parameters []*Parameter
	Options    []string
	Body       []Statement
}

// Parameter is a routine parameter.
type Parameter struct {
	Name     *Name
	Type     *DataType
	Default  Expression
	Output   bool
	ReadOnly bool
}

// CreateProcedure is CREATE PROCEDURE.
type CreateProcedure struct {
	Routine
	Procedure *Qualified
}

// CreateFunction is CREATE FUNCTION. Inline table-valued functions carry
// Query and no Body.
type CreateFunction struct {
	Routine
	Function *Qualified
	Returns  *FunctionReturn
	Query    *SelectQuery
}

// FunctionReturn is the RETURNS clause: a scalar type, TABLE, or a table
// variable with its definitions.
type FunctionReturn struct {
	Type        *DataType
	Variable    *Name
	Definitions []TableDefinition
}

// CreateTrigger is CREATE TRIGGER ... ON table.
type CreateTrigger struct {
	Alter             bool
	Trigger           *Qualified
	Table             *Qualified
	Timing            string
	Events            []string
	NotForReplication bool
	Body              []Statement
}

// IndexOption is one NAME = VALUE pair of an index WITH clause.
type IndexOption struct {
	Name  string
	Value string
}

// CreateIndex is CREATE [UNIQUE] [CLUSTERED|NONCLUSTERED] INDEX.
type CreateIndex struct {
	Index     *Name
	Table     *Qualified
	Unique    bool
	Clustered string
	Columns   []*IndexColumn
	Include   []*Name
	Where     Expression
	Options   []IndexOption
}

func hasOption(options []string, option string) bool {
	for _, o := range options {
		if strings.EqualFold(o, option) {
			return true
		}
	}
	return false
}

// SchemaBound reports WITH SCHEMABINDING.
func (s *CreateView) SchemaBound() bool { return hasOption(s.Options, "SCHEMABINDING") }

// SchemaBound reports WITH SCHEMABINDING.
func (r *Routine) SchemaBound() bool { return hasOption(r.Options, "SCHEMABINDING") }

func (*CreateView) node()      {}
func (*Parameter) node()       {}
func (*CreateProcedure) node() {}
func (*CreateFunction) node()  {}
func (*FunctionReturn) node()  {}
func (*CreateTrigger) node()   {}
func (*CreateIndex) node()     {}

func (*CreateView) statement()      {}
func (*CreateProcedure) statement() {}
func (*CreateFunction) statement()  {}
func (*CreateTrigger) statement()   {}
func (*CreateIndex) statement()     {}
