package sqlast

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAlterNotSupported is returned by AlterStatement for objects that can only
// be changed by versioned update scripts.
var ErrAlterNotSupported = errors.New("alteration not supported")

// InstallStatement is a statement that creates or modifies one named schema object.
type InstallStatement interface {
	Statement
	ObjectName() string
	Category() Category
	IsPartOfSchemaDefinition() bool
}

// AlterableStatement is an installable statement that can be dropped and
// altered in place.
type AlterableStatement interface {
	InstallStatement
	DropStatement() Statement
	AlterStatement() (InstallStatement, error)
	// AlterUsingUpdateScript marks objects whose changes are carried by
	// versioned update scripts instead of generated ALTER statements.
	AlterUsingUpdateScript() bool
	// DisableUsagesForUpdate marks objects whose dependents must be dropped
	// and recreated around an alteration.
	DisableUsagesForUpdate() bool
}

// CreateStatement is a statement that defines a top-level inventory object.
type CreateStatement interface {
	InstallStatement
	// ObjectSchema is the schema the object name is qualified with, or "".
	ObjectSchema() string
	// Installables splits the object into the units compared and installed
	// independently.
	Installables() []AlterableStatement
}

var (
	_ CreateStatement    = (*CreateTable)(nil)
	_ CreateStatement    = (*CreateView)(nil)
	_ CreateStatement    = (*CreateProcedure)(nil)
	_ CreateStatement    = (*CreateFunction)(nil)
	_ CreateStatement    = (*CreateTrigger)(nil)
	_ CreateStatement    = (*CreateIndex)(nil)
	_ AlterableStatement = (*TableFragment)(nil)
	_ AlterableStatement = (*ConstraintFragment)(nil)
	_ AlterableStatement = (*CreateView)(nil)
	_ AlterableStatement = (*CreateProcedure)(nil)
	_ AlterableStatement = (*CreateFunction)(nil)
	_ AlterableStatement = (*CreateTrigger)(nil)
	_ AlterableStatement = (*CreateIndex)(nil)
	_ InstallStatement   = (*AlterTableAdd)(nil)
)

// CreateTable

func (s *CreateTable) ObjectName() string            { return s.Table.Name.Value }
func (s *CreateTable) Category() Category            { return CategoryTable }
func (s *CreateTable) IsPartOfSchemaDefinition() bool { return true }
func (s *CreateTable) ObjectSchema() string          { return s.Table.Schema() }
func (s *CreateTable) Installables() []AlterableStatement {
	return s.Fragments(FragmentCompare)
}

// TableFragment

func (s *TableFragment) ObjectName() string             { return s.Table.Name.Value }
func (s *TableFragment) Category() Category             { return CategoryTable }
func (s *TableFragment) IsPartOfSchemaDefinition() bool { return true }
func (s *TableFragment) AlterUsingUpdateScript() bool   { return true }
func (s *TableFragment) DisableUsagesForUpdate() bool   { return false }
func (s *TableFragment) DropStatement() Statement {
	return &Drop{Category: CategoryTable, Object: s.Table}
}
func (s *TableFragment) AlterStatement() (InstallStatement, error) {
	return nil, fmt.Errorf("table %s: %w", s.Table, ErrAlterNotSupported)
}

// ConstraintFragment

func (s *ConstraintFragment) ObjectName() string             { return s.Constraint.Name.Value }
func (s *ConstraintFragment) Category() Category             { return CategoryConstraint }
func (s *ConstraintFragment) IsPartOfSchemaDefinition() bool { return false }
func (s *ConstraintFragment) AlterUsingUpdateScript() bool   { return false }
func (s *ConstraintFragment) DisableUsagesForUpdate() bool   { return false }
func (s *ConstraintFragment) DropStatement() Statement {
	return &AlterTableDropConstraint{TableTarget: TableTarget{Table: s.Table}, Constraint: s.Constraint.Name}
}

// AlterStatement returns the fragment itself: constraints are changed by
// dropping and adding them again.
func (s *ConstraintFragment) AlterStatement() (InstallStatement, error) { return s, nil }

// IsUniqueConstraintOf reports whether the fragment is a primary key or unique
// constraint of one of the given tables.
func (s *ConstraintFragment) IsUniqueConstraintOf(tables map[string]bool) bool {
	return s.Constraint.IsUnique() && tables[strings.ToLower(s.Table.Name.Value)]
}

// CreateView

func (s *CreateView) ObjectName() string                 { return s.View.Name.Value }
func (s *CreateView) Category() Category                 { return CategoryView }
func (s *CreateView) IsPartOfSchemaDefinition() bool     { return false }
func (s *CreateView) ObjectSchema() string               { return s.View.Schema() }
func (s *CreateView) Installables() []AlterableStatement { return []AlterableStatement{s} }
func (s *CreateView) AlterUsingUpdateScript() bool       { return false }
func (s *CreateView) DisableUsagesForUpdate() bool       { return false }
func (s *CreateView) DropStatement() Statement {
	return &Drop{Category: CategoryView, Object: s.View}
}
func (s *CreateView) AlterStatement() (InstallStatement, error) {
	alter := *s
	alter.Alter = true
	return &alter, nil
}

// CreateProcedure

func (s *CreateProcedure) ObjectName() string                 { return s.Procedure.Name.Value }
func (s *CreateProcedure) Category() Category                 { return CategoryProcedure }
func (s *CreateProcedure) IsPartOfSchemaDefinition() bool     { return false }
func (s *CreateProcedure) ObjectSchema() string               { return s.Procedure.Schema() }
func (s *CreateProcedure) Installables() []AlterableStatement { return []AlterableStatement{s} }
func (s *CreateProcedure) AlterUsingUpdateScript() bool       { return false }
func (s *CreateProcedure) DisableUsagesForUpdate() bool       { return false }
func (s *CreateProcedure) DropStatement() Statement {
	return &Drop{Category: CategoryProcedure, Object: s.Procedure}
}
func (s *CreateProcedure) AlterStatement() (InstallStatement, error) {
	alter := *s
	alter.Alter = true
	return &alter, nil
}

// CreateFunction

func (s *CreateFunction) ObjectName() string                 { return s.Function.Name.Value }
func (s *CreateFunction) Category() Category                 { return CategoryFunction }
func (s *CreateFunction) IsPartOfSchemaDefinition() bool     { return false }
func (s *CreateFunction) ObjectSchema() string               { return s.Function.Schema() }
func (s *CreateFunction) Installables() []AlterableStatement { return []AlterableStatement{s} }
func (s *CreateFunction) AlterUsingUpdateScript() bool       { return false }

// DisableUsagesForUpdate is true for functions: computed columns, check
// constraints and schema bound modules using them block ALTER FUNCTION.
func (s *CreateFunction) DisableUsagesForUpdate() bool { return true }
func (s *CreateFunction) DropStatement() Statement {
	return &Drop{Category: CategoryFunction, Object: s.Function}
}
func (s *CreateFunction) AlterStatement() (InstallStatement, error) {
	alter := *s
	alter.Alter = true
	return &alter, nil
}

// CreateTrigger

func (s *CreateTrigger) ObjectName() string                 { return s.Trigger.Name.Value }
func (s *CreateTrigger) Category() Category                 { return CategoryTrigger }
func (s *CreateTrigger) IsPartOfSchemaDefinition() bool     { return false }
func (s *CreateTrigger) ObjectSchema() string               { return s.Trigger.Schema() }
func (s *CreateTrigger) Installables() []AlterableStatement { return []AlterableStatement{s} }
func (s *CreateTrigger) AlterUsingUpdateScript() bool       { return false }
func (s *CreateTrigger) DisableUsagesForUpdate() bool       { return false }
func (s *CreateTrigger) DropStatement() Statement {
	return &Drop{Category: CategoryTrigger, Object: s.Trigger}
}
func (s *CreateTrigger) AlterStatement() (InstallStatement, error) {
	alter := *s
	alter.Alter = true
	return &alter, nil
}

// CreateIndex

func (s *CreateIndex) ObjectName() string                 { return s.Index.Value }
func (s *CreateIndex) Category() Category                 { return CategoryIndex }
func (s *CreateIndex) IsPartOfSchemaDefinition() bool     { return false }
func (s *CreateIndex) ObjectSchema() string               { return s.Table.Schema() }
func (s *CreateIndex) Installables() []AlterableStatement { return []AlterableStatement{s} }
func (s *CreateIndex) AlterUsingUpdateScript() bool       { return false }
func (s *CreateIndex) DisableUsagesForUpdate() bool       { return false }
func (s *CreateIndex) DropStatement() Statement {
	return &DropIndex{Index: s.Index, Table: s.Table}
}

// AlterStatement rebuilds the index in place with DROP_EXISTING = ON.
func (s *CreateIndex) AlterStatement() (InstallStatement, error) {
	alter := *s
	alter.Options = []IndexOption{{Name: "DROP_EXISTING", Value: "ON"}}
	for _, o := range s.Options {
		if !strings.EqualFold(o.Name, "DROP_EXISTING") {
			alter.Options = append(alter.Options, o)
		}
	}
	return &alter, nil
}

// AlterTableAdd is installable under the name of the table it extends.

func (s *AlterTableAdd) ObjectName() string             { return s.Table.Name.Value }
func (s *AlterTableAdd) Category() Category             { return CategoryTable }
func (s *AlterTableAdd) IsPartOfSchemaDefinition() bool { return false }

// Names of dropped objects, used to exclude self references.

func (s *Drop) ObjectName() string                     { return s.Object.Name.Value }
func (s *DropIndex) ObjectName() string                { return s.Index.Value }
func (s *AlterTableDropConstraint) ObjectName() string { return s.Constraint.Value }
