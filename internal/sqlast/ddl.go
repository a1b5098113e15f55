package sqlast

// CreateTable is CREATE TABLE.
type CreateTable struct {
	Table       *Qualified
	Definitions []TableDefinition
}

// Nullability of a column.
type Nullability int

const (
	NullUnspecified Nullability = iota
	Null
	NotNull
)

// Identity is IDENTITY(seed, increment).
type Identity struct {
	Seed      string
	Increment string
}

// ColumnDefinition defines one column. Computed columns have no Type.
type ColumnDefinition struct {
	Name        *Name
	Type        *DataType
	Collation   string
	Computed    Expression
	Persisted   bool
	Identity    *Identity
	RowGUID     bool
	Nullability Nullability
	Default     *DefaultConstraint
	Constraints []*Constraint
}

// DefaultConstraint is [CONSTRAINT name] DEFAULT expr. As a table-level
// definition of ALTER TABLE ADD it names its column with FOR.
type DefaultConstraint struct {
	Name   *Name
	Expr   Expression
	Column *Name
}

// ConstraintKind distinguishes table and column constraints.
type ConstraintKind int

const (
	ConstraintPrimaryKey ConstraintKind = iota
	ConstraintUnique
	ConstraintCheck
	ConstraintForeignKey
)

// Constraint is a PRIMARY KEY, UNIQUE, CHECK or FOREIGN KEY constraint. When
// declared inline on a column, Columns is empty.
type Constraint struct {
	Name              *Name
	Kind              ConstraintKind
	Clustered         string
	Columns           []*IndexColumn
	Check             Expression
	NotForReplication bool
	References        *Qualified
	RefColumns        []*Name
	OnDelete          string
	OnUpdate          string
}

// IsUnique reports whether the constraint is a primary key or unique constraint.
func (c *Constraint) IsUnique() bool {
	return c.Kind == ConstraintPrimaryKey || c.Kind == ConstraintUnique
}

// IndexColumn is a column in a key list.
type IndexColumn struct {
	Name *Name
	Desc bool
}

// CheckMode is the WITH CHECK / WITH NOCHECK prefix of ALTER TABLE.
type CheckMode int

const (
	CheckDefault CheckMode = iota
	WithCheck
	WithNoCheck
)

// TableTarget is the common part of every ALTER TABLE statement.
type TableTarget struct {
	Table *Qualified
}

// AlteredTable returns the table the statement modifies.
func (t *TableTarget) AlteredTable() *Qualified {
	return t.Table
}

// TableAlteration is implemented by all ALTER TABLE statements.
type TableAlteration interface {
	Statement
	AlteredTable() *Qualified
}

// AlterTableAdd is ALTER TABLE t [WITH CHECK|WITH NOCHECK] ADD definitions.
type AlterTableAdd struct {
	TableTarget
	Check       CheckMode
	Definitions []TableDefinition
}

// AlterTableDropConstraint is ALTER TABLE t DROP CONSTRAINT c.
type AlterTableDropConstraint struct {
	TableTarget
	Constraint *Name
}

// AlterTableCheckConstraints is ALTER TABLE t [WITH CHECK] CHECK|NOCHECK CONSTRAINT ALL|names.
type AlterTableCheckConstraints struct {
	TableTarget
	Check       CheckMode
	Enable      bool
	Constraints []*Name
}

// AlterTableAlterColumn is ALTER TABLE t ALTER COLUMN definition.
type AlterTableAlterColumn struct {
	TableTarget
	Column *ColumnDefinition
}

// AlterTableDropColumn is ALTER TABLE t DROP COLUMN names.
type AlterTableDropColumn struct {
	TableTarget
	Columns []*Name
}

// FragmentMode selects which definitions of a table a fragment carries.
type FragmentMode int

const (
	// FragmentCompare keeps columns and unnamed constraints; named table
	// constraints become separate constraint fragments.
	FragmentCompare FragmentMode = iota
	// FragmentCreateOnExistingSchema additionally inlines named primary key and
	// unique constraints.
	FragmentCreateOnExistingSchema
	// FragmentFull inlines every definition.
	FragmentFull
)

// TableFragment is the table part of a CREATE TABLE split for comparison.
type TableFragment struct {
	Owner       *CreateTable `walk:"-"`
	Mode        FragmentMode
	Table       *Qualified
	Definitions []TableDefinition
}

// ConstraintFragment is a named table constraint split off a CREATE TABLE; it
// renders as ALTER TABLE t WITH CHECK ADD CONSTRAINT.
type ConstraintFragment struct {
	Owner      *CreateTable `walk:"-"`
	Table      *Qualified
	Constraint *Constraint
}

// Fragments splits the table into installable fragments. The table fragment
// always comes first.
func (s *CreateTable) Fragments(mode FragmentMode) []AlterableStatement {
	table := &TableFragment{Owner: s, Mode: mode, Table: s.Table}
	result := []AlterableStatement{table}
	for _, def := range s.Definitions {
		c, ok := def.(*Constraint)
		if !ok || c.Name == nil || mode == FragmentFull || (mode == FragmentCreateOnExistingSchema && c.IsUnique()) {
			table.Definitions = append(table.Definitions, def)
			continue
		}
		result = append(result, &ConstraintFragment{Owner: s, Table: s.Table, Constraint: c})
	}
	return result
}

// Fragment returns only the table fragment for the given mode.
func (s *CreateTable) Fragment(mode FragmentMode) *TableFragment {
	return s.Fragments(mode)[0].(*TableFragment)
}

func (*CreateTable) node()                {}
func (*ColumnDefinition) node()           {}
func (*DefaultConstraint) node()          {}
func (*Constraint) node()                 {}
func (*IndexColumn) node()                {}
func (*AlterTableAdd) node()              {}
func (*AlterTableDropConstraint) node()   {}
func (*AlterTableCheckConstraints) node() {}
func (*AlterTableAlterColumn) node()      {}
func (*AlterTableDropColumn) node()       {}
func (*TableFragment) node()              {}
func (*ConstraintFragment) node()         {}

func (*CreateTable) statement()                {}
func (*AlterTableAdd) statement()              {}
func (*AlterTableDropConstraint) statement()   {}
func (*AlterTableCheckConstraints) statement() {}
func (*AlterTableAlterColumn) statement()      {}
func (*AlterTableDropColumn) statement()       {}
func (*TableFragment) statement()              {}
func (*ConstraintFragment) statement()         {}

func (*ColumnDefinition) tableDefinition()  {}
func (*DefaultConstraint) tableDefinition() {}
func (*Constraint) tableDefinition()       {}
