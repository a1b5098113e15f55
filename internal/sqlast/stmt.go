package sqlast

// CreateSchema is CREATE SCHEMA with optional nested statements.
type CreateSchema struct {
	Schema        *Name
	Authorization *Name
	Statements    []Statement
}

// Drop is DROP TABLE/VIEW/PROCEDURE/FUNCTION/TRIGGER.
type Drop struct {
	Category Category
	Object   *Qualified
}

// DropIndex is DROP INDEX i ON t.
type DropIndex struct {
	Index *Name
	Table *Qualified
}

// Insert is INSERT [INTO] t [(columns)] VALUES ... | SELECT ... | DEFAULT VALUES.
type Insert struct {
	Table         *Qualified
	Columns       []*Name
	Rows          []*ValuesRow
	Query         *SelectQuery
	DefaultValues bool
}

// ValuesRow is one parenthesized VALUES row.
type ValuesRow struct {
	Values []Expression
}

// Update is UPDATE target SET ... [FROM ...] [WHERE ...].
type Update struct {
	Top    *Top
	Target *Qualified
	Set    []*Assignment
	From   []TableSource
	Where  Expression
}

// Assignment is one SET item of an UPDATE.
type Assignment struct {
	Column *ColumnRef
	Op     string
	Value  Expression
}

// Delete is DELETE [FROM] target [FROM ...] [WHERE ...].
type Delete struct {
	Top    *Top
	Target *Qualified
	From   []TableSource
	Where  Expression
}

// Exec is EXEC [@result =] procedure args.
type Exec struct {
	Result    *Name
	Procedure *Qualified
	Args      []*ExecArg
}

// ExecArg is one procedure argument.
type ExecArg struct {
	Parameter *Name
	Value     Expression
	Output    bool
}

// SetIdentityInsert is SET IDENTITY_INSERT t ON|OFF.
type SetIdentityInsert struct {
	Table *Qualified
	On    bool
}

// SetOption is SET option[, option] value, such as SET NOCOUNT ON.
type SetOption struct {
	Options []string
	Value   string
}

// Declare is DECLARE @v type [= value][, ...].
type Declare struct {
	Variables []*VariableDeclaration
}

// VariableDeclaration declares one variable; table variables carry Definitions.
type VariableDeclaration struct {
	Name        *Name
	Type        *DataType
	Definitions []TableDefinition
	Value       Expression
}

// SetVariable is SET @v = value (or a compound assignment operator).
type SetVariable struct {
	Variable *Name
	Op       string
	Value    Expression
}

// If is IF condition statement [ELSE statement].
type If struct {
	Condition Expression
	Then      Statement
	Else      Statement
}

// While is WHILE condition statement.
type While struct {
	Condition Expression
	Body      Statement
}

// Block is BEGIN ... END.
type Block struct {
	Statements []Statement
}

// TryCatch is BEGIN TRY ... END TRY BEGIN CATCH ... END CATCH.
type TryCatch struct {
	Try   []Statement
	Catch []Statement
}

// Return is RETURN [value].
type Return struct {
	Value Expression
}

// SelectStatement is a query used as a statement.
type SelectStatement struct {
	Query *SelectQuery
}

// Print is PRINT value.
type Print struct {
	Value Expression
}

// Raiserror is RAISERROR(args) [WITH options].
type Raiserror struct {
	Args    []Expression
	Options []string
}

// Transaction is BEGIN TRAN, COMMIT, ROLLBACK or SAVE TRAN.
type Transaction struct {
	Action string
	Name   *Name
}

func (*CreateSchema) node()        {}
func (*Drop) node()                {}
func (*DropIndex) node()           {}
func (*Insert) node()              {}
func (*ValuesRow) node()           {}
func (*Update) node()              {}
func (*Assignment) node()          {}
func (*Delete) node()              {}
func (*Exec) node()                {}
func (*ExecArg) node()             {}
func (*SetIdentityInsert) node()   {}
func (*SetOption) node()           {}
func (*Declare) node()             {}
func (*VariableDeclaration) node() {}
func (*SetVariable) node()         {}
func (*If) node()                  {}
func (*While) node()               {}
func (*Block) node()               {}
func (*TryCatch) node()            {}
func (*Return) node()              {}
func (*SelectStatement) node()     {}
func (*Print) node()               {}
func (*Raiserror) node()           {}
func (*Transaction) node()         {}

func (*CreateSchema) statement()      {}
func (*Drop) statement()              {}
func (*DropIndex) statement()         {}
func (*Insert) statement()            {}
func (*Update) statement()            {}
func (*Delete) statement()            {}
func (*Exec) statement()              {}
func (*SetIdentityInsert) statement() {}
func (*SetOption) statement()         {}
func (*Declare) statement()           {}
func (*SetVariable) statement()       {}
func (*If) statement()                {}
func (*While) statement()             {}
func (*Block) statement()             {}
func (*TryCatch) statement()          {}
func (*Return) statement()            {}
func (*SelectStatement) statement()   {}
func (*Print) statement()             {}
func (*Raiserror) statement()         {}
func (*Transaction) statement()       {}
