package sqlast

// SelectQuery is a full SELECT, including any WITH prefix, UNION chain,
// ORDER BY and OPTION clause.
type SelectQuery struct {
	CTEs     []*CommonTableExpression
	Distinct bool
	Top      *Top
	Columns  []*SelectColumn
	From     []TableSource
	Where    Expression
	GroupBy  []Expression
	Having   Expression
	Union    *Union
	OrderBy  []*OrderItem
	Options  *QueryOptions
}

// CommonTableExpression is one element of a WITH clause.
type CommonTableExpression struct {
	Name    *Name
	Columns []*Name
	Query   *SelectQuery
}

// Top is TOP (n) [PERCENT] [WITH TIES].
type Top struct {
	Count    Expression
	Percent  bool
	WithTies bool
}

// SelectColumn is one select list item: expr [AS alias], alias = expr or
// @variable = expr.
type SelectColumn struct {
	Variable *Name
	Expr     Expression
	Alias    *Name
}

// Union chains another query with UNION [ALL], EXCEPT or INTERSECT.
type Union struct {
	Op    string
	Query *SelectQuery
}

// OrderItem is expr [ASC|DESC].
type OrderItem struct {
	Expr Expression
	Desc bool
}

// QueryOptions is the OPTION (...) clause. Each hint is kept as one
// upper-case hint name.
type QueryOptions struct {
	Hints []*Name
}

// TableRef is a table or view in FROM, with optional alias and table hints.
type TableRef struct {
	Table *Qualified
	Alias *Name
	Hints []*Name
}

// Join joins two table sources.
type Join struct {
	Left  TableSource
	Type  string
	Right TableSource
	On    Expression
}

// DerivedTable is (SELECT ...) AS alias.
type DerivedTable struct {
	Query *SelectQuery
	Alias *Name
}

// FunctionTable is a table-valued function call in FROM.
type FunctionTable struct {
	Call  *FunctionCall
	Alias *Name
}

func (*SelectQuery) node()           {}
func (*CommonTableExpression) node() {}
func (*Top) node()                   {}
func (*SelectColumn) node()          {}
func (*Union) node()                 {}
func (*OrderItem) node()             {}
func (*QueryOptions) node()          {}
func (*TableRef) node()              {}
func (*Join) node()                  {}
func (*DerivedTable) node()          {}
func (*FunctionTable) node()         {}

func (*TableRef) tableSource()      {}
func (*Join) tableSource()          {}
func (*DerivedTable) tableSource()  {}
func (*FunctionTable) tableSource() {}
