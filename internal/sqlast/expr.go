package sqlast

// LiteralKind distinguishes literal spellings.
type LiteralKind int

const (
	LiteralNumber LiteralKind = iota
	LiteralString
	LiteralUnicode
	LiteralBinary
	LiteralNull
)

// Literal is a constant. Value holds the unquoted text for strings.
type Literal struct {
	Kind  LiteralKind
	Value string
}

// ColumnRef is a possibly qualified column reference such as t.id or dbo.T.id.
type ColumnRef struct {
	Table  *Qualified
	Column *Name
}

// Star is * or t.* in a select list.
type Star struct {
	Table *Qualified
}

// FunctionCall calls a builtin or user defined function.
type FunctionCall struct {
	Function *Qualified
	Distinct bool
	// Star marks COUNT(*)-style calls.
	Star bool
	Args []Expression
	Over *Over
}

// Over is a window specification.
type Over struct {
	PartitionBy []Expression
	OrderBy     []*OrderItem
}

// Binary is a binary operation; Op is the upper-case operator or keyword
// (AND, OR, LIKE, NOT LIKE, =, <>, +, ...).
type Binary struct {
	Op    string
	Left  Expression
	Right Expression
}

// Unary is NOT, unary minus, unary plus or bitwise not.
type Unary struct {
	Op      string
	Operand Expression
}

// IsNull is expr IS [NOT] NULL.
type IsNull struct {
	Expr Expression
	Not  bool
}

// In is expr [NOT] IN (list) or expr [NOT] IN (subquery).
type In struct {
	Expr  Expression
	Not   bool
	List  []Expression
	Query *SelectQuery
}

// Between is expr [NOT] BETWEEN low AND high.
type Between struct {
	Expr Expression
	Not  bool
	Low  Expression
	High Expression
}

// Exists is [NOT] EXISTS (subquery); NOT is expressed via Unary.
type Exists struct {
	Query *SelectQuery
}

// Case is a simple (Operand set) or searched CASE expression.
type Case struct {
	Operand Expression
	Whens   []*When
	Else    Expression
}

// When is one WHEN ... THEN ... arm.
type When struct {
	Condition Expression
	Result    Expression
}

// Cast is CAST(expr AS type) or CONVERT(type, expr[, style]).
type Cast struct {
	Convert bool
	Expr    Expression
	Type    *DataType
	Style   Expression
}

// Subquery is a scalar subquery.
type Subquery struct {
	Query *SelectQuery
}

// Paren is a parenthesized expression.
type Paren struct {
	Expr Expression
}

func (*Literal) node()      {}
func (*ColumnRef) node()    {}
func (*Star) node()         {}
func (*FunctionCall) node() {}
func (*Over) node()         {}
func (*Binary) node()       {}
func (*Unary) node()        {}
func (*IsNull) node()       {}
func (*In) node()           {}
func (*Between) node()      {}
func (*Exists) node()       {}
func (*Case) node()         {}
func (*When) node()         {}
func (*Cast) node()         {}
func (*Subquery) node()     {}
func (*Paren) node()        {}

func (*Literal) expression()      {}
func (*ColumnRef) expression()    {}
func (*Star) expression()         {}
func (*FunctionCall) expression() {}
func (*Binary) expression()       {}
func (*Unary) expression()        {}
func (*IsNull) expression()       {}
func (*In) expression()           {}
func (*Between) expression()      {}
func (*Exists) expression()       {}
func (*Case) expression()         {}
func (*Cast) expression()         {}
func (*Subquery) expression()     {}
func (*Paren) expression()        {}
