package sqlast

import (
	"fmt"
	"strings"
)

// QualifyFunc decides how a schema-qualified name renders. When ok is true
// the written qualifier is replaced by schema, or dropped when schema is "".
type QualifyFunc func(q *Qualified) (schema string, ok bool)

// Render returns the canonical text of a node: upper-case keywords,
// bracketed identifiers, fixed whitespace and no comments. Top-level
// statements carry no terminator.
func Render(n Node, qualify QualifyFunc) string {
	w := &writer{qualify: qualify}
	w.node(n)
	return w.b.String()
}

var builtinTypes = map[string]bool{
	"bigint": true, "binary": true, "bit": true, "char": true, "date": true, "datetime": true,
	"datetime2": true, "datetimeoffset": true, "decimal": true, "float": true, "geography": true,
	"geometry": true, "hierarchyid": true, "image": true, "int": true, "money": true, "nchar": true,
	"ntext": true, "numeric": true, "nvarchar": true, "real": true, "smalldatetime": true,
	"smallint": true, "smallmoney": true, "sql_variant": true, "sysname": true, "text": true,
	"time": true, "timestamp": true, "tinyint": true, "uniqueidentifier": true, "varbinary": true,
	"varchar": true, "xml": true,
}

// IsBuiltinType reports whether name is a system data type.
func IsBuiltinType(name string) bool {
	return builtinTypes[strings.ToLower(name)]
}

type writer struct {
	b       strings.Builder
	qualify QualifyFunc
	indent  int
}

func (w *writer) str(s string) { w.b.WriteString(s) }

func (w *writer) newline() {
	w.b.WriteByte('\n')
	for i := 0; i < w.indent; i++ {
		w.b.WriteByte('\t')
	}
}

func (w *writer) ident(s string) {
	w.b.WriteByte('[')
	w.b.WriteString(strings.ReplaceAll(s, "]", "]]"))
	w.b.WriteByte(']')
}

func (w *writer) name(n *Name) {
	switch n.Kind {
	case KindVariable, KindParameter:
		w.str(n.Value)
	case KindBuiltin, KindHint:
		w.str(strings.ToUpper(n.Value))
	default:
		w.ident(n.Value)
	}
}

func (w *writer) names(list []*Name) {
	for i, n := range list {
		if i > 0 {
			w.str(", ")
		}
		w.name(n)
	}
}

func (w *writer) qualified(q *Qualified) {
	if q.IsQualified() && w.qualify != nil {
		if schema, ok := w.qualify(q); ok {
			if schema != "" {
				w.ident(schema)
				w.str(".")
			}
			w.name(q.Name)
			return
		}
	}
	if q.Qualifier != nil {
		w.name(q.Qualifier)
		w.str(".")
	}
	w.name(q.Name)
}

func (w *writer) dataType(t *DataType) {
	if !t.Name.IsQualified() && IsBuiltinType(t.Name.Name.Value) {
		w.str(strings.ToLower(t.Name.Name.Value))
	} else {
		w.qualified(t.Name)
	}
	if len(t.Params) > 0 {
		w.str("(")
		for i, p := range t.Params {
			if i > 0 {
				w.str(", ")
			}
			w.str(strings.ToLower(p))
		}
		w.str(")")
	}
}

func (w *writer) exprs(list []Expression) {
	for i, e := range list {
		if i > 0 {
			w.str(", ")
		}
		w.node(e)
	}
}

func (w *writer) options(keyword string, options []string) {
	if len(options) == 0 {
		return
	}
	w.str(" " + keyword + " ")
	for i, o := range options {
		if i > 0 {
			w.str(", ")
		}
		w.str(strings.ToUpper(o))
	}
}

// body writes a statement inside a module body. Simple statements get a
// terminator; compound statements terminate their own children.
func (w *writer) body(s Statement) {
	w.node(s)
	switch s.(type) {
	case *Block, *If, *While, *TryCatch:
	default:
		w.str(";")
	}
}

func (w *writer) bodies(list []Statement) {
	for _, s := range list {
		w.newline()
		w.body(s)
	}
}

func (w *writer) block(keyword string, list []Statement, end string) {
	w.str(keyword)
	w.indent++
	w.bodies(list)
	w.indent--
	w.newline()
	w.str(end)
}

func (w *writer) definitions(defs []TableDefinition) {
	w.str(" (")
	w.indent++
	for i, d := range defs {
		if i > 0 {
			w.str(",")
		}
		w.newline()
		w.node(d)
	}
	w.indent--
	w.newline()
	w.str(")")
}

func (w *writer) checkMode(m CheckMode) {
	switch m {
	case WithCheck:
		w.str(" WITH CHECK")
	case WithNoCheck:
		w.str(" WITH NOCHECK")
	}
}

func (w *writer) createOrAlter(alter bool) {
	if alter {
		w.str("ALTER ")
	} else {
		w.str("CREATE ")
	}
}

func (w *writer) indexColumns(cols []*IndexColumn) {
	w.str("(")
	for i, c := range cols {
		if i > 0 {
			w.str(", ")
		}
		w.node(c)
	}
	w.str(")")
}

func (w *writer) parameters(params []*Parameter, parens bool) {
	if parens {
		w.str(" (")
	}
	w.indent++
	for i, p := range params {
		if i > 0 {
			w.str(",")
		}
		w.newline()
		w.node(p)
	}
	w.indent--
	if parens {
		if len(params) > 0 {
			w.newline()
		}
		w.str(")")
	}
}

func (w *writer) tableSources(list []TableSource) {
	for i, s := range list {
		if i > 0 {
			w.str(", ")
		}
		w.node(s)
	}
}

func (w *writer) orderBy(items []*OrderItem) {
	w.str("ORDER BY ")
	for i, o := range items {
		if i > 0 {
			w.str(", ")
		}
		w.node(o)
	}
}

func (w *writer) query(q *SelectQuery) {
	if len(q.CTEs) > 0 {
		w.str("WITH ")
		for i, c := range q.CTEs {
			if i > 0 {
				w.str(", ")
			}
			w.node(c)
		}
		w.newline()
	}
	w.str("SELECT ")
	if q.Distinct {
		w.str("DISTINCT ")
	}
	if q.Top != nil {
		w.node(q.Top)
		w.str(" ")
	}
	for i, c := range q.Columns {
		if i > 0 {
			w.str(", ")
		}
		w.node(c)
	}
	if len(q.From) > 0 {
		w.newline()
		w.str("FROM ")
		w.tableSources(q.From)
	}
	if q.Where != nil {
		w.newline()
		w.str("WHERE ")
		w.node(q.Where)
	}
	if len(q.GroupBy) > 0 {
		w.newline()
		w.str("GROUP BY ")
		w.exprs(q.GroupBy)
	}
	if q.Having != nil {
		w.newline()
		w.str("HAVING ")
		w.node(q.Having)
	}
	if q.Union != nil {
		w.newline()
		w.node(q.Union)
	}
	if len(q.OrderBy) > 0 {
		w.newline()
		w.orderBy(q.OrderBy)
	}
	if q.Options != nil {
		w.newline()
		w.node(q.Options)
	}
}

func (w *writer) subquery(q *SelectQuery) {
	w.str("(")
	w.indent++
	w.query(q)
	w.indent--
	w.str(")")
}

func (w *writer) literal(l *Literal) {
	switch l.Kind {
	case LiteralString:
		w.str("'" + strings.ReplaceAll(l.Value, "'", "''") + "'")
	case LiteralUnicode:
		w.str("N'" + strings.ReplaceAll(l.Value, "'", "''") + "'")
	case LiteralNull:
		w.str("NULL")
	default:
		w.str(l.Value)
	}
}

func (w *writer) constraint(c *Constraint) {
	if c.Name != nil {
		w.str("CONSTRAINT ")
		w.name(c.Name)
		w.str(" ")
	}
	switch c.Kind {
	case ConstraintPrimaryKey, ConstraintUnique:
		if c.Kind == ConstraintPrimaryKey {
			w.str("PRIMARY KEY")
		} else {
			w.str("UNIQUE")
		}
		if c.Clustered != "" {
			w.str(" " + strings.ToUpper(c.Clustered))
		}
		if len(c.Columns) > 0 {
			w.str(" ")
			w.indexColumns(c.Columns)
		}
	case ConstraintCheck:
		w.str("CHECK ")
		if c.NotForReplication {
			w.str("NOT FOR REPLICATION ")
		}
		w.str("(")
		w.node(c.Check)
		w.str(")")
	case ConstraintForeignKey:
		if len(c.Columns) > 0 {
			w.str("FOREIGN KEY ")
			w.indexColumns(c.Columns)
			w.str(" ")
		}
		w.str("REFERENCES ")
		w.qualified(c.References)
		if len(c.RefColumns) > 0 {
			w.str(" (")
			w.names(c.RefColumns)
			w.str(")")
		}
		if c.OnDelete != "" {
			w.str(" ON DELETE " + strings.ToUpper(c.OnDelete))
		}
		if c.OnUpdate != "" {
			w.str(" ON UPDATE " + strings.ToUpper(c.OnUpdate))
		}
		if c.NotForReplication {
			w.str(" NOT FOR REPLICATION")
		}
	}
}

func (w *writer) column(c *ColumnDefinition) {
	w.name(c.Name)
	if c.Computed != nil {
		w.str(" AS ")
		w.node(c.Computed)
		if c.Persisted {
			w.str(" PERSISTED")
		}
	} else {
		w.str(" ")
		w.dataType(c.Type)
		if c.Collation != "" {
			w.str(" COLLATE " + c.Collation)
		}
	}
	if c.Identity != nil {
		fmt.Fprintf(&w.b, " IDENTITY(%s, %s)", c.Identity.Seed, c.Identity.Increment)
	}
	if c.RowGUID {
		w.str(" ROWGUIDCOL")
	}
	switch c.Nullability {
	case Null:
		w.str(" NULL")
	case NotNull:
		w.str(" NOT NULL")
	}
	if c.Default != nil {
		w.str(" ")
		w.node(c.Default)
	}
	for _, k := range c.Constraints {
		w.str(" ")
		w.constraint(k)
	}
}

func (w *writer) node(n Node) {
	switch n := n.(type) {
	case *Name:
		w.name(n)
	case *Qualified:
		w.qualified(n)
	case *DataType:
		w.dataType(n)

	case *Literal:
		w.literal(n)
	case *ColumnRef:
		if n.Table != nil {
			w.qualified(n.Table)
			w.str(".")
		}
		w.name(n.Column)
	case *Star:
		if n.Table != nil {
			w.qualified(n.Table)
			w.str(".")
		}
		w.str("*")
	case *FunctionCall:
		if !n.Function.IsQualified() && n.Function.Name.Kind == KindBuiltin {
			w.str(strings.ToUpper(n.Function.Name.Value))
		} else {
			w.qualified(n.Function)
		}
		w.str("(")
		if n.Distinct {
			w.str("DISTINCT ")
		}
		if n.Star {
			w.str("*")
		} else {
			w.exprs(n.Args)
		}
		w.str(")")
		if n.Over != nil {
			w.str(" ")
			w.node(n.Over)
		}
	case *Over:
		w.str("OVER (")
		if len(n.PartitionBy) > 0 {
			w.str("PARTITION BY ")
			w.exprs(n.PartitionBy)
			if len(n.OrderBy) > 0 {
				w.str(" ")
			}
		}
		if len(n.OrderBy) > 0 {
			w.orderBy(n.OrderBy)
		}
		w.str(")")
	case *Binary:
		w.node(n.Left)
		w.str(" " + n.Op + " ")
		w.node(n.Right)
	case *Unary:
		w.str(n.Op)
		if n.Op == "NOT" {
			w.str(" ")
		}
		w.node(n.Operand)
	case *IsNull:
		w.node(n.Expr)
		if n.Not {
			w.str(" IS NOT NULL")
		} else {
			w.str(" IS NULL")
		}
	case *In:
		w.node(n.Expr)
		if n.Not {
			w.str(" NOT")
		}
		w.str(" IN ")
		if n.Query != nil {
			w.subquery(n.Query)
		} else {
			w.str("(")
			w.exprs(n.List)
			w.str(")")
		}
	case *Between:
		w.node(n.Expr)
		if n.Not {
			w.str(" NOT")
		}
		w.str(" BETWEEN ")
		w.node(n.Low)
		w.str(" AND ")
		w.node(n.High)
	case *Exists:
		w.str("EXISTS ")
		w.subquery(n.Query)
	case *Case:
		w.str("CASE")
		if n.Operand != nil {
			w.str(" ")
			w.node(n.Operand)
		}
		for _, when := range n.Whens {
			w.str(" ")
			w.node(when)
		}
		if n.Else != nil {
			w.str(" ELSE ")
			w.node(n.Else)
		}
		w.str(" END")
	case *When:
		w.str("WHEN ")
		w.node(n.Condition)
		w.str(" THEN ")
		w.node(n.Result)
	case *Cast:
		if n.Convert {
			w.str("CONVERT(")
			w.dataType(n.Type)
			w.str(", ")
			w.node(n.Expr)
			if n.Style != nil {
				w.str(", ")
				w.node(n.Style)
			}
		} else {
			w.str("CAST(")
			w.node(n.Expr)
			w.str(" AS ")
			w.dataType(n.Type)
		}
		w.str(")")
	case *Subquery:
		w.subquery(n.Query)
	case *Paren:
		w.str("(")
		w.node(n.Expr)
		w.str(")")

	case *SelectQuery:
		w.query(n)
	case *CommonTableExpression:
		w.name(n.Name)
		if len(n.Columns) > 0 {
			w.str(" (")
			w.names(n.Columns)
			w.str(")")
		}
		w.str(" AS ")
		w.subquery(n.Query)
	case *Top:
		w.str("TOP (")
		w.node(n.Count)
		w.str(")")
		if n.Percent {
			w.str(" PERCENT")
		}
		if n.WithTies {
			w.str(" WITH TIES")
		}
	case *SelectColumn:
		if n.Variable != nil {
			w.name(n.Variable)
			w.str(" = ")
		}
		w.node(n.Expr)
		if n.Alias != nil {
			w.str(" AS ")
			w.name(n.Alias)
		}
	case *Union:
		w.str(n.Op)
		w.newline()
		w.query(n.Query)
	case *OrderItem:
		w.node(n.Expr)
		if n.Desc {
			w.str(" DESC")
		}
	case *QueryOptions:
		w.str("OPTION (")
		w.names(n.Hints)
		w.str(")")
	case *TableRef:
		w.qualified(n.Table)
		if n.Alias != nil {
			w.str(" AS ")
			w.name(n.Alias)
		}
		if len(n.Hints) > 0 {
			w.str(" WITH (")
			w.names(n.Hints)
			w.str(")")
		}
	case *Join:
		w.node(n.Left)
		w.newline()
		w.str(n.Type + " ")
		w.node(n.Right)
		if n.On != nil {
			w.str(" ON ")
			w.node(n.On)
		}
	case *DerivedTable:
		w.subquery(n.Query)
		w.str(" AS ")
		w.name(n.Alias)
	case *FunctionTable:
		w.node(n.Call)
		if n.Alias != nil {
			w.str(" AS ")
			w.name(n.Alias)
		}

	case *CreateTable:
		w.str("CREATE TABLE ")
		w.qualified(n.Table)
		w.definitions(n.Definitions)
	case *TableFragment:
		w.str("CREATE TABLE ")
		w.qualified(n.Table)
		w.definitions(n.Definitions)
	case *ConstraintFragment:
		w.str("ALTER TABLE ")
		w.qualified(n.Table)
		w.str(" WITH CHECK ADD ")
		w.constraint(n.Constraint)
	case *ColumnDefinition:
		w.column(n)
	case *DefaultConstraint:
		if n.Name != nil {
			w.str("CONSTRAINT ")
			w.name(n.Name)
			w.str(" ")
		}
		w.str("DEFAULT ")
		w.node(n.Expr)
		if n.Column != nil {
			w.str(" FOR ")
			w.name(n.Column)
		}
	case *Constraint:
		w.constraint(n)
	case *IndexColumn:
		w.name(n.Name)
		if n.Desc {
			w.str(" DESC")
		}
	case *AlterTableAdd:
		w.str("ALTER TABLE ")
		w.qualified(n.Table)
		w.checkMode(n.Check)
		w.str(" ADD ")
		for i, d := range n.Definitions {
			if i > 0 {
				w.str(", ")
			}
			w.node(d)
		}
	case *AlterTableDropConstraint:
		w.str("ALTER TABLE ")
		w.qualified(n.Table)
		w.str(" DROP CONSTRAINT ")
		w.name(n.Constraint)
	case *AlterTableCheckConstraints:
		w.str("ALTER TABLE ")
		w.qualified(n.Table)
		w.checkMode(n.Check)
		if n.Enable {
			w.str(" CHECK CONSTRAINT ")
		} else {
			w.str(" NOCHECK CONSTRAINT ")
		}
		if len(n.Constraints) == 0 {
			w.str("ALL")
		} else {
			w.names(n.Constraints)
		}
	case *AlterTableAlterColumn:
		w.str("ALTER TABLE ")
		w.qualified(n.Table)
		w.str(" ALTER COLUMN ")
		w.column(n.Column)
	case *AlterTableDropColumn:
		w.str("ALTER TABLE ")
		w.qualified(n.Table)
		w.str(" DROP COLUMN ")
		w.names(n.Columns)

	case *CreateView:
		w.createOrAlter(n.Alter)
		w.str("VIEW ")
		w.qualified(n.View)
		if len(n.Columns) > 0 {
			w.str(" (")
			w.names(n.Columns)
			w.str(")")
		}
		w.options("WITH", n.Options)
		w.str(" AS")
		w.newline()
		w.query(n.Query)
		if n.CheckOption {
			w.newline()
			w.str("WITH CHECK OPTION")
		}
	case *Parameter:
		w.name(n.Name)
		w.str(" ")
		w.dataType(n.Type)
		if n.Default != nil {
			w.str(" = ")
			w.node(n.Default)
		}
		if n.Output {
			w.str(" OUTPUT")
		}
		if n.ReadOnly {
			w.str(" READONLY")
		}
	case *CreateProcedure:
		w.createOrAlter(n.Alter)
		w.str("PROCEDURE ")
		w.qualified(n.Procedure)
		w.parameters(n.Parameters, false)
		w.options("WITH", n.Options)
		w.newline()
		w.str("AS")
		w.bodies(n.Body)
	case *CreateFunction:
		w.createOrAlter(n.Alter)
		w.str("FUNCTION ")
		w.qualified(n.Function)
		w.parameters(n.Parameters, true)
		w.newline()
		w.node(n.Returns)
		w.options("WITH", n.Options)
		w.newline()
		w.str("AS")
		if n.Query != nil {
			w.newline()
			w.str("RETURN ")
			w.subquery(n.Query)
		} else {
			w.bodies(n.Body)
		}
	case *FunctionReturn:
		w.str("RETURNS ")
		switch {
		case n.Type != nil:
			w.dataType(n.Type)
		case n.Variable != nil:
			w.name(n.Variable)
			w.str(" TABLE")
			w.definitions(n.Definitions)
		default:
			w.str("TABLE")
		}
	case *CreateTrigger:
		w.createOrAlter(n.Alter)
		w.str("TRIGGER ")
		w.qualified(n.Trigger)
		w.str(" ON ")
		w.qualified(n.Table)
		w.str(" " + strings.ToUpper(n.Timing) + " " + strings.ToUpper(strings.Join(n.Events, ", ")))
		if n.NotForReplication {
			w.str(" NOT FOR REPLICATION")
		}
		w.newline()
		w.str("AS")
		w.bodies(n.Body)
	case *CreateIndex:
		w.str("CREATE ")
		if n.Unique {
			w.str("UNIQUE ")
		}
		if n.Clustered != "" {
			w.str(strings.ToUpper(n.Clustered) + " ")
		}
		w.str("INDEX ")
		w.name(n.Index)
		w.str(" ON ")
		w.qualified(n.Table)
		w.str(" ")
		w.indexColumns(n.Columns)
		if len(n.Include) > 0 {
			w.str(" INCLUDE (")
			w.names(n.Include)
			w.str(")")
		}
		if n.Where != nil {
			w.str(" WHERE ")
			w.node(n.Where)
		}
		if len(n.Options) > 0 {
			w.str(" WITH (")
			for i, o := range n.Options {
				if i > 0 {
					w.str(", ")
				}
				w.str(strings.ToUpper(o.Name) + " = " + strings.ToUpper(o.Value))
			}
			w.str(")")
		}

	case *CreateSchema:
		w.str("CREATE SCHEMA ")
		w.name(n.Schema)
		if n.Authorization != nil {
			w.str(" AUTHORIZATION ")
			w.name(n.Authorization)
		}
		w.indent++
		for _, s := range n.Statements {
			w.newline()
			w.node(s)
		}
		w.indent--
	case *Drop:
		w.str("DROP " + n.Category.keyword() + " ")
		w.qualified(n.Object)
	case *DropIndex:
		w.str("DROP INDEX ")
		w.name(n.Index)
		w.str(" ON ")
		w.qualified(n.Table)
	case *Insert:
		w.str("INSERT INTO ")
		w.qualified(n.Table)
		if len(n.Columns) > 0 {
			w.str(" (")
			w.names(n.Columns)
			w.str(")")
		}
		switch {
		case n.DefaultValues:
			w.str(" DEFAULT VALUES")
		case n.Query != nil:
			w.newline()
			w.query(n.Query)
		default:
			w.str(" VALUES ")
			for i, r := range n.Rows {
				if i > 0 {
					w.str(", ")
				}
				w.node(r)
			}
		}
	case *ValuesRow:
		w.str("(")
		w.exprs(n.Values)
		w.str(")")
	case *Update:
		w.str("UPDATE ")
		if n.Top != nil {
			w.node(n.Top)
			w.str(" ")
		}
		w.qualified(n.Target)
		w.str(" SET ")
		for i, a := range n.Set {
			if i > 0 {
				w.str(", ")
			}
			w.node(a)
		}
		if len(n.From) > 0 {
			w.newline()
			w.str("FROM ")
			w.tableSources(n.From)
		}
		if n.Where != nil {
			w.newline()
			w.str("WHERE ")
			w.node(n.Where)
		}
	case *Assignment:
		w.node(n.Column)
		w.str(" " + n.Op + " ")
		w.node(n.Value)
	case *Delete:
		w.str("DELETE ")
		if n.Top != nil {
			w.node(n.Top)
			w.str(" ")
		}
		w.str("FROM ")
		w.qualified(n.Target)
		if len(n.From) > 0 {
			w.newline()
			w.str("FROM ")
			w.tableSources(n.From)
		}
		if n.Where != nil {
			w.newline()
			w.str("WHERE ")
			w.node(n.Where)
		}
	case *Exec:
		w.str("EXEC ")
		if n.Result != nil {
			w.name(n.Result)
			w.str(" = ")
		}
		w.qualified(n.Procedure)
		for i, a := range n.Args {
			if i > 0 {
				w.str(",")
			}
			w.str(" ")
			w.node(a)
		}
	case *ExecArg:
		if n.Parameter != nil {
			w.name(n.Parameter)
			w.str(" = ")
		}
		w.node(n.Value)
		if n.Output {
			w.str(" OUTPUT")
		}
	case *SetIdentityInsert:
		w.str("SET IDENTITY_INSERT ")
		w.qualified(n.Table)
		if n.On {
			w.str(" ON")
		} else {
			w.str(" OFF")
		}
	case *SetOption:
		w.str("SET " + strings.ToUpper(strings.Join(n.Options, ", ")) + " " + strings.ToUpper(n.Value))
	case *Declare:
		w.str("DECLARE ")
		for i, v := range n.Variables {
			if i > 0 {
				w.str(", ")
			}
			w.node(v)
		}
	case *VariableDeclaration:
		w.name(n.Name)
		if n.Type != nil {
			w.str(" ")
			w.dataType(n.Type)
		} else {
			w.str(" TABLE")
			w.definitions(n.Definitions)
		}
		if n.Value != nil {
			w.str(" = ")
			w.node(n.Value)
		}
	case *SetVariable:
		w.str("SET ")
		w.name(n.Variable)
		w.str(" " + n.Op + " ")
		w.node(n.Value)
	case *If:
		w.str("IF ")
		w.node(n.Condition)
		w.indent++
		w.newline()
		w.body(n.Then)
		w.indent--
		if n.Else != nil {
			w.newline()
			w.str("ELSE")
			w.indent++
			w.newline()
			w.body(n.Else)
			w.indent--
		}
	case *While:
		w.str("WHILE ")
		w.node(n.Condition)
		w.indent++
		w.newline()
		w.body(n.Body)
		w.indent--
	case *Block:
		w.block("BEGIN", n.Statements, "END")
	case *TryCatch:
		w.block("BEGIN TRY", n.Try, "END TRY")
		w.newline()
		w.block("BEGIN CATCH", n.Catch, "END CATCH")
	case *Return:
		w.str("RETURN")
		if n.Value != nil {
			w.str(" ")
			w.node(n.Value)
		}
	case *SelectStatement:
		w.query(n.Query)
	case *Print:
		w.str("PRINT ")
		w.node(n.Value)
	case *Raiserror:
		w.str("RAISERROR (")
		w.exprs(n.Args)
		w.str(")")
		w.options("WITH", n.Options)
	case *Transaction:
		w.str(n.Action + " TRANSACTION")
		if n.Name != nil {
			w.str(" ")
			w.name(n.Name)
		}
	default:
		panic(fmt.Sprintf("sqlast: cannot render %T", n))
	}
}
