package tsql

import (
	"strings"

	"github.com/xingh/bsn-modulestore/internal/sqlast"
)

// niladic builtins are written without parentheses.
var niladic = map[string]bool{
	"CURRENT_TIMESTAMP": true, "CURRENT_USER": true, "SESSION_USER": true, "SYSTEM_USER": true, "USER": true,
}

// dateFunctions take a datepart keyword as first argument.
var dateFunctions = map[string]bool{
	"DATEADD": true, "DATEDIFF": true, "DATEDIFF_BIG": true, "DATENAME": true, "DATEPART": true, "DATETRUNC": true,
}

var comparisonOps = []string{"=", "<>", "!=", "<", ">", "<=", ">=", "!<", "!>"}

func (p *parser) expression() sqlast.Expression {
	left := p.andExpr()
	for p.acceptKeyword("OR") {
		left = &sqlast.Binary{Op: "OR", Left: left, Right: p.andExpr()}
	}
	return left
}

func (p *parser) andExpr() sqlast.Expression {
	left := p.notExpr()
	for p.acceptKeyword("AND") {
		left = &sqlast.Binary{Op: "AND", Left: left, Right: p.notExpr()}
	}
	return left
}

func (p *parser) notExpr() sqlast.Expression {
	if p.acceptKeyword("NOT") {
		return &sqlast.Unary{Op: "NOT", Operand: p.notExpr()}
	}
	return p.predicate()
}

func (p *parser) predicate() sqlast.Expression {
	left := p.additive()
	if p.isOp(comparisonOps...) {
		op := p.next().text
		if op == "!=" {
			op = "<>"
		}
		return &sqlast.Binary{Op: op, Left: left, Right: p.additive()}
	}
	if p.acceptKeyword("IS") {
		not := p.acceptKeyword("NOT")
		p.expectKeyword("NULL")
		return &sqlast.IsNull{Expr: left, Not: not}
	}
	not := false
	if p.isKeyword("NOT") && isKeywordToken(p.peekAt(1), "LIKE", "IN", "BETWEEN") {
		p.next()
		not = true
	}
	switch {
	case p.acceptKeyword("LIKE"):
		op := "LIKE"
		if not {
			op = "NOT LIKE"
		}
		return &sqlast.Binary{Op: op, Left: left, Right: p.additive()}
	case p.acceptKeyword("IN"):
		in := &sqlast.In{Expr: left, Not: not}
		p.expectOp("(")
		if p.isKeyword("SELECT", "WITH") {
			in.Query = p.selectQuery()
		} else {
			in.List = p.expressionList()
		}
		p.expectOp(")")
		return in
	case p.acceptKeyword("BETWEEN"):
		b := &sqlast.Between{Expr: left, Not: not, Low: p.additive()}
		p.expectKeyword("AND")
		b.High = p.additive()
		return b
	}
	return left
}

func (p *parser) additive() sqlast.Expression {
	left := p.multiplicative()
	for p.isOp("+", "-", "&", "|", "^") {
		op := p.next().text
		left = &sqlast.Binary{Op: op, Left: left, Right: p.multiplicative()}
	}
	return left
}

func (p *parser) multiplicative() sqlast.Expression {
	left := p.unary()
	for p.isOp("*", "/", "%") {
		op := p.next().text
		left = &sqlast.Binary{Op: op, Left: left, Right: p.unary()}
	}
	return left
}

func (p *parser) unary() sqlast.Expression {
	if p.isOp("-", "+", "~") {
		op := p.next().text
		return &sqlast.Unary{Op: op, Operand: p.unary()}
	}
	return p.primary()
}

func (p *parser) expressionList() []sqlast.Expression {
	var list []sqlast.Expression
	for {
		list = append(list, p.expression())
		if !p.acceptOp(",") {
			return list
		}
	}
}

func (p *parser) primary() sqlast.Expression {
	t := p.peek()
	switch t.kind {
	case tokNumber:
		p.next()
		return &sqlast.Literal{Kind: sqlast.LiteralNumber, Value: t.text}
	case tokString:
		p.next()
		return &sqlast.Literal{Kind: sqlast.LiteralString, Value: t.text}
	case tokUnicode:
		p.next()
		return &sqlast.Literal{Kind: sqlast.LiteralUnicode, Value: t.text}
	case tokBinary:
		p.next()
		return &sqlast.Literal{Kind: sqlast.LiteralBinary, Value: strings.ToUpper(t.text[:2]) + t.text[2:]}
	case tokVariable:
		return p.variable(sqlast.KindVariable)
	case tokOp:
		if t.text != "(" {
			break
		}
		p.next()
		if p.isKeyword("SELECT", "WITH") {
			q := p.selectQuery()
			p.expectOp(")")
			return &sqlast.Subquery{Query: q}
		}
		e := p.expression()
		p.expectOp(")")
		return &sqlast.Paren{Expr: e}
	case tokIdent:
		switch strings.ToUpper(t.text) {
		case "NULL":
			p.next()
			return &sqlast.Literal{Kind: sqlast.LiteralNull, Value: "NULL"}
		case "CASE":
			return p.caseExpr()
		case "CAST":
			if p.peekAt(1).kind == tokOp && p.peekAt(1).text == "(" {
				return p.cast()
			}
		case "CONVERT":
			if p.peekAt(1).kind == tokOp && p.peekAt(1).text == "(" {
				return p.convert()
			}
		case "EXISTS":
			p.next()
			p.expectOp("(")
			q := p.selectQuery()
			p.expectOp(")")
			return &sqlast.Exists{Query: q}
		}
		if niladic[strings.ToUpper(t.text)] && !(p.peekAt(1).kind == tokOp && (p.peekAt(1).text == "(" || p.peekAt(1).text == ".")) {
			p.next()
			return &sqlast.Name{Kind: sqlast.KindBuiltin, Value: t.text}
		}
		if reserved[strings.ToUpper(t.text)] && !(p.peekAt(1).kind == tokOp && p.peekAt(1).text == "(") {
			break
		}
		return p.nameExpr()
	case tokQuoted:
		return p.nameExpr()
	}
	p.unexpected("expression")
	return nil
}

// nameExpr reads a column reference or a function call.
func (p *parser) nameExpr() sqlast.Expression {
	parts := []*sqlast.Name{p.ident(sqlast.KindUnknown)}
	for p.isOp(".") && (p.peekAt(1).kind == tokIdent || p.peekAt(1).kind == tokQuoted) {
		p.next()
		parts = append(parts, p.ident(sqlast.KindUnknown))
	}
	if p.isOp("(") {
		var fn *sqlast.Qualified
		last := parts[len(parts)-1]
		if len(parts) == 1 {
			last.Kind = sqlast.KindBuiltin
			fn = &sqlast.Qualified{Name: last}
		} else {
			schema := parts[len(parts)-2]
			schema.Kind = sqlast.KindSchema
			last.Kind = sqlast.KindFunction
			fn = &sqlast.Qualified{Qualifier: schema, Name: last}
		}
		return p.functionCall(fn)
	}
	return columnRef(parts)
}

func columnRef(parts []*sqlast.Name) *sqlast.ColumnRef {
	col := parts[len(parts)-1]
	col.Kind = sqlast.KindColumn
	switch {
	case len(parts) == 1:
		return &sqlast.ColumnRef{Column: col}
	case len(parts) == 2:
		return &sqlast.ColumnRef{Table: &sqlast.Qualified{Name: parts[0]}, Column: col}
	}
	schema, table := parts[len(parts)-3], parts[len(parts)-2]
	schema.Kind = sqlast.KindSchema
	table.Kind = sqlast.KindObject
	return &sqlast.ColumnRef{Table: &sqlast.Qualified{Qualifier: schema, Name: table}, Column: col}
}

// columnRef reads the target column of an UPDATE SET item.
func (p *parser) columnRef() *sqlast.ColumnRef {
	parts := []*sqlast.Name{p.ident(sqlast.KindUnknown)}
	for p.acceptOp(".") {
		parts = append(parts, p.ident(sqlast.KindUnknown))
	}
	return columnRef(parts)
}

func (p *parser) functionCall(fn *sqlast.Qualified) *sqlast.FunctionCall {
	call := &sqlast.FunctionCall{Function: fn}
	p.expectOp("(")
	switch {
	case p.acceptOp(")"):
		return p.over(call)
	case p.isOp("*"):
		p.next()
		call.Star = true
	default:
		call.Distinct = p.acceptKeyword("DISTINCT")
		if !fn.IsQualified() && dateFunctions[strings.ToUpper(fn.Name.Value)] {
			call.Args = append(call.Args, p.ident(sqlast.KindBuiltin))
			if !p.acceptOp(",") {
				break
			}
		}
		call.Args = append(call.Args, p.expressionList()...)
	}
	p.expectOp(")")
	return p.over(call)
}

func (p *parser) over(call *sqlast.FunctionCall) *sqlast.FunctionCall {
	if !p.acceptKeyword("OVER") {
		return call
	}
	call.Over = &sqlast.Over{}
	p.expectOp("(")
	if p.acceptKeyword("PARTITION") {
		p.expectKeyword("BY")
		call.Over.PartitionBy = p.expressionList()
	}
	if p.acceptKeyword("ORDER") {
		p.expectKeyword("BY")
		call.Over.OrderBy = p.orderItems()
	}
	p.expectOp(")")
	return call
}

func (p *parser) caseExpr() sqlast.Expression {
	p.expectKeyword("CASE")
	c := &sqlast.Case{}
	if !p.isKeyword("WHEN") {
		c.Operand = p.expression()
	}
	for p.acceptKeyword("WHEN") {
		w := &sqlast.When{Condition: p.expression()}
		p.expectKeyword("THEN")
		w.Result = p.expression()
		c.Whens = append(c.Whens, w)
	}
	if len(c.Whens) == 0 {
		p.unexpected("WHEN")
	}
	if p.acceptKeyword("ELSE") {
		c.Else = p.expression()
	}
	p.expectKeyword("END")
	return c
}

func (p *parser) cast() sqlast.Expression {
	p.next()
	p.expectOp("(")
	c := &sqlast.Cast{Expr: p.expression()}
	p.expectKeyword("AS")
	c.Type = p.dataType()
	p.expectOp(")")
	return c
}

func (p *parser) convert() sqlast.Expression {
	p.next()
	p.expectOp("(")
	c := &sqlast.Cast{Convert: true, Type: p.dataType()}
	p.expectOp(",")
	c.Expr = p.expression()
	if p.acceptOp(",") {
		c.Style = p.expression()
	}
	p.expectOp(")")
	return c
}

func (p *parser) dataType() *sqlast.DataType {
	t := &sqlast.DataType{Name: p.qualified(sqlast.KindType)}
	if !p.acceptOp("(") {
		return t
	}
	for {
		tok := p.next()
		switch {
		case tok.kind == tokNumber:
			t.Params = append(t.Params, tok.text)
		case isKeywordToken(tok, "MAX"):
			t.Params = append(t.Params, "max")
		default:
			p.fail(tok, "expected type length, found %s", tok)
		}
		if !p.acceptOp(",") {
			break
		}
	}
	p.expectOp(")")
	return t
}

func (p *parser) orderItems() []*sqlast.OrderItem {
	var items []*sqlast.OrderItem
	for {
		item := &sqlast.OrderItem{Expr: p.expression()}
		if p.acceptKeyword("DESC") {
			item.Desc = true
		} else {
			p.acceptKeyword("ASC")
		}
		items = append(items, item)
		if !p.acceptOp(",") {
			return items
		}
	}
}

// selectQuery reads [WITH ctes] SELECT ... [UNION ...] [ORDER BY] [OPTION].
func (p *parser) selectQuery() *sqlast.SelectQuery {
	var ctes []*sqlast.CommonTableExpression
	if p.acceptKeyword("WITH") {
		for {
			cte := &sqlast.CommonTableExpression{Name: p.ident(sqlast.KindAlias)}
			if p.isOp("(") {
				cte.Columns = p.parenNames(sqlast.KindColumn)
			}
			p.expectKeyword("AS")
			p.expectOp("(")
			cte.Query = p.selectQuery()
			p.expectOp(")")
			ctes = append(ctes, cte)
			if !p.acceptOp(",") {
				break
			}
		}
	}
	q := p.querySpec()
	q.CTEs = ctes
	tail := q
	for p.isKeyword("UNION", "EXCEPT", "INTERSECT") {
		op := strings.ToUpper(p.next().text)
		if op == "UNION" && p.acceptKeyword("ALL") {
			op = "UNION ALL"
		}
		next := p.querySpec()
		tail.Union = &sqlast.Union{Op: op, Query: next}
		tail = next
	}
	if p.acceptKeyword("ORDER") {
		p.expectKeyword("BY")
		q.OrderBy = p.orderItems()
	}
	if p.acceptKeyword("OPTION") {
		q.Options = &sqlast.QueryOptions{Hints: p.hintList()}
	}
	return q
}

func (p *parser) querySpec() *sqlast.SelectQuery {
	p.expectKeyword("SELECT")
	q := &sqlast.SelectQuery{}
	if p.acceptKeyword("DISTINCT") {
		q.Distinct = true
	} else {
		p.acceptKeyword("ALL")
	}
	q.Top = p.top()
	for {
		q.Columns = append(q.Columns, p.selectColumn())
		if !p.acceptOp(",") {
			break
		}
	}
	if p.acceptKeyword("FROM") {
		q.From = p.tableSources()
	}
	if p.acceptKeyword("WHERE") {
		q.Where = p.expression()
	}
	if p.acceptKeyword("GROUP") {
		p.expectKeyword("BY")
		q.GroupBy = p.expressionList()
	}
	if p.acceptKeyword("HAVING") {
		q.Having = p.expression()
	}
	return q
}

func (p *parser) selectColumn() *sqlast.SelectColumn {
	t, after := p.peek(), p.peekAt(1)
	switch {
	case t.kind == tokOp && t.text == "*":
		p.next()
		return &sqlast.SelectColumn{Expr: &sqlast.Star{}}
	case t.kind == tokVariable && after.kind == tokOp && after.text == "=":
		v := p.variable(sqlast.KindVariable)
		p.next()
		return &sqlast.SelectColumn{Variable: v, Expr: p.expression()}
	case (t.kind == tokIdent || t.kind == tokQuoted || t.kind == tokString) && after.kind == tokOp && after.text == "=":
		p.next()
		p.next()
		alias := &sqlast.Name{Kind: sqlast.KindColumn, Value: t.text}
		return &sqlast.SelectColumn{Expr: p.expression(), Alias: alias}
	}
	if star := p.qualifiedStar(); star != nil {
		return &sqlast.SelectColumn{Expr: star}
	}
	col := &sqlast.SelectColumn{Expr: p.expression()}
	switch {
	case p.acceptKeyword("AS"):
		if p.peek().kind == tokString {
			col.Alias = &sqlast.Name{Kind: sqlast.KindColumn, Value: p.next().text}
		} else {
			col.Alias = p.ident(sqlast.KindColumn)
		}
	case p.peek().kind == tokString:
		col.Alias = &sqlast.Name{Kind: sqlast.KindColumn, Value: p.next().text}
	case p.isIdentifier():
		col.Alias = p.ident(sqlast.KindColumn)
	}
	return col
}

// qualifiedStar reads t.* or schema.t.* when present.
func (p *parser) qualifiedStar() *sqlast.Star {
	n := 0
	for {
		t := p.peekAt(n)
		if t.kind != tokIdent && t.kind != tokQuoted {
			return nil
		}
		dot, next := p.peekAt(n+1), p.peekAt(n+2)
		if dot.kind != tokOp || dot.text != "." {
			return nil
		}
		if next.kind == tokOp && next.text == "*" {
			break
		}
		n += 2
	}
	parts := []*sqlast.Name{p.ident(sqlast.KindUnknown)}
	for p.acceptOp(".") {
		if p.acceptOp("*") {
			break
		}
		parts = append(parts, p.ident(sqlast.KindUnknown))
	}
	if len(parts) == 1 {
		return &sqlast.Star{Table: &sqlast.Qualified{Name: parts[0]}}
	}
	schema, table := parts[len(parts)-2], parts[len(parts)-1]
	schema.Kind = sqlast.KindSchema
	table.Kind = sqlast.KindObject
	return &sqlast.Star{Table: &sqlast.Qualified{Qualifier: schema, Name: table}}
}

// hintList reads ( hint [, hint] ) keeping each hint as one upper-case name.
func (p *parser) hintList() []*sqlast.Name {
	p.expectOp("(")
	var hints []*sqlast.Name
	for {
		var b strings.Builder
		depth := 0
		for {
			t := p.peek()
			if t.kind == tokEOF || t.kind == tokBatch {
				p.unexpected("')'")
			}
			if depth == 0 && t.kind == tokOp && (t.text == "," || t.text == ")") {
				break
			}
			if t.kind == tokOp && t.text == "(" {
				depth++
			}
			if t.kind == tokOp && t.text == ")" {
				depth--
			}
			p.next()
			text := t.text
			switch t.kind {
			case tokString:
				text = "'" + strings.ReplaceAll(t.text, "'", "''") + "'"
			case tokQuoted:
				text = "[" + strings.ReplaceAll(t.text, "]", "]]") + "]"
			}
			if b.Len() > 0 && !(t.kind == tokOp && (t.text == "(" || t.text == ")")) && !strings.HasSuffix(b.String(), "(") {
				b.WriteByte(' ')
			}
			b.WriteString(text)
		}
		if b.Len() == 0 {
			p.unexpected("hint")
		}
		hints = append(hints, &sqlast.Name{Kind: sqlast.KindHint, Value: strings.ToUpper(b.String())})
		if !p.acceptOp(",") {
			break
		}
	}
	p.expectOp(")")
	return hints
}

func (p *parser) tableSources() []sqlast.TableSource {
	var list []sqlast.TableSource
	for {
		list = append(list, p.tableSource())
		if !p.acceptOp(",") {
			return list
		}
	}
}

func (p *parser) joinType() (string, bool) {
	switch {
	case p.isKeyword("JOIN"):
		p.next()
		return "INNER JOIN", true
	case p.isKeyword("INNER") && isKeywordToken(p.peekAt(1), "JOIN"):
		p.next()
		p.next()
		return "INNER JOIN", true
	case p.isKeyword("LEFT", "RIGHT", "FULL"):
		kind := strings.ToUpper(p.next().text)
		p.acceptKeyword("OUTER")
		p.expectKeyword("JOIN")
		return kind + " JOIN", true
	case p.isKeyword("CROSS"):
		p.next()
		if p.acceptKeyword("APPLY") {
			return "CROSS APPLY", true
		}
		p.expectKeyword("JOIN")
		return "CROSS JOIN", true
	case p.isKeyword("OUTER") && isKeywordToken(p.peekAt(1), "APPLY"):
		p.next()
		p.next()
		return "OUTER APPLY", true
	}
	return "", false
}

func (p *parser) tableSource() sqlast.TableSource {
	left := p.tablePrimary()
	for {
		kind, ok := p.joinType()
		if !ok {
			return left
		}
		join := &sqlast.Join{Left: left, Type: kind, Right: p.tablePrimary()}
		if !strings.HasPrefix(kind, "CROSS") && !strings.HasSuffix(kind, "APPLY") {
			p.expectKeyword("ON")
			join.On = p.expression()
		}
		left = join
	}
}

func (p *parser) alias(required bool) *sqlast.Name {
	if p.acceptKeyword("AS") || p.isIdentifier() {
		return p.ident(sqlast.KindAlias)
	}
	if required {
		p.unexpected("alias")
	}
	return nil
}

func (p *parser) tablePrimary() sqlast.TableSource {
	switch t := p.peek(); {
	case t.kind == tokOp && t.text == "(":
		p.next()
		if p.isKeyword("SELECT", "WITH") {
			q := p.selectQuery()
			p.expectOp(")")
			return &sqlast.DerivedTable{Query: q, Alias: p.alias(true)}
		}
		source := p.tableSource()
		p.expectOp(")")
		return source
	case t.kind == tokVariable:
		ref := &sqlast.TableRef{Table: &sqlast.Qualified{Name: p.variable(sqlast.KindVariable)}}
		ref.Alias = p.alias(false)
		return ref
	}
	name := p.qualified(sqlast.KindObject)
	if p.isOp("(") {
		name.Name.Kind = sqlast.KindFunction
		call := p.functionCall(name)
		return &sqlast.FunctionTable{Call: call, Alias: p.alias(false)}
	}
	ref := &sqlast.TableRef{Table: name, Alias: p.alias(false)}
	if p.isKeyword("WITH") && p.peekAt(1).kind == tokOp && p.peekAt(1).text == "(" {
		p.next()
		ref.Hints = p.hintList()
	}
	return ref
}
