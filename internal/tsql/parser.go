// Package tsql parses the T-SQL subset used by module scripts into sqlast
// syntax trees.
//
// A script is a sequence of batches separated by lines holding only GO.
// Statements may be terminated by semicolons. Module bodies (procedures,
// functions and triggers) extend to the end of their batch.
package tsql

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/xingh/bsn-modulestore/internal/sqlast"
)

// Parse reads a whole script and returns its statements in source order.
func Parse(r io.Reader) ([]sqlast.Statement, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return ParseString(string(data))
}

// ParseString parses script text.
func ParseString(src string) (stmts []sqlast.Statement, err error) {
	tokens, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			stmts, err = nil, b.err
		}
	}()
	return p.script(), nil
}

// ParseExpression parses a single scalar expression.
func ParseExpression(src string) (expr sqlast.Expression, err error) {
	tokens, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			expr, err = nil, b.err
		}
	}()
	expr = p.expression()
	if p.peek().kind != tokEOF {
		p.unexpected("end of expression")
	}
	return expr, nil
}

type bailout struct {
	err error
}

type parser struct {
	tokens []token
	pos    int
}

// statementKeywords start a statement; they end argument lists and bodies
// that have no explicit terminator.
var statementKeywords = map[string]bool{
	"ALTER": true, "BEGIN": true, "COMMIT": true, "CREATE": true, "DECLARE": true, "DELETE": true,
	"DROP": true, "ELSE": true, "END": true, "EXEC": true, "EXECUTE": true, "IF": true, "INSERT": true,
	"PRINT": true, "RAISERROR": true, "RETURN": true, "ROLLBACK": true, "SAVE": true, "SELECT": true,
	"SET": true, "UPDATE": true, "WHILE": true, "WITH": true,
}

// reserved words never act as bare aliases or column names.
var reserved = map[string]bool{
	"AND": true, "APPLY": true, "AS": true, "BY": true, "CROSS": true, "EXCEPT": true, "FOR": true,
	"FROM": true, "FULL": true, "GROUP": true, "HAVING": true, "INNER": true, "INTERSECT": true,
	"INTO": true, "JOIN": true, "LEFT": true, "NOT": true, "ON": true, "OPTION": true, "OR": true,
	"ORDER": true, "OUTER": true, "RIGHT": true, "THEN": true, "UNION": true, "VALUES": true,
	"WHEN": true, "WHERE": true,
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) peekAt(n int) token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) fail(t token, format string, args ...any) {
	panic(bailout{&SyntaxError{Line: t.line, Column: t.col, Msg: fmt.Sprintf(format, args...)}})
}

func (p *parser) unexpected(want string) {
	t := p.peek()
	p.fail(t, "expected %s, found %s", want, t)
}

func isKeywordToken(t token, kw ...string) bool {
	if t.kind != tokIdent {
		return false
	}
	for _, k := range kw {
		if strings.EqualFold(t.text, k) {
			return true
		}
	}
	return false
}

func (p *parser) isKeyword(kw ...string) bool { return isKeywordToken(p.peek(), kw...) }

func (p *parser) acceptKeyword(kw ...string) bool {
	if p.isKeyword(kw...) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expectKeyword(kw ...string) string {
	if !p.isKeyword(kw...) {
		p.unexpected(strings.Join(kw, " or "))
	}
	return strings.ToUpper(p.next().text)
}

func (p *parser) isOp(op ...string) bool {
	t := p.peek()
	return t.kind == tokOp && slices.Contains(op, t.text)
}

func (p *parser) acceptOp(op string) bool {
	if p.isOp(op) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expectOp(op string) {
	if !p.acceptOp(op) {
		p.unexpected("'" + op + "'")
	}
}

// atStatementEnd reports whether nothing more belongs to the current
// statement.
func (p *parser) atStatementEnd() bool {
	t := p.peek()
	switch t.kind {
	case tokEOF, tokBatch:
		return true
	case tokOp:
		return t.text == ";"
	case tokIdent:
		return statementKeywords[strings.ToUpper(t.text)]
	}
	return false
}

// isIdentifier reports whether the next token can be a bare name, such as an
// alias.
func (p *parser) isIdentifier() bool {
	t := p.peek()
	if t.kind == tokQuoted {
		return true
	}
	upper := strings.ToUpper(t.text)
	return t.kind == tokIdent && !reserved[upper] && !statementKeywords[upper]
}

func (p *parser) ident(kind sqlast.NameKind) *sqlast.Name {
	t := p.peek()
	switch t.kind {
	case tokIdent, tokQuoted:
		p.next()
		return &sqlast.Name{Kind: kind, Value: t.text}
	}
	p.unexpected("identifier")
	return nil
}

func (p *parser) variable(kind sqlast.NameKind) *sqlast.Name {
	t := p.peek()
	if t.kind != tokVariable {
		p.unexpected("variable")
	}
	p.next()
	return &sqlast.Name{Kind: kind, Value: t.text}
}

// qualified reads [schema.]name. A third part is accepted for
// database.schema.name and keeps only the last two parts.
func (p *parser) qualified(kind sqlast.NameKind) *sqlast.Qualified {
	first := p.ident(kind)
	if !p.isOp(".") {
		return &sqlast.Qualified{Name: first}
	}
	p.next()
	second := p.ident(kind)
	if p.acceptOp(".") {
		first, second = second, p.ident(kind)
	}
	first.Kind = sqlast.KindSchema
	return &sqlast.Qualified{Qualifier: first, Name: second}
}

// target reads the table of a data modification statement, which may be a
// table variable.
func (p *parser) target() *sqlast.Qualified {
	if p.peek().kind == tokVariable {
		return &sqlast.Qualified{Name: p.variable(sqlast.KindVariable)}
	}
	return p.qualified(sqlast.KindObject)
}

// parenNames reads (a, b, c).
func (p *parser) parenNames(kind sqlast.NameKind) []*sqlast.Name {
	p.expectOp("(")
	var names []*sqlast.Name
	for {
		names = append(names, p.ident(kind))
		if !p.acceptOp(",") {
			break
		}
	}
	p.expectOp(")")
	return names
}

func (p *parser) script() []sqlast.Statement {
	var stmts []sqlast.Statement
	for {
		p.skipSeparators()
		if p.peek().kind == tokEOF {
			return stmts
		}
		stmts = append(stmts, p.statement())
	}
}

func (p *parser) skipSeparators() {
	for p.peek().kind == tokBatch || p.isOp(";") {
		p.next()
	}
}

// statements reads statements until the end of the batch or until stop
// reports true.
func (p *parser) statements(stop func() bool) []sqlast.Statement {
	var stmts []sqlast.Statement
	for {
		for p.acceptOp(";") {
		}
		if t := p.peek(); t.kind == tokEOF || t.kind == tokBatch || (stop != nil && stop()) {
			return stmts
		}
		stmts = append(stmts, p.statement())
	}
}

func (p *parser) statement() sqlast.Statement {
	t := p.peek()
	if t.kind != tokIdent {
		p.unexpected("statement")
	}
	switch strings.ToUpper(t.text) {
	case "CREATE":
		return p.create()
	case "ALTER":
		return p.alter()
	case "DROP":
		return p.drop()
	case "INSERT":
		return p.insert()
	case "UPDATE":
		return p.update()
	case "DELETE":
		return p.delete()
	case "EXEC", "EXECUTE":
		return p.exec()
	case "SET":
		return p.set()
	case "DECLARE":
		return p.declare()
	case "IF":
		return p.ifStatement()
	case "WHILE":
		p.next()
		cond := p.expression()
		return &sqlast.While{Condition: cond, Body: p.statement()}
	case "BEGIN":
		return p.begin()
	case "COMMIT", "ROLLBACK":
		p.next()
		p.acceptKeyword("TRAN", "TRANSACTION", "WORK")
		tx := &sqlast.Transaction{Action: strings.ToUpper(t.text)}
		if p.peek().kind == tokIdent && !p.atStatementEnd() || p.peek().kind == tokQuoted {
			tx.Name = p.ident(sqlast.KindUnknown)
		}
		return tx
	case "SAVE":
		p.next()
		p.expectKeyword("TRAN", "TRANSACTION")
		return &sqlast.Transaction{Action: "SAVE", Name: p.ident(sqlast.KindUnknown)}
	case "RETURN":
		p.next()
		ret := &sqlast.Return{}
		if !p.atStatementEnd() {
			ret.Value = p.expression()
		}
		return ret
	case "SELECT", "WITH":
		return &sqlast.SelectStatement{Query: p.selectQuery()}
	case "PRINT":
		p.next()
		return &sqlast.Print{Value: p.expression()}
	case "RAISERROR":
		return p.raiserror()
	}
	p.fail(t, "unsupported statement %s", t)
	return nil
}

func (p *parser) ifStatement() sqlast.Statement {
	p.expectKeyword("IF")
	stmt := &sqlast.If{Condition: p.expression()}
	stmt.Then = p.statement()
	for p.isOp(";") {
		p.next()
	}
	if p.acceptKeyword("ELSE") {
		stmt.Else = p.statement()
	}
	return stmt
}

func (p *parser) begin() sqlast.Statement {
	p.expectKeyword("BEGIN")
	switch {
	case p.acceptKeyword("TRY"):
		try := p.statements(func() bool { return p.isKeyword("END") })
		p.expectKeyword("END")
		p.expectKeyword("TRY")
		for p.acceptOp(";") {
		}
		p.expectKeyword("BEGIN")
		p.expectKeyword("CATCH")
		catch := p.statements(func() bool { return p.isKeyword("END") })
		p.expectKeyword("END")
		p.expectKeyword("CATCH")
		return &sqlast.TryCatch{Try: try, Catch: catch}
	case p.acceptKeyword("TRAN", "TRANSACTION"):
		tx := &sqlast.Transaction{Action: "BEGIN"}
		if p.peek().kind == tokQuoted || p.peek().kind == tokIdent && !p.atStatementEnd() {
			tx.Name = p.ident(sqlast.KindUnknown)
		}
		return tx
	}
	stmts := p.statements(func() bool { return p.isKeyword("END") })
	p.expectKeyword("END")
	return &sqlast.Block{Statements: stmts}
}

func (p *parser) raiserror() sqlast.Statement {
	p.expectKeyword("RAISERROR")
	p.expectOp("(")
	stmt := &sqlast.Raiserror{Args: p.expressionList()}
	p.expectOp(")")
	if p.acceptKeyword("WITH") {
		for {
			stmt.Options = append(stmt.Options, p.expectKeyword("LOG", "NOWAIT", "SETERROR"))
			if !p.acceptOp(",") {
				break
			}
		}
	}
	return stmt
}

func (p *parser) drop() sqlast.Statement {
	p.expectKeyword("DROP")
	category := map[string]sqlast.Category{
		"TABLE": sqlast.CategoryTable, "VIEW": sqlast.CategoryView, "PROC": sqlast.CategoryProcedure,
		"PROCEDURE": sqlast.CategoryProcedure, "FUNCTION": sqlast.CategoryFunction, "TRIGGER": sqlast.CategoryTrigger,
	}
	kw := p.expectKeyword("TABLE", "VIEW", "PROC", "PROCEDURE", "FUNCTION", "TRIGGER", "INDEX")
	if kw == "INDEX" {
		index := p.ident(sqlast.KindIndex)
		p.expectKeyword("ON")
		return &sqlast.DropIndex{Index: index, Table: p.qualified(sqlast.KindTable)}
	}
	kinds := map[sqlast.Category]sqlast.NameKind{
		sqlast.CategoryTable: sqlast.KindTable, sqlast.CategoryView: sqlast.KindView,
		sqlast.CategoryProcedure: sqlast.KindProcedure, sqlast.CategoryFunction: sqlast.KindFunction,
		sqlast.CategoryTrigger: sqlast.KindTrigger,
	}
	c := category[kw]
	return &sqlast.Drop{Category: c, Object: p.qualified(kinds[c])}
}

func (p *parser) insert() sqlast.Statement {
	p.expectKeyword("INSERT")
	p.acceptKeyword("INTO")
	stmt := &sqlast.Insert{Table: p.target()}
	if p.isOp("(") {
		stmt.Columns = p.parenNames(sqlast.KindColumn)
	}
	switch {
	case p.acceptKeyword("DEFAULT"):
		p.expectKeyword("VALUES")
		stmt.DefaultValues = true
	case p.acceptKeyword("VALUES"):
		for {
			p.expectOp("(")
			stmt.Rows = append(stmt.Rows, &sqlast.ValuesRow{Values: p.expressionList()})
			p.expectOp(")")
			if !p.acceptOp(",") {
				break
			}
		}
	default:
		stmt.Query = p.selectQuery()
	}
	return stmt
}

func (p *parser) top() *sqlast.Top {
	if !p.acceptKeyword("TOP") {
		return nil
	}
	top := &sqlast.Top{}
	if p.acceptOp("(") {
		top.Count = p.expression()
		p.expectOp(")")
	} else {
		top.Count = p.primary()
	}
	top.Percent = p.acceptKeyword("PERCENT")
	if p.isKeyword("WITH") && isKeywordToken(p.peekAt(1), "TIES") {
		p.next()
		p.next()
		top.WithTies = true
	}
	return top
}

func (p *parser) update() sqlast.Statement {
	p.expectKeyword("UPDATE")
	stmt := &sqlast.Update{Top: p.top(), Target: p.target()}
	p.expectKeyword("SET")
	for {
		a := &sqlast.Assignment{}
		if p.peek().kind == tokVariable {
			a.Column = &sqlast.ColumnRef{Column: p.variable(sqlast.KindVariable)}
		} else {
			a.Column = p.columnRef()
		}
		if !p.isOp("=", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=") {
			p.unexpected("assignment operator")
		}
		a.Op = p.next().text
		a.Value = p.expression()
		stmt.Set = append(stmt.Set, a)
		if !p.acceptOp(",") {
			break
		}
	}
	if p.acceptKeyword("FROM") {
		stmt.From = p.tableSources()
	}
	if p.acceptKeyword("WHERE") {
		stmt.Where = p.expression()
	}
	return stmt
}

func (p *parser) delete() sqlast.Statement {
	p.expectKeyword("DELETE")
	stmt := &sqlast.Delete{Top: p.top()}
	p.acceptKeyword("FROM")
	stmt.Target = p.target()
	if p.acceptKeyword("FROM") {
		stmt.From = p.tableSources()
	}
	if p.acceptKeyword("WHERE") {
		stmt.Where = p.expression()
	}
	return stmt
}

func (p *parser) exec() sqlast.Statement {
	p.expectKeyword("EXEC", "EXECUTE")
	stmt := &sqlast.Exec{}
	if p.peek().kind == tokVariable && p.peekAt(1).kind == tokOp && p.peekAt(1).text == "=" {
		stmt.Result = p.variable(sqlast.KindVariable)
		p.next()
	}
	stmt.Procedure = p.qualified(sqlast.KindProcedure)
	if p.atStatementEnd() {
		return stmt
	}
	for {
		arg := &sqlast.ExecArg{}
		if p.peek().kind == tokVariable && p.peekAt(1).kind == tokOp && p.peekAt(1).text == "=" {
			arg.Parameter = p.variable(sqlast.KindParameter)
			p.next()
		}
		if p.isKeyword("DEFAULT") {
			p.next()
			arg.Value = &sqlast.Name{Kind: sqlast.KindBuiltin, Value: "DEFAULT"}
		} else {
			arg.Value = p.expression()
		}
		arg.Output = p.acceptKeyword("OUT", "OUTPUT")
		stmt.Args = append(stmt.Args, arg)
		if !p.acceptOp(",") {
			return stmt
		}
	}
}

func (p *parser) set() sqlast.Statement {
	p.expectKeyword("SET")
	if p.acceptKeyword("IDENTITY_INSERT") {
		stmt := &sqlast.SetIdentityInsert{Table: p.qualified(sqlast.KindTable)}
		stmt.On = p.expectKeyword("ON", "OFF") == "ON"
		return stmt
	}
	if p.peek().kind == tokVariable {
		stmt := &sqlast.SetVariable{Variable: p.variable(sqlast.KindVariable)}
		if !p.isOp("=", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=") {
			p.unexpected("assignment operator")
		}
		stmt.Op = p.next().text
		stmt.Value = p.expression()
		return stmt
	}
	stmt := &sqlast.SetOption{}
	if p.acceptKeyword("TRANSACTION") {
		p.expectKeyword("ISOLATION")
		p.expectKeyword("LEVEL")
		stmt.Options = []string{"TRANSACTION ISOLATION LEVEL"}
		var level []string
		for p.peek().kind == tokIdent && !p.atStatementEnd() {
			level = append(level, strings.ToUpper(p.next().text))
		}
		if len(level) == 0 {
			p.unexpected("isolation level")
		}
		stmt.Value = strings.Join(level, " ")
		return stmt
	}
	for {
		t := p.peek()
		if t.kind != tokIdent {
			p.unexpected("option name")
		}
		stmt.Options = append(stmt.Options, strings.ToUpper(p.next().text))
		if !p.acceptOp(",") {
			break
		}
	}
	t := p.next()
	switch t.kind {
	case tokIdent, tokNumber, tokString, tokVariable:
		stmt.Value = t.text
	default:
		p.fail(t, "expected option value, found %s", t)
	}
	return stmt
}

func (p *parser) declare() sqlast.Statement {
	p.expectKeyword("DECLARE")
	stmt := &sqlast.Declare{}
	for {
		v := &sqlast.VariableDeclaration{Name: p.variable(sqlast.KindVariable)}
		p.acceptKeyword("AS")
		if p.acceptKeyword("TABLE") {
			v.Definitions = p.tableDefinitions()
		} else {
			v.Type = p.dataType()
			if p.acceptOp("=") {
				v.Value = p.expression()
			}
		}
		stmt.Variables = append(stmt.Variables, v)
		if !p.acceptOp(",") {
			return stmt
		}
	}
}
