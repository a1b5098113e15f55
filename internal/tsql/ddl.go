package tsql

import (
	"strings"

	"github.com/xingh/bsn-modulestore/internal/sqlast"
)

func (p *parser) create() sqlast.Statement {
	p.expectKeyword("CREATE")
	switch {
	case p.acceptKeyword("TABLE"):
		return p.createTable()
	case p.acceptKeyword("VIEW"):
		return p.view(false)
	case p.acceptKeyword("PROC", "PROCEDURE"):
		return p.procedure(false)
	case p.acceptKeyword("FUNCTION"):
		return p.function(false)
	case p.acceptKeyword("TRIGGER"):
		return p.trigger(false)
	case p.acceptKeyword("SCHEMA"):
		return p.createSchema()
	case p.isKeyword("UNIQUE", "CLUSTERED", "NONCLUSTERED", "INDEX"):
		return p.createIndex()
	}
	p.unexpected("object type after CREATE")
	return nil
}

func (p *parser) alter() sqlast.Statement {
	p.expectKeyword("ALTER")
	switch {
	case p.acceptKeyword("TABLE"):
		return p.alterTable()
	case p.acceptKeyword("VIEW"):
		return p.view(true)
	case p.acceptKeyword("PROC", "PROCEDURE"):
		return p.procedure(true)
	case p.acceptKeyword("FUNCTION"):
		return p.function(true)
	case p.acceptKeyword("TRIGGER"):
		return p.trigger(true)
	}
	p.unexpected("object type after ALTER")
	return nil
}

func (p *parser) createSchema() sqlast.Statement {
	stmt := &sqlast.CreateSchema{Schema: p.ident(sqlast.KindSchema)}
	if p.acceptKeyword("AUTHORIZATION") {
		stmt.Authorization = p.ident(sqlast.KindUnknown)
	}
	for p.isKeyword("CREATE") {
		stmt.Statements = append(stmt.Statements, p.create())
	}
	return stmt
}

func (p *parser) createTable() sqlast.Statement {
	stmt := &sqlast.CreateTable{Table: p.qualified(sqlast.KindTable)}
	stmt.Definitions = p.tableDefinitions()
	p.skipStorage()
	return stmt
}

// skipStorage skips filegroup and storage clauses, which do not affect the
// logical schema.
func (p *parser) skipStorage() {
	for {
		switch {
		case p.isKeyword("ON", "TEXTIMAGE_ON", "FILESTREAM_ON"):
			p.next()
			p.ident(sqlast.KindUnknown)
			if p.isOp("(") {
				p.skipParens()
			}
		case p.isKeyword("WITH") && p.peekAt(1).kind == tokOp && p.peekAt(1).text == "(":
			p.next()
			p.skipParens()
		default:
			return
		}
	}
}

func (p *parser) skipParens() {
	p.expectOp("(")
	for depth := 1; depth > 0; {
		t := p.next()
		switch {
		case t.kind == tokEOF:
			p.fail(t, "expected ')', found %s", t)
		case t.kind == tokOp && t.text == "(":
			depth++
		case t.kind == tokOp && t.text == ")":
			depth--
		}
	}
}

func (p *parser) tableDefinitions() []sqlast.TableDefinition {
	p.expectOp("(")
	var defs []sqlast.TableDefinition
	for {
		defs = append(defs, p.tableDefinition())
		if !p.acceptOp(",") {
			break
		}
	}
	p.expectOp(")")
	return defs
}

func (p *parser) tableDefinition() sqlast.TableDefinition {
	if p.isKeyword("CONSTRAINT", "PRIMARY", "UNIQUE", "CHECK", "FOREIGN") {
		return p.tableConstraint()
	}
	return p.columnDefinition()
}

// tableConstraint reads a table-level constraint, or DEFAULT ... FOR column
// in ALTER TABLE ADD.
func (p *parser) tableConstraint() sqlast.TableDefinition {
	var name *sqlast.Name
	if p.acceptKeyword("CONSTRAINT") {
		name = p.ident(sqlast.KindConstraint)
	}
	if p.acceptKeyword("DEFAULT") {
		d := &sqlast.DefaultConstraint{Name: name, Expr: p.unary()}
		p.expectKeyword("FOR")
		d.Column = p.ident(sqlast.KindColumn)
		return d
	}
	c := p.constraintBody(false)
	c.Name = name
	return c
}

// constraintBody reads PRIMARY KEY, UNIQUE, CHECK or FOREIGN KEY. Inline
// column constraints have no column list.
func (p *parser) constraintBody(inline bool) *sqlast.Constraint {
	c := &sqlast.Constraint{}
	switch kw := p.expectKeyword("PRIMARY", "UNIQUE", "CHECK", "FOREIGN", "REFERENCES"); kw {
	case "PRIMARY", "UNIQUE":
		c.Kind = sqlast.ConstraintUnique
		if kw == "PRIMARY" {
			p.expectKeyword("KEY")
			c.Kind = sqlast.ConstraintPrimaryKey
		}
		if p.isKeyword("CLUSTERED", "NONCLUSTERED") {
			c.Clustered = strings.ToUpper(p.next().text)
		}
		if !inline || p.isOp("(") {
			c.Columns = p.indexColumns()
		}
		p.skipStorage()
	case "CHECK":
		c.Kind = sqlast.ConstraintCheck
		c.NotForReplication = p.notForReplication()
		p.expectOp("(")
		c.Check = p.expression()
		p.expectOp(")")
	default:
		c.Kind = sqlast.ConstraintForeignKey
		if kw == "FOREIGN" {
			p.expectKeyword("KEY")
			if !inline || p.isOp("(") {
				c.Columns = p.indexColumns()
			}
			p.expectKeyword("REFERENCES")
		}
		c.References = p.qualified(sqlast.KindTable)
		if p.isOp("(") {
			c.RefColumns = p.parenNames(sqlast.KindColumn)
		}
		for p.isKeyword("ON") && isKeywordToken(p.peekAt(1), "DELETE", "UPDATE") {
			p.next()
			event := p.expectKeyword("DELETE", "UPDATE")
			action := p.referentialAction()
			if event == "DELETE" {
				c.OnDelete = action
			} else {
				c.OnUpdate = action
			}
		}
		c.NotForReplication = p.notForReplication()
	}
	return c
}

func (p *parser) referentialAction() string {
	switch kw := p.expectKeyword("CASCADE", "NO", "SET"); kw {
	case "NO":
		p.expectKeyword("ACTION")
		return "NO ACTION"
	case "SET":
		return "SET " + p.expectKeyword("NULL", "DEFAULT")
	default:
		return kw
	}
}

func (p *parser) notForReplication() bool {
	if p.isKeyword("NOT") && isKeywordToken(p.peekAt(1), "FOR") {
		p.next()
		p.next()
		p.expectKeyword("REPLICATION")
		return true
	}
	return false
}

func (p *parser) indexColumns() []*sqlast.IndexColumn {
	p.expectOp("(")
	var cols []*sqlast.IndexColumn
	for {
		col := &sqlast.IndexColumn{Name: p.ident(sqlast.KindColumn)}
		if p.acceptKeyword("DESC") {
			col.Desc = true
		} else {
			p.acceptKeyword("ASC")
		}
		cols = append(cols, col)
		if !p.acceptOp(",") {
			break
		}
	}
	p.expectOp(")")
	return cols
}

func (p *parser) columnDefinition() *sqlast.ColumnDefinition {
	col := &sqlast.ColumnDefinition{Name: p.ident(sqlast.KindColumn)}
	if p.acceptKeyword("AS") {
		col.Computed = p.expression()
		col.Persisted = p.acceptKeyword("PERSISTED")
	} else {
		col.Type = p.dataType()
	}
	for {
		switch {
		case p.acceptKeyword("COLLATE"):
			col.Collation = p.ident(sqlast.KindUnknown).Value
		case p.acceptKeyword("NULL"):
			col.Nullability = sqlast.Null
		case p.isKeyword("NOT") && isKeywordToken(p.peekAt(1), "NULL"):
			p.next()
			p.next()
			col.Nullability = sqlast.NotNull
		case p.isKeyword("NOT") && isKeywordToken(p.peekAt(1), "FOR"):
			p.notForReplication()
		case p.acceptKeyword("IDENTITY"):
			col.Identity = &sqlast.Identity{Seed: "1", Increment: "1"}
			if p.acceptOp("(") {
				col.Identity.Seed = p.signedNumber()
				p.expectOp(",")
				col.Identity.Increment = p.signedNumber()
				p.expectOp(")")
			}
		case p.acceptKeyword("ROWGUIDCOL"):
			col.RowGUID = true
		case p.acceptKeyword("SPARSE"):
		case p.acceptKeyword("CONSTRAINT"):
			name := p.ident(sqlast.KindConstraint)
			if p.acceptKeyword("DEFAULT") {
				col.Default = &sqlast.DefaultConstraint{Name: name, Expr: p.unary()}
				continue
			}
			c := p.constraintBody(true)
			c.Name = name
			col.Constraints = append(col.Constraints, c)
		case p.acceptKeyword("DEFAULT"):
			col.Default = &sqlast.DefaultConstraint{Expr: p.unary()}
		case p.isKeyword("PRIMARY", "UNIQUE", "CHECK", "FOREIGN", "REFERENCES"):
			col.Constraints = append(col.Constraints, p.constraintBody(true))
		default:
			return col
		}
	}
}

func (p *parser) signedNumber() string {
	sign := ""
	if p.isOp("-", "+") {
		sign = p.next().text
	}
	t := p.next()
	if t.kind != tokNumber {
		p.fail(t, "expected number, found %s", t)
	}
	if sign == "-" {
		return "-" + t.text
	}
	return t.text
}

func (p *parser) createIndex() sqlast.Statement {
	stmt := &sqlast.CreateIndex{Unique: p.acceptKeyword("UNIQUE")}
	if p.isKeyword("CLUSTERED", "NONCLUSTERED") {
		stmt.Clustered = strings.ToUpper(p.next().text)
	}
	p.expectKeyword("INDEX")
	stmt.Index = p.ident(sqlast.KindIndex)
	p.expectKeyword("ON")
	stmt.Table = p.qualified(sqlast.KindTable)
	stmt.Columns = p.indexColumns()
	if p.acceptKeyword("INCLUDE") {
		stmt.Include = p.parenNames(sqlast.KindColumn)
	}
	if p.acceptKeyword("WHERE") {
		stmt.Where = p.expression()
	}
	if p.acceptKeyword("WITH") {
		paren := p.acceptOp("(")
		for {
			opt := sqlast.IndexOption{Name: strings.ToUpper(p.ident(sqlast.KindUnknown).Value)}
			p.expectOp("=")
			v := p.next()
			switch v.kind {
			case tokIdent, tokNumber:
				opt.Value = strings.ToUpper(v.text)
			default:
				p.fail(v, "expected option value, found %s", v)
			}
			stmt.Options = append(stmt.Options, opt)
			if !paren || !p.acceptOp(",") {
				break
			}
		}
		if paren {
			p.expectOp(")")
		}
	}
	if p.acceptKeyword("ON") {
		p.ident(sqlast.KindUnknown)
		if p.isOp("(") {
			p.skipParens()
		}
	}
	return stmt
}

func (p *parser) alterTable() sqlast.Statement {
	target := sqlast.TableTarget{Table: p.qualified(sqlast.KindTable)}
	check := sqlast.CheckDefault
	if p.acceptKeyword("WITH") {
		if p.expectKeyword("CHECK", "NOCHECK") == "CHECK" {
			check = sqlast.WithCheck
		} else {
			check = sqlast.WithNoCheck
		}
	}
	switch {
	case p.acceptKeyword("ADD"):
		stmt := &sqlast.AlterTableAdd{TableTarget: target, Check: check}
		for {
			stmt.Definitions = append(stmt.Definitions, p.tableDefinition())
			if !p.acceptOp(",") {
				return stmt
			}
		}
	case p.isKeyword("CHECK", "NOCHECK"):
		stmt := &sqlast.AlterTableCheckConstraints{TableTarget: target, Check: check}
		stmt.Enable = strings.EqualFold(p.next().text, "CHECK")
		p.expectKeyword("CONSTRAINT")
		if p.acceptKeyword("ALL") {
			return stmt
		}
		for {
			stmt.Constraints = append(stmt.Constraints, p.ident(sqlast.KindConstraint))
			if !p.acceptOp(",") {
				return stmt
			}
		}
	}
	if check != sqlast.CheckDefault {
		p.unexpected("ADD, CHECK or NOCHECK")
	}
	switch {
	case p.acceptKeyword("DROP"):
		if p.acceptKeyword("COLUMN") {
			stmt := &sqlast.AlterTableDropColumn{TableTarget: target}
			for {
				stmt.Columns = append(stmt.Columns, p.ident(sqlast.KindColumn))
				if !p.acceptOp(",") {
					return stmt
				}
			}
		}
		p.acceptKeyword("CONSTRAINT")
		return &sqlast.AlterTableDropConstraint{TableTarget: target, Constraint: p.ident(sqlast.KindConstraint)}
	case p.acceptKeyword("ALTER"):
		p.expectKeyword("COLUMN")
		return &sqlast.AlterTableAlterColumn{TableTarget: target, Column: p.columnDefinition()}
	}
	p.unexpected("ALTER TABLE action")
	return nil
}
