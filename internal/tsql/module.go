package tsql

import (
	"strings"

	"github.com/xingh/bsn-modulestore/internal/sqlast"
)

// moduleOptions reads WITH option[, option] of views and routines.
func (p *parser) moduleOptions() []string {
	if !p.isKeyword("WITH") || isKeywordToken(p.peekAt(1), "CHECK") {
		return nil
	}
	p.next()
	var options []string
	for {
		if p.acceptKeyword("EXECUTE", "EXEC") {
			p.expectKeyword("AS")
			t := p.next()
			switch t.kind {
			case tokString:
				options = append(options, "EXECUTE AS '"+strings.ReplaceAll(t.text, "'", "''")+"'")
			case tokIdent:
				options = append(options, "EXECUTE AS "+strings.ToUpper(t.text))
			default:
				p.fail(t, "expected principal, found %s", t)
			}
		} else {
			options = append(options, strings.ToUpper(p.ident(sqlast.KindUnknown).Value))
		}
		if !p.acceptOp(",") {
			return options
		}
	}
}

func (p *parser) view(alter bool) sqlast.Statement {
	stmt := &sqlast.CreateView{Alter: alter, View: p.qualified(sqlast.KindView)}
	if p.isOp("(") {
		stmt.Columns = p.parenNames(sqlast.KindColumn)
	}
	stmt.Options = p.moduleOptions()
	p.expectKeyword("AS")
	stmt.Query = p.selectQuery()
	if p.isKeyword("WITH") && isKeywordToken(p.peekAt(1), "CHECK") {
		p.next()
		p.next()
		p.expectKeyword("OPTION")
		stmt.CheckOption = true
	}
	return stmt
}

func (p *parser) parameter() *sqlast.Parameter {
	param := &sqlast.Parameter{Name: p.variable(sqlast.KindParameter)}
	p.acceptKeyword("AS")
	param.Type = p.dataType()
	p.acceptKeyword("VARYING")
	if p.acceptOp("=") {
		param.Default = p.unary()
	}
	for {
		switch {
		case p.acceptKeyword("OUT", "OUTPUT"):
			param.Output = true
		case p.acceptKeyword("READONLY"):
			param.ReadOnly = true
		default:
			return param
		}
	}
}

func (p *parser) parameters() []*sqlast.Parameter {
	var params []*sqlast.Parameter
	for p.peek().kind == tokVariable {
		params = append(params, p.parameter())
		if !p.acceptOp(",") {
			break
		}
	}
	return params
}

func (p *parser) procedure(alter bool) sqlast.Statement {
	stmt := &sqlast.CreateProcedure{Procedure: p.qualified(sqlast.KindProcedure)}
	stmt.Alter = alter
	if p.acceptOp("(") {
		stmt.Parameters = p.parameters()
		p.expectOp(")")
	} else {
		stmt.Parameters = p.parameters()
	}
	stmt.Options = p.moduleOptions()
	if p.isKeyword("FOR") && isKeywordToken(p.peekAt(1), "REPLICATION") {
		p.next()
		p.next()
		stmt.Options = append(stmt.Options, "FOR REPLICATION")
	}
	p.expectKeyword("AS")
	stmt.Body = p.statements(nil)
	return stmt
}

func (p *parser) function(alter bool) sqlast.Statement {
	stmt := &sqlast.CreateFunction{Function: p.qualified(sqlast.KindFunction)}
	stmt.Alter = alter
	p.expectOp("(")
	stmt.Parameters = p.parameters()
	p.expectOp(")")
	p.expectKeyword("RETURNS")
	stmt.Returns = &sqlast.FunctionReturn{}
	switch {
	case p.acceptKeyword("TABLE"):
	case p.peek().kind == tokVariable:
		stmt.Returns.Variable = p.variable(sqlast.KindVariable)
		p.expectKeyword("TABLE")
		stmt.Returns.Definitions = p.tableDefinitions()
	default:
		stmt.Returns.Type = p.dataType()
	}
	stmt.Options = p.moduleOptions()
	p.acceptKeyword("AS")
	if stmt.Returns.Type == nil && stmt.Returns.Variable == nil {
		p.expectKeyword("RETURN")
		if p.acceptOp("(") {
			stmt.Query = p.selectQuery()
			p.expectOp(")")
		} else {
			stmt.Query = p.selectQuery()
		}
		return stmt
	}
	if !p.isKeyword("BEGIN") {
		p.unexpected("BEGIN")
	}
	stmt.Body = p.statements(nil)
	return stmt
}

func (p *parser) trigger(alter bool) sqlast.Statement {
	stmt := &sqlast.CreateTrigger{Alter: alter, Trigger: p.qualified(sqlast.KindTrigger)}
	p.expectKeyword("ON")
	stmt.Table = p.qualified(sqlast.KindTable)
	if p.isKeyword("WITH") {
		p.moduleOptions()
	}
	switch timing := p.expectKeyword("FOR", "AFTER", "INSTEAD"); timing {
	case "INSTEAD":
		p.expectKeyword("OF")
		stmt.Timing = "INSTEAD OF"
	default:
		stmt.Timing = timing
	}
	for {
		stmt.Events = append(stmt.Events, p.expectKeyword("INSERT", "UPDATE", "DELETE"))
		if !p.acceptOp(",") {
			break
		}
	}
	stmt.NotForReplication = p.notForReplication()
	p.expectKeyword("AS")
	stmt.Body = p.statements(nil)
	return stmt
}
