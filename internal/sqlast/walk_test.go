package sqlast

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func collect(n Node, skip func(Node) bool, deep bool) []Node {
	var out []Node
	seq := Children(n, skip)
	if deep {
		seq = Walk(n, skip)
	}
	for c := range seq {
		out = append(out, c)
	}
	return out
}

func same(t *testing.T, want, got []Node) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("expected %d nodes, got %d", len(want), len(got))
	}
	for i := range want {
		if want[i] != got[i] {
			t.Errorf("node %d: expected %T %p, got %T %p", i, want[i], want[i], got[i], got[i])
		}
	}
}

func TestChildren_PriorityOrder(t *testing.T) {
	col := &SelectColumn{Expr: &Literal{Value: "1"}}
	where := &Literal{Value: "2"}
	cte := &CommonTableExpression{Name: &Name{Kind: KindAlias, Value: "c"}, Query: &SelectQuery{}}
	options := &QueryOptions{}
	q := &SelectQuery{Columns: []*SelectColumn{col}, Where: where, CTEs: []*CommonTableExpression{cte}, Options: options}

	same(t, []Node{cte, options, col, where}, collect(q, nil, false))
}

func TestChildren_InheritedBaseFirst(t *testing.T) {
	param := &Parameter{Name: &Name{Kind: KindParameter, Value: "@a"}, Type: &DataType{Name: &Qualified{Name: &Name{Kind: KindType, Value: "int"}}}}
	ret := &Return{}
	name := &Qualified{Name: &Name{Kind: KindProcedure, Value: "P1"}}
	proc := &CreateProcedure{Routine: Routine{Parameters: []*Parameter{param}, Body: []Statement{ret}}, Procedure: name}

	same(t, []Node{param, ret, name}, collect(proc, nil, false))
}

func TestChildren_SkipsNilFields(t *testing.T) {
	ref := &ColumnRef{Column: &Name{Kind: KindColumn, Value: "a"}}
	if got := collect(ref, nil, false); len(got) != 1 {
		t.Errorf("expected 1 child, got %d", len(got))
	}
	if got := collect((*ColumnRef)(nil), nil, false); len(got) != 0 {
		t.Errorf("expected no children of a nil node, got %d", len(got))
	}
}

func TestWalk_SkipSubtree(t *testing.T) {
	schema := &Name{Kind: KindSchema, Value: "s"}
	table := &CreateTable{Table: &Qualified{Name: &Name{Kind: KindTable, Value: "T"}}}
	stmt := &CreateSchema{Schema: schema, Statements: []Statement{table}}

	same(t, []Node{schema}, collect(stmt, SkipType[CreateStatement](), true))
	if got := collect(stmt, nil, true); len(got) != 4 {
		t.Errorf("expected 4 nodes without skip, got %d", len(got))
	}
}

func TestWalk_PreOrderAndEarlyStop(t *testing.T) {
	a := &Name{Kind: KindColumn, Value: "a"}
	b := &Name{Kind: KindColumn, Value: "b"}
	left := &ColumnRef{Column: a}
	right := &ColumnRef{Column: b}
	expr := &Binary{Op: "=", Left: left, Right: right}

	same(t, []Node{left, a, right, b}, collect(expr, nil, true))

	var first []Node
	for n := range Walk(expr, nil) {
		first = append(first, n)
		break
	}
	same(t, []Node{left}, first)
}

func TestWalk_AlterTableBase(t *testing.T) {
	table := &Qualified{Name: &Name{Kind: KindTable, Value: "T"}}
	constraint := &Name{Kind: KindConstraint, Value: "C"}
	stmt := &AlterTableDropConstraint{TableTarget: TableTarget{Table: table}, Constraint: constraint}

	var kinds []NameKind
	for n := range Walk(stmt, nil) {
		if name, ok := n.(*Name); ok {
			kinds = append(kinds, name.Kind)
		}
	}
	if diff := cmp.Diff([]NameKind{KindTable, KindConstraint}, kinds); diff != "" {
		t.Errorf("name kinds mismatch (-want +got):\n%s", diff)
	}
}
