package sqlast_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/xingh/bsn-modulestore/internal/sqlast"
	"github.com/xingh/bsn-modulestore/internal/tsql"
)

func parseOne(t *testing.T, src string) sqlast.Statement {
	t.Helper()
	stmts, err := tsql.ParseString(src)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	return stmts[0]
}

func TestReferencedNames(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		kinds []sqlast.NameKind
		want  []string
	}{
		{
			name: "locals and self excluded",
			src: `CREATE PROCEDURE dbo.P1 @x int AS
SELECT * FROM #work
EXEC dbo.P1 @x
EXEC dbo.p2
SELECT @x`,
			want: []string{"p2"},
		},
		{
			name: "aliases do not hide qualified names",
			src:  "CREATE VIEW dbo.V1 AS SELECT a.id FROM dbo.T1 a JOIN dbo.a ON 1 = 1 JOIN T2 ON 1 = 1",
			want: []string{"a", "T1", "T2"},
		},
		{
			name: "alias spelled like its table",
			src:  "CREATE VIEW dbo.A1 AS SELECT z1.id FROM Z1 z1",
			want: []string{"Z1"},
		},
		{
			name: "alias reused as unqualified table name",
			src:  "CREATE VIEW dbo.V1 AS SELECT o.id FROM dbo.T1 o JOIN o ON 1 = 1",
			want: []string{"o", "T1"},
		},
		{
			name: "common table expressions shadow unqualified names",
			src:  "CREATE VIEW dbo.V1 AS WITH c AS (SELECT id FROM dbo.T1) SELECT id FROM c JOIN dbo.c ON 1 = 1",
			want: []string{"c", "T1"},
		},
		{
			name: "case-insensitive dedupe keeps first spelling",
			src:  "SELECT * FROM dbo.Orders o JOIN dbo.ORDERS p ON o.id = p.id",
			want: []string{"Orders"},
		},
		{
			name:  "kind filter",
			src:   "SELECT a, b FROM dbo.T1 WHERE c = 1",
			kinds: []sqlast.NameKind{sqlast.KindColumn},
			want:  []string{"a", "b", "c"},
		},
		{
			name: "foreign key target",
			src:  "CREATE TABLE dbo.T2 (a int REFERENCES dbo.T1 (id), b AS dbo.F1(a))",
			want: []string{"F1", "T1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sqlast.ReferencedNames(parseOne(t, tt.src), tt.kinds...)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("referenced names mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReferencedNames_SkipsNestedCreates(t *testing.T) {
	stmt := parseOne(t, "CREATE SCHEMA app CREATE TABLE app.T1 (a int REFERENCES dbo.T9 (id))")
	if got := sqlast.ReferencedNames(stmt); len(got) != 0 {
		t.Errorf("expected no names, got %v", got)
	}
}

func TestDependsOn(t *testing.T) {
	stmt := parseOne(t, "CREATE VIEW dbo.V1 AS SELECT id FROM dbo.T1")
	if !sqlast.DependsOn(stmt, map[string]bool{"t1": true}) {
		t.Error("expected dependency on t1")
	}
	if sqlast.DependsOn(stmt, map[string]bool{"v1": true}) {
		t.Error("a statement does not depend on itself")
	}
	if sqlast.DependsOn(stmt, nil) {
		t.Error("expected no dependency on an empty set")
	}
}

func TestObjectSchemaQualifiedNames(t *testing.T) {
	stmt := parseOne(t, "CREATE VIEW dbo.V1 AS SELECT x.id FROM dbo.T1 x JOIN T2 ON 1 = 1")
	var got []string
	for _, q := range sqlast.ObjectSchemaQualifiedNames(stmt) {
		got = append(got, q.String())
	}
	if diff := cmp.Diff([]string{"dbo.V1", "dbo.T1"}, got); diff != "" {
		t.Errorf("qualified names mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeHash(t *testing.T) {
	a := parseOne(t, "create table dbo.T1 (id INT not null default 0)")
	b := parseOne(t, "CREATE TABLE [dbo].[T1]\n(\n  [id] int NOT NULL DEFAULT 0 -- comment\n)")
	c := parseOne(t, "CREATE TABLE dbo.T1 (id int NOT NULL DEFAULT 1)")

	if sqlast.ComputeHash(a, nil) != sqlast.ComputeHash(b, nil) {
		t.Error("formatting differences must not change the hash")
	}
	if sqlast.ComputeHash(a, nil) == sqlast.ComputeHash(c, nil) {
		t.Error("a changed default must change the hash")
	}
	if len(sqlast.ComputeHash(a, nil).String()) != 64 {
		t.Error("expected a 64 character hex digest")
	}
}

func TestRender_QualifyOverride(t *testing.T) {
	stmt := parseOne(t, "CREATE VIEW dbo.V1 AS SELECT id FROM dbo.T1 JOIN other.T2 ON 1 = 1")
	qualify := func(q *sqlast.Qualified) (string, bool) {
		if strings.EqualFold(q.Schema(), "dbo") {
			return "live", true
		}
		return "", false
	}
	got := sqlast.Render(stmt, qualify)
	want := "CREATE VIEW [live].[V1] AS\nSELECT [id]\nFROM [live].[T1]\nINNER JOIN [other].[T2] ON 1 = 1"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rendering mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateTable_Fragments(t *testing.T) {
	table := parseOne(t, `CREATE TABLE dbo.T1 (
	id int NOT NULL,
	ref int NULL,
	CONSTRAINT PK_T1 PRIMARY KEY (id),
	CONSTRAINT FK_T1 FOREIGN KEY (ref) REFERENCES dbo.T0 (id),
	CHECK (id > 0)
)`).(*sqlast.CreateTable)

	tests := []struct {
		mode      sqlast.FragmentMode
		inline    int
		fragments []string
	}{
		{mode: sqlast.FragmentCompare, inline: 3, fragments: []string{"T1", "PK_T1", "FK_T1"}},
		{mode: sqlast.FragmentCreateOnExistingSchema, inline: 4, fragments: []string{"T1", "FK_T1"}},
		{mode: sqlast.FragmentFull, inline: 5, fragments: []string{"T1"}},
	}
	for _, tt := range tests {
		fragments := table.Fragments(tt.mode)
		var names []string
		for _, f := range fragments {
			names = append(names, f.ObjectName())
		}
		if diff := cmp.Diff(tt.fragments, names); diff != "" {
			t.Errorf("mode %d: fragments mismatch (-want +got):\n%s", tt.mode, diff)
		}
		if got := len(fragments[0].(*sqlast.TableFragment).Definitions); got != tt.inline {
			t.Errorf("mode %d: expected %d inline definitions, got %d", tt.mode, tt.inline, got)
		}
	}

	fk := table.Installables()[2]
	if got := sqlast.Render(fk, nil); !strings.HasPrefix(got, "ALTER TABLE [dbo].[T1] WITH CHECK ADD CONSTRAINT [FK_T1] FOREIGN KEY") {
		t.Errorf("unexpected constraint fragment rendering %q", got)
	}
	if got := sqlast.Render(fk.DropStatement(), nil); got != "ALTER TABLE [dbo].[T1] DROP CONSTRAINT [FK_T1]" {
		t.Errorf("unexpected drop %q", got)
	}
	if _, err := table.Installables()[0].AlterStatement(); !errors.Is(err, sqlast.ErrAlterNotSupported) {
		t.Errorf("expected ErrAlterNotSupported, got %v", err)
	}
}

func TestAlterStatement(t *testing.T) {
	index := parseOne(t, "CREATE INDEX IX_T1 ON dbo.T1 (a) WITH (FILLFACTOR = 80, DROP_EXISTING = OFF)").(*sqlast.CreateIndex)
	alter, err := index.AlterStatement()
	if err != nil {
		t.Fatal(err)
	}
	want := "CREATE INDEX [IX_T1] ON [dbo].[T1] ([a]) WITH (DROP_EXISTING = ON, FILLFACTOR = 80)"
	if got := sqlast.Render(alter, nil); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	proc := parseOne(t, "CREATE PROCEDURE dbo.P1 AS RETURN").(*sqlast.CreateProcedure)
	alterProc, err := proc.AlterStatement()
	if err != nil {
		t.Fatal(err)
	}
	if got := sqlast.Render(alterProc, nil); !strings.HasPrefix(got, "ALTER PROCEDURE [dbo].[P1]") {
		t.Errorf("unexpected alter %q", got)
	}
	if proc.Alter {
		t.Error("AlterStatement must not modify the original")
	}
}
