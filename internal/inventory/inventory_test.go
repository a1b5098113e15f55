package inventory

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/xingh/bsn-modulestore/internal/sqlast"
	"github.com/xingh/bsn-modulestore/internal/unit"
)

// testUnit is an in-memory unit that counts script opens.
type testUnit struct {
	key     string
	markers []unit.Marker
	files   map[string]string
	opens   atomic.Int32
}

func (u *testUnit) Key() string            { return u.key }
func (u *testUnit) Markers() []unit.Marker { return u.markers }
func (u *testUnit) Open(ref string) (io.ReadCloser, error) {
	u.opens.Add(1)
	text, ok := u.files[ref]
	if !ok {
		return nil, fmt.Errorf("no such script %s", ref)
	}
	return io.NopCloser(strings.NewReader(text)), nil
}

func newAssembly(t *testing.T, u unit.Unit) *AssemblyInventory {
	t.Helper()
	a, err := NewAssemblyInventory(u, DefaultParser)
	if err != nil {
		t.Fatalf("failed to build assembly inventory: %v", err)
	}
	return a
}

func newLive(t *testing.T, schema, script string) *LiveInventory {
	t.Helper()
	live, err := LoadLiveInventory(schema, strings.NewReader(script), DefaultParser)
	if err != nil {
		t.Fatalf("failed to load live inventory: %v", err)
	}
	return live
}

func newInventory(t *testing.T, script string) *Inventory {
	t.Helper()
	inv := New()
	if err := inv.ProcessSingleScript(strings.NewReader(script), DefaultParser, nil); err != nil {
		t.Fatalf("failed to process script: %v", err)
	}
	return inv
}

func collect(t *testing.T, seq func(func(string, error) bool)) []string {
	t.Helper()
	var result []string
	for stmt, err := range seq {
		if err != nil {
			t.Fatalf("unexpected error after %d statements: %v", len(result), err)
		}
		result = append(result, stmt)
	}
	return result
}

func TestAddObject_Duplicate(t *testing.T) {
	inv := newInventory(t, "CREATE TABLE dbo.T1 (id int)")
	other := newInventory(t, "CREATE VIEW dbo.t1 AS SELECT 1 AS x")
	view, _ := other.Find("T1")

	err := inv.AddObject(view)
	var dup *DuplicateObjectError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateObjectError, got %v", err)
	}
	if dup.Name != "t1" {
		t.Errorf("expected name t1, got %s", dup.Name)
	}
}

func TestAddObject_DuplicateConstraint(t *testing.T) {
	inv := newInventory(t, "CREATE TABLE dbo.T1 (id int, CONSTRAINT PK_X PRIMARY KEY (id))")
	other := newInventory(t, "CREATE TABLE dbo.T2 (id int, CONSTRAINT PK_X PRIMARY KEY (id))")
	table, _ := other.Find("T2")

	if err := inv.AddObject(table); err == nil {
		t.Fatal("expected an error for a constraint name used by two tables")
	}
	if _, ok := inv.Find("T2"); ok {
		t.Error("a rejected object must not be added")
	}
}

func TestFind(t *testing.T) {
	inv := newInventory(t, "CREATE TABLE dbo.T1 (id int)\nGO\nCREATE VIEW dbo.V1 AS SELECT id FROM dbo.T1")

	if _, ok := inv.Find("v1"); !ok {
		t.Error("lookups must be case-insensitive")
	}
	if _, err := FindAs[*sqlast.CreateView](inv, "V1"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := FindAs[*sqlast.CreateView](inv, "T1"); err == nil {
		t.Error("expected an error for an object of another type")
	}
	_, err := FindAs[*sqlast.CreateProcedure](inv, "P1")
	if err == nil || !strings.Contains(err.Error(), "[P1] does not exist") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestInstallables_SplitTables(t *testing.T) {
	inv := newInventory(t, `CREATE TABLE dbo.T1 (id int NOT NULL, CONSTRAINT PK_T1 PRIMARY KEY (id))
GO
CREATE INDEX IX_T1 ON dbo.T1 (id)`)

	var names []string
	for _, stmt := range inv.Installables() {
		names = append(names, stmt.ObjectName())
	}
	if diff := cmp.Diff([]string{"IX_T1", "PK_T1", "T1"}, names); diff != "" {
		t.Errorf("installables mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"dbo"}, inv.Schemas()); diff != "" {
		t.Errorf("schemas mismatch (-want +got):\n%s", diff)
	}
}

func TestFingerprint_IgnoresSchema(t *testing.T) {
	const script = `CREATE TABLE dbo.T1 (id int NOT NULL)
GO
CREATE VIEW dbo.V1 AS SELECT id FROM dbo.T1`
	a := newInventory(t, script)
	b := newInventory(t, strings.ReplaceAll(script, "dbo.", "app."))
	c := newInventory(t, strings.Replace(script, "int NOT NULL", "bigint NOT NULL", 1))

	if !a.Fingerprint().Equal(b.Fingerprint()) {
		t.Error("the schema name must not change the fingerprint")
	}
	if a.Fingerprint().Equal(c.Fingerprint()) {
		t.Error("a changed column type must change the fingerprint")
	}
	ha, _ := a.Hash("V1")
	hb, _ := b.Hash("v1")
	if ha != hb {
		t.Error("the schema name must not change object hashes")
	}
	if _, ok := a.Hash("missing"); ok {
		t.Error("expected no hash for an unknown object")
	}
}

func TestFingerprint_KeepsForeignSchemas(t *testing.T) {
	a := newInventory(t, "CREATE VIEW dbo.V1 AS SELECT id FROM other.T1")
	b := newInventory(t, "CREATE VIEW dbo.V1 AS SELECT id FROM dbo.T1")

	if a.Fingerprint().Equal(b.Fingerprint()) {
		t.Error("references to other schemas must stay qualified")
	}
}

func TestObjectTree(t *testing.T) {
	a := newInventory(t, "CREATE TABLE dbo.T1 (id int)\nGO\nCREATE VIEW dbo.V1 AS SELECT id FROM dbo.T1")
	b := newInventory(t, "CREATE TABLE dbo.T1 (id int)\nGO\nCREATE VIEW dbo.V1 AS SELECT id AS x FROM dbo.T1")

	ta, err := a.ObjectTree()
	if err != nil {
		t.Fatal(err)
	}
	tb, err := b.ObjectTree()
	if err != nil {
		t.Fatal(err)
	}
	if ta.Root == tb.Root {
		t.Error("expected different merkle roots")
	}
	if diff := cmp.Diff([]string{"v1"}, ta.Changed(tb)); diff != "" {
		t.Errorf("changed objects mismatch (-want +got):\n%s", diff)
	}
}

func TestDump(t *testing.T) {
	inv := newInventory(t, "CREATE TABLE dbo.T1 (id int)\nGO\nCREATE VIEW dbo.V1 AS SELECT id FROM dbo.T1")

	var buf bytes.Buffer
	if err := inv.Dump(&buf, "live"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "-- Inventory hash: "+inv.Fingerprint().String()+"\n") {
		t.Errorf("missing inventory hash header:\n%s", out)
	}
	if strings.Count(out, "-- Object hash: ") != 2 || strings.Count(out, "\nGO\n") != 2 {
		t.Errorf("expected two objects:\n%s", out)
	}
	if !strings.Contains(out, "CREATE VIEW [live].[V1] AS\nSELECT [id]\nFROM [live].[T1]\nGO\n") {
		t.Errorf("expected objects qualified with the dump schema:\n%s", out)
	}
}

func TestQualify_Nested(t *testing.T) {
	inv := newInventory(t, "CREATE VIEW dbo.V1 AS SELECT id FROM dbo.T1")
	view, _ := inv.Find("V1")

	outer := inv.Qualify("a")
	inner := inv.Qualify("b")
	if got := inv.Render(view); !strings.HasPrefix(got, "CREATE VIEW [b].[V1]") {
		t.Errorf("unexpected rendering %q", got)
	}
	inner()
	if got := inv.Render(view); !strings.HasPrefix(got, "CREATE VIEW [a].[V1]") {
		t.Errorf("unexpected rendering %q", got)
	}
	outer()
	if got := inv.Render(view); !strings.HasPrefix(got, "CREATE VIEW [V1]") {
		t.Errorf("unexpected rendering %q", got)
	}
}

func TestProcessSingleScript_MergesAlterTable(t *testing.T) {
	merged := newInventory(t, `SET ANSI_NULLS ON
GO
CREATE TABLE dbo.T1 (id int NOT NULL, x int NULL)
GO
ALTER TABLE dbo.T1 ADD CONSTRAINT DF_T1_x DEFAULT 0 FOR x
GO
ALTER TABLE dbo.T1 ADD CONSTRAINT CK_T1 CHECK (x > 0)
GO
ALTER TABLE dbo.T1 CHECK CONSTRAINT ALL`)
	inline := newInventory(t, "CREATE TABLE dbo.T1 (id int NOT NULL, x int NULL CONSTRAINT DF_T1_x DEFAULT 0, CONSTRAINT CK_T1 CHECK (x > 0))")

	if !merged.Fingerprint().Equal(inline.Fingerprint()) {
		t1, _ := merged.Find("T1")
		t.Errorf("merged table differs from the inline definition:\n%s", merged.Render(t1))
	}
}

func TestProcessSingleScript_AlterOtherTable(t *testing.T) {
	inv := New()
	err := inv.ProcessSingleScript(strings.NewReader("ALTER TABLE dbo.T9 ADD x int"), DefaultParser, nil)
	if err == nil || !strings.Contains(err.Error(), "statement tries to modify another table") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestProcessSingleScript_CreateSchema(t *testing.T) {
	var ignored []sqlast.Statement
	inv := New()
	err := inv.ProcessSingleScript(strings.NewReader(`CREATE SCHEMA app
	CREATE TABLE T1 (id int)
	CREATE TABLE T2 (id int)
GO
INSERT INTO app.T1 (id) VALUES (1)`), DefaultParser, func(stmt sqlast.Statement) {
		ignored = append(ignored, stmt)
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(inv.Objects()) != 2 {
		t.Errorf("expected 2 objects, got %d", len(inv.Objects()))
	}
	if len(ignored) != 1 {
		t.Fatalf("expected 1 unsupported statement, got %d", len(ignored))
	}
	if _, ok := ignored[0].(*sqlast.Insert); !ok {
		t.Errorf("expected the insert to be passed on, got %T", ignored[0])
	}
}

func TestInvalidate(t *testing.T) {
	inv := newInventory(t, "CREATE TABLE dbo.T1 (id int NOT NULL)")
	before, _ := inv.Hash("T1")

	table, err := FindAs[*sqlast.CreateTable](inv, "T1")
	if err != nil {
		t.Fatal(err)
	}
	table.Definitions = append(table.Definitions, &sqlast.Constraint{
		Kind:    sqlast.ConstraintPrimaryKey,
		Name:    &sqlast.Name{Kind: sqlast.KindConstraint, Value: "PK_T1"},
		Columns: []*sqlast.IndexColumn{{Name: &sqlast.Name{Kind: sqlast.KindColumn, Value: "id"}}},
	})
	if cached, _ := inv.Hash("T1"); cached != before {
		t.Error("hashes must stay cached until invalidated")
	}
	if err := inv.Invalidate("T1"); err != nil {
		t.Fatal(err)
	}
	if _, ok := inv.Hash("PK_T1"); !ok {
		t.Error("expected the new constraint to become an installable")
	}
	if after, _ := inv.Hash("T1"); after != before {
		t.Error("a named constraint is not part of the table fragment hash")
	}
}
