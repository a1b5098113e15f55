package inventory

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCompare(t *testing.T) {
	source := newInventory(t, `CREATE TABLE live.T1 (id int NOT NULL)
GO
CREATE VIEW live.V1 AS SELECT id FROM live.T1
GO
CREATE PROCEDURE live.P1 AS SELECT 1`)
	target := newInventory(t, `CREATE TABLE dbo.T1 (id int NOT NULL)
GO
CREATE VIEW dbo.V1 AS SELECT id AS x FROM dbo.T1
GO
CREATE VIEW dbo.V2 AS SELECT id FROM dbo.T1`)

	type entry struct {
		Name string
		Kind string
	}
	var got []entry
	for diff := range Compare(source, target) {
		got = append(got, entry{Name: diff.Statement.ObjectName(), Kind: diff.Kind.String()})
	}
	want := []entry{
		{Name: "P1", Kind: "source-only"},
		{Name: "T1", Kind: "none"},
		{Name: "V1", Kind: "different"},
		{Name: "V2", Kind: "target-only"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("comparison mismatch (-want +got):\n%s", diff)
	}
}

func TestCompare_TakesTargetStatement(t *testing.T) {
	source := newInventory(t, "CREATE VIEW dbo.V1 AS SELECT 1 AS a")
	target := newInventory(t, "CREATE VIEW dbo.V1 AS SELECT 2 AS a")
	want := target.Installables()[0]

	for diff := range Compare(source, target) {
		if diff.Statement != want {
			t.Errorf("expected the target statement, got %s", target.Render(diff.Statement))
		}
	}
}

func TestCompare_StopsEarly(t *testing.T) {
	source := newInventory(t, "CREATE VIEW dbo.A AS SELECT 1 AS a\nGO\nCREATE VIEW dbo.B AS SELECT 1 AS a")
	target := New()

	count := 0
	for range Compare(source, target) {
		count++
		break
	}
	if count != 1 {
		t.Errorf("expected 1 difference, got %d", count)
	}
}

func TestCompare_Equal(t *testing.T) {
	inv := newInventory(t, "CREATE TABLE dbo.T1 (id int NOT NULL, CONSTRAINT PK_T1 PRIMARY KEY (id))")
	same := newInventory(t, "create table [dbo].[T1] ([id] INT not null, constraint [PK_T1] primary key ([id]))")

	for diff := range Compare(inv, same) {
		if diff.Kind != None {
			t.Errorf("expected %s to be equal, got %s", diff.Statement.ObjectName(), diff.Kind)
		}
	}
}
