package plan

import (
	"encoding/json"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/xingh/bsn-modulestore/internal/inventory"
	"github.com/xingh/bsn-modulestore/internal/unit"
	"github.com/xingh/bsn-modulestore/internal/version"
)

const desiredSchema = `CREATE TABLE dbo.T1 (id int NOT NULL, name nvarchar(50) NULL)
GO
CREATE VIEW dbo.V1 AS SELECT id, name FROM dbo.T1`

func newDesired(t *testing.T) *inventory.AssemblyInventory {
	t.Helper()
	fsys := fstest.MapFS{
		"unit.yaml": {Data: []byte(`name: orders
setup:
  - schema.sql
updates:
  - version: 1
    script: updates/001.sql
`)},
		"schema.sql":      {Data: []byte(desiredSchema)},
		"updates/001.sql": {Data: []byte("ALTER TABLE dbo.T1 ADD name nvarchar(50) NULL")},
	}
	u, err := unit.FromFS(fsys, "orders")
	if err != nil {
		t.Fatal(err)
	}
	a, err := inventory.NewAssemblyInventory(u, inventory.DefaultParser)
	if err != nil {
		t.Fatalf("failed to build desired inventory: %v", err)
	}
	return a
}

func newLive(t *testing.T, script string) *inventory.LiveInventory {
	t.Helper()
	live, err := inventory.LoadLiveInventory("dbo", strings.NewReader(script), inventory.DefaultParser)
	if err != nil {
		t.Fatalf("failed to load live inventory: %v", err)
	}
	return live
}

func outdatedPlan(t *testing.T, limit int) *Plan {
	t.Helper()
	live := newLive(t, `CREATE TABLE dbo.T1 (id int NOT NULL)
GO
CREATE VIEW dbo.V2 AS SELECT id FROM dbo.T1`)
	p, err := NewPlan(newDesired(t), live, 0, limit)
	if err != nil {
		t.Fatalf("failed to plan: %v", err)
	}
	return p
}

func TestNewPlan(t *testing.T) {
	p := outdatedPlan(t, 0)

	if p.Unit != "orders" || p.TargetSchema != "dbo" {
		t.Errorf("unexpected plan target %s/%s", p.Unit, p.TargetSchema)
	}
	if p.CurrentVersion != 0 || p.TargetVersion != 1 {
		t.Errorf("expected v0 -> v1, got v%d -> v%d", p.CurrentVersion, p.TargetVersion)
	}
	if p.CreatedAt.IsZero() {
		t.Error("plan should have a creation timestamp")
	}
	if p.Fingerprint == p.LiveFingerprint {
		t.Error("expected the fingerprints to differ")
	}
	if p.MerkleRoot == "" {
		t.Error("expected a merkle root")
	}
	if !p.HasAnyChanges() || p.Truncated {
		t.Errorf("expected a complete plan with statements, got %d (truncated %v)", len(p.Statements), p.Truncated)
	}

	type entry struct {
		Address string
		Type    string
		Action  string
	}
	var got []entry
	for _, oc := range p.Changes {
		got = append(got, entry{Address: oc.Address, Type: oc.Type, Action: oc.Change.Actions[0]})
	}
	want := []entry{
		{Address: "dbo.T1", Type: "tables", Action: "update"},
		{Address: "dbo.V1", Type: "views", Action: "create"},
		{Address: "dbo.V2", Type: "views", Action: "delete"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("changes mismatch (-want +got):\n%s", diff)
	}
	if p.Changes[0].Metadata["update_script"] != true {
		t.Errorf("expected the table to be flagged as changed by update script, got %v", p.Changes[0].Metadata)
	}
}

func TestNewPlan_NoChanges(t *testing.T) {
	p, err := NewPlan(newDesired(t), newLive(t, desiredSchema), 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if p.HasAnyChanges() || len(p.Changes) != 0 {
		t.Errorf("expected no changes, got %v and %v", p.Changes, p.Statements)
	}
	if got := p.HumanColored(false); got != "No changes detected.\n" {
		t.Errorf("unexpected output %q", got)
	}
	if p.ToSQL() != "" {
		t.Errorf("expected no SQL, got %q", p.ToSQL())
	}
}

func TestNewPlan_Limit(t *testing.T) {
	full := outdatedPlan(t, 0)
	p := outdatedPlan(t, 1)

	if !p.Truncated {
		t.Error("expected the plan to be truncated")
	}
	if diff := cmp.Diff(full.Statements[:1], p.Statements); diff != "" {
		t.Errorf("statements mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(p.HumanColored(false), "-- Output truncated after 1 statements") {
		t.Error("expected a truncation note")
	}
}

func TestNewPlan_LimitStopsGeneration(t *testing.T) {
	fsys := fstest.MapFS{
		"unit.yaml":  {Data: []byte("name: cyclic\nsetup:\n  - schema.sql\n")},
		"schema.sql": {Data: []byte(`CREATE TABLE dbo.T1 (id int NOT NULL)
GO
CREATE VIEW dbo.VA AS SELECT id FROM dbo.VB
GO
CREATE VIEW dbo.VB AS SELECT id FROM dbo.VA`)},
	}
	u, err := unit.FromFS(fsys, "cyclic")
	if err != nil {
		t.Fatal(err)
	}
	desired, err := inventory.NewAssemblyInventory(u, inventory.DefaultParser)
	if err != nil {
		t.Fatalf("failed to build desired inventory: %v", err)
	}
	live := inventory.NewLiveInventory("dbo")

	if _, err := NewPlan(desired, live, 0, 0); err == nil {
		t.Fatal("expected the cyclic views to fail an unlimited plan")
	}
	p, err := NewPlan(desired, live, 0, 1)
	if err != nil {
		t.Fatalf("generation should stop at the limit, got %v", err)
	}
	if len(p.Statements) != 1 || !p.Truncated {
		t.Errorf("expected 1 truncated statement, got %d (truncated %v)", len(p.Statements), p.Truncated)
	}
	if !strings.HasPrefix(p.Statements[0], "CREATE TABLE [dbo].[T1]") {
		t.Errorf("expected the table, got %q", p.Statements[0])
	}
}

func TestPlanChangeAddress(t *testing.T) {
	live := newLive(t, `CREATE TABLE dbo.T1 (id int NOT NULL, name nvarchar(50) NULL, CONSTRAINT PK_T1 PRIMARY KEY (id))
GO
CREATE INDEX IX_T1 ON dbo.T1 (name)
GO
CREATE VIEW dbo.V1 AS SELECT id, name FROM dbo.T1`)
	p, err := NewPlan(newDesired(t), live, 1, 0)
	if err != nil {
		t.Fatal(err)
	}

	var got []string
	for _, oc := range p.Changes {
		got = append(got, oc.Address+" "+oc.Table)
	}
	want := []string{"dbo.T1.IX_T1 T1", "dbo.T1.PK_T1 T1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("addresses mismatch (-want +got):\n%s", diff)
	}
}

func TestHumanColored(t *testing.T) {
	out := outdatedPlan(t, 0).HumanColored(false)

	for _, want := range []string{
		"Plan: 1 to add, 1 to modify, 1 to drop.",
		"Update scripts: v0 -> v1",
		"Summary by type:",
		"  tables: 0 to add, 1 to modify, 0 to drop",
		"  views: 1 to add, 0 to modify, 1 to drop",
		"Tables:\n  ~ T1 (via update script)\n",
		"Views:\n  + V1\n  - V2\n",
		"SQL to be executed:",
		"ALTER TABLE [dbo].[T1] ADD [name] nvarchar(50) NULL\nGO\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("expected no escape codes with color disabled")
	}
}

func TestToJSON(t *testing.T) {
	p := outdatedPlan(t, 0)
	p.CreatedAt = time.Date(2025, 3, 1, 12, 30, 45, 999, time.UTC)

	data, err := p.ToJSON()
	if err != nil {
		t.Fatal(err)
	}
	var got PlanJSON
	if err := json.Unmarshal([]byte(data), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if got.Version != version.PlanFormat() || got.ModulestoreVersion != version.App() {
		t.Errorf("unexpected versions %s/%s", got.Version, got.ModulestoreVersion)
	}
	if !got.CreatedAt.Equal(time.Date(2025, 3, 1, 12, 30, 45, 0, time.UTC)) {
		t.Errorf("expected the timestamp truncated to seconds, got %v", got.CreatedAt)
	}
	want := PlanSummary{
		Add: 1, Change: 1, Destroy: 1, Total: 3,
		ByType: map[string]TypeSummary{
			"tables": {Change: 1},
			"views":  {Add: 1, Destroy: 1},
		},
	}
	if diff := cmp.Diff(want, got.Summary); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(p.Statements, got.Statements); diff != "" {
		t.Errorf("statements mismatch (-want +got):\n%s", diff)
	}

	again, err := p.ToJSON()
	if err != nil {
		t.Fatal(err)
	}
	if again != data {
		t.Error("expected identical JSON for the same plan")
	}
}

func TestToSQL(t *testing.T) {
	p := &Plan{Statements: []string{"DROP VIEW [dbo].[V2]", "CREATE VIEW [dbo].[V1] AS SELECT 1 AS [x]"}}

	want := "DROP VIEW [dbo].[V2]\nGO\nCREATE VIEW [dbo].[V1] AS SELECT 1 AS [x]\nGO\n"
	if got := p.ToSQL(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
