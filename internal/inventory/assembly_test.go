package inventory

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/xingh/bsn-modulestore/internal/unit"
)

func TestNewAssemblyInventory_FromManifest(t *testing.T) {
	fsys := fstest.MapFS{
		"unit.yaml": {Data: []byte(`name: orders
minimum_engine_version: 11
setup:
  - schema.sql
updates:
  - version: 1
    script: updates/001.sql
  - version: 2
    script: updates/002.sql
data:
  - data.sql
exceptions:
  - number: 547
    kind: constraint
  - number: 547
    message: FK_Orders
    kind: missing-customer
`)},
		"schema.sql":      {Data: []byte("CREATE TABLE dbo.Orders (id int NOT NULL)\nGO\nINSERT INTO dbo.Orders (id) VALUES (0)")},
		"updates/001.sql": {Data: []byte("ALTER TABLE dbo.Orders ADD customer int NULL")},
		"updates/002.sql": {Data: []byte("UPDATE dbo.Orders SET customer = 0\nGO\nDELETE FROM dbo.Orders WHERE id = 0")},
		"data.sql":        {Data: []byte("INSERT INTO dbo.Orders (id) VALUES (1)")},
	}
	u, err := unit.FromFS(fsys, "")
	if err != nil {
		t.Fatal(err)
	}

	a := newAssembly(t, u)
	if a.Unit() != unit.Unit(u) {
		t.Error("expected the unit to be kept")
	}
	if a.RequiredEngineVersion() != 11 {
		t.Errorf("expected engine version 11, got %d", a.RequiredEngineVersion())
	}
	if a.UpdateVersion() != 2 {
		t.Errorf("expected update version 2, got %d", a.UpdateVersion())
	}
	if n := len(a.UpdateStatements(2)); n != 2 {
		t.Errorf("expected 2 statements in version 2, got %d", n)
	}
	if n := len(a.SetupStatements()); n != 2 {
		t.Errorf("expected 2 setup statements, got %d", n)
	}
	var kinds []string
	for _, m := range a.ExceptionMappings() {
		kinds = append(kinds, m.Kind)
	}
	if diff := cmp.Diff([]string{"missing-customer", "constraint"}, kinds); diff != "" {
		t.Errorf("mappings must be ordered most specific first (-want +got):\n%s", diff)
	}
}

func TestNewAssemblyInventory_DefaultEngineVersion(t *testing.T) {
	a := newAssembly(t, &testUnit{key: "empty"})

	if a.RequiredEngineVersion() != DefaultEngineVersion {
		t.Errorf("expected engine version %d, got %d", DefaultEngineVersion, a.RequiredEngineVersion())
	}
	if a.UpdateVersion() != 0 {
		t.Errorf("expected update version 0, got %d", a.UpdateVersion())
	}
	if !a.IsEmpty() {
		t.Error("expected an empty inventory")
	}
}

func TestNewAssemblyInventory_UpdateVersions(t *testing.T) {
	tests := []struct {
		name     string
		versions []int
		wantErr  string
	}{
		{name: "contiguous", versions: []int{1, 2, 3}},
		{name: "unordered", versions: []int{2, 1}},
		{name: "gap", versions: []int{1, 3}, wantErr: "version 2 is missing"},
		{name: "zero", versions: []int{0, 1}, wantErr: "must be at least 1"},
		{name: "duplicate", versions: []int{1, 1}, wantErr: "duplicate update script version 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &testUnit{key: tt.name, files: map[string]string{"update.sql": "DELETE FROM dbo.T1"}}
			for _, v := range tt.versions {
				u.markers = append(u.markers, unit.UpdateScript{Ref: "update.sql", Version: v})
			}

			a, err := NewAssemblyInventory(u, DefaultParser)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if a.UpdateVersion() != len(tt.versions) {
					t.Errorf("expected update version %d, got %d", len(tt.versions), a.UpdateVersion())
				}
				return
			}
			var construction *ConstructionError
			if !errors.As(err, &construction) {
				t.Fatalf("expected ConstructionError, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestNewAssemblyInventory_DuplicateSetupScript(t *testing.T) {
	u := &testUnit{
		key: "dup",
		markers: []unit.Marker{
			unit.SetupScript{Ref: "schema.sql"},
			unit.SetupScript{Ref: "schema.sql"},
			unit.DataSetupScript{Ref: "data.sql"},
			unit.DataSetupScript{Ref: "data.sql"},
		},
		files: map[string]string{
			"schema.sql": "CREATE TABLE dbo.T1 (id int)",
			"data.sql":   "INSERT INTO dbo.T1 (id) VALUES (1)",
		},
	}

	a := newAssembly(t, u)
	if got := u.opens.Load(); got != 2 {
		t.Errorf("expected each script to be read once, got %d reads", got)
	}
	if n := len(a.SetupStatements()); n != 1 {
		t.Errorf("expected 1 setup statement, got %d", n)
	}
}

func TestNewAssemblyInventory_DuplicateObject(t *testing.T) {
	u := &testUnit{
		key:     "dup",
		markers: []unit.Marker{unit.SetupScript{Ref: "a.sql"}, unit.SetupScript{Ref: "b.sql"}},
		files: map[string]string{
			"a.sql": "CREATE TABLE dbo.T1 (id int)",
			"b.sql": "CREATE VIEW dbo.T1 AS SELECT 1 AS id",
		},
	}

	_, err := NewAssemblyInventory(u, DefaultParser)
	var construction *ConstructionError
	if !errors.As(err, &construction) {
		t.Fatalf("expected ConstructionError, got %v", err)
	}
	if construction.Script != "b.sql" {
		t.Errorf("expected the second script to be blamed, got %s", construction.Script)
	}
	var dup *DuplicateObjectError
	if !errors.As(err, &dup) {
		t.Errorf("expected the duplicate to be wrapped, got %v", err)
	}
}

func TestNewAssemblyInventory_ParseError(t *testing.T) {
	u := &testUnit{
		key:     "broken",
		markers: []unit.Marker{unit.SetupScript{Ref: "schema.sql"}},
		files:   map[string]string{"schema.sql": "CREATE TABLE dbo.T1 (id int"},
	}

	_, err := NewAssemblyInventory(u, DefaultParser)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if !strings.Contains(err.Error(), "failed to parse schema.sql in unit broken") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestNewAssemblyInventory_MissingScript(t *testing.T) {
	u := &testUnit{key: "missing", markers: []unit.Marker{unit.UpdateScript{Ref: "nope.sql", Version: 1}}}

	_, err := NewAssemblyInventory(u, DefaultParser)
	var construction *ConstructionError
	if !errors.As(err, &construction) {
		t.Fatalf("expected ConstructionError, got %v", err)
	}
}

func TestAssertEngineVersion(t *testing.T) {
	a := newAssembly(t, &testUnit{key: "engine", markers: []unit.Marker{
		unit.MinimumEngineVersion{Version: 12},
		unit.MinimumEngineVersion{Version: 10},
	}})

	if err := a.AssertEngineVersion(12); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	err := a.AssertEngineVersion(11)
	var engine *EngineVersionError
	if !errors.As(err, &engine) {
		t.Fatalf("expected EngineVersionError, got %v", err)
	}
	if engine.Required != 12 || engine.Actual != 11 {
		t.Errorf("unexpected versions %+v", engine)
	}
}

func TestMapException(t *testing.T) {
	a := newAssembly(t, &testUnit{key: "exceptions", markers: []unit.Marker{
		unit.ExceptionMapping{Number: 50000, Kind: "generic"},
		unit.ExceptionMapping{Number: 50000, State: 2, Message: "not found", Kind: "not-found"},
		unit.ExceptionMapping{Number: 50000, State: 2, Kind: "state"},
	}})

	tests := []struct {
		name    string
		state   int
		message string
		want    string
	}{
		{name: "most specific", state: 2, message: "Order NOT FOUND", want: "not-found"},
		{name: "state only", state: 2, message: "other", want: "state"},
		{name: "number only", state: 1, message: "not found", want: "generic"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := a.MapException(50000, 16, tt.state, tt.message)
			if !ok {
				t.Fatal("expected a mapping")
			}
			if m.Kind != tt.want {
				t.Errorf("expected %s, got %s", tt.want, m.Kind)
			}
		})
	}

	if _, ok := a.MapException(547, 16, 1, ""); ok {
		t.Error("expected no mapping for an unknown error number")
	}
}
