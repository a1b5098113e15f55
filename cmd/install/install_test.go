package install

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeUnit(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"unit.yaml":  "name: orders\nsetup:\n  - schema.sql\n",
		"schema.sql": "CREATE VIEW dbo.V1 AS SELECT id FROM dbo.T1\nGO\nCREATE TABLE dbo.T1 (id int NOT NULL)\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func resetFlags(t *testing.T) {
	t.Cleanup(func() {
		unitDir, schema, outputFile = "", "dbo", ""
	})
}

func TestRunInstall(t *testing.T) {
	resetFlags(t)
	unitDir, schema = writeUnit(t), "dbo"

	var buf bytes.Buffer
	InstallCmd.SetOut(&buf)
	InstallCmd.SetContext(context.Background())
	if err := runInstall(InstallCmd, nil); err != nil {
		t.Fatalf("install failed: %v", err)
	}

	want := "CREATE TABLE [dbo].[T1] (\n\t[id] int NOT NULL\n)\nGO\nCREATE VIEW [dbo].[V1] AS\nSELECT [id]\nFROM [dbo].[T1]\nGO\n"
	if got := buf.String(); got != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestRunInstall_File(t *testing.T) {
	resetFlags(t)
	unitDir, schema = writeUnit(t), "app"
	outputFile = filepath.Join(t.TempDir(), "install.sql")

	InstallCmd.SetContext(context.Background())
	if err := runInstall(InstallCmd, nil); err != nil {
		t.Fatalf("install failed: %v", err)
	}

	data, err := os.ReadFile(outputFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "CREATE SCHEMA [app]") {
		t.Errorf("expected a schema batch first, got:\n%s", data)
	}
}

func TestRunInstall_MissingUnit(t *testing.T) {
	resetFlags(t)
	unitDir = ""

	InstallCmd.SetContext(context.Background())
	err := runInstall(InstallCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "--unit") {
		t.Errorf("expected a missing unit error, got %v", err)
	}
}
