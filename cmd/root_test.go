package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestRootCommand(t *testing.T) {
	var buf bytes.Buffer
	RootCmd.SetOut(&buf)
	RootCmd.SetErr(&buf)
	RootCmd.SetArgs([]string{"--help"})

	err := RootCmd.Execute()
	if err != nil {
		t.Errorf("root command with --help failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "modulestore installs the schema declared by a unit") {
		t.Errorf("expected help output to contain description, got: %s", output)
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	commands := RootCmd.Commands()

	expectedCommands := []string{"install", "plan", "dump", "version"}
	commandNames := make([]string, len(commands))
	for i, cmd := range commands {
		commandNames[i] = cmd.Name()
	}

	for _, expected := range expectedCommands {
		found := false
		for _, actual := range commandNames {
			if actual == expected {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected subcommand %s not found in: %v", expected, commandNames)
		}
	}
}

func TestInitConfig(t *testing.T) {
	t.Cleanup(func() {
		cfgFile = ""
		viper.Reset()
	})

	path := filepath.Join(t.TempDir(), "modulestore.yaml")
	if err := os.WriteFile(path, []byte("schema: app\nplan:\n  limit: 10\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfgFile = path
	if err := initConfig(); err != nil {
		t.Fatalf("failed to read config: %v", err)
	}
	if viper.GetString("schema") != "app" || viper.GetInt("plan.limit") != 10 {
		t.Errorf("unexpected config values %v", viper.AllSettings())
	}

	viper.Reset()
	cfgFile = filepath.Join(t.TempDir(), "missing.yaml")
	if err := initConfig(); err == nil {
		t.Error("expected an error for a missing explicit config file")
	}
}

func TestInstallThroughRoot(t *testing.T) {
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	files := map[string]string{
		"unit.yaml":  "name: orders\nsetup:\n  - schema.sql\n",
		"schema.sql": "CREATE TABLE dbo.T1 (id int NOT NULL)\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	RootCmd.SetOut(&buf)
	RootCmd.SetErr(&buf)
	RootCmd.SetArgs([]string{"install", "--unit", dir, "--schema", "dbo"})
	if err := RootCmd.Execute(); err != nil {
		t.Fatalf("install failed: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "CREATE TABLE [dbo].[T1]") {
		t.Errorf("unexpected install output:\n%s", buf.String())
	}
}
