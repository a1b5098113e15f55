package plan

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xingh/bsn-modulestore/internal/plan"
)

func TestDetermineOutputs(t *testing.T) {
	tests := []struct {
		name        string
		outputHuman string
		outputJSON  string
		outputSQL   string
		expectError bool
		errorMsg    string
		expectCount int
	}{
		{
			name:        "no flags - default to human stdout",
			outputHuman: "",
			outputJSON:  "",
			outputSQL:   "",
			expectCount: 1,
		},
		{
			name:        "single json to stdout",
			outputJSON:  "stdout",
			expectCount: 1,
		},
		{
			name:        "multiple to files",
			outputHuman: "plan.txt",
			outputJSON:  "plan.json",
			outputSQL:   "plan.sql",
			expectCount: 3,
		},
		{
			name:        "json to stdout, sql to file",
			outputJSON:  "stdout",
			outputSQL:   "migration.sql",
			expectCount: 2,
		},
		{
			name:        "multiple stdout error",
			outputJSON:  "stdout",
			outputSQL:   "stdout",
			expectError: true,
			errorMsg:    "only one output format can use stdout",
		},
		{
			name:        "all three with multiple stdout error",
			outputHuman: "stdout",
			outputJSON:  "stdout",
			outputSQL:   "plan.sql",
			expectError: true,
			errorMsg:    "only one output format can use stdout",
		},
	}

	defer ResetFlags()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Set global variables
			outputHuman = tt.outputHuman
			outputJSON = tt.outputJSON
			outputSQL = tt.outputSQL

			outputs, err := determineOutputs()

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
				} else if !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("expected error containing '%s', got '%s'", tt.errorMsg, err.Error())
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}

			if len(outputs) != tt.expectCount {
				t.Errorf("expected %d outputs, got %d", tt.expectCount, len(outputs))
			}

			// Additional validation for default case
			if tt.name == "no flags - default to human stdout" && len(outputs) > 0 {
				if outputs[0].format != "human" || outputs[0].target != "stdout" {
					t.Errorf("expected default output to be human to stdout, got %+v", outputs[0])
				}
			}
		})
	}
}

func TestProcessOutput_Files(t *testing.T) {
	ResetFlags()
	defer ResetFlags()
	tmpDir := t.TempDir()
	p := &plan.Plan{
		Statements: []string{"DROP VIEW [dbo].[V2]"},
		Changes: []plan.ObjectChange{{
			Address: "dbo.V2", Type: "views", Name: "V2", Schema: "dbo",
			Change: plan.Change{Actions: []string{"delete"}},
		}},
	}

	for _, format := range []string{"human", "json", "sql"} {
		target := filepath.Join(tmpDir, "plan."+format)
		if err := processOutput(p, outputSpec{format: format, target: target}, PlanCmd); err != nil {
			t.Fatalf("failed to write %s output: %v", format, err)
		}
		content, err := os.ReadFile(target)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(content), "DROP VIEW [dbo].[V2]") {
			t.Errorf("expected %s output to contain the statement, got:\n%s", format, content)
		}
		if strings.Contains(string(content), "\033[") {
			t.Errorf("expected no color codes in %s file output", format)
		}
	}

	err := processOutput(p, outputSpec{format: "json", target: filepath.Join(tmpDir, "missing", "plan.json")}, PlanCmd)
	if err == nil || !strings.Contains(err.Error(), "failed to write json output") {
		t.Errorf("expected a write error, got %v", err)
	}
	if err := processOutput(p, outputSpec{format: "yaml", target: "stdout"}, PlanCmd); err == nil {
		t.Error("expected an unknown format error")
	}
}
