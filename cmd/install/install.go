package install

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/xingh/bsn-modulestore/cmd/util"
	"github.com/xingh/bsn-modulestore/internal/inventory"
)

var (
	unitDir    string
	schema     string
	outputFile string
)

var InstallCmd = &cobra.Command{
	Use:          "install",
	Short:        "Generate install SQL for a unit",
	Long:         "Generate the SQL installing every object of a unit into an empty schema (specified by --schema, defaults to 'dbo'), followed by the unit's data setup statements.",
	RunE:         runInstall,
	PreRunE:      util.ApplyConfig,
	SilenceUsage: true,
}

func init() {
	InstallCmd.Flags().StringVar(&unitDir, "unit", "", "Path to the unit directory (required)")
	InstallCmd.Flags().StringVar(&schema, "schema", util.DefaultSchema(), "Schema name (env: MODULESTORE_SCHEMA)")
	InstallCmd.Flags().StringVar(&outputFile, "file", "", "Write the SQL to a file instead of stdout")
}

func runInstall(cmd *cobra.Command, args []string) error {
	a, err := util.LoadAssembly(cmd.Context(), unitDir)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	return writeInstallSQL(w, a, schema)
}

func writeInstallSQL(w io.Writer, a *inventory.AssemblyInventory, schema string) error {
	for stmt, err := range a.GenerateInstallSQL(schema) {
		if err != nil {
			return fmt.Errorf("failed to generate install SQL: %w", err)
		}
		if _, err := fmt.Fprintf(w, "%s\nGO\n", stmt); err != nil {
			return fmt.Errorf("failed to write install SQL: %w", err)
		}
	}
	return nil
}
