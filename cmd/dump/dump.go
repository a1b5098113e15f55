package dump

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xingh/bsn-modulestore/cmd/util"
	"github.com/xingh/bsn-modulestore/internal/inventory"
	"github.com/xingh/bsn-modulestore/internal/version"
)

var (
	unitDir string
	schema  string
)

var DumpCmd = &cobra.Command{
	Use:          "dump",
	Short:        "Dump the inventory of a unit",
	Long:         "Dump every object of a unit in canonical form, each preceded by its content hash. The header carries the inventory fingerprint and the merkle root over the object hashes.",
	RunE:         runDump,
	PreRunE:      util.ApplyConfig,
	SilenceUsage: true,
}

func init() {
	DumpCmd.Flags().StringVar(&unitDir, "unit", "", "Path to the unit directory (required)")
	DumpCmd.Flags().StringVar(&schema, "schema", util.DefaultSchema(), "Schema to qualify objects with (env: MODULESTORE_SCHEMA)")
}

// generateDumpHeader generates the header for inventory dumps with metadata
func generateDumpHeader(a *inventory.AssemblyInventory, root string) string {
	var header strings.Builder

	header.WriteString("--\n")
	header.WriteString("-- modulestore inventory dump\n")
	header.WriteString("--\n")
	header.WriteString("\n")

	header.WriteString(fmt.Sprintf("-- Unit: %s\n", a.Unit().Key()))
	header.WriteString(fmt.Sprintf("-- Update version: %d\n", a.UpdateVersion()))
	header.WriteString(fmt.Sprintf("-- Merkle root: %s\n", root))
	header.WriteString(fmt.Sprintf("-- Dumped by modulestore version %s\n", version.App()))
	header.WriteString("\n")
	return header.String()
}

func runDump(cmd *cobra.Command, args []string) error {
	a, err := util.LoadAssembly(cmd.Context(), unitDir)
	if err != nil {
		return err
	}
	return writeDump(cmd.OutOrStdout(), a, schema)
}

func writeDump(w io.Writer, a *inventory.AssemblyInventory, schema string) error {
	tree, err := a.ObjectTree()
	if err != nil {
		return fmt.Errorf("failed to compute object tree: %w", err)
	}
	if _, err := io.WriteString(w, generateDumpHeader(a, tree.Root)); err != nil {
		return fmt.Errorf("failed to write dump: %w", err)
	}
	if err := a.Dump(w, schema); err != nil {
		return fmt.Errorf("failed to write dump: %w", err)
	}
	return nil
}
