package plan

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xingh/bsn-modulestore/cmd/util"
	"github.com/xingh/bsn-modulestore/internal/fingerprint"
	"github.com/xingh/bsn-modulestore/internal/inventory"
	"github.com/xingh/bsn-modulestore/internal/logger"
	"github.com/xingh/bsn-modulestore/internal/plan"
	"golang.org/x/sync/errgroup"
)

var (
	planUnit          string
	planCurrent       string
	planVersion       int
	planSchema        string
	planEngineVersion int
	planLimit         int
	planFingerprint   string
	outputHuman       string
	outputJSON        string
	outputSQL         string
	planNoColor       bool
)

var PlanCmd = &cobra.Command{
	Use:          "plan",
	Short:        "Generate migration plan for a specific schema",
	Long:         "Generate a migration plan to bring a live schema to the state declared by a unit. Compares the unit (from --unit) with a snapshot of the live schema (from --current) that is at update version --version.",
	RunE:         runPlan,
	PreRunE:      util.ApplyConfig,
	SilenceUsage: true,
}

func init() {
	PlanCmd.Flags().StringVar(&planUnit, "unit", "", "Path to the unit directory (required)")
	PlanCmd.Flags().StringVar(&planCurrent, "current", "", "Path to the schema snapshot of the live database (required)")
	PlanCmd.Flags().IntVar(&planVersion, "version", 0, "Update version of the live schema")
	PlanCmd.Flags().StringVar(&planSchema, "schema", util.DefaultSchema(), "Schema name (env: MODULESTORE_SCHEMA)")
	PlanCmd.Flags().IntVar(&planEngineVersion, "engine-version", util.DefaultEngineVersion(), "Major version of the live database engine (env: MODULESTORE_ENGINE_VERSION)")
	PlanCmd.Flags().IntVar(&planLimit, "limit", 0, "Stop after this many statements (0 for no limit)")
	PlanCmd.Flags().StringVar(&planFingerprint, "expect-fingerprint", "", "Fail unless the snapshot has this fingerprint (live_fingerprint of an earlier plan)")

	// Output flags
	PlanCmd.Flags().StringVar(&outputHuman, "output-human", "", "Output human-readable format to stdout or file path")
	PlanCmd.Flags().StringVar(&outputJSON, "output-json", "", "Output JSON format to stdout or file path")
	PlanCmd.Flags().StringVar(&outputSQL, "output-sql", "", "Output SQL format to stdout or file path")
	PlanCmd.Flags().BoolVar(&planNoColor, "no-color", false, "Disable colored output")
}

func runPlan(cmd *cobra.Command, args []string) error {
	// Validate outputs before doing any work
	outputs, err := determineOutputs()
	if err != nil {
		return err
	}

	config := &PlanConfig{
		Unit:           planUnit,
		Current:        planCurrent,
		CurrentVersion: planVersion,
		Schema:         planSchema,
		EngineVersion:  planEngineVersion,
		Limit:          planLimit,
		Fingerprint:    planFingerprint,
	}
	migrationPlan, err := GeneratePlan(cmd.Context(), config)
	if err != nil {
		return err
	}

	for _, output := range outputs {
		if err := processOutput(migrationPlan, output, cmd); err != nil {
			return err
		}
	}
	return nil
}

// PlanConfig holds configuration for plan generation
type PlanConfig struct {
	Unit           string
	Current        string
	CurrentVersion int
	Schema         string
	EngineVersion  int
	Limit          int

	// Fingerprint, if set, must match the fingerprint of the snapshot
	Fingerprint string
}

// GeneratePlan loads the unit and the live snapshot concurrently and plans
// the migration between them.
func GeneratePlan(ctx context.Context, config *PlanConfig) (*plan.Plan, error) {
	if config.CurrentVersion < 0 {
		return nil, fmt.Errorf("invalid update version %d", config.CurrentVersion)
	}

	var (
		desired *inventory.AssemblyInventory
		live    *inventory.LiveInventory
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		desired, err = util.LoadAssembly(ctx, config.Unit)
		return err
	})
	g.Go(func() error {
		var err error
		live, err = util.LoadLive(config.Current, config.Schema)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if config.Fingerprint != "" {
		expected, err := fingerprint.Parse(config.Fingerprint)
		if err != nil {
			return nil, fmt.Errorf("invalid --expect-fingerprint: %w", err)
		}
		if err := fingerprint.Compare(expected, live.Fingerprint()); err != nil {
			return nil, fmt.Errorf("live schema changed since the plan was generated: %w", err)
		}
	}
	if err := desired.AssertEngineVersion(config.EngineVersion); err != nil {
		return nil, err
	}
	if config.CurrentVersion > desired.UpdateVersion() {
		return nil, fmt.Errorf("live schema is at update version %d but unit %s only goes up to %d",
			config.CurrentVersion, desired.Unit().Key(), desired.UpdateVersion())
	}

	logger.ForUnit(desired.Unit().Key()).Debug("planning migration",
		"schema", config.Schema,
		"from", config.CurrentVersion,
		"to", desired.UpdateVersion())

	return plan.NewPlan(desired, live, config.CurrentVersion, config.Limit)
}

// outputSpec represents a single output specification
type outputSpec struct {
	format string // "human", "json", or "sql"
	target string // "stdout" or file path
}

// determineOutputs parses the output flags and returns the list of outputs to generate
func determineOutputs() ([]outputSpec, error) {
	var outputs []outputSpec
	stdoutCount := 0

	for _, o := range []outputSpec{
		{format: "human", target: outputHuman},
		{format: "json", target: outputJSON},
		{format: "sql", target: outputSQL},
	} {
		if o.target == "" {
			continue
		}
		if o.target == "stdout" {
			stdoutCount++
		}
		outputs = append(outputs, o)
	}

	if stdoutCount > 1 {
		return nil, fmt.Errorf("only one output format can use stdout")
	}

	// Default behavior: if no outputs specified, output human to stdout
	if len(outputs) == 0 {
		outputs = append(outputs, outputSpec{format: "human", target: "stdout"})
	}

	return outputs, nil
}

// processOutput writes the plan in the specified format to the target destination
func processOutput(migrationPlan *plan.Plan, output outputSpec, cmd *cobra.Command) error {
	var content string
	var err error

	switch output.format {
	case "human":
		// Color only applies to a terminal on stdout
		useColor := output.target == "stdout" && !planNoColor
		content = migrationPlan.HumanColored(useColor)
	case "json":
		content, err = migrationPlan.ToJSON()
		if err != nil {
			return fmt.Errorf("failed to generate JSON output: %w", err)
		}
		content += "\n"
	case "sql":
		content = migrationPlan.ToSQL()
	default:
		return fmt.Errorf("unknown output format: %s", output.format)
	}

	if output.target == "stdout" {
		fmt.Fprint(cmd.OutOrStdout(), content)
		return nil
	}
	if err := os.WriteFile(output.target, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s output to %s: %w", output.format, output.target, err)
	}
	return nil
}

// ResetFlags resets all global flag variables to their default values for testing
func ResetFlags() {
	planUnit = ""
	planCurrent = ""
	planVersion = 0
	planSchema = inventory.DefaultSchema
	planEngineVersion = inventory.DefaultEngineVersion
	planLimit = 0
	planFingerprint = ""
	outputHuman = ""
	outputJSON = ""
	outputSQL = ""
	planNoColor = false
}
