package plan

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/xingh/bsn-modulestore/internal/color"
	"github.com/xingh/bsn-modulestore/internal/inventory"
	"github.com/xingh/bsn-modulestore/internal/sqlast"
	"github.com/xingh/bsn-modulestore/internal/version"
)

// Plan represents the migration of one schema from its live state to the
// state declared by a unit
type Plan struct {
	// Unit is the key of the planned unit
	Unit string

	// TargetSchema is the schema the statements are qualified with
	TargetSchema string

	// CurrentVersion is the update version of the live schema
	CurrentVersion int

	// TargetVersion is the highest update version of the unit
	TargetVersion int

	// CreatedAt is when the plan was generated
	CreatedAt time.Time

	Fingerprint     string
	LiveFingerprint string
	MerkleRoot      string

	// Changes holds every object that differs between the two states
	Changes []ObjectChange

	// Statements are the generated statements, without batch separators
	Statements []string

	// Truncated is set when generation stopped at the statement limit, even
	// if no statements were left to generate
	Truncated bool
}

// ObjectChange represents a single object change
type ObjectChange struct {
	Address  string         `json:"address"`
	Type     string         `json:"type"`
	Name     string         `json:"name"`
	Schema   string         `json:"schema"`
	Table    string         `json:"table,omitempty"`
	Change   Change         `json:"change"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Change represents the change details
type Change struct {
	Actions []string `json:"actions"`
}

// PlanJSON represents the structured JSON output format
type PlanJSON struct {
	Version            string         `json:"version"`
	ModulestoreVersion string         `json:"modulestore_version"`
	CreatedAt          time.Time      `json:"created_at"`
	Unit               string         `json:"unit"`
	Schema             string         `json:"schema"`
	CurrentVersion     int            `json:"current_version"`
	TargetVersion      int            `json:"target_version"`
	Fingerprint        string         `json:"fingerprint"`
	LiveFingerprint    string         `json:"live_fingerprint"`
	MerkleRoot         string         `json:"merkle_root"`
	Summary            PlanSummary    `json:"summary"`
	ObjectChanges      []ObjectChange `json:"object_changes"`
	Statements         []string       `json:"statements"`
	Truncated          bool           `json:"truncated,omitempty"`
}

// PlanSummary provides counts of changes by type
type PlanSummary struct {
	Add     int                    `json:"add"`
	Change  int                    `json:"change"`
	Destroy int                    `json:"destroy"`
	Total   int                    `json:"total"`
	ByType  map[string]TypeSummary `json:"by_type"`
}

// TypeSummary provides counts for a specific object type
type TypeSummary struct {
	Add     int `json:"add"`
	Change  int `json:"change"`
	Destroy int `json:"destroy"`
}

// ObjectType represents the database object types
type ObjectType string

const (
	TypeTable      ObjectType = "tables"
	TypeConstraint ObjectType = "constraints"
	TypeIndex      ObjectType = "indexes"
	TypeFunction   ObjectType = "functions"
	TypeView       ObjectType = "views"
	TypeProcedure  ObjectType = "procedures"
	TypeTrigger    ObjectType = "triggers"
)

// getObjectOrder returns the display order of object types
func getObjectOrder() []ObjectType {
	return []ObjectType{
		TypeTable,
		TypeConstraint,
		TypeIndex,
		TypeFunction,
		TypeView,
		TypeProcedure,
		TypeTrigger,
	}
}

var categoryTypes = map[sqlast.Category]ObjectType{
	sqlast.CategoryTable:      TypeTable,
	sqlast.CategoryConstraint: TypeConstraint,
	sqlast.CategoryIndex:      TypeIndex,
	sqlast.CategoryFunction:   TypeFunction,
	sqlast.CategoryView:       TypeView,
	sqlast.CategoryProcedure:  TypeProcedure,
	sqlast.CategoryTrigger:    TypeTrigger,
}

var differenceActions = map[inventory.DifferenceKind]string{
	inventory.TargetOnly: "create",
	inventory.Different:  "update",
	inventory.SourceOnly: "delete",
}

// NewPlan plans the migration of live, at update version currentVersion, to
// desired. A positive limit stops generation once that many statements have
// been generated.
func NewPlan(desired *inventory.AssemblyInventory, live *inventory.LiveInventory, currentVersion, limit int) (*Plan, error) {
	p := &Plan{
		Unit:            desired.Unit().Key(),
		TargetSchema:    live.SchemaName,
		CurrentVersion:  currentVersion,
		TargetVersion:   desired.UpdateVersion(),
		CreatedAt:       time.Now(),
		Fingerprint:     desired.Fingerprint().String(),
		LiveFingerprint: live.Fingerprint().String(),
	}

	tree, err := desired.ObjectTree()
	if err != nil {
		return nil, fmt.Errorf("failed to compute object tree: %w", err)
	}
	p.MerkleRoot = tree.Root

	for diff := range inventory.Compare(&live.Inventory, &desired.Inventory) {
		if diff.Kind == inventory.None {
			continue
		}
		p.Changes = append(p.Changes, newObjectChange(diff, live.SchemaName))
	}

	for stmt, err := range desired.GenerateUpdateSQL(live, currentVersion) {
		if err != nil {
			return nil, fmt.Errorf("failed to generate update SQL: %w", err)
		}
		p.Statements = append(p.Statements, stmt)
		if limit > 0 && len(p.Statements) == limit {
			p.Truncated = true
			break
		}
	}
	return p, nil
}

func newObjectChange(diff inventory.Difference, schema string) ObjectChange {
	stmt := diff.Statement
	oc := ObjectChange{
		Type:   string(categoryTypes[stmt.Category()]),
		Name:   stmt.ObjectName(),
		Schema: schema,
		Change: Change{Actions: []string{differenceActions[diff.Kind]}},
	}
	switch s := stmt.(type) {
	case *sqlast.ConstraintFragment:
		oc.Table = s.Table.Name.Value
	case *sqlast.CreateIndex:
		oc.Table = s.Table.Name.Value
	}
	if oc.Table != "" {
		oc.Address = fmt.Sprintf("%s.%s.%s", schema, oc.Table, oc.Name)
	} else {
		oc.Address = fmt.Sprintf("%s.%s", schema, oc.Name)
	}
	if diff.Kind == inventory.Different && stmt.AlterUsingUpdateScript() {
		oc.Metadata = map[string]any{"update_script": true}
	}
	return oc
}

// HasAnyChanges checks if the plan contains any statements
func (p *Plan) HasAnyChanges() bool {
	return len(p.Statements) > 0
}

// HumanColored returns a human-readable summary of the plan with color support
func (p *Plan) HumanColored(enableColor bool) string {
	c := color.New(enableColor)
	var summary strings.Builder

	planJSON := p.convertToStructuredJSON()

	if planJSON.Summary.Total == 0 && len(planJSON.Statements) == 0 {
		summary.WriteString("No changes detected.\n")
		return summary.String()
	}

	summary.WriteString(c.FormatPlanHeader(planJSON.Summary.Add, planJSON.Summary.Change, planJSON.Summary.Destroy) + "\n\n")

	if p.CurrentVersion < p.TargetVersion {
		summary.WriteString(fmt.Sprintf("Update scripts: %s\n\n", c.Cyan(fmt.Sprintf("v%d -> v%d", p.CurrentVersion, p.TargetVersion))))
	}

	if planJSON.Summary.Total > 0 {
		summary.WriteString(c.Bold("Summary by type:") + "\n")
		for _, objType := range getObjectOrder() {
			objTypeStr := string(objType)
			if typeSummary, exists := planJSON.Summary.ByType[objTypeStr]; exists {
				line := c.FormatSummaryLine(objTypeStr, typeSummary.Add, typeSummary.Change, typeSummary.Destroy)
				summary.WriteString(line + "\n")
			}
		}
		summary.WriteString("\n")

		for _, objType := range getObjectOrder() {
			objTypeStr := string(objType)
			if _, exists := planJSON.Summary.ByType[objTypeStr]; exists {
				displayName := strings.ToUpper(objTypeStr[:1]) + objTypeStr[1:]
				p.writeDetailedChanges(&summary, displayName, objTypeStr, planJSON.ObjectChanges, c)
			}
		}
	}

	summary.WriteString(c.Bold("SQL to be executed:") + "\n")
	summary.WriteString(strings.Repeat("-", 50) + "\n\n")
	if len(p.Statements) > 0 {
		summary.WriteString(p.ToSQL())
	} else {
		summary.WriteString("-- No SQL statements generated\n")
	}
	if p.Truncated {
		summary.WriteString(fmt.Sprintf("\n-- Output truncated after %d statements\n", len(p.Statements)))
	}

	return summary.String()
}

// ToJSON returns the plan as structured JSON
func (p *Plan) ToJSON() (string, error) {
	data, err := json.MarshalIndent(p.convertToStructuredJSON(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal plan to JSON: %w", err)
	}
	return string(data), nil
}

// ToSQL returns the statements as a script with a GO after every batch
func (p *Plan) ToSQL() string {
	var sql strings.Builder
	for _, stmt := range p.Statements {
		sql.WriteString(stmt)
		sql.WriteString("\nGO\n")
	}
	return sql.String()
}

func (p *Plan) writeDetailedChanges(summary *strings.Builder, displayName, objType string, objectChanges []ObjectChange, c *color.Color) {
	summary.WriteString(c.Bold(displayName+":") + "\n")

	var changes []ObjectChange
	for _, oc := range objectChanges {
		if oc.Type == objType {
			changes = append(changes, oc)
		}
	}
	sort.Slice(changes, func(i, j int) bool {
		return changes[i].Address < changes[j].Address
	})

	for _, oc := range changes {
		action := oc.Change.Actions[0]
		name := oc.Name
		if oc.Table != "" {
			name = oc.Table + "." + oc.Name
		}
		line := fmt.Sprintf("  %s %s", c.PlanSymbol(action), name)
		if oc.Metadata["update_script"] == true {
			line += " (via update script)"
		}
		summary.WriteString(line + "\n")
	}
	summary.WriteString("\n")
}

func (p *Plan) convertToStructuredJSON() *PlanJSON {
	changes := slices.Clone(p.Changes)
	sort.Slice(changes, func(i, j int) bool {
		return changes[i].Address < changes[j].Address
	})
	if changes == nil {
		changes = []ObjectChange{}
	}
	statements := p.Statements
	if statements == nil {
		statements = []string{}
	}

	planJSON := &PlanJSON{
		Version:            version.PlanFormat(),
		ModulestoreVersion: version.App(),
		CreatedAt:          p.CreatedAt.Truncate(time.Second),
		Unit:               p.Unit,
		Schema:             p.TargetSchema,
		CurrentVersion:     p.CurrentVersion,
		TargetVersion:      p.TargetVersion,
		Fingerprint:        p.Fingerprint,
		LiveFingerprint:    p.LiveFingerprint,
		MerkleRoot:         p.MerkleRoot,
		ObjectChanges:      changes,
		Statements:         statements,
		Truncated:          p.Truncated,
	}
	p.calculateSummary(planJSON)
	return planJSON
}

// calculateSummary calculates summary statistics from object changes
func (p *Plan) calculateSummary(planJSON *PlanJSON) {
	planJSON.Summary.ByType = make(map[string]TypeSummary)

	for _, oc := range planJSON.ObjectChanges {
		typeSummary := planJSON.Summary.ByType[oc.Type]
		switch oc.Change.Actions[0] {
		case "create":
			typeSummary.Add++
			planJSON.Summary.Add++
		case "update":
			typeSummary.Change++
			planJSON.Summary.Change++
		case "delete":
			typeSummary.Destroy++
			planJSON.Summary.Destroy++
		}
		planJSON.Summary.ByType[oc.Type] = typeSummary
	}
	planJSON.Summary.Total = planJSON.Summary.Add + planJSON.Summary.Change + planJSON.Summary.Destroy
}
