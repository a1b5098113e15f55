package inventory

import (
	"errors"
	"fmt"
	"slices"

	"github.com/xingh/bsn-modulestore/internal/logger"
	"github.com/xingh/bsn-modulestore/internal/sqlast"
	"github.com/xingh/bsn-modulestore/internal/unit"
)

// DefaultEngineVersion is the engine version required when a unit declares
// none.
const DefaultEngineVersion = 9

// AssemblyInventory is the desired state declared by a deployable unit
// together with its versioned update scripts.
type AssemblyInventory struct {
	InstallableInventory
	unit                  unit.Unit
	requiredEngineVersion int
	updates               map[int][]sqlast.Statement
	updateVersion         int
	exceptionMappings     []unit.ExceptionMapping
	processed             map[string]bool
}

// NewAssemblyInventory reads the markers of u and parses the scripts they
// reference.
func NewAssemblyInventory(u unit.Unit, parser Parser) (*AssemblyInventory, error) {
	a := &AssemblyInventory{
		unit:                  u,
		requiredEngineVersion: DefaultEngineVersion,
		updates:               map[int][]sqlast.Statement{},
		processed:             map[string]bool{},
	}
	a.init()
	log := logger.ForUnit(u.Key())

	for _, m := range u.Markers() {
		switch m := m.(type) {
		case unit.MinimumEngineVersion:
			a.requiredEngineVersion = max(a.requiredEngineVersion, m.Version)
		case unit.SetupScript:
			if a.processed[m.Ref] {
				log.Debug("skipping duplicate setup script", "script", m.Ref)
				continue
			}
			a.processed[m.Ref] = true
			if err := a.processSetupScript(m.Ref, parser); err != nil {
				return nil, err
			}
		case unit.UpdateScript:
			if m.Version < 1 {
				return nil, &ConstructionError{Unit: u.Key(), Script: m.Ref,
					Msg: fmt.Sprintf("update script versions must be at least 1, but %d was specified", m.Version)}
			}
			if _, ok := a.updates[m.Version]; ok {
				return nil, &ConstructionError{Unit: u.Key(), Script: m.Ref,
					Msg: fmt.Sprintf("duplicate update script version %d", m.Version)}
			}
			stmts, err := a.parse(m.Ref, parser)
			if err != nil {
				return nil, err
			}
			a.updates[m.Version] = stmts
			a.updateVersion = max(a.updateVersion, m.Version)
		case unit.DataSetupScript:
			if a.processed[m.Ref] {
				log.Debug("skipping duplicate data setup script", "script", m.Ref)
				continue
			}
			a.processed[m.Ref] = true
			stmts, err := a.parse(m.Ref, parser)
			if err != nil {
				return nil, err
			}
			for _, stmt := range stmts {
				a.AddSetupStatement(stmt)
			}
		case unit.ExceptionMapping:
			a.exceptionMappings = append(a.exceptionMappings, m)
		default:
			log.Warn("unrecognized unit marker", "marker", fmt.Sprintf("%T", m))
		}
	}

	for v := 1; v <= a.updateVersion; v++ {
		if _, ok := a.updates[v]; !ok {
			return nil, &ConstructionError{Unit: u.Key(),
				Msg: fmt.Sprintf("update script versions must be contiguous, version %d is missing", v)}
		}
		a.registerStatements(a.updates[v])
	}
	a.registerStatements(a.setup)
	slices.SortStableFunc(a.exceptionMappings, func(x, y unit.ExceptionMapping) int {
		return y.Specificity() - x.Specificity()
	})
	return a, nil
}

func (a *AssemblyInventory) parse(ref string, parser Parser) ([]sqlast.Statement, error) {
	r, err := a.unit.Open(ref)
	if err != nil {
		return nil, &ConstructionError{Unit: a.unit.Key(), Script: ref, Msg: "cannot open script", Err: err}
	}
	defer r.Close()
	stmts, err := parser.Parse(r)
	if err != nil {
		return nil, &ParseError{Unit: a.unit.Key(), Script: ref, Err: err}
	}
	return stmts, nil
}

func (a *AssemblyInventory) processSetupScript(ref string, parser Parser) error {
	r, err := a.unit.Open(ref)
	if err != nil {
		return &ConstructionError{Unit: a.unit.Key(), Script: ref, Msg: "cannot open script", Err: err}
	}
	defer r.Close()
	if err := a.ProcessSingleScript(r, parser, a.AddSetupStatement); err != nil {
		var dup *DuplicateObjectError
		if errors.As(err, &dup) {
			return &ConstructionError{Unit: a.unit.Key(), Script: ref, Msg: "invalid setup script", Err: err}
		}
		return &ParseError{Unit: a.unit.Key(), Script: ref, Err: err}
	}
	return nil
}

// Unit returns the unit the inventory was built from.
func (a *AssemblyInventory) Unit() unit.Unit { return a.unit }

// RequiredEngineVersion is the minimum database engine version.
func (a *AssemblyInventory) RequiredEngineVersion() int { return a.requiredEngineVersion }

// UpdateVersion is the highest update script version, 0 without updates.
func (a *AssemblyInventory) UpdateVersion() int { return a.updateVersion }

// UpdateStatements returns the statements of one update script version.
func (a *AssemblyInventory) UpdateStatements(version int) []sqlast.Statement {
	return a.updates[version]
}

// ExceptionMappings returns the mappings, most specific first.
func (a *AssemblyInventory) ExceptionMappings() []unit.ExceptionMapping {
	return a.exceptionMappings
}

// AssertEngineVersion fails when engineVersion is older than required.
func (a *AssemblyInventory) AssertEngineVersion(engineVersion int) error {
	if engineVersion < a.requiredEngineVersion {
		err := &EngineVersionError{Unit: a.unit.Key(), Required: a.requiredEngineVersion, Actual: engineVersion}
		logger.Get().Error(err.Error())
		return err
	}
	return nil
}

// MapException returns the most specific mapping matching a database error.
func (a *AssemblyInventory) MapException(number, severity, state int, message string) (unit.ExceptionMapping, bool) {
	for _, m := range a.exceptionMappings {
		if m.Matches(number, severity, state, message) {
			return m, true
		}
	}
	return unit.ExceptionMapping{}, false
}
