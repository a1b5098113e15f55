package inventory

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/xingh/bsn-modulestore/internal/logger"
	"github.com/xingh/bsn-modulestore/internal/resolver"
	"github.com/xingh/bsn-modulestore/internal/sqlast"
)

// DependencyDisablingAlter wraps an alteration that fails while other objects
// use the altered object. The users are dropped before and recreated after
// the alteration.
type DependencyDisablingAlter struct {
	sqlast.InstallStatement
}

// ReferencedNames returns the references of the wrapped statement.
func (d *DependencyDisablingAlter) ReferencedNames() []string {
	return sqlast.ReferencedNames(d.InstallStatement)
}

// Dependents returns the objects of live that use the altered object,
// directly or through other users, ordered so that every object comes after
// the objects it uses. Objects named in dropped are left out. Tables cannot
// be recreated, so a table among the users is an UnsupportedAlterationError.
func (d *DependencyDisablingAlter) Dependents(live *Inventory, dropped map[string]bool) ([]sqlast.AlterableStatement, error) {
	using := map[string]bool{key(d.ObjectName()): true}
	var result []sqlast.AlterableStatement
	for changed := true; changed; {
		changed = false
		for _, stmt := range live.Installables() {
			k := key(stmt.ObjectName())
			if using[k] || dropped[k] || !sqlast.DependsOn(stmt, using) {
				continue
			}
			if stmt.IsPartOfSchemaDefinition() {
				return nil, &UnsupportedAlterationError{
					Object: d.ObjectName(),
					Reason: fmt.Sprintf("table %s depends on it", stmt.ObjectName()),
				}
			}
			using[k] = true
			result = append(result, stmt)
			changed = true
		}
	}
	return result, nil
}

// drop is a pending DROP together with the object it removes.
type drop struct {
	source sqlast.AlterableStatement
	stmt   sqlast.Statement
}

// GenerateUpdateSQL yields the statements migrating live, currently at update
// version currentVersion, to the state of the inventory:
//
//  1. compare live with the inventory
//  2. classify changed objects
//  3. drop removed or changed constraints, then removed indexes
//  4. create and alter objects not waiting for update scripts
//  5. run the update scripts newer than currentVersion
//  6. mark the objects changed by update scripts as existing
//  7. refresh the views of live
//  8. create and alter the remaining objects
//  9. insert setup data into new tables with constraint checking disabled
//  10. drop obsolete objects
//  11. refresh the stored procedures
//
// Refresh directives are only emitted when the script changes something, so
// planning against an up-to-date database yields nothing. The remaining
// objects of phase 8 are ordered before the views are refreshed. Statements are
// produced on demand; the caller may stop at any time.
func (a *AssemblyInventory) GenerateUpdateSQL(live *LiveInventory, currentVersion int) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		schema := live.SchemaName
		restoreSelf := a.Qualify(schema)
		defer restoreSelf()
		restoreLive := live.Qualify(schema)
		defer restoreLive()

		log := logger.Get()
		qualify := qualifyAll(&a.Inventory, &live.Inventory)
		emitted := false
		emit := func(stmt sqlast.Node) bool {
			emitted = true
			return yield(sqlast.Render(stmt, qualify), nil)
		}
		refresh := func(name string) bool {
			return yield(fmt.Sprintf("EXEC [sp_refreshsqlmodule] '[%s].[%s]'", schema, name), nil)
		}

		r := resolver.New()
		var deferred []sqlast.AlterableStatement
		var drops []drop
		dropped := map[string]bool{}
		newObjects := map[string]bool{}
		var refreshViews []string
		skipRefresh := map[string]bool{}
		for _, stmt := range live.Objects() {
			if view, ok := stmt.(*sqlast.CreateView); ok && !view.SchemaBound() {
				refreshViews = append(refreshViews, view.ObjectName())
			}
		}

		log.Debug("comparing inventories", "phase", 1, "schema", schema)
		for diff := range Compare(&live.Inventory, &a.Inventory) {
			stmt := diff.Statement
			name := stmt.ObjectName()
			switch diff.Kind {
			case None:
				r.AddExistingObject(name)
			case Different:
				skipRefresh[key(name)] = true
				if stmt.AlterUsingUpdateScript() {
					deferred = append(deferred, stmt)
					r.Block(name)
					continue
				}
				if _, ok := stmt.(*sqlast.ConstraintFragment); ok {
					drops = append(drops, drop{source: stmt, stmt: stmt.DropStatement()})
					dropped[key(name)] = true
					r.Add(stmt)
					continue
				}
				alter, err := stmt.AlterStatement()
				if err != nil {
					yield("", &UnsupportedAlterationError{Object: name, Err: err})
					return
				}
				if stmt.DisableUsagesForUpdate() {
					r.Add(&DependencyDisablingAlter{InstallStatement: alter})
				} else {
					r.Add(alter)
				}
			case SourceOnly:
				skipRefresh[key(name)] = true
				drops = append(drops, drop{source: stmt, stmt: stmt.DropStatement()})
				dropped[key(name)] = true
			case TargetOnly:
				r.Add(stmt)
				if stmt.IsPartOfSchemaDefinition() {
					newObjects[key(name)] = true
				}
			}
		}

		log.Debug("dropping constraints and indexes", "phase", 3)
		for _, d := range drops {
			if _, ok := d.stmt.(*sqlast.AlterTableDropConstraint); ok {
				if !emit(d.stmt) {
					return
				}
			}
		}
		for _, d := range drops {
			if _, ok := d.stmt.(*sqlast.DropIndex); ok {
				if !emit(d.stmt) {
					return
				}
			}
		}

		log.Debug("creating independent objects", "phase", 4)
		createdTables := map[string]bool{}
		for stmt := range r.GetInOrder(false) {
			if table, ok := stmt.(*sqlast.TableFragment); ok {
				if !emit(table.Owner.Fragment(sqlast.FragmentCreateOnExistingSchema)) {
					return
				}
				createdTables[key(table.ObjectName())] = true
				continue
			}
			if isUniqueConstraintOf(stmt, createdTables) {
				continue
			}
			if !a.emitWithDependents(stmt, live, dropped, emit, yield) {
				return
			}
		}

		droppedTables := map[string]bool{}
		for _, version := range a.pendingVersions(currentVersion) {
			log.Debug("running update script", "phase", 5, "version", version)
			for _, stmt := range a.updates[version] {
				if d, ok := stmt.(*sqlast.Drop); ok && d.Category == sqlast.CategoryTable {
					droppedTables[key(d.ObjectName())] = true
				}
				if !emit(stmt) {
					return
				}
			}
		}

		for _, stmt := range deferred {
			log.Debug("object altered by update scripts", "phase", 6, "object", stmt.ObjectName())
			r.AddExistingObject(stmt.ObjectName())
		}

		var remaining []sqlast.InstallStatement
		for stmt, err := range r.GetInOrder(true) {
			if err != nil {
				yield("", fmt.Errorf("failed to order remaining objects: %w", err))
				return
			}
			if isUniqueConstraintOf(stmt, createdTables) || sqlast.DependsOn(stmt, droppedTables) {
				log.Debug("skipping object", "phase", 8, "object", stmt.ObjectName())
				continue
			}
			remaining = append(remaining, stmt)
		}

		obsolete := obsoleteDrops(drops, droppedTables)
		if emitted || len(remaining) > 0 || len(obsolete) > 0 {
			for _, name := range refreshViews {
				if skipRefresh[key(name)] {
					continue
				}
				if !refresh(name) {
					return
				}
			}
		}

		log.Debug("creating remaining objects", "phase", 8, "count", len(remaining))
		for _, stmt := range remaining {
			if !a.emitWithDependents(stmt, live, dropped, emit, yield) {
				return
			}
		}

		if !a.emitSetupData(live, newObjects, emit) {
			return
		}

		log.Debug("dropping obsolete objects", "phase", 10, "count", len(obsolete))
		for _, stmt := range obsolete {
			if !emit(stmt) {
				return
			}
		}

		if emitted {
			for _, stmt := range a.Objects() {
				if proc, ok := stmt.(*sqlast.CreateProcedure); ok && !proc.SchemaBound() {
					if !refresh(proc.ObjectName()) {
						return
					}
				}
			}
		}
	}
}

// obsoleteDrops returns the drops run at the end of the script. Tables are
// only dropped by update scripts, which also remove the objects using them.
func obsoleteDrops(drops []drop, droppedTables map[string]bool) []sqlast.Statement {
	var result []sqlast.Statement
	for _, d := range drops {
		switch s := d.stmt.(type) {
		case *sqlast.AlterTableDropConstraint, *sqlast.DropIndex:
			continue
		case *sqlast.Drop:
			if s.Category == sqlast.CategoryTable {
				continue
			}
		}
		if sqlast.DependsOn(d.source, droppedTables) {
			continue
		}
		result = append(result, d.stmt)
	}
	return result
}

func isUniqueConstraintOf(stmt sqlast.InstallStatement, tables map[string]bool) bool {
	c, ok := stmt.(*sqlast.ConstraintFragment)
	return ok && c.IsUniqueConstraintOf(tables)
}

// pendingVersions returns the update versions above currentVersion in
// ascending order.
func (a *AssemblyInventory) pendingVersions(currentVersion int) []int {
	var versions []int
	for v := range a.updates {
		if v > currentVersion {
			versions = append(versions, v)
		}
	}
	slices.Sort(versions)
	return versions
}

// emitWithDependents emits stmt. For a dependency disabling alteration the
// users of the altered object are dropped before and recreated after it.
func (a *AssemblyInventory) emitWithDependents(stmt sqlast.InstallStatement, live *LiveInventory, dropped map[string]bool,
	emit func(sqlast.Node) bool, yield func(string, error) bool) bool {
	d, ok := stmt.(*DependencyDisablingAlter)
	if !ok {
		return emit(stmt)
	}
	dependents, err := d.Dependents(&live.Inventory, dropped)
	if err != nil {
		var unsupported *UnsupportedAlterationError
		if !errors.As(err, &unsupported) {
			err = &UnsupportedAlterationError{Object: d.ObjectName(), Err: err}
		}
		yield("", err)
		return false
	}
	for _, dep := range slices.Backward(dependents) {
		if !emit(dep.DropStatement()) {
			return false
		}
	}
	if !emit(d.InstallStatement) {
		return false
	}
	for _, dep := range dependents {
		if !emit(dep) {
			return false
		}
	}
	return true
}

// emitSetupData emits the setup statements writing to tables created by this
// script, wrapped in statements disabling and re-enabling constraint checks.
func (a *AssemblyInventory) emitSetupData(live *LiveInventory, newObjects map[string]bool, emit func(sqlast.Node) bool) bool {
	var tables []*sqlast.CreateTable
	for _, stmt := range a.Objects() {
		if t, ok := stmt.(*sqlast.CreateTable); ok {
			tables = append(tables, t)
		}
	}
	disabled := false
	for _, stmt := range a.setup {
		target := setupTarget(stmt)
		if target == nil || !target.IsQualified() {
			continue
		}
		schema := target.Schema()
		if a.overrides[target] {
			schema = live.SchemaName
		}
		if !strings.EqualFold(schema, live.SchemaName) || !newObjects[key(target.Name.Value)] {
			continue
		}
		if !disabled {
			logger.Get().Debug("inserting setup data", "phase", 9)
			for _, t := range tables {
				nocheck := &sqlast.AlterTableCheckConstraints{TableTarget: sqlast.TableTarget{Table: t.Table}}
				if !emit(nocheck) {
					return false
				}
			}
			disabled = true
		}
		if !emit(stmt) {
			return false
		}
	}
	if disabled {
		for _, t := range tables {
			check := &sqlast.AlterTableCheckConstraints{
				TableTarget: sqlast.TableTarget{Table: t.Table},
				Check:       sqlast.WithCheck,
				Enable:      true,
			}
			if !emit(check) {
				return false
			}
		}
	}
	return true
}

// setupTarget returns the table written by an INSERT or SET IDENTITY_INSERT.
func setupTarget(stmt sqlast.Statement) *sqlast.Qualified {
	switch s := stmt.(type) {
	case *sqlast.Insert:
		return s.Table
	case *sqlast.SetIdentityInsert:
		return s.Table
	}
	return nil
}
