package inventory

import (
	"errors"
	"iter"
	"strings"

	"github.com/xingh/bsn-modulestore/internal/resolver"
	"github.com/xingh/bsn-modulestore/internal/sqlast"
)

// DefaultSchema is the schema objects are created in without CREATE SCHEMA.
const DefaultSchema = "dbo"

// InstallableInventory is an inventory that can be installed from scratch,
// followed by additional setup statements.
type InstallableInventory struct {
	Inventory
	setup []sqlast.Statement
}

// NewInstallableInventory returns an empty installable inventory.
func NewInstallableInventory() *InstallableInventory {
	i := &InstallableInventory{}
	i.init()
	return i
}

// AddSetupStatement appends a statement run after all objects are created.
func (i *InstallableInventory) AddSetupStatement(stmt sqlast.Statement) {
	i.setup = append(i.setup, stmt)
}

// SetupStatements returns the additional setup statements.
func (i *InstallableInventory) SetupStatements() []sqlast.Statement {
	return i.setup
}

// GenerateInstallSQL yields the statements creating every object in schema.
//
// Outside the default schema all tables are created by one CREATE SCHEMA
// batch; table definitions calling functions are split off as ALTER TABLE
// ... WITH NOCHECK ADD statements and ordered with the other objects.
func (i *InstallableInventory) GenerateInstallSQL(schema string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if schema == "" {
			yield("", errors.New("schema name is required"))
			return
		}
		r := resolver.New()
		if !strings.EqualFold(schema, DefaultSchema) {
			if !yield(i.createSchema(schema, r), nil) {
				return
			}
		} else {
			for _, stmt := range i.Objects() {
				r.Add(stmt)
			}
		}

		restore := i.Qualify(schema)
		defer restore()
		for stmt, err := range r.GetInOrder(true) {
			if err != nil {
				yield("", err)
				return
			}
			if !yield(i.Render(stmt), nil) {
				return
			}
		}
		for _, stmt := range i.setup {
			if !yield(i.Render(stmt), nil) {
				return
			}
		}
	}
}

// createSchema renders the CREATE SCHEMA batch and registers the remaining
// objects with r.
func (i *InstallableInventory) createSchema(schema string, r *resolver.Resolver) string {
	restore := i.Qualify("")
	defer restore()

	batch := &sqlast.CreateSchema{Schema: &sqlast.Name{Kind: sqlast.KindSchema, Value: schema}}
	for _, stmt := range i.Objects() {
		table, ok := stmt.(*sqlast.CreateTable)
		if !ok {
			r.Add(stmt)
			continue
		}
		r.AddExistingObject(table.ObjectName())
		inline := &sqlast.CreateTable{Table: table.Table}
		for _, def := range table.Definitions {
			alter := &sqlast.AlterTableAdd{
				TableTarget: sqlast.TableTarget{Table: table.Table},
				Check:       sqlast.WithNoCheck,
				Definitions: []sqlast.TableDefinition{def},
			}
			if len(sqlast.ReferencedNames(alter, sqlast.KindFunction)) > 0 {
				r.Add(alter)
				continue
			}
			inline.Definitions = append(inline.Definitions, def)
		}
		batch.Statements = append(batch.Statements, inline)
	}
	return i.Render(batch)
}
