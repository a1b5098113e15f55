// Package inventory holds named schema objects, compares inventories and
// generates install and update scripts from them.
package inventory

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/xingh/bsn-modulestore/internal/fingerprint"
	"github.com/xingh/bsn-modulestore/internal/sqlast"
	"github.com/xingh/bsn-modulestore/internal/tsql"
)

// Parser turns SQL text into statements.
type Parser interface {
	Parse(r io.Reader) ([]sqlast.Statement, error)
}

// ParserFunc adapts a function to the Parser interface.
type ParserFunc func(r io.Reader) ([]sqlast.Statement, error)

func (f ParserFunc) Parse(r io.Reader) ([]sqlast.Statement, error) { return f(r) }

// DefaultParser is the T-SQL parser.
var DefaultParser Parser = ParserFunc(tsql.Parse)

// Inventory is a name-sorted collection of schema objects. Object names are
// unique case-insensitively. Objects are compared at the level of their
// installables, so a table contributes its named constraints as separate
// entries.
//
// Schema-qualified names referring to an object's own schema render with the
// qualification currently in scope (see Qualify). An Inventory is not safe
// for concurrent use.
type Inventory struct {
	objects      map[string]sqlast.CreateStatement
	installables map[string]sqlast.AlterableStatement
	owners       map[string]string
	schemas      map[string]string
	overrides    map[*sqlast.Qualified]bool
	hashes       map[string]sqlast.Hash
	stack        []string
}

// New returns an empty inventory.
func New() *Inventory {
	inv := &Inventory{}
	inv.init()
	return inv
}

func (inv *Inventory) init() {
	inv.objects = map[string]sqlast.CreateStatement{}
	inv.installables = map[string]sqlast.AlterableStatement{}
	inv.owners = map[string]string{}
	inv.schemas = map[string]string{}
	inv.overrides = map[*sqlast.Qualified]bool{}
	inv.hashes = map[string]sqlast.Hash{}
}

func key(name string) string {
	return strings.ToLower(name)
}

// IsEmpty reports whether the inventory holds no objects.
func (inv *Inventory) IsEmpty() bool {
	return len(inv.objects) == 0
}

// AddObject adds a top-level object.
func (inv *Inventory) AddObject(stmt sqlast.CreateStatement) error {
	k := key(stmt.ObjectName())
	if _, ok := inv.objects[k]; ok {
		return &DuplicateObjectError{Name: stmt.ObjectName()}
	}
	if err := inv.addInstallables(k, stmt); err != nil {
		return err
	}
	inv.objects[k] = stmt
	if schema := stmt.ObjectSchema(); schema != "" {
		inv.schemas[key(schema)] = schema
	}
	inv.registerOwnSchema(stmt)
	return nil
}

func (inv *Inventory) addInstallables(owner string, stmt sqlast.CreateStatement) error {
	list := stmt.Installables()
	for _, s := range list {
		k := key(s.ObjectName())
		if prev, ok := inv.owners[k]; ok && prev != owner {
			return &DuplicateObjectError{Name: s.ObjectName()}
		}
	}
	for _, s := range list {
		k := key(s.ObjectName())
		inv.installables[k] = s
		inv.owners[k] = owner
		delete(inv.hashes, k)
	}
	return nil
}

// registerOwnSchema subjects the names qualified with the object's own schema
// to the qualification scope.
func (inv *Inventory) registerOwnSchema(stmt sqlast.CreateStatement) {
	schema := stmt.ObjectSchema()
	if schema == "" {
		return
	}
	for _, q := range sqlast.ObjectSchemaQualifiedNames(stmt) {
		if strings.EqualFold(q.Schema(), schema) {
			inv.overrides[q] = true
		}
	}
}

// registerStatements subjects the names of stmts qualified with any schema of
// the inventory to the qualification scope.
func (inv *Inventory) registerStatements(stmts []sqlast.Statement) {
	for _, stmt := range stmts {
		for _, q := range sqlast.ObjectSchemaQualifiedNames(stmt) {
			if _, ok := inv.schemas[key(q.Schema())]; ok {
				inv.overrides[q] = true
			}
		}
	}
}

// Invalidate drops cached hashes after the statement of name was modified.
// For a top-level object its installables are split again.
func (inv *Inventory) Invalidate(name string) error {
	k := key(name)
	stmt, ok := inv.objects[k]
	if !ok {
		delete(inv.hashes, k)
		return nil
	}
	for n, owner := range inv.owners {
		if owner == k {
			delete(inv.installables, n)
			delete(inv.owners, n)
			delete(inv.hashes, n)
		}
	}
	inv.registerOwnSchema(stmt)
	return inv.addInstallables(k, stmt)
}

// Objects returns the top-level objects in name order.
func (inv *Inventory) Objects() []sqlast.CreateStatement {
	keys := sortedKeys(inv.objects)
	result := make([]sqlast.CreateStatement, len(keys))
	for i, k := range keys {
		result[i] = inv.objects[k]
	}
	return result
}

// Installables returns the installable statements in name order.
func (inv *Inventory) Installables() []sqlast.AlterableStatement {
	keys := sortedKeys(inv.installables)
	result := make([]sqlast.AlterableStatement, len(keys))
	for i, k := range keys {
		result[i] = inv.installables[k]
	}
	return result
}

// Schemas returns the distinct schemas objects are qualified with.
func (inv *Inventory) Schemas() []string {
	var result []string
	for _, k := range sortedKeys(inv.schemas) {
		result = append(result, inv.schemas[k])
	}
	return result
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Find returns the object with the given name.
func (inv *Inventory) Find(name string) (sqlast.CreateStatement, bool) {
	stmt, ok := inv.objects[key(name)]
	return stmt, ok
}

// FindAs returns the object with the given name if it has type T.
func FindAs[T sqlast.CreateStatement](inv *Inventory, name string) (T, error) {
	var zero T
	stmt, ok := inv.Find(name)
	if !ok {
		return zero, fmt.Errorf("the %T object [%s] does not exist", zero, name)
	}
	result, ok := stmt.(T)
	if !ok {
		return zero, fmt.Errorf("the %T object [%s] does not exist", zero, name)
	}
	return result, nil
}

// Qualify makes schema the qualification for registered names until the
// returned function is called. An empty schema renders them unqualified.
func (inv *Inventory) Qualify(schema string) (restore func()) {
	n := len(inv.stack)
	inv.stack = append(inv.stack, schema)
	return func() {
		inv.stack = inv.stack[:n]
	}
}

func (inv *Inventory) qualification() string {
	if len(inv.stack) == 0 {
		return ""
	}
	return inv.stack[len(inv.stack)-1]
}

// qualifyAll renders the registered names of every given inventory with that
// inventory's current qualification.
func qualifyAll(invs ...*Inventory) sqlast.QualifyFunc {
	return func(q *sqlast.Qualified) (string, bool) {
		for _, inv := range invs {
			if inv.overrides[q] {
				return inv.qualification(), true
			}
		}
		return "", false
	}
}

// Render returns the canonical text of n under the current qualification.
func (inv *Inventory) Render(n sqlast.Node) string {
	return sqlast.Render(n, qualifyAll(inv))
}

// Hash returns the content hash of an installable, computed without schema
// qualification and cached until Invalidate.
func (inv *Inventory) Hash(name string) (sqlast.Hash, bool) {
	k := key(name)
	if h, ok := inv.hashes[k]; ok {
		return h, true
	}
	stmt, ok := inv.installables[k]
	if !ok {
		return sqlast.Hash{}, false
	}
	restore := inv.Qualify("")
	defer restore()
	h := sqlast.ComputeHash(stmt, qualifyAll(inv))
	inv.hashes[k] = h
	return h, true
}

// Fingerprint hashes the canonical text of all objects in name order.
func (inv *Inventory) Fingerprint() fingerprint.Fingerprint {
	restore := inv.Qualify("")
	defer restore()
	var texts []string
	for _, stmt := range inv.Objects() {
		texts = append(texts, inv.Render(stmt))
	}
	return fingerprint.Compute(texts)
}

// ObjectTree returns the merkle tree over the installable hashes.
func (inv *Inventory) ObjectTree() (*fingerprint.ObjectTree, error) {
	var objects []fingerprint.ObjectHash
	for _, stmt := range inv.Installables() {
		h, _ := inv.Hash(stmt.ObjectName())
		objects = append(objects, fingerprint.ObjectHash{Name: stmt.ObjectName(), Hash: h})
	}
	return fingerprint.NewObjectTree(objects)
}

// Dump writes every object qualified with schema, each preceded by its hash.
func (inv *Inventory) Dump(w io.Writer, schema string) error {
	if _, err := fmt.Fprintf(w, "-- Inventory hash: %s\n", inv.Fingerprint()); err != nil {
		return err
	}
	restore := inv.Qualify(schema)
	defer restore()
	for _, stmt := range inv.Objects() {
		h := inv.objectHash(stmt)
		if _, err := fmt.Fprintf(w, "\n-- Object hash: %s\n%s\nGO\n", h, inv.Render(stmt)); err != nil {
			return err
		}
	}
	return nil
}

func (inv *Inventory) objectHash(stmt sqlast.CreateStatement) sqlast.Hash {
	restore := inv.Qualify("")
	defer restore()
	return sqlast.ComputeHash(stmt, qualifyAll(inv))
}

// ProcessSingleScript parses a script and adds the objects it creates.
// ALTER TABLE ... ADD statements are merged into a table created earlier in
// the same script. SET options and constraint checking statements are
// ignored; CREATE SCHEMA contributes its nested statements. Any other
// statement is passed to unsupported, or dropped when unsupported is nil.
func (inv *Inventory) ProcessSingleScript(r io.Reader, parser Parser, unsupported func(sqlast.Statement)) error {
	stmts, err := parser.Parse(r)
	if err != nil {
		return err
	}
	var created []sqlast.CreateStatement
	tables := map[string]*sqlast.CreateTable{}
	var process func(stmts []sqlast.Statement) error
	process = func(stmts []sqlast.Statement) error {
		for _, stmt := range stmts {
			switch s := stmt.(type) {
			case *sqlast.SetOption, *sqlast.AlterTableCheckConstraints:
			case *sqlast.CreateSchema:
				if err := process(s.Statements); err != nil {
					return err
				}
			case *sqlast.AlterTableAdd:
				table, ok := tables[key(s.Table.Name.Value)]
				if !ok {
					return fmt.Errorf("statement tries to modify another table: %s", sqlast.Render(s, nil))
				}
				if err := applyTo(table, s); err != nil {
					return err
				}
			case sqlast.CreateStatement:
				if t, ok := s.(*sqlast.CreateTable); ok {
					tables[key(t.Table.Name.Value)] = t
				}
				created = append(created, s)
			default:
				if unsupported != nil {
					unsupported(stmt)
				}
			}
		}
		return nil
	}
	if err := process(stmts); err != nil {
		return err
	}
	for _, stmt := range created {
		if err := inv.AddObject(stmt); err != nil {
			return err
		}
	}
	return nil
}

// applyTo merges the definitions of an ALTER TABLE ... ADD into table. A
// DEFAULT ... FOR column becomes the column's default.
func applyTo(table *sqlast.CreateTable, alter *sqlast.AlterTableAdd) error {
	for _, def := range alter.Definitions {
		d, ok := def.(*sqlast.DefaultConstraint)
		if !ok || d.Column == nil {
			table.Definitions = append(table.Definitions, def)
			continue
		}
		col := findColumn(table, d.Column.Value)
		if col == nil {
			return fmt.Errorf("default constraint for unknown column %s of table %s", d.Column.Value, table.Table)
		}
		col.Default = &sqlast.DefaultConstraint{Name: d.Name, Expr: d.Expr}
	}
	return nil
}

func findColumn(table *sqlast.CreateTable, name string) *sqlast.ColumnDefinition {
	for _, def := range table.Definitions {
		if col, ok := def.(*sqlast.ColumnDefinition); ok && col.Name.EqualFold(name) {
			return col
		}
	}
	return nil
}
