// Package unit describes deployable units: a set of SQL resources plus the
// markers telling the planner how to use them.
package unit

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestName is the file describing a unit directory.
const ManifestName = "unit.yaml"

// Unit is a deployable unit of SQL resources.
type Unit interface {
	// Key identifies the unit, for caching and messages.
	Key() string
	// Markers returns the declarative markers in declaration order.
	Markers() []Marker
	// Open opens a SQL resource by reference.
	Open(ref string) (io.ReadCloser, error)
}

// Marker is one declarative instruction of a unit.
type Marker interface {
	marker()
}

// MinimumEngineVersion requires a database engine of at least Version.
type MinimumEngineVersion struct {
	Version int
}

// SetupScript declares objects of the desired schema. Statements that do not
// create an object are kept as additional setup statements.
type SetupScript struct {
	Ref string
}

// UpdateScript migrates a database from Version-1 to Version.
type UpdateScript struct {
	Ref     string
	Version int
}

// DataSetupScript holds one-off data statements run on newly created tables.
type DataSetupScript struct {
	Ref string
}

// ExceptionMapping maps a database error to an application error kind. Zero
// values of Severity and State and an empty Message match anything.
type ExceptionMapping struct {
	Number   int
	Severity int
	State    int
	Message  string
	Kind     string
}

func (MinimumEngineVersion) marker() {}
func (SetupScript) marker()          {}
func (UpdateScript) marker()         {}
func (DataSetupScript) marker()      {}
func (ExceptionMapping) marker()     {}

// Specificity counts the constrained fields; more specific mappings win.
func (m ExceptionMapping) Specificity() int {
	n := 0
	if m.Number != 0 {
		n++
	}
	if m.Severity != 0 {
		n++
	}
	if m.State != 0 {
		n++
	}
	if m.Message != "" {
		n++
	}
	return n
}

// Matches reports whether the mapping applies to the given error. Message
// matches as a case-insensitive substring.
func (m ExceptionMapping) Matches(number, severity, state int, message string) bool {
	return (m.Number == 0 || m.Number == number) &&
		(m.Severity == 0 || m.Severity == severity) &&
		(m.State == 0 || m.State == state) &&
		(m.Message == "" || strings.Contains(strings.ToLower(message), strings.ToLower(m.Message)))
}

// Manifest is the YAML form of a unit.
type Manifest struct {
	Name                 string            `yaml:"name"`
	MinimumEngineVersion int               `yaml:"minimum_engine_version"`
	Setup                []string          `yaml:"setup"`
	Updates              []ManifestUpdate  `yaml:"updates"`
	Data                 []string          `yaml:"data"`
	Exceptions           []ManifestMapping `yaml:"exceptions"`
}

// ManifestUpdate is one versioned update script entry.
type ManifestUpdate struct {
	Version int    `yaml:"version"`
	Script  string `yaml:"script"`
}

// ManifestMapping is one exception mapping entry.
type ManifestMapping struct {
	Number   int    `yaml:"number"`
	Severity int    `yaml:"severity"`
	State    int    `yaml:"state"`
	Message  string `yaml:"message"`
	Kind     string `yaml:"kind"`
}

// Markers converts the manifest into markers: engine version, setup scripts,
// update scripts, data scripts, then exception mappings.
func (m *Manifest) Markers() []Marker {
	var markers []Marker
	if m.MinimumEngineVersion != 0 {
		markers = append(markers, MinimumEngineVersion{Version: m.MinimumEngineVersion})
	}
	for _, ref := range m.Setup {
		markers = append(markers, SetupScript{Ref: ref})
	}
	for _, u := range m.Updates {
		markers = append(markers, UpdateScript{Ref: u.Script, Version: u.Version})
	}
	for _, ref := range m.Data {
		markers = append(markers, DataSetupScript{Ref: ref})
	}
	for _, e := range m.Exceptions {
		markers = append(markers, ExceptionMapping{
			Number:   e.Number,
			Severity: e.Severity,
			State:    e.State,
			Message:  e.Message,
			Kind:     e.Kind,
		})
	}
	return markers
}

// ParseManifest decodes a unit manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ManifestName, err)
	}
	for i, e := range m.Exceptions {
		if e.Kind == "" {
			return nil, fmt.Errorf("exception mapping %d: kind is required", i+1)
		}
	}
	return &m, nil
}

// FSUnit is a unit backed by a file system holding unit.yaml and the scripts
// it references.
type FSUnit struct {
	key      string
	fsys     fs.FS
	manifest *Manifest
}

// FromFS reads the manifest at the root of fsys. The key falls back to the
// manifest name when empty.
func FromFS(fsys fs.FS, key string) (*FSUnit, error) {
	data, err := fs.ReadFile(fsys, ManifestName)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ManifestName, err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}
	if key == "" {
		key = m.Name
	}
	return &FSUnit{key: key, fsys: fsys, manifest: m}, nil
}

// FromDir reads a unit directory.
func FromDir(dir string) (*FSUnit, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve unit directory: %w", err)
	}
	return FromFS(os.DirFS(abs), abs)
}

func (u *FSUnit) Key() string { return u.key }

// Name is the unit name declared in the manifest.
func (u *FSUnit) Name() string { return u.manifest.Name }

func (u *FSUnit) Markers() []Marker { return u.manifest.Markers() }

func (u *FSUnit) Open(ref string) (io.ReadCloser, error) {
	f, err := u.fsys.Open(filepath.ToSlash(filepath.Clean(ref)))
	if err != nil {
		return nil, fmt.Errorf("the SQL file %s was not found in unit %s: %w", ref, u.key, err)
	}
	return f, nil
}
