package inventory

import (
	"fmt"
)

// ConstructionError reports an invalid unit: bad update script versions or
// unreadable resources.
type ConstructionError struct {
	Unit   string
	Script string
	Msg    string
	Err    error
}

func (e *ConstructionError) Error() string {
	msg := fmt.Sprintf("unit %s: %s", e.Unit, e.Msg)
	if e.Script != "" {
		msg += fmt.Sprintf(" (script: %s)", e.Script)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConstructionError) Unwrap() error { return e.Err }

// ParseError annotates a parser error with the script it came from.
type ParseError struct {
	Unit   string
	Script string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s in unit %s: %v", e.Script, e.Unit, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// UnsupportedAlterationError reports a change the planner cannot express.
type UnsupportedAlterationError struct {
	Object string
	Reason string
	Err    error
}

func (e *UnsupportedAlterationError) Error() string {
	msg := fmt.Sprintf("cannot alter %s", e.Object)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UnsupportedAlterationError) Unwrap() error { return e.Err }

// EngineVersionError reports a database engine older than a unit requires.
type EngineVersionError struct {
	Unit     string
	Required int
	Actual   int
}

func (e *EngineVersionError) Error() string {
	return fmt.Sprintf("unit %s requires a database engine version %d, but the database engine version is %d", e.Unit, e.Required, e.Actual)
}

// DuplicateObjectError reports two objects with the same name in one inventory.
type DuplicateObjectError struct {
	Name string
}

func (e *DuplicateObjectError) Error() string {
	return fmt.Sprintf("duplicate object name %s", e.Name)
}
