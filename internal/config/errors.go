package config

import (
	"fmt"
	"strings"
)

// LoadKind classifies why a configuration file could not be loaded.
type LoadKind string

const (
	LoadMissing LoadKind = "missing"
	LoadRead    LoadKind = "read"
	LoadParse   LoadKind = "parse"
	LoadSchema  LoadKind = "schema"
)

// LoadError describes a failed read of a configuration file.
type LoadError struct {
	Path string
	Kind LoadKind
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load config (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("load config %s (%s): %v", e.Path, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// SaveError describes a failed write of a configuration file.
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save config %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *SaveError) Unwrap() error {
	return e.Err
}

// ValidationError is a single schema violation.
type ValidationError struct {
	Path string // dotted path, e.g. recent_files[2].archive_index
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// SchemaError collects the violations found in one document.
type SchemaError struct {
	Violations []*ValidationError
}

func (e *SchemaError) Error() string {
	if len(e.Violations) == 1 {
		return "schema violation: " + e.Violations[0].Error()
	}
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Error())
	}
	return fmt.Sprintf("%d schema violations: %s", len(e.Violations), strings.Join(parts, "; "))
}
