// Package lockfile parses the Cargo-style lockfile format: a TOML
// document with a version marker and a [[package]] array of resolved
// dependency records.
package lockfile

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/rios0rios0/lockdiff/internal/domain/entities"
)

const formatVersion = 3

// ParseError reports a malformed lockfile.
type ParseError struct {
	Detail string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed lockfile: %s: %v", e.Detail, e.Err)
	}
	return "malformed lockfile: " + e.Detail
}

func (e *ParseError) Unwrap() error { return e.Err }

type document struct {
	Version  int           `toml:"version"`
	Packages []packageStub `toml:"package"`
}

type packageStub struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	Source  string `toml:"source"`
}

// Parse decodes lockfile text into dependency records, in file order.
// Grouping and ordering are the snapshot builder's job.
func Parse(text string) ([]entities.DependencyRecord, error) {
	var doc document
	if err := toml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, &ParseError{Detail: "invalid TOML", Err: err}
	}

	records := make([]entities.DependencyRecord, 0, len(doc.Packages))
	for i, pkg := range doc.Packages {
		if pkg.Name == "" {
			return nil, &ParseError{Detail: fmt.Sprintf("package entry %d has no name", i)}
		}
		if pkg.Version == "" {
			return nil, &ParseError{Detail: fmt.Sprintf("package %q has no version", pkg.Name)}
		}
		records = append(records, entities.DependencyRecord{
			Name:    pkg.Name,
			Version: pkg.Version,
			Source:  pkg.Source,
		})
	}
	return records, nil
}

// Format serializes records back to canonical lockfile text. Parse and
// Format round-trip the same record set.
func Format(records []entities.DependencyRecord) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "version = %d\n", formatVersion)
	for _, record := range records {
		sb.WriteString("\n[[package]]\n")
		fmt.Fprintf(&sb, "name = %q\n", record.Name)
		fmt.Fprintf(&sb, "version = %q\n", record.Version)
		if record.Source != "" {
			fmt.Fprintf(&sb, "source = %q\n", record.Source)
		}
	}
	return sb.String()
}
