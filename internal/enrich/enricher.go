// Package enrich attaches metadata findings to diff operations: new
// build-time code execution, license and author deltas, and changelog
// excerpts.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/lockdiff/internal/domain/entities"
	"github.com/rios0rios0/lockdiff/internal/domain/repositories"
)

const changelogName = "CHANGELOG.md"

// Enricher computes findings for Add and Update operations. Removals are
// never enriched. A record that cannot be resolved degrades to a single
// "metadata unavailable" marker instead of failing the run.
type Enricher struct {
	packages  repositories.PackageRepository
	metadata  bool
	changelog bool
}

// New creates an enricher. With metadata disabled and changelog enabled,
// only changelog findings for Updates are produced.
func New(packages repositories.PackageRepository, metadata, changelog bool) *Enricher {
	return &Enricher{packages: packages, metadata: metadata, changelog: changelog}
}

// Annotate returns the findings for one operation, in report order.
func (e *Enricher) Annotate(ctx context.Context, op entities.Operation) []string {
	if !e.metadata && !e.changelog {
		return nil
	}

	switch op.Kind {
	case entities.OperationAdd:
		if !e.metadata {
			return nil
		}
		return e.annotateAdd(ctx, op.New)
	case entities.OperationUpdate:
		return e.annotateUpdate(ctx, op.Old, op.New)
	default:
		return nil
	}
}

func (e *Enricher) annotateAdd(ctx context.Context, record entities.DependencyRecord) []string {
	meta, err := e.packages.Resolve(ctx, record)
	if err != nil {
		return unresolvedMarker(record, err)
	}

	var findings []string
	if meta.HasBuildScript {
		findings = append(findings, "Has a build script")
	}
	if meta.ProcMacro {
		findings = append(findings, "Is a proc macro")
	}
	return findings
}

func (e *Enricher) annotateUpdate(ctx context.Context, oldRecord, newRecord entities.DependencyRecord) []string {
	oldMeta, err := e.packages.Resolve(ctx, oldRecord)
	if err != nil {
		return unresolvedMarker(oldRecord, err)
	}
	newMeta, err := e.packages.Resolve(ctx, newRecord)
	if err != nil {
		return unresolvedMarker(newRecord, err)
	}

	var findings []string
	if e.metadata {
		findings = append(findings, metadataFindings(oldMeta, newMeta)...)
	}
	if e.changelog {
		if finding, ok := changelogFinding(oldMeta, newMeta); ok {
			findings = append(findings, finding)
		}
	}
	return findings
}

func metadataFindings(oldMeta, newMeta *entities.PackageMeta) []string {
	var findings []string
	if !oldMeta.HasBuildScript && newMeta.HasBuildScript {
		findings = append(findings, "Adds a build script")
	}
	if !oldMeta.ProcMacro && newMeta.ProcMacro {
		findings = append(findings, "Turns into a proc macro")
	}
	if oldMeta.License != newMeta.License {
		findings = append(findings, fmt.Sprintf(
			"License changed from %s to %s", orNone(oldMeta.License), orNone(newMeta.License)))
	}
	if oldMeta.LicenseFile != newMeta.LicenseFile {
		findings = append(findings, fmt.Sprintf(
			"License file changed from %s to %s", orNone(oldMeta.LicenseFile), orNone(newMeta.LicenseFile)))
	}
	if added := addedAuthors(oldMeta.Authors, newMeta.Authors); len(added) > 0 {
		findings = append(findings, fmt.Sprintf("Additional authors (%s)", strings.Join(added, ", ")))
	}
	return findings
}

func changelogFinding(oldMeta, newMeta *entities.PackageMeta) (string, bool) {
	oldLog, oldErr := readChangelog(oldMeta.Root)
	newLog, newErr := readChangelog(newMeta.Root)
	if oldErr != nil || newErr != nil {
		return "Error while reading CHANGELOG", true
	}

	added := addedLines(oldLog, newLog)
	if added == "" {
		return "", false
	}
	return "Additions to CHANGELOG\n" + added, true
}

// readChangelog reads CHANGELOG.md from a package root. A missing file
// reads as empty content, matching how a package that never had a
// changelog diffs against one that gained it.
func readChangelog(root string) (string, error) {
	data, err := os.ReadFile(filepath.Join(root, changelogName))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// addedLines returns the lines present only on the new side, in their
// relative order in the new content.
func addedLines(oldText, newText string) string {
	newLines := strings.Split(newText, "\n")
	matcher := difflib.NewMatcher(strings.Split(oldText, "\n"), newLines)

	var added []string
	for _, opcode := range matcher.GetOpCodes() {
		// 'i' = insert, 'r' = replace; both carry new-side lines.
		if opcode.Tag == 'i' || opcode.Tag == 'r' {
			added = append(added, newLines[opcode.J1:opcode.J2]...)
		}
	}
	return strings.Join(added, "\n")
}

// addedAuthors returns the authors present only on the new side, sorted.
func addedAuthors(oldAuthors, newAuthors []string) []string {
	known := make(map[string]bool, len(oldAuthors))
	for _, author := range oldAuthors {
		known[author] = true
	}

	var added []string
	for _, author := range newAuthors {
		if !known[author] {
			added = append(added, author)
		}
	}
	sort.Strings(added)
	return added
}

func orNone(value string) string {
	if value == "" {
		return "<none>"
	}
	return value
}

func unresolvedMarker(record entities.DependencyRecord, err error) []string {
	if errors.Is(err, repositories.ErrUnresolvable) {
		logger.Debugf("Skipping enrichment for %s: %v", record, err)
	} else {
		logger.Warnf("Failed to resolve %s: %v", record, err)
	}
	return []string{"metadata unavailable for " + record.String()}
}
