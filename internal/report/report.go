// Package report renders diff operations and their findings as
// line-oriented text. The format is a stable external contract.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/rios0rios0/lockdiff/internal/domain/entities"
)

// AnnotateFunc supplies the findings for one operation. A nil func
// disables enrichment entirely.
type AnnotateFunc func(entities.Operation) []string

// Render formats the operations as report lines, one operation line each,
// followed by its "--> " finding lines. Multi-line findings keep their
// continuation lines verbatim.
func Render(ops []entities.Operation, annotate AnnotateFunc) []string {
	var lines []string
	for _, op := range ops {
		lines = append(lines, op.String())
		if annotate == nil {
			continue
		}
		for _, finding := range annotate(op) {
			first, rest, multi := strings.Cut(finding, "\n")
			lines = append(lines, "--> "+first)
			if multi {
				lines = append(lines, strings.Split(rest, "\n")...)
			}
		}
	}
	return lines
}

// Write renders the report to w.
func Write(w io.Writer, ops []entities.Operation, annotate AnnotateFunc) error {
	for _, line := range Render(ops, annotate) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	return nil
}
