package fio

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoJSON reports that the captured process output contains no JSON
// document at any line offset.
var ErrNoJSON = errors.New("no JSON document found in output")

// SplitOutput separates leading free-text diagnostic lines from the
// trailing JSON document in a captured fio output stream. fio may
// prepend informational messages before the JSON report even on a
// clean run, and the report's first line is not flagged in any way, so
// the boundary is found by scanning: at each candidate line the
// remaining suffix is tried as one JSON document; lines before the
// first parseable suffix are the diagnostics buffer, returned with
// their original line terminators intact.
//
// When no suffix parses, SplitOutput returns ErrNoJSON with the whole
// input as diagnostics. Worst case is quadratic in the input size,
// which is fine for single-run report output.
func SplitOutput(output string) (json.RawMessage, string, error) {
	lines := strings.SplitAfter(output, "\n")
	var diag strings.Builder
	for i, line := range lines {
		rest := strings.Join(lines[i:], "")
		if strings.TrimSpace(rest) != "" && json.Valid([]byte(rest)) {
			return json.RawMessage(rest), diag.String(), nil
		}
		diag.WriteString(line)
	}
	return nil, diag.String(), ErrNoJSON
}

// Diagnostics extracts only the diagnostic text from a captured output
// stream, discarding any JSON document. Used on the failure path where
// fio's JSON (if any) is not trustworthy but its messages are.
func Diagnostics(output string) string {
	_, diag, _ := SplitOutput(output)
	return diag
}
