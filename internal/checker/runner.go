// Package checker runs scilla-checker and turns its findings into diagnostics.
package checker

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/tliron/commonlog"
	"gitlab.com/tozd/go/errors"
)

// BinaryName is the checker executable looked up in Runner.BinDir.
const BinaryName = "scilla-checker"

var log = commonlog.GetLogger("scilla.checker")

// Document is a contract handed to a Diagnoser.
type Document struct {
	Path string
	Text string
}

// Diagnoser produces a checker report for a document.
type Diagnoser interface {
	Diagnose(ctx context.Context, doc Document) (*Report, error)
}

// Runner invokes a local scilla-checker binary.
type Runner struct {
	BinDir    string
	StdlibDir string
	GasLimit  string
	CashFlow  bool
	TypeInfo  bool
}

// Args returns the command line passed to the checker for path.
func (r *Runner) Args(path string) []string {
	args := []string{}
	if r.StdlibDir != "" {
		args = append(args, "-libdir", r.StdlibDir)
	}
	if r.GasLimit != "" {
		args = append(args, "-gaslimit", r.GasLimit)
	}
	if r.CashFlow {
		args = append(args, "-cf")
	}
	if r.TypeInfo {
		args = append(args, "-typeinfo")
	}
	return append(args, "-jsonerrors", path)
}

// Binary is the full path of the checker executable.
func (r *Runner) Binary() string {
	if r.BinDir == "" {
		return BinaryName
	}
	return filepath.Join(r.BinDir, BinaryName)
}

// Check runs the checker on the file at path. A non-zero exit status is not an
// error as long as the checker printed a report.
func (r *Runner) Check(ctx context.Context, path string) (*Report, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, r.Binary(), r.Args(path)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debugf("running %s %s", cmd.Path, strings.Join(cmd.Args[1:], " "))
	runErr := cmd.Run()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, errors.Errorf("%s: %w", BinaryName, ctxErr)
	}

	var exitErr *exec.ExitError
	if runErr != nil && !errors.As(runErr, &exitErr) {
		return nil, errors.Errorf("run %s: %w", BinaryName, runErr)
	}

	for _, out := range [][]byte{stdout.Bytes(), stderr.Bytes()} {
		if len(bytes.TrimSpace(out)) == 0 {
			continue
		}
		if report, err := ParseReport(out); err == nil {
			return report, nil
		}
	}

	if report, ok := ParseStderr(stderr.String()); ok {
		return report, nil
	}

	if runErr != nil {
		return nil, errors.Errorf("%s failed: %w: %s", BinaryName, runErr, strings.TrimSpace(stderr.String()))
	}
	return &Report{}, nil
}

// Diagnose checks the document on disk; the checker cannot read unsaved text.
func (r *Runner) Diagnose(ctx context.Context, doc Document) (*Report, error) {
	return r.Check(ctx, doc.Path)
}

// lineColumn patterns are tried in order against plain-text output.
var lineColumn = []*regexp.Regexp{
	regexp.MustCompile(`(?i)line\s*:?\s*(\d+)\D+?(\d+)`),
	regexp.MustCompile(`:(\d+):(\d+)`),
	regexp.MustCompile(`(\d+)\D+?(\d+)`),
}

// ParseStderr recovers a single error from plain-text checker output: the
// first non-empty line is the message and the position comes from a
// "line N, position M" or "file:N:M" mention, falling back to the first two
// integers.
func ParseStderr(stderr string) (*Report, bool) {
	var message string
	for _, line := range strings.Split(stderr, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			message = line
			break
		}
	}
	if message == "" {
		return nil, false
	}

	e := Error{Message: message}
	for _, re := range lineColumn {
		if m := re.FindStringSubmatch(stderr); m != nil {
			e.Start.Line, _ = strconv.Atoi(m[1])
			e.Start.Column, _ = strconv.Atoi(m[2])
			break
		}
	}

	return &Report{Errors: []Error{e}}, true
}
