// SPDX-License-Identifier: MIT

// Package doctor implements a health-check framework for Workhelix CLI
// tools. A tool implements the Checker interface with a list of named
// checks; Run reports each result and returns a process exit code.
package doctor

import (
	"fmt"
	"io"

	clicommon "github.com/workhelix/cli-common"
	"github.com/workhelix/cli-common/output"
)

// Status classifies the outcome of a single check.
type Status int

const (
	// StatusPass means the check succeeded.
	StatusPass Status = iota
	// StatusWarn means the check found something suspicious but not broken.
	// Warnings are reported but do not fail the doctor run.
	StatusWarn
	// StatusFail means the check found a problem the user must fix.
	StatusFail
)

// Check is the result of one named health check.
type Check struct {
	// Name describes what was checked.
	Name string
	// Status is the outcome.
	Status Status
	// Message carries detail for warn/fail results; empty for passes.
	Message string
}

// Pass creates a passing check result.
func Pass(name string) Check {
	return Check{Name: name, Status: StatusPass}
}

// Warn creates a warning check result with a message.
func Warn(name, message string) Check {
	return Check{Name: name, Status: StatusWarn, Message: message}
}

// Fail creates a failing check result with a message.
func Fail(name, message string) Check {
	return Check{Name: name, Status: StatusFail, Message: message}
}

// Passed reports whether the check did not fail. Warnings count as passed.
func (c Check) Passed() bool {
	return c.Status != StatusFail
}

// Checker is implemented by tools that support the doctor command.
type Checker interface {
	// RepoInfo identifies the tool's repository.
	RepoInfo() clicommon.RepoInfo
	// CurrentVersion returns the running version string.
	CurrentVersion() string
	// Checks runs the tool-specific health checks.
	Checks() []Check
}

// Run executes the tool's health checks and writes a report to w.
// It returns 0 when all checks pass (warnings allowed) and 1 when any
// check fails.
func Run(w io.Writer, tool Checker) int {
	name := tool.RepoInfo().Name

	fmt.Fprintln(w, output.Header(fmt.Sprintf("%s health check", name), len(name)+13))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Version: %s\n\n", tool.CurrentVersion())

	var failed, warned bool
	for _, check := range tool.Checks() {
		switch check.Status {
		case StatusPass:
			fmt.Fprintf(w, "  %s\n", output.Success(check.Name))
		case StatusWarn:
			warned = true
			fmt.Fprintf(w, "  %s\n", output.Warning(check.Name))
			if check.Message != "" {
				fmt.Fprintf(w, "     %s\n", check.Message)
			}
		case StatusFail:
			failed = true
			fmt.Fprintf(w, "  %s\n", output.Error(check.Name))
			if check.Message != "" {
				fmt.Fprintf(w, "     %s\n", check.Message)
			}
		}
	}
	fmt.Fprintln(w)

	switch {
	case failed:
		fmt.Fprintln(w, output.Error("Issues found - see above for details"))
		return 1
	case warned:
		fmt.Fprintln(w, output.Warning("Warnings found"))
		return 0
	default:
		fmt.Fprintln(w, output.Success("Everything looks healthy!"))
		return 0
	}
}
