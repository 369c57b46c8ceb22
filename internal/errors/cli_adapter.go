package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
)

// CLIErrorAdapter handles error presentation and exit code determination for
// the siteforge CLI.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{verbose: verbose, logger: logger}
}

// ExitCodeFor determines the exit code for an error. A nil error and
// warning-severity outcomes map to 0 (a run that completed with failed
// subfolders is still a completed run).
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	var se *SiteforgeError
	if stderrors.As(err, &se) {
		if se.Severity == SeverityWarning {
			return 0
		}
		return exitCodeForCategory(se.Category)
	}
	return 1
}

func exitCodeForCategory(c ErrorCategory) int {
	switch c {
	case CategoryValidation:
		return 2 // invalid usage
	case CategoryConfig:
		return 7 // configuration error
	case CategoryGit:
		return 8 // external system error
	case CategoryGenerator, CategoryServer:
		return 9 // fatal precondition
	case CategoryBuild, CategoryMeasures, CategoryFileSystem:
		return 11 // build error
	case CategoryRuntime:
		return 12 // runtime error
	default:
		return 1
	}
}

// FormatError formats an error for user-facing display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	var se *SiteforgeError
	if stderrors.As(err, &se) {
		if a.verbose {
			return se.Error()
		}
		switch se.Category {
		case CategoryConfig, CategoryValidation:
			return se.Message
		default:
			return fmt.Sprintf("%s: %s", se.Category, se.Message)
		}
	}
	return fmt.Sprintf("Error: %v", err)
}

// HandleError prints the error and exits the process with the mapped code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	code := a.ExitCodeFor(err)
	if code == 0 {
		return
	}
	fmt.Fprintf(os.Stderr, "%s\n", a.FormatError(err))
	os.Exit(code)
}
