// Package main provides the faktor CLI: import product models, inspect
// template inheritance, compute and fix model deltas, and validate
// product components.
package main

import (
	"errors"
	"fmt"
	"os"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// cliError carries the exit code of a failed command.
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }
func (e *cliError) Unwrap() error { return e.err }

// userError reports bad input or a model that failed a check.
func userError(format string, args ...any) error {
	return &cliError{code: exitUserError, err: fmt.Errorf(format, args...)}
}

// sysError reports an I/O or backend failure.
func sysError(err error) error {
	return &cliError{code: exitSysError, err: err}
}

// exitCode maps err to a process exit code. Errors from cobra itself
// (unknown flags, wrong argument counts) are user errors.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	return exitUserError
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "faktor:", err)
		os.Exit(exitCode(err))
	}
}
