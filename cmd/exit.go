package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/commitmirror/commitmirror/guard"
	"github.com/commitmirror/commitmirror/runner"
)

// reportError prints err for the user and maps it to an exit code. A guard
// failure prints only its one-line guidance.
func reportError(w io.Writer, err error) int {
	if err == nil {
		return 0
	}

	var ge *guard.GuardError
	if errors.As(err, &ge) {
		fmt.Fprintln(w, ge.Message)
		return 1
	}

	fmt.Fprintf(w, "Error: %v\n", err)
	var ee *runner.ExitError
	if errors.As(err, &ee) && ee.Code >= 1 && ee.Code <= 255 {
		return ee.Code
	}
	return 1
}
