// SPDX-License-Identifier: MIT

package main

import "fmt"

// ExitError signals a non-zero exit code without forcing os.Exit in RunE
// handlers, so deferred cleanup and fang's error rendering still run.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}
