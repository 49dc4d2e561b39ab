package app

import (
	"errors"
	"fmt"
)

// Result is the outcome of a lifecycle step.
type Result int

const (
	// Continue keeps the program running.
	Continue Result = iota

	// Success ends the program with a zero exit status.
	Success

	// Failure ends the program with a non-zero exit status.
	Failure
)

func (r Result) String() string {
	switch r {
	case Continue:
		return "continue"
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

// ErrDone may be returned from Program.Iterate to end the program
// successfully.
var ErrDone = errors.New("app: done")

// ErrFailed is returned by Run when the program ended with Failure.
var ErrFailed = errors.New("app: program failed")
