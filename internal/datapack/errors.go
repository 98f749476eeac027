package datapack

import "errors"

// ErrClosed indicates a write or commit on a build that was already
// committed or aborted.
var ErrClosed = errors.New("datapack build already finished")

// SinkError is a fatal failure creating a datapack directory or file.
type SinkError struct {
	Path string
	Err  error
}

func (e *SinkError) Error() string {
	return "writing datapack " + e.Path + ": " + e.Err.Error()
}

func (e *SinkError) Unwrap() error {
	return e.Err
}
