package app

import (
	"errors"
	"fmt"
)

// ErrNoMap is returned when the map file given on the command line does not exist.
var ErrNoMap = errors.New("map file does not exist")

// InitError is returned when a component fails to start.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("failed to initialize %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// ScriptError reports a script file that failed.
type ScriptError struct {
	Path string
	Err  error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("script %s: %v", e.Path, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}
