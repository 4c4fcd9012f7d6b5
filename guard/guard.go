// Package guard checks that the caller is running inside the expected
// isolated environment before any tooling is invoked.
package guard

import (
	"fmt"
	"os"
	"strings"
)

const (
	// DefaultVariable is the variable set by an activated Python virtualenv.
	DefaultVariable = "VIRTUAL_ENV"
	// DefaultContains is the substring the variable must contain.
	DefaultContains = "commitmirror"
)

// EnvGetter abstracts environment variable access for testability.
type EnvGetter interface {
	LookupEnv(key string) (string, bool)
}

// OSEnv reads the real process environment.
type OSEnv struct{}

func (OSEnv) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MapEnv is an EnvGetter over a fixed map.
type MapEnv map[string]string

func (m MapEnv) LookupEnv(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Guard requires Variable to contain Contains.
type Guard struct {
	Variable string
	Contains string
	// Message overrides the guidance printed on failure.
	Message string
}

// New returns a Guard, filling empty fields with the defaults.
func New(variable, contains string) Guard {
	if variable == "" {
		variable = DefaultVariable
	}
	if contains == "" {
		contains = DefaultContains
	}
	return Guard{Variable: variable, Contains: contains}
}

// GuardError reports a failed precondition. Its message is the one-line
// instruction shown to the user.
type GuardError struct {
	Variable string
	Value    string
	Message  string
}

func (e *GuardError) Error() string { return e.Message }

// Guidance is the one-line instruction printed when the check fails.
func (g Guard) Guidance() string {
	if g.Message != "" {
		return g.Message
	}
	return fmt.Sprintf("Please activate the %q virtual environment first (%s must contain %q).",
		g.Contains, g.Variable, g.Contains)
}

// Check returns a *GuardError unless the variable is set and contains the
// required substring. Unset and empty are treated alike.
func (g Guard) Check(env EnvGetter) error {
	val, _ := env.LookupEnv(g.Variable)
	if val != "" && strings.Contains(val, g.Contains) {
		return nil
	}
	return &GuardError{Variable: g.Variable, Value: val, Message: g.Guidance()}
}
