package capture

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPattern is returned when a regular expression fails to compile.
	ErrInvalidPattern = errors.New("invalid pattern")
	// ErrMissingPattern is returned when a variable is declared without a regular expression.
	ErrMissingPattern = errors.New("missing pattern")
	// ErrDuplicateName is returned when two definitions share a variable name.
	ErrDuplicateName = errors.New("duplicate variable name")
)

// ConfigError describes a configuration-time failure for one variable.
// Kind is one of the sentinel errors above and can be matched with errors.Is.
type ConfigError struct {
	Kind error
	Name string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("variable %q: %v: %v", e.Name, e.Kind, e.Err)
	}
	return fmt.Sprintf("variable %q: %v", e.Name, e.Kind)
}

func (e *ConfigError) Is(target error) bool {
	return e.Kind == target
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
