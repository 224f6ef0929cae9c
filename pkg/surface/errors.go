package surface

import (
	"errors"
	"fmt"
)

// Surface errors.
var (
	ErrInvalidConfig = errors.New("invalid surface configuration")
	ErrUnknownModel  = errors.New("unknown model")
	ErrDegenerate    = errors.New("degenerate surface geometry")
	ErrInvalidMesh   = errors.New("invalid mesh")
)

// FieldError reports a configuration field that is missing or has the
// wrong JSON type.
type FieldError struct {
	Model    string // Model being parsed, empty for top-level fields
	Field    string // Dotted field path, e.g. "base.x"
	Expected string // Expected JSON type
}

func (e *FieldError) Error() string {
	if e.Model == "" {
		return fmt.Sprintf("parsing %s: expected %s", e.Field, e.Expected)
	}
	return fmt.Sprintf("%s parsing %s: expected %s", e.Model, e.Field, e.Expected)
}

// Unwrap lets callers match any schema violation with ErrInvalidConfig.
func (e *FieldError) Unwrap() error {
	return ErrInvalidConfig
}

func degenerate(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDegenerate, fmt.Sprintf(format, args...))
}
