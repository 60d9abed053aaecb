package compiler

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Compile error codes (E200-E299).
const (
	ErrCodeCUE              = "E200" // CUE evaluation failed
	ErrCodeMissingType      = "E201" // element has no type
	ErrCodeUnknownComponent = "E202" // capitalised type with no registration
	ErrCodeBadProp          = "E203" // prop value is not a string, int or bool
	ErrCodeBadChild         = "E204" // child is not an element, scalar or null
	ErrCodeUnknownField     = "E205" // element has an unexpected field
	ErrCodeMissingView      = "E206" // file has no view field
	ErrCodeBadKey           = "E207" // key is not a string or int
)

// CompileError represents a compilation error with source position.
type CompileError struct {
	Code    string
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: [%s] %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &CompileError{Code: ErrCodeCUE, Field: "cue", Message: err.Error()}
	}

	// Report the first error, with its position when CUE has one
	firstErr := errs[0]
	ce := &CompileError{
		Code:    ErrCodeCUE,
		Field:   "cue",
		Message: firstErr.Error(),
	}
	if positions := errors.Positions(firstErr); len(positions) > 0 {
		ce.Pos = positions[0]
	}
	return ce
}
