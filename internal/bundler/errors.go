package bundler

import "fmt"

// ErrorKind classifies a CompileError by the stage that raised it.
type ErrorKind int

const (
	// ErrGeneric wraps an ad-hoc message with no further structure.
	ErrGeneric ErrorKind = iota
	// ErrResolve marks a failure to resolve a specifier to a module id.
	ErrResolve
	// ErrLoad marks a failure to load a module's source once resolved.
	ErrLoad
)

// CompileError is the single error type returned across the compilation
// pipeline's public surface, carrying enough structure for callers to tell
// a resolve failure from a load failure from a generic one.
type CompileError struct {
	Kind ErrorKind

	// Populated for ErrResolve. Base is the importer's directory, not its
	// module id.
	Src  string
	Base string

	// Populated for ErrLoad.
	ID string

	Message string
	Cause   error
}

func (e *CompileError) Error() string {
	switch e.Kind {
	case ErrResolve:
		if e.Cause != nil {
			return fmt.Sprintf("failed to resolve %q from %q: %v", e.Src, e.Base, e.Cause)
		}
		return fmt.Sprintf("failed to resolve %q from %q", e.Src, e.Base)
	case ErrLoad:
		if e.Cause != nil {
			return fmt.Sprintf("failed to load %q: %v", e.ID, e.Cause)
		}
		return fmt.Sprintf("failed to load %q", e.ID)
	default:
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
}

func (e *CompileError) Unwrap() error { return e.Cause }

// NewGenericError builds an ErrGeneric CompileError whose Message is
// fmt.Sprintf(format, args...); it carries no Cause.
func NewGenericError(format string, args ...any) *CompileError {
	return &CompileError{Kind: ErrGeneric, Message: fmt.Sprintf(format, args...)}
}

// NewResolveError builds an ErrResolve CompileError. base is the importer's
// directory (e.g. filepath.Dir of the importer's file), not its module id.
func NewResolveError(src, base string, cause error) *CompileError {
	return &CompileError{Kind: ErrResolve, Src: src, Base: base, Cause: cause}
}

// NewLoadError builds an ErrLoad CompileError.
func NewLoadError(id string, cause error) *CompileError {
	return &CompileError{Kind: ErrLoad, ID: id, Cause: cause}
}
