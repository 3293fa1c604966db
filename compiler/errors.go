package compiler

import "fmt"

// CodegenError represents a code-generation failure. Any failure aborts the
// in-progress module build; there is no partial output and no error batching.
type CodegenError struct {
	Message string
}

// Error implements the error interface.
func (e *CodegenError) Error() string {
	return "compile error: " + e.Message
}

func errorf(format string, args ...any) *CodegenError {
	return &CodegenError{Message: fmt.Sprintf(format, args...)}
}
