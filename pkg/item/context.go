package item

import "github.com/google/uuid"

// Context is the opaque per-request container threaded through a pipeline.
// Stages read it to parameterize generation, filtering, and scoring; the
// pipeline itself never consumes or modifies it.
type Context struct {
	// RequestID identifies one pipeline invocation, mainly for logging.
	RequestID uuid.UUID

	// Data is the request payload interpreted by domain-specific stages.
	Data any
}

// NewContext creates a request context with a fresh request ID.
func NewContext(data any) *Context {
	return &Context{RequestID: uuid.New(), Data: data}
}
