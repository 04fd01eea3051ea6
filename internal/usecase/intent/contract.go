package intent

import "context"

// Completer sends one chat completion to the inference backend.
type Completer interface {
	// Available reports whether the backend is configured. It must not perform I/O.
	Available() bool
	Complete(ctx context.Context, system, user string) (string, error)
}
