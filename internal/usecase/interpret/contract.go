package interpret

import "context"

// Oracle is the text-in/text-out completion contract. Replies may be empty,
// malformed, or fenced in markdown; the interpreter salvages what it can.
type Oracle interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
