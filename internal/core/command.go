package core

import "context"

// Command is a local slash-command handled before the dialogue engine.
type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, sessionID string, args []string) (string, error)
}
