package interfaces

import (
	"context"

	"github.com/relpanel/relpanel/pkg/domain/model"
)

// ViewPort is the editor side's handle to an attached presentation
// surface. The view may detach and reattach at any time; senders must
// treat delivery as best-effort and rely on the start/set-state replay
// for convergence.
type ViewPort interface {
	Post(msg model.Message) error
}

// CommandHandler executes one registered command
type CommandHandler func(ctx context.Context, args ...any) error

// CommandRegistrar binds command identifiers to handlers in the host's
// command dispatch layer. The binding table is built once at startup.
type CommandRegistrar interface {
	Register(id string, handler CommandHandler)
}
