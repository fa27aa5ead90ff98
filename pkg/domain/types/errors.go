package types

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrViewDetached is returned when a message is sent to the view
	// while no presentation surface is attached
	ErrViewDetached = goerr.New("view is not attached")

	// ErrNoRemotes is returned when release authoring is requested but
	// no GitHub remotes are known
	ErrNoRemotes = goerr.New("no GitHub repositories found")
)
