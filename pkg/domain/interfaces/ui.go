package interfaces

import "context"

// PickItem is one entry of a selection prompt. Detail is an optional
// secondary line; Value defaults to Label when empty.
type PickItem struct {
	Label  string
	Detail string
	Value  string
}

// UserPrompt abstracts the host's user-facing prompts and notices.
// Selection prompts report ok=false when the user dismisses them;
// dismissal is never an error.
type UserPrompt interface {
	// Pick shows a selection prompt and returns the chosen item
	Pick(ctx context.Context, title string, items []PickItem) (item PickItem, ok bool, err error)

	// Input shows a free-text prompt with selectable suggestions, used
	// for the tag chooser where a new tag name may be typed
	Input(ctx context.Context, title string, suggestions []PickItem) (value string, ok bool, err error)

	// PickFile shows a file picker and returns the chosen path
	PickFile(ctx context.Context, title string) (path string, ok bool, err error)

	// Confirm shows a modal yes/no question
	Confirm(ctx context.Context, message string) (bool, error)

	// OpenExternal opens a URL with the host's default handler
	OpenExternal(ctx context.Context, url string) error

	Info(message string)
	Error(message string)
}
