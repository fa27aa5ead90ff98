package interfaces

import "context"

// LocalRemote is a remote entry of a local repository as reported by
// the git layer
type LocalRemote struct {
	RepoPath string
	Name     string
	FetchURL string
	PushURL  string
}

// GitLocal defines the local git operations the controllers rely on
type GitLocal interface {
	// Remotes enumerates the remotes of every tracked repository
	Remotes(ctx context.Context) ([]LocalRemote, error)

	// HeadBranch returns the branch name HEAD points at, or an empty
	// string on a detached HEAD
	HeadBranch(ctx context.Context, repoPath string) (string, error)

	// LocalTags lists the tag names of the repository
	LocalTags(ctx context.Context, repoPath string) ([]string, error)

	// PushTag pushes a local tag to the named remote
	PushTag(ctx context.Context, repoPath, remoteName, tag string) error

	// CheckoutTag fetches the tag from the named remote and checks it out
	CheckoutTag(ctx context.Context, repoPath, remoteName, tag string) error
}
