package model

import "fmt"

// Remote is a GitHub-hosted repository associated with a local git
// remote. LocalPath and LocalName are used for git operations only.
type Remote struct {
	Owner     string
	Name      string
	URL       string
	LocalPath string
	LocalName string
}

// Identifier returns the unique "owner/name" key for the remote
func (r Remote) Identifier() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}

// Ref returns the weak reference form used by releases
func (r Remote) Ref() RemoteRef {
	return RemoteRef{Owner: r.Owner, Name: r.Name}
}

// RemoteRef is a weak reference to a remote, carried by releases for
// lookups such as "is this the latest release"
type RemoteRef struct {
	Owner string
	Name  string
}

// Identifier returns the "owner/name" key of the referenced remote
func (r RemoteRef) Identifier() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}
