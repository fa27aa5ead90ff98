package model

import "time"

// Release is an immutable snapshot of a release fetched from GitHub
type Release struct {
	ID          int64
	Tag         string
	Title       string
	Desc        string
	URL         string
	Assets      []ReleaseAsset
	Draft       bool
	Prerelease  bool
	Author      string
	AuthorIcon  string
	CreatedAt   time.Time
	PublishedAt *time.Time

	// Remote identifies the repository the release belongs to. It is a
	// lookup key only; the release does not own the remote.
	Remote RemoteRef
}

// ReleaseAsset is a file attached to a published release
type ReleaseAsset struct {
	ID          int64
	Name        string
	DownloadURL string
}

// Commit is a minimal commit record used for target selection
type Commit struct {
	SHA     string
	Message string
}

// ShortSHA returns the abbreviated commit hash used for display
func (c Commit) ShortSHA() string {
	if len(c.SHA) > 8 {
		return c.SHA[:8]
	}
	return c.SHA
}

// ReleaseParams carries the fields sent to GitHub when creating or
// updating a release
type ReleaseParams struct {
	Tag        string
	Target     string
	Title      string
	Desc       string
	Draft      bool
	Prerelease bool
	MakeLatest bool
}
