package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/relpanel/relpanel/pkg/domain/interfaces"
	"github.com/relpanel/relpanel/pkg/domain/model"
)

// RemoteList is the single source of truth for the GitHub remotes of
// the tracked local repositories. It is recomputed on every git state
// notification and diffed by identifier: an update that yields the
// same identifier sequence fires no notification, so consumers are not
// refreshed needlessly and an in-progress authoring session keeps its
// selected remote.
type RemoteList struct {
	git interfaces.GitLocal

	mu     sync.Mutex
	known  []model.Remote
	subs   map[int]func([]model.Remote)
	nextID int
}

// NewRemoteList creates an empty remote list over the git layer
func NewRemoteList(git interfaces.GitLocal) *RemoteList {
	return &RemoteList{
		git:  git,
		subs: map[int]func([]model.Remote){},
	}
}

// Update recomputes the remote list from the git layer and notifies
// subscribers when the identifier sequence changed
func (l *RemoteList) Update(ctx context.Context) error {
	locals, err := l.git.Remotes(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to enumerate local remotes")
	}

	remotes := collectGitHubRemotes(locals)

	l.mu.Lock()
	if sameIdentifiers(l.known, remotes) {
		l.mu.Unlock()
		return nil
	}

	l.known = remotes
	subs := make([]func([]model.Remote), 0, len(l.subs))
	for _, fn := range l.subs {
		subs = append(subs, fn)
	}
	l.mu.Unlock()

	ctxlog.From(ctx).Debug("remote list changed", "count", len(remotes))

	for _, fn := range subs {
		fn(remotes)
	}

	return nil
}

// Subscribe registers a change observer and returns its unsubscribe
// function. Unsubscribing is idempotent.
func (l *RemoteList) Subscribe(fn func([]model.Remote)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.nextID
	l.nextID++
	l.subs[id] = fn

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.subs, id)
	}
}

// List returns the current remotes
func (l *RemoteList) List() []model.Remote {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.Remote(nil), l.known...)
}

// ByIdentifier looks up a remote by its "owner/name" key
func (l *RemoteList) ByIdentifier(id string) (model.Remote, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, remote := range l.known {
		if remote.Identifier() == id {
			return remote, true
		}
	}
	return model.Remote{}, false
}

func collectGitHubRemotes(locals []interfaces.LocalRemote) []model.Remote {
	var remotes []model.Remote
	seen := map[string]bool{}

	for _, local := range locals {
		urls := []string{local.FetchURL}
		if local.PushURL != "" && local.PushURL != local.FetchURL {
			urls = append(urls, local.PushURL)
		}

		for _, raw := range urls {
			owner, name, ok := ParseGitHubURL(raw)
			if !ok {
				continue
			}

			// Fetch and push URLs often name the same repository in
			// different forms
			key := owner + "/" + name
			if seen[key] {
				continue
			}
			seen[key] = true

			remotes = append(remotes, model.Remote{
				Owner:     owner,
				Name:      name,
				URL:       fmt.Sprintf("https://github.com/%s/%s", owner, name),
				LocalPath: local.RepoPath,
				LocalName: local.Name,
			})
		}
	}

	return remotes
}

func sameIdentifiers(a, b []model.Remote) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Identifier() != b[i].Identifier() {
			return false
		}
	}
	return true
}

// ParseGitHubURL extracts owner and repository name from a github.com
// remote URL in https, ssh, or scp-like form
func ParseGitHubURL(raw string) (owner, name string, ok bool) {
	var path string

	switch {
	case strings.HasPrefix(raw, "https://github.com/"):
		path = strings.TrimPrefix(raw, "https://github.com/")
	case strings.HasPrefix(raw, "http://github.com/"):
		path = strings.TrimPrefix(raw, "http://github.com/")
	case strings.HasPrefix(raw, "ssh://git@github.com/"):
		path = strings.TrimPrefix(raw, "ssh://git@github.com/")
	case strings.HasPrefix(raw, "git@github.com:"):
		path = strings.TrimPrefix(raw, "git@github.com:")
	default:
		return "", "", false
	}

	path = strings.TrimSuffix(path, ".git")
	path = strings.Trim(path, "/")

	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}

	return parts[0], parts[1], true
}
