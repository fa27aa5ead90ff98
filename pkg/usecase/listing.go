package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/m-mizutani/ctxlog"
	"github.com/relpanel/relpanel/pkg/domain/interfaces"
	"github.com/relpanel/relpanel/pkg/domain/model"
	"github.com/relpanel/relpanel/pkg/utils/pagination"
)

// SetPageCommand is the command id bound to pagination nodes
const SetPageCommand = "set-page"

type pageCursor struct {
	icon  string
	title string
}

var pageCursors = []struct {
	name   string
	cursor pageCursor
	pick   func(pagination.Cursors) *int
}{
	{"first", pageCursor{"arrow-left", "First Page"}, func(c pagination.Cursors) *int { return c.First }},
	{"prev", pageCursor{"arrow-left", "Previous Page"}, func(c pagination.Cursors) *int { return c.Prev }},
	{"next", pageCursor{"arrow-right", "Next Page"}, func(c pagination.Cursors) *int { return c.Next }},
	{"last", pageCursor{"arrow-right", "Last Page"}, func(c pagination.Cursors) *int { return c.Last }},
}

// Lister builds the release tree: remotes at the root, releases per
// remote page, and detail rows per release. It keeps one current page
// number per remote.
type Lister struct {
	github  interfaces.GitHubClient
	remotes *RemoteList

	mu    sync.Mutex
	pages map[string]int
}

// NewLister creates a Lister over the API client and remote list
func NewLister(github interfaces.GitHubClient, remotes *RemoteList) *Lister {
	return &Lister{
		github:  github,
		remotes: remotes,
		pages:   map[string]int{},
	}
}

// SetPage records the current page for a remote identifier
func (l *Lister) SetPage(identifier string, page int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pages[identifier] = page
}

func (l *Lister) page(identifier string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if page, ok := l.pages[identifier]; ok {
		return page
	}
	return 1
}

// Children expands a tree node. A nil node is the root: the list of
// remotes, or the single remote's releases directly when only one is
// known.
func (l *Lister) Children(ctx context.Context, node *model.Node) []model.Node {
	if node == nil {
		remotes := l.remotes.List()

		if len(remotes) == 0 {
			return []model.Node{model.NewMessageNode("No GitHub repositories found")}
		}

		if len(remotes) > 1 {
			nodes := make([]model.Node, 0, len(remotes))
			for i := range remotes {
				nodes = append(nodes, model.Node{
					Kind:     model.NodeRemote,
					Label:    remotes[i].Identifier(),
					Expanded: true,
					Remote:   &remotes[i],
				})
			}
			return nodes
		}

		single := model.Node{
			Kind:   model.NodeRemote,
			Label:  remotes[0].Identifier(),
			Remote: &remotes[0],
		}
		return l.Children(ctx, &single)
	}

	switch node.Kind {
	case model.NodeRemote:
		return l.releaseNodes(ctx, *node.Remote)
	case model.NodeRelease:
		return l.detailNodes(*node.Release)
	default:
		return nil
	}
}

func (l *Lister) releaseNodes(ctx context.Context, remote model.Remote) []model.Node {
	identifier := remote.Identifier()
	page := l.page(identifier)

	releases, cursors, err := l.github.ListReleases(ctx, remote.Owner, remote.Name, page)

	var nodes []model.Node

	if len(releases) == 0 {
		msg := model.NewMessageNode("No releases found")
		if err != nil {
			ctxlog.From(ctx).Warn("failed to list releases", "remote", identifier, "error", err)
			msg.Description = err.Error()
		}
		nodes = []model.Node{msg}
	} else {
		latestID := l.latestReleaseID(ctx, remote)

		nodes = make([]model.Node, 0, len(releases))
		for i := range releases {
			release := &releases[i]
			nodes = append(nodes, model.Node{
				Kind:    model.NodeRelease,
				Label:   release.Title + releaseSuffix(release, latestID),
				Release: release,
			})
		}
	}

	for _, entry := range pageCursors {
		target := entry.pick(cursors)
		if target == nil {
			continue
		}

		nodes = append(nodes, model.Node{
			Kind:  model.NodeMessage,
			Label: entry.cursor.title,
			Icon:  entry.cursor.icon,
			Command: &model.CommandRef{
				ID:   SetPageCommand,
				Args: []any{identifier, *target},
			},
		})
	}

	return nodes
}

func (l *Lister) detailNodes(release model.Release) []model.Node {
	date := release.CreatedAt
	if release.PublishedAt != nil {
		date = *release.PublishedAt
	}

	nodes := []model.Node{
		{
			Kind:  model.NodeMessage,
			Label: fmt.Sprintf("%s at %s", release.Author, date.Format("Jan 2, 2006 3:04:05 PM")),
			Icon:  release.AuthorIcon,
		},
		{
			Kind:    model.NodeTag,
			Label:   "Tag: " + release.Tag,
			Icon:    "tag",
			TagName: release.Tag,
			Release: &release,
		},
		model.NewMessageNode("——"),
	}

	for i, line := range strings.Split(release.Desc, "\n") {
		node := model.NewMessageNode(strings.TrimSpace(line))
		if i == 0 {
			node.Icon = "output-view-icon"
		}
		nodes = append(nodes, node)
	}

	if len(release.Assets) > 0 {
		nodes = append(nodes, model.NewMessageNode("——"))

		for i := range release.Assets {
			node := model.Node{
				Kind:  model.NodeAsset,
				Label: release.Assets[i].Name,
				Asset: &release.Assets[i],
			}
			if i == 0 {
				node.Icon = "file"
			}
			nodes = append(nodes, node)
		}
	}

	return nodes
}

// latestReleaseID resolves which release GitHub marks as latest.
// Compared by identifier, not by publish date: the server excludes
// drafts and prereleases by its own rule.
func (l *Lister) latestReleaseID(ctx context.Context, remote model.Remote) int64 {
	latest, err := l.github.GetLatestRelease(ctx, remote.Owner, remote.Name)
	if err != nil {
		ctxlog.From(ctx).Warn("failed to get latest release",
			"remote", remote.Identifier(), "error", err)
		return 0
	}
	if latest == nil {
		return 0
	}
	return latest.ID
}

func releaseSuffix(release *model.Release, latestID int64) string {
	switch {
	case release.Draft:
		return " [Draft]"
	case release.Prerelease:
		return " [Pre-release]"
	case latestID != 0 && release.ID == latestID:
		return " [Latest]"
	default:
		return ""
	}
}
