package commands

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/relpanel/relpanel/pkg/controller/editor"
	"github.com/relpanel/relpanel/pkg/domain/interfaces"
	"github.com/relpanel/relpanel/pkg/domain/model"
	"github.com/relpanel/relpanel/pkg/domain/types"
	"github.com/relpanel/relpanel/pkg/usecase"
)

// Command identifiers bound into the host dispatcher
const (
	CreateRelease    = "create-release"
	RefreshReleases  = "refresh-releases"
	SetPage          = "set-page"
	EditRelease      = "edit-release"
	DeleteRelease    = "delete-release"
	OpenRepoReleases = "open-repo-releases"
	OpenRelease      = "open-release"
	DownloadAsset    = "download-asset"
	CheckoutTag      = "checkout-tag"
)

// Deps are the collaborators the command handlers act on
type Deps struct {
	Remotes *usecase.RemoteList
	Lister  *usecase.Lister
	Editor  *editor.Controller
	GitHub  interfaces.GitHubClient
	Git     interfaces.GitLocal
	UI      interfaces.UserPrompt

	// Refresh re-renders the release list
	Refresh func()
}

// Commands is the explicit command table. The table is one list
// literal, iterated once by Bind; nothing is discovered by reflection.
type Commands struct {
	deps Deps
}

// New creates the command set
func New(deps Deps) *Commands {
	return &Commands{deps: deps}
}

type commandDef struct {
	id      string
	handler interfaces.CommandHandler
}

func (c *Commands) table() []commandDef {
	return []commandDef{
		{CreateRelease, c.createRelease},
		{RefreshReleases, c.refreshReleases},
		{SetPage, c.setPage},
		{EditRelease, c.editRelease},
		{DeleteRelease, c.deleteRelease},
		{OpenRepoReleases, c.openRepoReleases},
		{OpenRelease, c.openRelease},
		{DownloadAsset, c.downloadAsset},
		{CheckoutTag, c.checkoutTag},
	}
}

// Bind registers every command with the host dispatcher
func (c *Commands) Bind(reg interfaces.CommandRegistrar) {
	for _, def := range c.table() {
		reg.Register(def.id, def.handler)
	}
}

func (c *Commands) createRelease(ctx context.Context, args ...any) error {
	return c.deps.Editor.Open(ctx, nil)
}

func (c *Commands) refreshReleases(ctx context.Context, args ...any) error {
	c.deps.Refresh()
	return nil
}

func (c *Commands) setPage(ctx context.Context, args ...any) error {
	if len(args) != 2 {
		return goerr.New("set-page expects identifier and page", goerr.V("args", args))
	}

	identifier, ok := args[0].(string)
	if !ok {
		return goerr.New("set-page identifier must be a string")
	}
	page, ok := args[1].(int)
	if !ok {
		return goerr.New("set-page page must be an int")
	}

	c.deps.Lister.SetPage(identifier, page)
	c.deps.Refresh()
	return nil
}

func (c *Commands) editRelease(ctx context.Context, args ...any) error {
	release, err := releaseArg(args)
	if err != nil {
		return err
	}
	return c.deps.Editor.Open(ctx, release)
}

func (c *Commands) deleteRelease(ctx context.Context, args ...any) error {
	release, err := releaseArg(args)
	if err != nil {
		return err
	}

	confirmed, err := c.deps.UI.Confirm(ctx, fmt.Sprintf(
		"Are you sure you want to delete release %q from %s?",
		release.Title, release.Remote.Identifier(),
	))
	if err != nil {
		return goerr.Wrap(err, "failed to confirm release deletion")
	}
	if !confirmed {
		return nil
	}

	if err := c.deps.GitHub.DeleteRelease(ctx, release.Remote.Owner, release.Remote.Name, release.ID); err != nil {
		c.deps.UI.Error(fmt.Sprintf("Failed to delete release: %v", err))
		return nil
	}

	c.deps.Refresh()
	return nil
}

func (c *Commands) openRepoReleases(ctx context.Context, args ...any) error {
	var remote model.Remote

	if len(args) > 0 {
		if arg, ok := args[0].(*model.Remote); ok && arg != nil {
			remote = *arg
		}
	}

	if remote.Owner == "" {
		list := c.deps.Remotes.List()
		if len(list) == 0 {
			return types.ErrNoRemotes
		}
		remote = list[0]
	}

	return c.deps.UI.OpenExternal(ctx, remote.URL+"/releases")
}

func (c *Commands) openRelease(ctx context.Context, args ...any) error {
	release, err := releaseArg(args)
	if err != nil {
		return err
	}
	return c.deps.UI.OpenExternal(ctx, release.URL)
}

func (c *Commands) downloadAsset(ctx context.Context, args ...any) error {
	if len(args) != 1 {
		return goerr.New("download-asset expects one asset")
	}
	asset, ok := args[0].(*model.ReleaseAsset)
	if !ok || asset == nil {
		return goerr.New("download-asset argument must be an asset")
	}
	return c.deps.UI.OpenExternal(ctx, asset.DownloadURL)
}

func (c *Commands) checkoutTag(ctx context.Context, args ...any) error {
	release, err := releaseArg(args)
	if err != nil {
		return err
	}

	remote, ok := c.deps.Remotes.ByIdentifier(release.Remote.Identifier())
	if !ok {
		return goerr.New("remote of the release is no longer known",
			goerr.V("identifier", release.Remote.Identifier()))
	}

	if err := c.deps.Git.CheckoutTag(ctx, remote.LocalPath, remote.LocalName, release.Tag); err != nil {
		c.deps.UI.Error(fmt.Sprintf("Failed to checkout tag: %v", err))
		return nil
	}

	c.deps.UI.Info(fmt.Sprintf("Switched to tag %s", release.Tag))
	return nil
}

func releaseArg(args []any) (*model.Release, error) {
	if len(args) != 1 {
		return nil, goerr.New("command expects one release argument")
	}
	release, ok := args[0].(*model.Release)
	if !ok || release == nil {
		return nil, goerr.New("command argument must be a release")
	}
	return release, nil
}
