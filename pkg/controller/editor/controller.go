package editor

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/relpanel/relpanel/pkg/domain/interfaces"
	"github.com/relpanel/relpanel/pkg/domain/model"
	"github.com/relpanel/relpanel/pkg/domain/types"
	"github.com/relpanel/relpanel/pkg/usecase"
	"github.com/relpanel/relpanel/pkg/utils/async"
)

// Phase is the editor-side session state
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSelectingRemote
	PhaseActive
	PhasePublishing
)

// pushLocalTag is the sentinel pick value for the local tag path of
// the tag chooser
const pushLocalTag = "\x00push-local-tag"

// Option configures the controller
type Option func(*Controller)

// WithRefreshHook sets the callback fired after a successful publish
// so the release list re-renders
func WithRefreshHook(fn func()) Option {
	return func(c *Controller) {
		c.onRefresh = fn
	}
}

// Controller is the editor-side half of the release authoring
// protocol. It owns the durable draft state for the single active
// session; the view side only proposes replacements through messages.
// All message handling runs on one serial queue, so no locking is
// needed around the session fields.
type Controller struct {
	github  interfaces.GitHubClient
	git     interfaces.GitLocal
	ui      interfaces.UserPrompt
	remotes *usecase.RemoteList

	onRefresh func()

	phase     Phase
	sessionID uuid.UUID
	draft     model.DraftState
	base      *model.Release
	remote    *model.Remote

	// view is an explicitly nullable attachment; all access goes
	// through viewPort
	view interfaces.ViewPort
}

// New creates an idle controller
func New(github interfaces.GitHubClient, git interfaces.GitLocal, ui interfaces.UserPrompt, remotes *usecase.RemoteList, opts ...Option) *Controller {
	c := &Controller{
		github:  github,
		git:     git,
		ui:      ui,
		remotes: remotes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Phase returns the current session phase
func (c *Controller) Phase() Phase {
	return c.phase
}

// AttachView connects a presentation surface. A freshly attached view
// is expected to send a start message to receive the snapshot.
func (c *Controller) AttachView(view interfaces.ViewPort) {
	c.view = view
}

// DetachView disconnects the given surface. A stale detach (another
// view already attached) is ignored.
func (c *Controller) DetachView(view interfaces.ViewPort) {
	if c.view == view {
		c.view = nil
	}
}

func (c *Controller) viewPort() (interfaces.ViewPort, error) {
	if c.view == nil {
		return nil, types.ErrViewDetached
	}
	return c.view, nil
}

// postToView delivers a message to the view if one is attached. A
// detached view is not an error: the draft survives on the editor side
// and is replayed when the view reattaches.
func (c *Controller) postToView(ctx context.Context, msg model.Message) {
	view, err := c.viewPort()
	if err != nil {
		ctxlog.From(ctx).Debug("dropping message, view detached", "type", msg.MessageType())
		return
	}

	if err := view.Post(msg); err != nil {
		ctxlog.From(ctx).Warn("failed to post message to view",
			"type", msg.MessageType(), "error", err)
	}
}

// Open starts an authoring session: editing the given release, or
// creating a new one when base is nil. With no known remotes the open
// aborts with a notice; with several the user picks one, and
// dismissing the picker returns to idle.
func (c *Controller) Open(ctx context.Context, base *model.Release) error {
	c.clear()
	c.phase = PhaseSelectingRemote
	c.base = base

	remote, ok, err := c.selectRemote(ctx, base)
	if err != nil {
		c.clear()
		return err
	}
	if !ok {
		c.ui.Info("Release creation cancelled.")
		c.clear()
		return nil
	}

	c.remote = &remote
	c.sessionID = uuid.New()

	head, err := c.git.HeadBranch(ctx, remote.LocalPath)
	if err != nil {
		ctxlog.From(ctx).Warn("failed to resolve HEAD branch", "error", err)
		head = ""
	}

	c.draft = model.SeedDraft(base, head)
	c.phase = PhaseActive

	ctxlog.From(ctx).Info("authoring session started",
		"session_id", c.sessionID,
		"remote", remote.Identifier(),
		"editing", base != nil,
	)

	c.postToView(ctx, model.NewSetState(c.draft.Patch()))
	return nil
}

func (c *Controller) selectRemote(ctx context.Context, base *model.Release) (model.Remote, bool, error) {
	if base != nil {
		remote, ok := c.remotes.ByIdentifier(base.Remote.Identifier())
		if !ok {
			return model.Remote{}, false, goerr.New("remote of the release is no longer known",
				goerr.V("identifier", base.Remote.Identifier()))
		}
		return remote, true, nil
	}

	list := c.remotes.List()

	switch len(list) {
	case 0:
		return model.Remote{}, false, nil
	case 1:
		return list[0], true, nil
	}

	items := make([]interfaces.PickItem, 0, len(list))
	for _, remote := range list {
		items = append(items, interfaces.PickItem{Label: remote.Identifier()})
	}

	item, ok, err := c.ui.Pick(ctx, "Select GitHub repository", items)
	if err != nil {
		return model.Remote{}, false, goerr.Wrap(err, "failed to prompt for repository")
	}
	if !ok {
		return model.Remote{}, false, nil
	}

	remote, found := c.remotes.ByIdentifier(item.Label)
	if !found {
		return model.Remote{}, false, goerr.New("selected remote disappeared", goerr.V("identifier", item.Label))
	}

	return remote, true, nil
}

// Cancel discards the draft and returns to idle
func (c *Controller) Cancel(ctx context.Context) {
	if c.phase != PhaseIdle {
		ctxlog.From(ctx).Info("authoring session cancelled", "session_id", c.sessionID)
	}
	c.clear()
}

func (c *Controller) clear() {
	c.phase = PhaseIdle
	c.sessionID = uuid.Nil
	c.draft = model.DraftState{}
	c.base = nil
	c.remote = nil
}

// HandleRaw decodes and handles one wire message. It is the handler
// bound to the session's serial message queue.
func (c *Controller) HandleRaw(ctx context.Context, raw []byte) error {
	msg, err := model.DecodeMessage(raw)
	if err != nil {
		return err
	}
	return c.HandleMessage(ctx, msg)
}

// HandleMessage processes one inbound view message. Messages arriving
// outside an active session are dropped: the view may outlive a
// session it does not know has ended.
func (c *Controller) HandleMessage(ctx context.Context, msg model.Message) error {
	logger := ctxlog.From(ctx)

	if c.phase != PhaseActive {
		logger.Debug("dropping message, no active session", "type", msg.MessageType())
		return nil
	}

	switch m := msg.(type) {
	case *model.SaveStateMessage:
		// Continuous save: the view's last snapshot wins wholesale
		c.draft = m.DraftState

	case *model.StartMessage:
		c.postToView(ctx, model.NewSetState(c.draft.Patch()))

	case *model.SelectTagMessage:
		return c.handleSelectTag(ctx)

	case *model.SelectTargetMessage:
		return c.handleSelectTarget(ctx)

	case *model.GenerateNotesMessage:
		return c.handleGenerateNotes(ctx, m.Tag, m.Target)

	case *model.RequestAssetMessage:
		return c.handleRequestAsset(ctx)

	case *model.PublishReleaseMessage:
		c.draft = m.DraftState
		return c.publish(ctx)

	case *model.CancelMessage:
		c.Cancel(ctx)

	case *model.NameInUseMessage:
		c.ui.Error("A file with that name already exists.")

	default:
		return goerr.New("unexpected message direction", goerr.V("type", msg.MessageType()))
	}

	return nil
}

func (c *Controller) handleSelectTag(ctx context.Context) error {
	tags, err := c.github.ListTags(ctx, c.remote.Owner, c.remote.Name)
	if err != nil {
		c.ui.Error(fmt.Sprintf("Failed to list tags: %v", err))
		return nil
	}

	items := []interfaces.PickItem{{Label: "Push a local tag...", Value: pushLocalTag}}
	for _, tag := range tags {
		items = append(items, interfaces.PickItem{Label: tag, Value: tag})
	}

	value, ok, err := c.ui.Input(ctx, "Select an existing tag or enter a name for a new one", items)
	if err != nil {
		return goerr.Wrap(err, "failed to prompt for tag")
	}
	if !ok {
		return nil
	}

	tag := model.TagRef{Name: value, Existing: slices.Contains(tags, value)}

	if value == pushLocalTag {
		tag = c.pushLocalTagFlow(ctx)
	}

	c.draft.Apply(model.StatePatch{Tag: &tag})
	c.postToView(ctx, model.NewSetState(model.StatePatch{Tag: &tag}))
	return nil
}

// pushLocalTagFlow lets the user pick a local tag and pushes it to the
// session remote. Cancellation or a failed push yields an empty tag,
// matching the behavior of dismissing the chooser.
func (c *Controller) pushLocalTagFlow(ctx context.Context) model.TagRef {
	localTags, err := c.git.LocalTags(ctx, c.remote.LocalPath)
	if err != nil {
		c.ui.Error(fmt.Sprintf("Failed to list local tags: %v", err))
		return model.TagRef{}
	}

	items := make([]interfaces.PickItem, 0, len(localTags))
	for _, tag := range localTags {
		items = append(items, interfaces.PickItem{Label: tag, Value: tag})
	}

	item, ok, err := c.ui.Pick(ctx, "Select a tag to push", items)
	if err != nil || !ok {
		return model.TagRef{}
	}

	if err := c.git.PushTag(ctx, c.remote.LocalPath, c.remote.LocalName, item.Value); err != nil {
		c.ui.Error(fmt.Sprintf("Failed to push tag %q: %v", item.Value, err))
		return model.TagRef{}
	}

	// The tag is on the remote now, so no target ref is needed
	return model.TagRef{Name: item.Value, Existing: true}
}

func (c *Controller) handleSelectTarget(ctx context.Context) error {
	branches, err := c.github.ListBranches(ctx, c.remote.Owner, c.remote.Name)
	if err != nil {
		c.ui.Error(fmt.Sprintf("Failed to list branches: %v", err))
		return nil
	}

	commits, err := c.github.ListCommits(ctx, c.remote.Owner, c.remote.Name)
	if err != nil {
		c.ui.Error(fmt.Sprintf("Failed to list commits: %v", err))
		return nil
	}

	items := make([]interfaces.PickItem, 0, len(branches)+len(commits))
	for _, branch := range branches {
		items = append(items, interfaces.PickItem{Label: branch, Value: branch})
	}
	for _, commit := range commits {
		items = append(items, interfaces.PickItem{
			Label:  commit.ShortSHA(),
			Detail: commit.Message,
			Value:  commit.SHA,
		})
	}

	target := model.TargetRef{}
	if item, ok, err := c.ui.Pick(ctx, "Select a target for the release tag", items); err != nil {
		return goerr.Wrap(err, "failed to prompt for target")
	} else if ok {
		target = model.TargetRef{Ref: item.Value, Display: item.Label}
	}

	c.draft.Apply(model.StatePatch{Target: &target})
	c.postToView(ctx, model.NewSetState(model.StatePatch{Target: &target}))
	return nil
}

func (c *Controller) handleGenerateNotes(ctx context.Context, tag, target string) error {
	title, body, err := c.github.GenerateReleaseNotes(ctx, c.remote.Owner, c.remote.Name, tag, target)
	if err != nil {
		c.ui.Error(fmt.Sprintf("Failed to generate release notes: %v", err))
		return nil
	}

	patch := model.StatePatch{Title: &title, Desc: &body}
	c.draft.Apply(patch)
	c.postToView(ctx, model.NewSetState(patch))
	return nil
}

func (c *Controller) handleRequestAsset(ctx context.Context) error {
	path, ok, err := c.ui.PickFile(ctx, "Select a release asset")
	if err != nil {
		return goerr.Wrap(err, "failed to prompt for asset file")
	}
	if !ok {
		return nil
	}

	c.postToView(ctx, model.NewAddAsset(model.DraftAsset{
		New:  true,
		Name: filepath.Base(path),
		Path: path,
	}))
	return nil
}

// publish creates or updates the release, then reconciles assets.
// Failing to create or update the release keeps the session active so
// the draft is not lost; every asset operation afterwards is
// independently best-effort because the release itself already exists.
func (c *Controller) publish(ctx context.Context) error {
	logger := ctxlog.From(ctx)

	c.phase = PhasePublishing
	params := c.draft.Params()

	var released *model.Release
	var err error
	if c.base != nil {
		released, err = c.github.UpdateRelease(ctx, c.remote.Owner, c.remote.Name, c.base.ID, params)
	} else {
		released, err = c.github.CreateRelease(ctx, c.remote.Owner, c.remote.Name, params)
	}
	if err != nil {
		c.ui.Error(fmt.Sprintf("Failed to publish release: %v", err))
		c.phase = PhaseActive
		return nil
	}

	logger.Info("release published",
		"session_id", c.sessionID,
		"release_id", released.ID,
		"tag", params.Tag,
	)

	c.reconcileAssets(ctx, released.ID)

	c.clear()
	c.postToView(ctx, model.NewSetState(model.DraftState{}.Patch()))

	if c.onRefresh != nil {
		// The refresh re-reads the release list over the network; the
		// publish reply should not wait on it
		refresh := c.onRefresh
		async.Dispatch(ctx, func(context.Context) error {
			refresh()
			return nil
		})
	}
	return nil
}

// reconcileAssets applies the asset diff in a fixed order: deletes,
// then renames, then uploads. Renames run after deletes so a rename
// target cannot collide with a name that is going away; uploads run
// last for the same reason.
func (c *Controller) reconcileAssets(ctx context.Context, releaseID int64) {
	if c.base != nil {
		for _, deleted := range c.draft.Assets.Deleted {
			if err := c.github.DeleteReleaseAsset(ctx, c.remote.Owner, c.remote.Name, deleted.ID); err != nil {
				c.ui.Error(fmt.Sprintf("Failed to delete release asset %q", deleted.Name))
			}
		}

		for _, renamed := range c.draft.Assets.Renamed {
			if err := c.github.RenameReleaseAsset(ctx, c.remote.Owner, c.remote.Name, renamed.ID, renamed.NewName); err != nil {
				c.ui.Error(fmt.Sprintf("Failed to rename release asset %q to %q", renamed.OldName, renamed.NewName))
			}
		}
	}

	for _, asset := range c.draft.Assets.NewAssets() {
		if err := c.github.UploadReleaseAsset(ctx, c.remote.Owner, c.remote.Name, releaseID, asset.Name, asset.Path); err != nil {
			c.ui.Error(fmt.Sprintf("Failed to add release asset %q", asset.Name))
		}
	}
}

// Draft returns a copy of the current draft, for tests and rendering
func (c *Controller) Draft() model.DraftState {
	draft := c.draft
	draft.Assets = draft.Assets.Clone()
	return draft
}
