package view

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/relpanel/relpanel/pkg/domain/model"
)

// Sender posts protocol messages toward the editor side
type Sender interface {
	Post(msg model.Message) error
}

// Renderer repaints the presentation surface from the working state.
// Rendering is out of scope here; a nil renderer is valid (headless).
type Renderer interface {
	Render(state model.DraftState)
}

// Option configures the controller
type Option func(*Controller)

// WithRenderer attaches a renderer
func WithRenderer(r Renderer) Option {
	return func(c *Controller) {
		c.renderer = r
	}
}

// Controller is the view-side half of the authoring protocol. It keeps
// a working copy of the draft purely for rendering and emits a full
// save-state snapshot on every user edit, so the view process can be
// torn down and restarted without losing anything: on restart it sends
// start and is replayed the editor's copy.
type Controller struct {
	editor   Sender
	renderer Renderer
	state    model.DraftState
}

// New creates a view controller posting to the editor side
func New(editor Sender, opts ...Option) *Controller {
	c := &Controller{editor: editor}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start requests the initial snapshot from the editor side
func (c *Controller) Start() error {
	return c.editor.Post(StartMessage())
}

// State returns a copy of the working draft
func (c *Controller) State() model.DraftState {
	state := c.state
	state.Assets = state.Assets.Clone()
	return state
}

// TargetHidden reports whether the target picker should be hidden: an
// existing tag already points at a commit
func (c *Controller) TargetHidden() bool {
	return c.state.Tag.Existing
}

// SetTitle records a title edit
func (c *Controller) SetTitle(title string) error {
	c.state.Title = title
	return c.saveState()
}

// SetDesc records a description edit
func (c *Controller) SetDesc(desc string) error {
	c.state.Desc = desc
	return c.saveState()
}

// SetDraftFlag records a draft checkbox toggle
func (c *Controller) SetDraftFlag(draft bool) error {
	c.state.Draft = draft
	return c.saveState()
}

// SetPrerelease records a prerelease checkbox toggle
func (c *Controller) SetPrerelease(prerelease bool) error {
	c.state.Prerelease = prerelease
	return c.saveState()
}

// SetMakeLatest records a make-latest checkbox toggle
func (c *Controller) SetMakeLatest(makeLatest bool) error {
	c.state.MakeLatest = makeLatest
	return c.saveState()
}

// ChooseTag forwards the tag button press to the editor side
func (c *Controller) ChooseTag() error {
	return c.editor.Post(&model.SelectTagMessage{Type: model.MsgSelectTag})
}

// ChooseTarget forwards the target button press to the editor side
func (c *Controller) ChooseTarget() error {
	return c.editor.Post(&model.SelectTargetMessage{Type: model.MsgSelectTarget})
}

// GenerateNotes asks the editor side for generated release notes
func (c *Controller) GenerateNotes() error {
	return c.editor.Post(&model.GenerateNotesMessage{
		Type:   model.MsgGenerateNotes,
		Tag:    c.state.Tag.Name,
		Target: c.state.Target.Ref,
	})
}

// AddFile asks the editor side to open the file picker
func (c *Controller) AddFile() error {
	return c.editor.Post(&model.RequestAssetMessage{Type: model.MsgRequestAsset})
}

// RemoveAsset drops an asset from the working set
func (c *Controller) RemoveAsset(name string) error {
	if !c.state.Assets.Remove(name) {
		return goerr.New("unknown asset", goerr.V("name", name))
	}
	c.render()
	return c.saveState()
}

// RenameAsset changes an asset's name. A colliding rename is reported
// to the editor side and leaves the working set unchanged.
func (c *Controller) RenameAsset(name, newName string) error {
	if !c.state.Assets.Rename(name, newName) {
		return c.editor.Post(&model.NameInUseMessage{Type: model.MsgNameInUse})
	}
	c.render()
	return c.saveState()
}

// Publish sends the final draft for publishing
func (c *Controller) Publish() error {
	state := c.State()
	return c.editor.Post(model.PublishReleaseMessage{
		Type:       model.MsgPublishRelease,
		DraftState: state,
	})
}

// Cancel asks the editor side to discard the session
func (c *Controller) Cancel() error {
	return c.editor.Post(&model.CancelMessage{Type: model.MsgCancel})
}

// HandleRaw decodes and handles one wire message from the editor side
func (c *Controller) HandleRaw(ctx context.Context, raw []byte) error {
	msg, err := model.DecodeMessage(raw)
	if err != nil {
		return err
	}
	return c.HandleMessage(ctx, msg)
}

// HandleMessage applies one editor message. A set-state patch touches
// only the fields present; the asset triple is replaced atomically,
// never merged element by element.
func (c *Controller) HandleMessage(ctx context.Context, msg model.Message) error {
	switch m := msg.(type) {
	case *model.SetStateMessage:
		c.state.Apply(m.StatePatch)
		c.render()
		// The applied state is echoed back so the editor copy and the
		// view copy converge even if the patch was partial
		return c.saveState()

	case *model.AddAssetMessage:
		if !c.state.Assets.Append(m.Asset) {
			return c.editor.Post(&model.NameInUseMessage{Type: model.MsgNameInUse})
		}
		c.render()
		return c.saveState()

	default:
		ctxlog.From(ctx).Warn("unexpected message on view side", "type", msg.MessageType())
		return nil
	}
}

// StartMessage builds the protocol start message
func StartMessage() model.Message {
	return &model.StartMessage{Type: model.MsgStart}
}

func (c *Controller) saveState() error {
	return c.editor.Post(model.NewSaveState(c.State()))
}

func (c *Controller) render() {
	if c.renderer != nil {
		c.renderer.Render(c.State())
	}
}
