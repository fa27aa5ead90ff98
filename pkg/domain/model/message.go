package model

import (
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
)

// MessageType discriminates protocol messages between the editor side
// and the view side
type MessageType string

const (
	// view -> editor
	MsgSaveState      MessageType = "save-state"
	MsgStart          MessageType = "start"
	MsgSelectTag      MessageType = "select-tag"
	MsgSelectTarget   MessageType = "select-target"
	MsgGenerateNotes  MessageType = "generate-release-notes"
	MsgRequestAsset   MessageType = "request-asset"
	MsgPublishRelease MessageType = "publish-release"
	MsgCancel         MessageType = "cancel"
	MsgNameInUse      MessageType = "name-in-use"

	// editor -> view
	MsgSetState MessageType = "set-state"
	MsgAddAsset MessageType = "add-asset"
)

// Message is a single protocol message. Messages are JSON objects
// whose "type" field selects the variant.
type Message interface {
	MessageType() MessageType
}

// SaveStateMessage replaces the editor-side draft wholesale
type SaveStateMessage struct {
	Type MessageType `json:"type"`
	DraftState
}

func (m SaveStateMessage) MessageType() MessageType { return MsgSaveState }

// StartMessage asks the editor side for the initial snapshot
type StartMessage struct {
	Type MessageType `json:"type"`
}

func (m StartMessage) MessageType() MessageType { return MsgStart }

// SelectTagMessage asks the editor side to prompt for a tag
type SelectTagMessage struct {
	Type MessageType `json:"type"`
}

func (m SelectTagMessage) MessageType() MessageType { return MsgSelectTag }

// SelectTargetMessage asks the editor side to prompt for a target ref
type SelectTargetMessage struct {
	Type MessageType `json:"type"`
}

func (m SelectTargetMessage) MessageType() MessageType { return MsgSelectTarget }

// GenerateNotesMessage asks for generated release notes for tag/target
type GenerateNotesMessage struct {
	Type   MessageType `json:"type"`
	Tag    string      `json:"tag"`
	Target string      `json:"target"`
}

func (m GenerateNotesMessage) MessageType() MessageType { return MsgGenerateNotes }

// RequestAssetMessage asks the editor side to open a file picker
type RequestAssetMessage struct {
	Type MessageType `json:"type"`
}

func (m RequestAssetMessage) MessageType() MessageType { return MsgRequestAsset }

// PublishReleaseMessage runs the publish transition with the attached
// final draft
type PublishReleaseMessage struct {
	Type MessageType `json:"type"`
	DraftState
}

func (m PublishReleaseMessage) MessageType() MessageType { return MsgPublishRelease }

// CancelMessage discards the draft and ends the session
type CancelMessage struct {
	Type MessageType `json:"type"`
}

func (m CancelMessage) MessageType() MessageType { return MsgCancel }

// NameInUseMessage surfaces a duplicate asset name to the user
type NameInUseMessage struct {
	Type MessageType `json:"type"`
}

func (m NameInUseMessage) MessageType() MessageType { return MsgNameInUse }

// SetStateMessage applies a full or partial draft to the view. The
// asset triple, when present, replaces the view's copy atomically.
type SetStateMessage struct {
	Type MessageType `json:"type"`
	StatePatch
}

func (m SetStateMessage) MessageType() MessageType { return MsgSetState }

// AddAssetMessage appends a picked file to the view's asset tracker
type AddAssetMessage struct {
	Type  MessageType `json:"type"`
	Asset DraftAsset  `json:"asset"`
}

func (m AddAssetMessage) MessageType() MessageType { return MsgAddAsset }

// NewSaveState wraps a draft in a save-state message
func NewSaveState(state DraftState) SaveStateMessage {
	return SaveStateMessage{Type: MsgSaveState, DraftState: state}
}

// NewSetState wraps a patch in a set-state message
func NewSetState(patch StatePatch) SetStateMessage {
	return SetStateMessage{Type: MsgSetState, StatePatch: patch}
}

// NewAddAsset wraps an asset in an add-asset message
func NewAddAsset(asset DraftAsset) AddAssetMessage {
	return AddAssetMessage{Type: MsgAddAsset, Asset: asset}
}

// EncodeMessage serializes a message to its wire form
func EncodeMessage(msg Message) ([]byte, error) {
	raw, err := json.Marshal(msg)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode message", goerr.V("type", msg.MessageType()))
	}
	return raw, nil
}

// DecodeMessage parses a wire message into its typed variant
func DecodeMessage(raw []byte) (Message, error) {
	var envelope struct {
		Type MessageType `json:"type"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, goerr.Wrap(err, "failed to decode message envelope")
	}

	var msg Message
	switch envelope.Type {
	case MsgSaveState:
		msg = &SaveStateMessage{}
	case MsgStart:
		msg = &StartMessage{}
	case MsgSelectTag:
		msg = &SelectTagMessage{}
	case MsgSelectTarget:
		msg = &SelectTargetMessage{}
	case MsgGenerateNotes:
		msg = &GenerateNotesMessage{}
	case MsgRequestAsset:
		msg = &RequestAssetMessage{}
	case MsgPublishRelease:
		msg = &PublishReleaseMessage{}
	case MsgCancel:
		msg = &CancelMessage{}
	case MsgNameInUse:
		msg = &NameInUseMessage{}
	case MsgSetState:
		msg = &SetStateMessage{}
	case MsgAddAsset:
		msg = &AddAssetMessage{}
	default:
		return nil, goerr.New("unknown message type", goerr.V("type", envelope.Type))
	}

	if err := json.Unmarshal(raw, msg); err != nil {
		return nil, goerr.Wrap(err, "failed to decode message", goerr.V("type", envelope.Type))
	}

	return msg, nil
}
