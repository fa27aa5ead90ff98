package model_test

import (
	"encoding/json"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/relpanel/relpanel/pkg/domain/model"
)

func TestDecodeMessage(t *testing.T) {
	t.Run("save-state carries a full draft", func(t *testing.T) {
		raw := []byte(`{
			"type": "save-state",
			"tag": {"name": "v1.0.0", "existing": true},
			"target": {"ref": "", "display": ""},
			"title": "v1.0.0",
			"desc": "First stable release",
			"draft": false,
			"prerelease": false,
			"makeLatest": true,
			"assets": {"current": [{"new": true, "name": "app.tar.gz", "path": "/tmp/app.tar.gz"}], "deleted": [], "renamed": []}
		}`)

		msg := gt.R1(model.DecodeMessage(raw)).NoError(t)
		save := gt.Cast[*model.SaveStateMessage](t, msg)

		gt.Equal(t, save.Tag, model.TagRef{Name: "v1.0.0", Existing: true})
		gt.Equal(t, save.Title, "v1.0.0")
		gt.True(t, save.MakeLatest)
		gt.Equal(t, len(save.Assets.Current), 1)
	})

	t.Run("bare control messages", func(t *testing.T) {
		for _, typ := range []model.MessageType{
			model.MsgStart,
			model.MsgSelectTag,
			model.MsgSelectTarget,
			model.MsgRequestAsset,
			model.MsgCancel,
			model.MsgNameInUse,
		} {
			raw := []byte(`{"type": "` + string(typ) + `"}`)
			msg := gt.R1(model.DecodeMessage(raw)).NoError(t)
			gt.Equal(t, msg.MessageType(), typ)
		}
	})

	t.Run("unknown type is an error", func(t *testing.T) {
		_, err := model.DecodeMessage([]byte(`{"type": "reboot"}`))
		gt.Error(t, err)
	})

	t.Run("malformed JSON is an error", func(t *testing.T) {
		_, err := model.DecodeMessage([]byte(`{"type": `))
		gt.Error(t, err)
	})
}

func TestEncodeMessage(t *testing.T) {
	t.Run("set-state omits untouched fields", func(t *testing.T) {
		title := "v2.0.0"
		raw := gt.R1(model.EncodeMessage(model.NewSetState(model.StatePatch{Title: &title}))).NoError(t)

		var decoded map[string]any
		gt.NoError(t, json.Unmarshal(raw, &decoded))

		gt.Equal(t, decoded["type"], "set-state")
		gt.Equal(t, decoded["title"], "v2.0.0")
		if _, ok := decoded["desc"]; ok {
			t.Error("sparse patch should not carry desc")
		}
	})

	t.Run("round trip preserves the add-asset payload", func(t *testing.T) {
		sent := model.NewAddAsset(model.DraftAsset{New: true, Name: "app.zip", Path: "/tmp/app.zip"})

		raw := gt.R1(model.EncodeMessage(sent)).NoError(t)
		msg := gt.R1(model.DecodeMessage(raw)).NoError(t)

		added := gt.Cast[*model.AddAssetMessage](t, msg)
		gt.Equal(t, added.Asset, sent.Asset)
	})
}
