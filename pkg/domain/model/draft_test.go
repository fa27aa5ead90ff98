package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/relpanel/relpanel/pkg/domain/model"
)

func TestSeedDraft(t *testing.T) {
	t.Run("new release starts from the head branch", func(t *testing.T) {
		draft := model.SeedDraft(nil, "main")

		gt.Equal(t, draft.Tag, model.TagRef{})
		gt.Equal(t, draft.Target, model.TargetRef{Ref: "main", Display: "main"})
		gt.False(t, draft.Draft)
		gt.Equal(t, len(draft.Assets.Current), 0)
	})

	t.Run("editing seeds from the base release", func(t *testing.T) {
		base := &model.Release{
			Tag:        "v1.2.0",
			Title:      "v1.2.0",
			Desc:       "Bug fixes",
			Draft:      true,
			Prerelease: true,
			Assets: []model.ReleaseAsset{
				{ID: 7, Name: "app.tar.gz"},
			},
		}

		draft := model.SeedDraft(base, "main")

		gt.Equal(t, draft.Tag, model.TagRef{Name: "v1.2.0", Existing: true})
		gt.Equal(t, draft.Title, "v1.2.0")
		gt.Equal(t, draft.Desc, "Bug fixes")
		gt.True(t, draft.Draft)
		gt.True(t, draft.Prerelease)
		gt.Equal(t, draft.Assets.Current, []model.DraftAsset{{ID: 7, Name: "app.tar.gz"}})
	})
}

func TestDraftState_Apply(t *testing.T) {
	t.Run("nil fields are untouched", func(t *testing.T) {
		draft := model.DraftState{Title: "v1.0.0", Desc: "initial"}

		title := "v1.0.1"
		draft.Apply(model.StatePatch{Title: &title})

		gt.Equal(t, draft.Title, "v1.0.1")
		gt.Equal(t, draft.Desc, "initial")
	})

	t.Run("assets replace wholesale", func(t *testing.T) {
		draft := model.DraftState{
			Assets: model.AssetSet{
				Current: []model.DraftAsset{{ID: 1, Name: "old.bin"}},
				Deleted: []model.DeletedAsset{{ID: 2, Name: "gone.bin"}},
			},
		}

		draft.Apply(model.StatePatch{Assets: &model.AssetSet{
			Current: []model.DraftAsset{{New: true, Name: "new.bin", Path: "/tmp/new.bin"}},
		}})

		gt.Equal(t, len(draft.Assets.Current), 1)
		gt.Equal(t, draft.Assets.Current[0].Name, "new.bin")
		gt.Equal(t, len(draft.Assets.Deleted), 0)
	})
}

func TestDraftState_Patch(t *testing.T) {
	draft := model.SeedDraft(nil, "main")
	draft.Title = "v2.0.0"

	var restored model.DraftState
	restored.Apply(draft.Patch())

	gt.Equal(t, restored, draft)
}

func TestDraftState_Params(t *testing.T) {
	t.Run("existing tag drops the target", func(t *testing.T) {
		draft := model.DraftState{
			Tag:    model.TagRef{Name: "v1.0.0", Existing: true},
			Target: model.TargetRef{Ref: "main", Display: "main"},
			Title:  "v1.0.0",
		}

		params := draft.Params()
		gt.Equal(t, params.Tag, "v1.0.0")
		gt.Equal(t, params.Target, "")
	})

	t.Run("new tag keeps the target", func(t *testing.T) {
		draft := model.DraftState{
			Tag:    model.TagRef{Name: "v1.1.0"},
			Target: model.TargetRef{Ref: "release/1.1", Display: "release/1.1"},
		}

		gt.Equal(t, draft.Params().Target, "release/1.1")
	})
}
