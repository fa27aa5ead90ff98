package editor_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/relpanel/relpanel/pkg/controller/editor"
	"github.com/relpanel/relpanel/pkg/domain/interfaces"
	"github.com/relpanel/relpanel/pkg/domain/model"
	"github.com/relpanel/relpanel/pkg/usecase"
)

type githubMock struct {
	interfaces.GitHubClient
	createRelease        func(ctx context.Context, owner, repo string, params model.ReleaseParams) (*model.Release, error)
	updateRelease        func(ctx context.Context, owner, repo string, releaseID int64, params model.ReleaseParams) (*model.Release, error)
	uploadReleaseAsset   func(ctx context.Context, owner, repo string, releaseID int64, name, path string) error
	deleteReleaseAsset   func(ctx context.Context, owner, repo string, assetID int64) error
	renameReleaseAsset   func(ctx context.Context, owner, repo string, assetID int64, newName string) error
	listTags             func(ctx context.Context, owner, repo string) ([]string, error)
	listBranches         func(ctx context.Context, owner, repo string) ([]string, error)
	listCommits          func(ctx context.Context, owner, repo string) ([]model.Commit, error)
	generateReleaseNotes func(ctx context.Context, owner, repo, tag, target string) (string, string, error)
}

func (m *githubMock) CreateRelease(ctx context.Context, owner, repo string, params model.ReleaseParams) (*model.Release, error) {
	return m.createRelease(ctx, owner, repo, params)
}

func (m *githubMock) UpdateRelease(ctx context.Context, owner, repo string, releaseID int64, params model.ReleaseParams) (*model.Release, error) {
	return m.updateRelease(ctx, owner, repo, releaseID, params)
}

func (m *githubMock) UploadReleaseAsset(ctx context.Context, owner, repo string, releaseID int64, name, path string) error {
	return m.uploadReleaseAsset(ctx, owner, repo, releaseID, name, path)
}

func (m *githubMock) DeleteReleaseAsset(ctx context.Context, owner, repo string, assetID int64) error {
	return m.deleteReleaseAsset(ctx, owner, repo, assetID)
}

func (m *githubMock) RenameReleaseAsset(ctx context.Context, owner, repo string, assetID int64, newName string) error {
	return m.renameReleaseAsset(ctx, owner, repo, assetID, newName)
}

func (m *githubMock) ListTags(ctx context.Context, owner, repo string) ([]string, error) {
	return m.listTags(ctx, owner, repo)
}

func (m *githubMock) ListBranches(ctx context.Context, owner, repo string) ([]string, error) {
	return m.listBranches(ctx, owner, repo)
}

func (m *githubMock) ListCommits(ctx context.Context, owner, repo string) ([]model.Commit, error) {
	return m.listCommits(ctx, owner, repo)
}

func (m *githubMock) GenerateReleaseNotes(ctx context.Context, owner, repo, tag, target string) (string, string, error) {
	return m.generateReleaseNotes(ctx, owner, repo, tag, target)
}

type gitMock struct {
	interfaces.GitLocal
	remotes    func(ctx context.Context) ([]interfaces.LocalRemote, error)
	headBranch func(ctx context.Context, repoPath string) (string, error)
	localTags  func(ctx context.Context, repoPath string) ([]string, error)
	pushTag    func(ctx context.Context, repoPath, remoteName, tag string) error
}

func (m *gitMock) Remotes(ctx context.Context) ([]interfaces.LocalRemote, error) {
	return m.remotes(ctx)
}

func (m *gitMock) HeadBranch(ctx context.Context, repoPath string) (string, error) {
	if m.headBranch == nil {
		return "main", nil
	}
	return m.headBranch(ctx, repoPath)
}

func (m *gitMock) LocalTags(ctx context.Context, repoPath string) ([]string, error) {
	return m.localTags(ctx, repoPath)
}

func (m *gitMock) PushTag(ctx context.Context, repoPath, remoteName, tag string) error {
	return m.pushTag(ctx, repoPath, remoteName, tag)
}

type uiMock struct {
	interfaces.UserPrompt
	pick     func(ctx context.Context, title string, items []interfaces.PickItem) (interfaces.PickItem, bool, error)
	input    func(ctx context.Context, title string, suggestions []interfaces.PickItem) (string, bool, error)
	pickFile func(ctx context.Context, title string) (string, bool, error)
	infos    []string
	errors   []string
}

func (m *uiMock) Pick(ctx context.Context, title string, items []interfaces.PickItem) (interfaces.PickItem, bool, error) {
	return m.pick(ctx, title, items)
}

func (m *uiMock) Input(ctx context.Context, title string, suggestions []interfaces.PickItem) (string, bool, error) {
	return m.input(ctx, title, suggestions)
}

func (m *uiMock) PickFile(ctx context.Context, title string) (string, bool, error) {
	return m.pickFile(ctx, title)
}

func (m *uiMock) Info(message string)  { m.infos = append(m.infos, message) }
func (m *uiMock) Error(message string) { m.errors = append(m.errors, message) }

type viewMock struct {
	posted []model.Message
}

func (v *viewMock) Post(msg model.Message) error {
	v.posted = append(v.posted, msg)
	return nil
}

func remoteListOf(t *testing.T, locals ...interfaces.LocalRemote) *usecase.RemoteList {
	t.Helper()

	list := usecase.NewRemoteList(&gitMock{
		remotes: func(ctx context.Context) ([]interfaces.LocalRemote, error) {
			return locals, nil
		},
	})
	gt.NoError(t, list.Update(context.Background()))
	return list
}

func oneRemote(t *testing.T) *usecase.RemoteList {
	return remoteListOf(t, interfaces.LocalRemote{
		RepoPath: "/work/app", Name: "origin", FetchURL: "git@github.com:octo/app.git",
	})
}

func TestController_Open(t *testing.T) {
	ctx := context.Background()

	t.Run("no remotes aborts with a notice", func(t *testing.T) {
		ui := &uiMock{}
		ctrl := editor.New(&githubMock{}, &gitMock{}, ui, remoteListOf(t))

		gt.NoError(t, ctrl.Open(ctx, nil))

		gt.Equal(t, ctrl.Phase(), editor.PhaseIdle)
		gt.Equal(t, ui.infos, []string{"Release creation cancelled."})
	})

	t.Run("one remote starts the session and posts the snapshot", func(t *testing.T) {
		view := &viewMock{}
		ctrl := editor.New(&githubMock{}, &gitMock{}, &uiMock{}, oneRemote(t))
		ctrl.AttachView(view)

		gt.NoError(t, ctrl.Open(ctx, nil))

		gt.Equal(t, ctrl.Phase(), editor.PhaseActive)
		gt.Equal(t, ctrl.Draft().Target, model.TargetRef{Ref: "main", Display: "main"})

		gt.Equal(t, len(view.posted), 1)
		snapshot := gt.Cast[model.SetStateMessage](t, view.posted[0])
		gt.Equal(t, snapshot.Target.Ref, "main")
	})

	t.Run("dismissed repository picker returns to idle", func(t *testing.T) {
		ui := &uiMock{
			pick: func(ctx context.Context, title string, items []interfaces.PickItem) (interfaces.PickItem, bool, error) {
				return interfaces.PickItem{}, false, nil
			},
		}
		remotes := remoteListOf(t,
			interfaces.LocalRemote{RepoPath: "/work/app", Name: "origin", FetchURL: "git@github.com:octo/app.git"},
			interfaces.LocalRemote{RepoPath: "/work/lib", Name: "origin", FetchURL: "git@github.com:octo/lib.git"},
		)
		ctrl := editor.New(&githubMock{}, &gitMock{}, ui, remotes)

		gt.NoError(t, ctrl.Open(ctx, nil))
		gt.Equal(t, ctrl.Phase(), editor.PhaseIdle)
	})

	t.Run("editing seeds the draft from the base release", func(t *testing.T) {
		base := &model.Release{
			ID:     42,
			Tag:    "v1.0.0",
			Title:  "v1.0.0",
			Remote: model.RemoteRef{Owner: "octo", Name: "app"},
			Assets: []model.ReleaseAsset{{ID: 7, Name: "app.tar.gz"}},
		}

		ctrl := editor.New(&githubMock{}, &gitMock{}, &uiMock{}, oneRemote(t))
		gt.NoError(t, ctrl.Open(ctx, base))

		draft := ctrl.Draft()
		gt.Equal(t, draft.Tag, model.TagRef{Name: "v1.0.0", Existing: true})
		gt.Equal(t, draft.Assets.Current, []model.DraftAsset{{ID: 7, Name: "app.tar.gz"}})
	})
}

func TestController_SaveState(t *testing.T) {
	ctx := context.Background()

	t.Run("last save wins wholesale", func(t *testing.T) {
		ctrl := editor.New(&githubMock{}, &gitMock{}, &uiMock{}, oneRemote(t))
		gt.NoError(t, ctrl.Open(ctx, nil))

		state := model.DraftState{Title: "v2.0.0", Desc: "big release"}
		gt.NoError(t, ctrl.HandleMessage(ctx, &model.SaveStateMessage{DraftState: state}))

		draft := ctrl.Draft()
		gt.Equal(t, draft.Title, "v2.0.0")
		gt.Equal(t, draft.Desc, "big release")
		// The seeded target was part of the replaced snapshot
		gt.Equal(t, draft.Target, model.TargetRef{})
	})

	t.Run("messages outside an active session are dropped", func(t *testing.T) {
		ctrl := editor.New(&githubMock{}, &gitMock{}, &uiMock{}, oneRemote(t))

		state := model.DraftState{Title: "stale"}
		gt.NoError(t, ctrl.HandleMessage(ctx, &model.SaveStateMessage{DraftState: state}))

		gt.Equal(t, ctrl.Draft().Title, "")
	})
}

func TestController_Start(t *testing.T) {
	ctx := context.Background()

	ctrl := editor.New(&githubMock{}, &gitMock{}, &uiMock{}, oneRemote(t))
	gt.NoError(t, ctrl.Open(ctx, nil))

	// A view restart: new surface attaches and asks for the snapshot
	view := &viewMock{}
	ctrl.AttachView(view)
	gt.NoError(t, ctrl.HandleMessage(ctx, &model.StartMessage{}))

	gt.Equal(t, len(view.posted), 1)
	snapshot := gt.Cast[model.SetStateMessage](t, view.posted[0])
	gt.Equal(t, snapshot.Target.Ref, "main")
}

func TestController_SelectTag(t *testing.T) {
	ctx := context.Background()

	newCtrl := func(ui *uiMock, git *gitMock) (*editor.Controller, *viewMock) {
		github := &githubMock{
			listTags: func(ctx context.Context, owner, repo string) ([]string, error) {
				return []string{"v1.0.0", "v1.1.0"}, nil
			},
		}
		ctrl := editor.New(github, git, ui, oneRemote(t))
		gt.NoError(t, ctrl.Open(ctx, nil))

		view := &viewMock{}
		ctrl.AttachView(view)
		return ctrl, view
	}

	t.Run("choosing a known tag marks it existing", func(t *testing.T) {
		ui := &uiMock{
			input: func(ctx context.Context, title string, suggestions []interfaces.PickItem) (string, bool, error) {
				return "v1.1.0", true, nil
			},
		}
		ctrl, view := newCtrl(ui, &gitMock{})

		gt.NoError(t, ctrl.HandleMessage(ctx, &model.SelectTagMessage{}))

		gt.Equal(t, ctrl.Draft().Tag, model.TagRef{Name: "v1.1.0", Existing: true})

		patch := gt.Cast[model.SetStateMessage](t, view.posted[0])
		gt.Equal(t, *patch.Tag, model.TagRef{Name: "v1.1.0", Existing: true})
		gt.Nil(t, patch.Title)
	})

	t.Run("typing a new tag leaves it non-existing", func(t *testing.T) {
		ui := &uiMock{
			input: func(ctx context.Context, title string, suggestions []interfaces.PickItem) (string, bool, error) {
				return "v9.9.9", true, nil
			},
		}
		ctrl, _ := newCtrl(ui, &gitMock{})

		gt.NoError(t, ctrl.HandleMessage(ctx, &model.SelectTagMessage{}))
		gt.Equal(t, ctrl.Draft().Tag, model.TagRef{Name: "v9.9.9", Existing: false})
	})

	t.Run("pushed local tag counts as existing", func(t *testing.T) {
		var pushed string
		git := &gitMock{
			localTags: func(ctx context.Context, repoPath string) ([]string, error) {
				return []string{"v2.0.0"}, nil
			},
			pushTag: func(ctx context.Context, repoPath, remoteName, tag string) error {
				pushed = tag
				return nil
			},
		}
		ui := &uiMock{
			input: func(ctx context.Context, title string, suggestions []interfaces.PickItem) (string, bool, error) {
				// The local tag entry is always offered first
				return suggestions[0].Value, true, nil
			},
			pick: func(ctx context.Context, title string, items []interfaces.PickItem) (interfaces.PickItem, bool, error) {
				return items[0], true, nil
			},
		}
		ctrl, _ := newCtrl(ui, git)

		gt.NoError(t, ctrl.HandleMessage(ctx, &model.SelectTagMessage{}))

		gt.Equal(t, pushed, "v2.0.0")
		gt.Equal(t, ctrl.Draft().Tag, model.TagRef{Name: "v2.0.0", Existing: true})
	})

	t.Run("failed push falls back to an empty tag", func(t *testing.T) {
		git := &gitMock{
			localTags: func(ctx context.Context, repoPath string) ([]string, error) {
				return []string{"v2.0.0"}, nil
			},
			pushTag: func(ctx context.Context, repoPath, remoteName, tag string) error {
				return goerr.New("remote rejected")
			},
		}
		ui := &uiMock{
			input: func(ctx context.Context, title string, suggestions []interfaces.PickItem) (string, bool, error) {
				return suggestions[0].Value, true, nil
			},
			pick: func(ctx context.Context, title string, items []interfaces.PickItem) (interfaces.PickItem, bool, error) {
				return items[0], true, nil
			},
		}
		ctrl, _ := newCtrl(ui, git)

		gt.NoError(t, ctrl.HandleMessage(ctx, &model.SelectTagMessage{}))

		gt.Equal(t, ctrl.Draft().Tag, model.TagRef{})
		gt.Equal(t, len(ui.errors), 1)
	})
}

func TestController_SelectTarget(t *testing.T) {
	ctx := context.Background()

	github := &githubMock{
		listBranches: func(ctx context.Context, owner, repo string) ([]string, error) {
			return []string{"main", "develop"}, nil
		},
		listCommits: func(ctx context.Context, owner, repo string) ([]model.Commit, error) {
			return []model.Commit{{SHA: "0123456789abcdef", Message: "fix crash"}}, nil
		},
	}

	t.Run("picking a commit stores sha and short display", func(t *testing.T) {
		ui := &uiMock{
			pick: func(ctx context.Context, title string, items []interfaces.PickItem) (interfaces.PickItem, bool, error) {
				return items[len(items)-1], true, nil
			},
		}
		ctrl := editor.New(github, &gitMock{}, ui, oneRemote(t))
		gt.NoError(t, ctrl.Open(ctx, nil))

		gt.NoError(t, ctrl.HandleMessage(ctx, &model.SelectTargetMessage{}))

		gt.Equal(t, ctrl.Draft().Target, model.TargetRef{Ref: "0123456789abcdef", Display: "01234567"})
	})

	t.Run("dismissing the picker clears the target", func(t *testing.T) {
		ui := &uiMock{
			pick: func(ctx context.Context, title string, items []interfaces.PickItem) (interfaces.PickItem, bool, error) {
				return interfaces.PickItem{}, false, nil
			},
		}
		ctrl := editor.New(github, &gitMock{}, ui, oneRemote(t))
		gt.NoError(t, ctrl.Open(ctx, nil))

		gt.NoError(t, ctrl.HandleMessage(ctx, &model.SelectTargetMessage{}))
		gt.Equal(t, ctrl.Draft().Target, model.TargetRef{})
	})
}

func TestController_GenerateNotes(t *testing.T) {
	ctx := context.Background()

	github := &githubMock{
		generateReleaseNotes: func(ctx context.Context, owner, repo, tag, target string) (string, string, error) {
			gt.Equal(t, tag, "v1.0.0")
			gt.Equal(t, target, "main")
			return "v1.0.0", "## What's Changed", nil
		},
	}

	ctrl := editor.New(github, &gitMock{}, &uiMock{}, oneRemote(t))
	gt.NoError(t, ctrl.Open(ctx, nil))

	view := &viewMock{}
	ctrl.AttachView(view)

	gt.NoError(t, ctrl.HandleMessage(ctx, &model.GenerateNotesMessage{Tag: "v1.0.0", Target: "main"}))

	draft := ctrl.Draft()
	gt.Equal(t, draft.Title, "v1.0.0")
	gt.Equal(t, draft.Desc, "## What's Changed")

	patch := gt.Cast[model.SetStateMessage](t, view.posted[0])
	gt.Equal(t, *patch.Title, "v1.0.0")
	gt.Equal(t, *patch.Desc, "## What's Changed")
	gt.Nil(t, patch.Assets)
}

func TestController_RequestAsset(t *testing.T) {
	ctx := context.Background()

	ui := &uiMock{
		pickFile: func(ctx context.Context, title string) (string, bool, error) {
			return "/tmp/build/app.tar.gz", true, nil
		},
	}

	ctrl := editor.New(&githubMock{}, &gitMock{}, ui, oneRemote(t))
	gt.NoError(t, ctrl.Open(ctx, nil))

	view := &viewMock{}
	ctrl.AttachView(view)

	gt.NoError(t, ctrl.HandleMessage(ctx, &model.RequestAssetMessage{}))

	added := gt.Cast[model.AddAssetMessage](t, view.posted[0])
	gt.Equal(t, added.Asset, model.DraftAsset{New: true, Name: "app.tar.gz", Path: "/tmp/build/app.tar.gz"})
}

func TestController_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("new release uploads each new asset once", func(t *testing.T) {
		var created model.ReleaseParams
		var uploads []string

		github := &githubMock{
			createRelease: func(ctx context.Context, owner, repo string, params model.ReleaseParams) (*model.Release, error) {
				created = params
				return &model.Release{ID: 99, Tag: params.Tag}, nil
			},
			uploadReleaseAsset: func(ctx context.Context, owner, repo string, releaseID int64, name, path string) error {
				gt.Equal(t, releaseID, int64(99))
				uploads = append(uploads, name)
				return nil
			},
		}

		ctrl := editor.New(github, &gitMock{}, &uiMock{}, oneRemote(t))
		gt.NoError(t, ctrl.Open(ctx, nil))

		view := &viewMock{}
		ctrl.AttachView(view)

		state := model.DraftState{
			Tag:    model.TagRef{Name: "v1.0.0"},
			Target: model.TargetRef{Ref: "main", Display: "main"},
			Title:  "v1.0.0",
			Assets: model.AssetSet{Current: []model.DraftAsset{
				{New: true, Name: "app.tar.gz", Path: "/tmp/app.tar.gz"},
			}},
		}
		gt.NoError(t, ctrl.HandleMessage(ctx, &model.PublishReleaseMessage{DraftState: state}))

		gt.Equal(t, created.Tag, "v1.0.0")
		gt.Equal(t, created.Target, "main")
		gt.Equal(t, uploads, []string{"app.tar.gz"})

		// Session ends and the view is reset to an empty draft
		gt.Equal(t, ctrl.Phase(), editor.PhaseIdle)
		reset := gt.Cast[model.SetStateMessage](t, view.posted[0])
		gt.Equal(t, *reset.Title, "")
	})

	t.Run("editing reconciles deletes before renames before uploads", func(t *testing.T) {
		var calls []string

		github := &githubMock{
			updateRelease: func(ctx context.Context, owner, repo string, releaseID int64, params model.ReleaseParams) (*model.Release, error) {
				gt.Equal(t, releaseID, int64(42))
				return &model.Release{ID: 42}, nil
			},
			deleteReleaseAsset: func(ctx context.Context, owner, repo string, assetID int64) error {
				calls = append(calls, "delete")
				return nil
			},
			renameReleaseAsset: func(ctx context.Context, owner, repo string, assetID int64, newName string) error {
				calls = append(calls, "rename:"+newName)
				return nil
			},
			uploadReleaseAsset: func(ctx context.Context, owner, repo string, releaseID int64, name, path string) error {
				calls = append(calls, "upload:"+name)
				return nil
			},
		}

		base := &model.Release{
			ID:     42,
			Tag:    "v1.0.0",
			Remote: model.RemoteRef{Owner: "octo", Name: "app"},
			Assets: []model.ReleaseAsset{
				{ID: 1, Name: "old.bin"},
				{ID: 2, Name: "keep.bin"},
			},
		}

		ctrl := editor.New(github, &gitMock{}, &uiMock{}, oneRemote(t))
		gt.NoError(t, ctrl.Open(ctx, base))

		// The view removed old.bin, renamed keep.bin, and added a new file
		state := ctrl.Draft()
		gt.True(t, state.Assets.Remove("old.bin"))
		gt.True(t, state.Assets.Rename("keep.bin", "kept.bin"))
		gt.True(t, state.Assets.Append(model.DraftAsset{New: true, Name: "new.bin", Path: "/tmp/new.bin"}))

		gt.NoError(t, ctrl.HandleMessage(ctx, &model.PublishReleaseMessage{DraftState: state}))

		gt.Equal(t, calls, []string{"delete", "rename:kept.bin", "upload:new.bin"})
	})

	t.Run("removing a renamed asset issues only the delete", func(t *testing.T) {
		var calls []string

		github := &githubMock{
			updateRelease: func(ctx context.Context, owner, repo string, releaseID int64, params model.ReleaseParams) (*model.Release, error) {
				return &model.Release{ID: 42}, nil
			},
			deleteReleaseAsset: func(ctx context.Context, owner, repo string, assetID int64) error {
				calls = append(calls, "delete")
				return nil
			},
			renameReleaseAsset: func(ctx context.Context, owner, repo string, assetID int64, newName string) error {
				calls = append(calls, "rename")
				return nil
			},
		}

		base := &model.Release{
			ID:     42,
			Remote: model.RemoteRef{Owner: "octo", Name: "app"},
			Assets: []model.ReleaseAsset{{ID: 1, Name: "old.bin"}},
		}

		ctrl := editor.New(github, &gitMock{}, &uiMock{}, oneRemote(t))
		gt.NoError(t, ctrl.Open(ctx, base))

		state := ctrl.Draft()
		gt.True(t, state.Assets.Rename("old.bin", "renamed.bin"))
		gt.True(t, state.Assets.Remove("renamed.bin"))

		gt.NoError(t, ctrl.HandleMessage(ctx, &model.PublishReleaseMessage{DraftState: state}))

		gt.Equal(t, calls, []string{"delete"})
	})

	t.Run("failed publish keeps the session and draft", func(t *testing.T) {
		github := &githubMock{
			createRelease: func(ctx context.Context, owner, repo string, params model.ReleaseParams) (*model.Release, error) {
				return nil, goerr.New("validation failed")
			},
		}

		ui := &uiMock{}
		ctrl := editor.New(github, &gitMock{}, ui, oneRemote(t))
		gt.NoError(t, ctrl.Open(ctx, nil))

		state := model.DraftState{Tag: model.TagRef{Name: "v1.0.0"}, Title: "v1.0.0"}
		gt.NoError(t, ctrl.HandleMessage(ctx, &model.PublishReleaseMessage{DraftState: state}))

		gt.Equal(t, ctrl.Phase(), editor.PhaseActive)
		gt.Equal(t, ctrl.Draft().Title, "v1.0.0")
		gt.Equal(t, len(ui.errors), 1)
	})

	t.Run("failed asset operations are reported individually", func(t *testing.T) {
		github := &githubMock{
			createRelease: func(ctx context.Context, owner, repo string, params model.ReleaseParams) (*model.Release, error) {
				return &model.Release{ID: 7}, nil
			},
			uploadReleaseAsset: func(ctx context.Context, owner, repo string, releaseID int64, name, path string) error {
				return goerr.New("upload failed")
			},
		}

		ui := &uiMock{}
		ctrl := editor.New(github, &gitMock{}, ui, oneRemote(t))
		gt.NoError(t, ctrl.Open(ctx, nil))

		state := model.DraftState{
			Tag: model.TagRef{Name: "v1.0.0"},
			Assets: model.AssetSet{Current: []model.DraftAsset{
				{New: true, Name: "a.bin", Path: "/tmp/a.bin"},
				{New: true, Name: "b.bin", Path: "/tmp/b.bin"},
			}},
		}
		gt.NoError(t, ctrl.HandleMessage(ctx, &model.PublishReleaseMessage{DraftState: state}))

		// Both uploads were attempted and reported; the release stands
		gt.Equal(t, len(ui.errors), 2)
		gt.Equal(t, ctrl.Phase(), editor.PhaseIdle)
	})
}

func TestController_Cancel(t *testing.T) {
	ctx := context.Background()

	ctrl := editor.New(&githubMock{}, &gitMock{}, &uiMock{}, oneRemote(t))
	gt.NoError(t, ctrl.Open(ctx, nil))

	gt.NoError(t, ctrl.HandleMessage(ctx, &model.CancelMessage{}))

	gt.Equal(t, ctrl.Phase(), editor.PhaseIdle)
	gt.Equal(t, ctrl.Draft(), model.DraftState{})
}

func TestController_DetachView(t *testing.T) {
	ctx := context.Background()

	ctrl := editor.New(&githubMock{}, &gitMock{}, &uiMock{}, oneRemote(t))

	first := &viewMock{}
	second := &viewMock{}

	ctrl.AttachView(first)
	ctrl.AttachView(second)

	// The replaced connection's teardown must not detach the newcomer
	ctrl.DetachView(first)

	gt.NoError(t, ctrl.Open(ctx, nil))
	gt.Equal(t, len(second.posted), 1)
	gt.Equal(t, len(first.posted), 0)
}

func TestController_HandleRaw(t *testing.T) {
	ctx := context.Background()

	ctrl := editor.New(&githubMock{}, &gitMock{}, &uiMock{}, oneRemote(t))
	gt.NoError(t, ctrl.Open(ctx, nil))

	raw := []byte(`{"type": "save-state", "title": "v3.0.0", "tag": {"name": "", "existing": false},
		"target": {"ref": "", "display": ""}, "desc": "", "draft": false, "prerelease": false,
		"makeLatest": false, "assets": {"current": [], "deleted": [], "renamed": []}}`)

	gt.NoError(t, ctrl.HandleRaw(ctx, raw))
	gt.Equal(t, ctrl.Draft().Title, "v3.0.0")

	gt.Error(t, ctrl.HandleRaw(ctx, []byte(`not json`)))
}
