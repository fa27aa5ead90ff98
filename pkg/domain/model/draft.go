package model

// TagRef is the tag chosen for a draft. Existing reports whether the
// tag is already present on the remote; a new tag needs a target ref.
type TagRef struct {
	Name     string `json:"name"`
	Existing bool   `json:"existing"`
}

// TargetRef is the commit-ish a new tag will point at. Display is the
// human-readable form shown in the view (branch name or short hash).
type TargetRef struct {
	Ref     string `json:"ref"`
	Display string `json:"display"`
}

// DraftState is the canonical in-progress release record. It is owned
// by the editor-side controller; the view only proposes replacements.
type DraftState struct {
	Tag        TagRef    `json:"tag"`
	Target     TargetRef `json:"target"`
	Title      string    `json:"title"`
	Desc       string    `json:"desc"`
	Draft      bool      `json:"draft"`
	Prerelease bool      `json:"prerelease"`
	MakeLatest bool      `json:"makeLatest"`
	Assets     AssetSet  `json:"assets"`
}

// SeedDraft builds the initial draft for an authoring session. With a
// base release the draft starts from its fields (edit mode); otherwise
// defaults apply and defaultTarget names the local HEAD branch.
func SeedDraft(base *Release, defaultTarget string) DraftState {
	if base == nil {
		return DraftState{
			Target: TargetRef{Ref: defaultTarget, Display: defaultTarget},
		}
	}

	current := make([]DraftAsset, 0, len(base.Assets))
	for _, asset := range base.Assets {
		current = append(current, DraftAsset{
			ID:   asset.ID,
			Name: asset.Name,
		})
	}

	return DraftState{
		Tag:        TagRef{Name: base.Tag, Existing: base.Tag != ""},
		Target:     TargetRef{Ref: defaultTarget, Display: defaultTarget},
		Title:      base.Title,
		Desc:       base.Desc,
		Draft:      base.Draft,
		Prerelease: base.Prerelease,
		Assets:     AssetSet{Current: current},
	}
}

// StatePatch is a sparse update to a draft. Nil fields are left
// untouched; a non-nil Assets replaces the whole asset triple.
type StatePatch struct {
	Tag        *TagRef    `json:"tag,omitempty"`
	Target     *TargetRef `json:"target,omitempty"`
	Title      *string    `json:"title,omitempty"`
	Desc       *string    `json:"desc,omitempty"`
	Draft      *bool      `json:"draft,omitempty"`
	Prerelease *bool      `json:"prerelease,omitempty"`
	MakeLatest *bool      `json:"makeLatest,omitempty"`
	Assets     *AssetSet  `json:"assets,omitempty"`
}

// Apply merges the patch into the draft. Assets are replaced
// wholesale, never merged element by element.
func (s *DraftState) Apply(patch StatePatch) {
	if patch.Tag != nil {
		s.Tag = *patch.Tag
	}
	if patch.Target != nil {
		s.Target = *patch.Target
	}
	if patch.Title != nil {
		s.Title = *patch.Title
	}
	if patch.Desc != nil {
		s.Desc = *patch.Desc
	}
	if patch.Draft != nil {
		s.Draft = *patch.Draft
	}
	if patch.Prerelease != nil {
		s.Prerelease = *patch.Prerelease
	}
	if patch.MakeLatest != nil {
		s.MakeLatest = *patch.MakeLatest
	}
	if patch.Assets != nil {
		s.Assets = patch.Assets.Clone()
	}
}

// Patch returns the draft as a full patch, used for snapshot replies
func (s DraftState) Patch() StatePatch {
	assets := s.Assets.Clone()
	return StatePatch{
		Tag:        &s.Tag,
		Target:     &s.Target,
		Title:      &s.Title,
		Desc:       &s.Desc,
		Draft:      &s.Draft,
		Prerelease: &s.Prerelease,
		MakeLatest: &s.MakeLatest,
		Assets:     &assets,
	}
}

// Params converts the draft into the request fields for a create or
// update call. An existing tag already points at a commit, so no
// target is sent for it.
func (s DraftState) Params() ReleaseParams {
	target := s.Target.Ref
	if s.Tag.Existing {
		target = ""
	}

	return ReleaseParams{
		Tag:        s.Tag.Name,
		Target:     target,
		Title:      s.Title,
		Desc:       s.Desc,
		Draft:      s.Draft,
		Prerelease: s.Prerelease,
		MakeLatest: s.MakeLatest,
	}
}
