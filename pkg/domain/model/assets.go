package model

// DraftAsset is an asset staged in a draft. New assets carry the local
// file path to upload from; pre-existing assets carry their server ID.
type DraftAsset struct {
	New  bool   `json:"new"`
	Name string `json:"name"`
	ID   int64  `json:"id,omitempty"`
	Path string `json:"path,omitempty"`
}

// DeletedAsset records a pre-existing asset removed from the draft
type DeletedAsset struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// RenamedAsset records a pre-existing asset whose name changed.
// OldName is always the original server-side name so the diff stays
// valid across repeated renames.
type RenamedAsset struct {
	ID      int64  `json:"id"`
	OldName string `json:"oldName"`
	NewName string `json:"newName"`
}

// AssetSet is the working asset ledger of a draft: the current list
// plus the delete and rename diffs against the base release. Deleted
// and Renamed stay empty when authoring a brand-new release.
type AssetSet struct {
	Current []DraftAsset   `json:"current"`
	Deleted []DeletedAsset `json:"deleted"`
	Renamed []RenamedAsset `json:"renamed"`
}

// Append adds an asset to the working set. It reports false and leaves
// the set unchanged when the name collides with a current asset.
func (s *AssetSet) Append(asset DraftAsset) bool {
	if s.indexOf(asset.Name) >= 0 {
		return false
	}

	s.Current = append(s.Current, asset)
	return true
}

// Remove drops the named asset from the working set. A pre-existing
// asset is recorded in Deleted and any pending rename for it is
// retracted, since deletion supersedes the rename.
func (s *AssetSet) Remove(name string) bool {
	i := s.indexOf(name)
	if i < 0 {
		return false
	}

	asset := s.Current[i]
	s.Current = append(s.Current[:i], s.Current[i+1:]...)

	if asset.New {
		return true
	}

	s.Deleted = append(s.Deleted, DeletedAsset{ID: asset.ID, Name: asset.Name})

	for j, renamed := range s.Renamed {
		if renamed.ID == asset.ID {
			s.Renamed = append(s.Renamed[:j], s.Renamed[j+1:]...)
			break
		}
	}

	return true
}

// Rename changes an asset's name in place. It reports false when the
// asset is unknown or the new name collides with another asset. For a
// pre-existing asset a single rename entry is kept per ID, preserving
// the original server-side name as OldName; renaming to the current
// name is a no-op, and renaming back to the original name drops the
// entry so no remote rename is issued.
func (s *AssetSet) Rename(name, newName string) bool {
	i := s.indexOf(name)
	if i < 0 {
		return false
	}
	if name == newName {
		return true
	}
	if s.indexOf(newName) >= 0 {
		return false
	}

	asset := &s.Current[i]

	if !asset.New {
		updated := false
		for j := range s.Renamed {
			if s.Renamed[j].ID == asset.ID {
				if s.Renamed[j].OldName == newName {
					s.Renamed = append(s.Renamed[:j], s.Renamed[j+1:]...)
				} else {
					s.Renamed[j].NewName = newName
				}
				updated = true
				break
			}
		}
		if !updated {
			s.Renamed = append(s.Renamed, RenamedAsset{
				ID:      asset.ID,
				OldName: asset.Name,
				NewName: newName,
			})
		}
	}

	asset.Name = newName
	return true
}

// NewAssets returns the assets still pending upload
func (s AssetSet) NewAssets() []DraftAsset {
	var pending []DraftAsset
	for _, asset := range s.Current {
		if asset.New {
			pending = append(pending, asset)
		}
	}
	return pending
}

// Clone returns a deep copy of the asset set
func (s AssetSet) Clone() AssetSet {
	out := AssetSet{}
	if s.Current != nil {
		out.Current = append([]DraftAsset(nil), s.Current...)
	}
	if s.Deleted != nil {
		out.Deleted = append([]DeletedAsset(nil), s.Deleted...)
	}
	if s.Renamed != nil {
		out.Renamed = append([]RenamedAsset(nil), s.Renamed...)
	}
	return out
}

func (s AssetSet) indexOf(name string) int {
	for i, asset := range s.Current {
		if asset.Name == name {
			return i
		}
	}
	return -1
}
