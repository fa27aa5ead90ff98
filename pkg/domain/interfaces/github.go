package interfaces

import (
	"context"

	"github.com/relpanel/relpanel/pkg/domain/model"
	"github.com/relpanel/relpanel/pkg/utils/pagination"
)

// GitHubClient defines the GitHub API operations used by the
// controllers. Implementations live in pkg/infra/github.
type GitHubClient interface {
	// ListReleases returns one page of releases plus the pagination
	// cursors derived from the response link header
	ListReleases(ctx context.Context, owner, repo string, page int) ([]model.Release, pagination.Cursors, error)

	// GetLatestRelease returns the release GitHub marks as latest, or
	// nil when the repository has none
	GetLatestRelease(ctx context.Context, owner, repo string) (*model.Release, error)

	// CreateRelease creates a release and returns the created snapshot
	CreateRelease(ctx context.Context, owner, repo string, params model.ReleaseParams) (*model.Release, error)

	// UpdateRelease updates an existing release
	UpdateRelease(ctx context.Context, owner, repo string, releaseID int64, params model.ReleaseParams) (*model.Release, error)

	// DeleteRelease deletes a release
	DeleteRelease(ctx context.Context, owner, repo string, releaseID int64) error

	// UploadReleaseAsset uploads the file at path as a release asset
	UploadReleaseAsset(ctx context.Context, owner, repo string, releaseID int64, name, path string) error

	// DeleteReleaseAsset deletes a release asset
	DeleteReleaseAsset(ctx context.Context, owner, repo string, assetID int64) error

	// RenameReleaseAsset changes a release asset's name
	RenameReleaseAsset(ctx context.Context, owner, repo string, assetID int64, newName string) error

	// ListTags lists the repository's tag names
	ListTags(ctx context.Context, owner, repo string) ([]string, error)

	// ListBranches lists the repository's branch names
	ListBranches(ctx context.Context, owner, repo string) ([]string, error)

	// ListCommits lists recent commits of the default branch
	ListCommits(ctx context.Context, owner, repo string) ([]model.Commit, error)

	// GenerateReleaseNotes asks GitHub to generate notes for tag/target
	GenerateReleaseNotes(ctx context.Context, owner, repo, tag, target string) (title, body string, err error)
}
