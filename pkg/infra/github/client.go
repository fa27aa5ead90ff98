package github

import (
	"context"
	"net/http"
	"os"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/relpanel/relpanel/pkg/domain/interfaces"
	"github.com/relpanel/relpanel/pkg/domain/model"
	"github.com/relpanel/relpanel/pkg/utils/pagination"
)

// releasesPerPage keeps release pages small enough for a tree listing
const releasesPerPage = 10

type client struct {
	githubClient *github.Client
}

// NewClient creates a GitHub client authenticated with a personal
// access token
func NewClient(token string) interfaces.GitHubClient {
	return &client{
		githubClient: github.NewClient(nil).WithAuthToken(token),
	}
}

// NewAppClient creates a GitHub client with App installation
// authentication
func NewAppClient(appID, installationID int64, privateKey []byte) (interfaces.GitHubClient, error) {
	itr, err := ghinstallation.New(http.DefaultTransport, appID, installationID, privateKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub App transport")
	}

	return &client{
		githubClient: github.NewClient(&http.Client{Transport: itr}),
	}, nil
}

// NewClientWithHTTP creates a client on top of a caller-supplied HTTP
// client and base URL. Used by tests to point at a stub server.
func NewClientWithHTTP(httpClient *http.Client, baseURL string) (interfaces.GitHubClient, error) {
	ghc, err := github.NewClient(httpClient).WithEnterpriseURLs(baseURL, baseURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub client", goerr.V("base_url", baseURL))
	}
	return &client{githubClient: ghc}, nil
}

func (c *client) ListReleases(ctx context.Context, owner, repo string, page int) ([]model.Release, pagination.Cursors, error) {
	if page < 1 {
		page = 1
	}

	items, resp, err := c.githubClient.Repositories.ListReleases(ctx, owner, repo, &github.ListOptions{
		Page:    page,
		PerPage: releasesPerPage,
	})
	if err != nil {
		return nil, pagination.Cursors{}, goerr.Wrap(err, "failed to list releases",
			goerr.V("owner", owner), goerr.V("repo", repo), goerr.V("page", page))
	}

	releases := make([]model.Release, 0, len(items))
	for _, item := range items {
		releases = append(releases, translateRelease(item, owner, repo))
	}

	return releases, pagination.Parse(resp.Header.Get("Link")), nil
}

func (c *client) GetLatestRelease(ctx context.Context, owner, repo string) (*model.Release, error) {
	item, resp, err := c.githubClient.Repositories.GetLatestRelease(ctx, owner, repo)
	if err != nil {
		// A repository without a published release answers 404
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get latest release",
			goerr.V("owner", owner), goerr.V("repo", repo))
	}

	release := translateRelease(item, owner, repo)
	return &release, nil
}

func (c *client) CreateRelease(ctx context.Context, owner, repo string, params model.ReleaseParams) (*model.Release, error) {
	item, _, err := c.githubClient.Repositories.CreateRelease(ctx, owner, repo, releaseRequest(params))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create release",
			goerr.V("owner", owner), goerr.V("repo", repo), goerr.V("tag", params.Tag))
	}

	release := translateRelease(item, owner, repo)
	return &release, nil
}

func (c *client) UpdateRelease(ctx context.Context, owner, repo string, releaseID int64, params model.ReleaseParams) (*model.Release, error) {
	item, _, err := c.githubClient.Repositories.EditRelease(ctx, owner, repo, releaseID, releaseRequest(params))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update release",
			goerr.V("owner", owner), goerr.V("repo", repo), goerr.V("release_id", releaseID))
	}

	release := translateRelease(item, owner, repo)
	return &release, nil
}

func (c *client) DeleteRelease(ctx context.Context, owner, repo string, releaseID int64) error {
	if _, err := c.githubClient.Repositories.DeleteRelease(ctx, owner, repo, releaseID); err != nil {
		return goerr.Wrap(err, "failed to delete release",
			goerr.V("owner", owner), goerr.V("repo", repo), goerr.V("release_id", releaseID))
	}
	return nil
}

func (c *client) UploadReleaseAsset(ctx context.Context, owner, repo string, releaseID int64, name, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return goerr.Wrap(err, "failed to open asset file", goerr.V("path", path))
	}
	defer file.Close()

	_, _, err = c.githubClient.Repositories.UploadReleaseAsset(ctx, owner, repo, releaseID, &github.UploadOptions{
		Name: name,
	}, file)
	if err != nil {
		return goerr.Wrap(err, "failed to upload release asset",
			goerr.V("owner", owner), goerr.V("repo", repo),
			goerr.V("release_id", releaseID), goerr.V("name", name))
	}
	return nil
}

func (c *client) DeleteReleaseAsset(ctx context.Context, owner, repo string, assetID int64) error {
	if _, err := c.githubClient.Repositories.DeleteReleaseAsset(ctx, owner, repo, assetID); err != nil {
		return goerr.Wrap(err, "failed to delete release asset",
			goerr.V("owner", owner), goerr.V("repo", repo), goerr.V("asset_id", assetID))
	}
	return nil
}

func (c *client) RenameReleaseAsset(ctx context.Context, owner, repo string, assetID int64, newName string) error {
	_, _, err := c.githubClient.Repositories.EditReleaseAsset(ctx, owner, repo, assetID, &github.ReleaseAsset{
		Name: github.Ptr(newName),
	})
	if err != nil {
		return goerr.Wrap(err, "failed to rename release asset",
			goerr.V("owner", owner), goerr.V("repo", repo),
			goerr.V("asset_id", assetID), goerr.V("new_name", newName))
	}
	return nil
}

func (c *client) ListTags(ctx context.Context, owner, repo string) ([]string, error) {
	items, _, err := c.githubClient.Repositories.ListTags(ctx, owner, repo, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list tags",
			goerr.V("owner", owner), goerr.V("repo", repo))
	}

	tags := make([]string, 0, len(items))
	for _, item := range items {
		tags = append(tags, item.GetName())
	}
	return tags, nil
}

func (c *client) ListBranches(ctx context.Context, owner, repo string) ([]string, error) {
	items, _, err := c.githubClient.Repositories.ListBranches(ctx, owner, repo, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list branches",
			goerr.V("owner", owner), goerr.V("repo", repo))
	}

	branches := make([]string, 0, len(items))
	for _, item := range items {
		branches = append(branches, item.GetName())
	}
	return branches, nil
}

func (c *client) ListCommits(ctx context.Context, owner, repo string) ([]model.Commit, error) {
	items, _, err := c.githubClient.Repositories.ListCommits(ctx, owner, repo, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list commits",
			goerr.V("owner", owner), goerr.V("repo", repo))
	}

	commits := make([]model.Commit, 0, len(items))
	for _, item := range items {
		commits = append(commits, model.Commit{
			SHA:     item.GetSHA(),
			Message: item.GetCommit().GetMessage(),
		})
	}
	return commits, nil
}

func (c *client) GenerateReleaseNotes(ctx context.Context, owner, repo, tag, target string) (string, string, error) {
	opts := &github.GenerateNotesOptions{TagName: tag}
	if target != "" {
		opts.TargetCommitish = github.Ptr(target)
	}

	notes, _, err := c.githubClient.Repositories.GenerateReleaseNotes(ctx, owner, repo, opts)
	if err != nil {
		return "", "", goerr.Wrap(err, "failed to generate release notes",
			goerr.V("owner", owner), goerr.V("repo", repo), goerr.V("tag", tag))
	}

	return notes.Name, notes.Body, nil
}

func releaseRequest(params model.ReleaseParams) *github.RepositoryRelease {
	req := &github.RepositoryRelease{
		TagName:    github.Ptr(params.Tag),
		Name:       github.Ptr(params.Title),
		Body:       github.Ptr(params.Desc),
		Draft:      github.Ptr(params.Draft),
		Prerelease: github.Ptr(params.Prerelease),
	}

	if params.Target != "" {
		req.TargetCommitish = github.Ptr(params.Target)
	}
	if params.MakeLatest {
		req.MakeLatest = github.Ptr("true")
	}

	return req
}

func translateRelease(item *github.RepositoryRelease, owner, repo string) model.Release {
	assets := make([]model.ReleaseAsset, 0, len(item.Assets))
	for _, asset := range item.Assets {
		assets = append(assets, model.ReleaseAsset{
			ID:          asset.GetID(),
			Name:        asset.GetName(),
			DownloadURL: asset.GetBrowserDownloadURL(),
		})
	}

	release := model.Release{
		ID:         item.GetID(),
		Tag:        item.GetTagName(),
		Title:      item.GetName(),
		Desc:       item.GetBody(),
		URL:        item.GetHTMLURL(),
		Assets:     assets,
		Draft:      item.GetDraft(),
		Prerelease: item.GetPrerelease(),
		Author:     item.GetAuthor().GetLogin(),
		AuthorIcon: item.GetAuthor().GetAvatarURL(),
		CreatedAt:  item.GetCreatedAt().Time,
		Remote:     model.RemoteRef{Owner: owner, Name: repo},
	}

	if item.PublishedAt != nil {
		published := item.PublishedAt.Time
		release.PublishedAt = &published
	}

	return release
}
