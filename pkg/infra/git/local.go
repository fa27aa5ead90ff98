package git

import (
	"context"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/m-mizutani/goerr/v2"
	"github.com/relpanel/relpanel/pkg/domain/interfaces"
)

// Local implements GitLocal over a fixed set of repository paths
type Local struct {
	repoPaths []string
}

// New creates a Local tracking the given repository working trees
func New(repoPaths []string) *Local {
	return &Local{repoPaths: repoPaths}
}

// Remotes enumerates the remotes of every tracked repository.
// Repositories that fail to open are skipped; a missing .git directory
// in one path must not hide the remotes of the others.
func (l *Local) Remotes(ctx context.Context) ([]interfaces.LocalRemote, error) {
	var out []interfaces.LocalRemote

	for _, path := range l.repoPaths {
		repo, err := gogit.PlainOpen(path)
		if err != nil {
			continue
		}

		remotes, err := repo.Remotes()
		if err != nil {
			continue
		}

		for _, remote := range remotes {
			cfg := remote.Config()
			if len(cfg.URLs) == 0 {
				continue
			}

			entry := interfaces.LocalRemote{
				RepoPath: path,
				Name:     cfg.Name,
				FetchURL: cfg.URLs[0],
			}
			if len(cfg.URLs) > 1 {
				entry.PushURL = cfg.URLs[1]
			}

			out = append(out, entry)
		}
	}

	return out, nil
}

func (l *Local) HeadBranch(ctx context.Context, repoPath string) (string, error) {
	repo, err := gogit.PlainOpen(repoPath)
	if err != nil {
		return "", goerr.Wrap(err, "failed to open repository", goerr.V("path", repoPath))
	}

	head, err := repo.Head()
	if err != nil {
		return "", goerr.Wrap(err, "failed to resolve HEAD", goerr.V("path", repoPath))
	}

	if !head.Name().IsBranch() {
		return "", nil
	}

	return head.Name().Short(), nil
}

func (l *Local) LocalTags(ctx context.Context, repoPath string) ([]string, error) {
	repo, err := gogit.PlainOpen(repoPath)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open repository", goerr.V("path", repoPath))
	}

	iter, err := repo.Tags()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list tags", goerr.V("path", repoPath))
	}

	var tags []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		tags = append(tags, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to iterate tags", goerr.V("path", repoPath))
	}

	return tags, nil
}

func (l *Local) PushTag(ctx context.Context, repoPath, remoteName, tag string) error {
	repo, err := gogit.PlainOpen(repoPath)
	if err != nil {
		return goerr.Wrap(err, "failed to open repository", goerr.V("path", repoPath))
	}

	refSpec := config.RefSpec(plumbing.NewTagReferenceName(tag) + ":" + plumbing.NewTagReferenceName(tag))

	err = repo.PushContext(ctx, &gogit.PushOptions{
		RemoteName: remoteName,
		RefSpecs:   []config.RefSpec{refSpec},
	})
	if err != nil && err != gogit.NoErrAlreadyUpToDate {
		return goerr.Wrap(err, "failed to push tag",
			goerr.V("remote", remoteName), goerr.V("tag", tag))
	}

	return nil
}

func (l *Local) CheckoutTag(ctx context.Context, repoPath, remoteName, tag string) error {
	repo, err := gogit.PlainOpen(repoPath)
	if err != nil {
		return goerr.Wrap(err, "failed to open repository", goerr.V("path", repoPath))
	}

	refSpec := config.RefSpec(plumbing.NewTagReferenceName(tag) + ":" + plumbing.NewTagReferenceName(tag))

	err = repo.FetchContext(ctx, &gogit.FetchOptions{
		RemoteName: remoteName,
		RefSpecs:   []config.RefSpec{refSpec},
	})
	if err != nil && err != gogit.NoErrAlreadyUpToDate {
		return goerr.Wrap(err, "failed to fetch tag",
			goerr.V("remote", remoteName), goerr.V("tag", tag))
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(plumbing.NewTagReferenceName(tag)))
	if err != nil {
		return goerr.Wrap(err, "failed to resolve tag", goerr.V("tag", tag))
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return goerr.Wrap(err, "failed to open worktree", goerr.V("path", repoPath))
	}

	if err := worktree.Checkout(&gogit.CheckoutOptions{Hash: *hash}); err != nil {
		return goerr.Wrap(err, "failed to checkout tag", goerr.V("tag", tag))
	}

	return nil
}
