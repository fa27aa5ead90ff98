package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/relpanel/relpanel/pkg/domain/interfaces"
	githubinfra "github.com/relpanel/relpanel/pkg/infra/github"
	"github.com/urfave/cli/v3"
)

// GitHub holds GitHub authentication configuration. Either a personal
// access token or a GitHub App credential set must be supplied.
type GitHub struct {
	Token          string
	AppID          int64
	InstallationID int64
	PrivateKeyPath string
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub personal access token",
			Destination: &c.Token,
			Sources:     cli.EnvVars("RELPANEL_GITHUB_TOKEN", "GITHUB_TOKEN"),
		},
		&cli.Int64Flag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID",
			Destination: &c.AppID,
			Sources:     cli.EnvVars("RELPANEL_GITHUB_APP_ID"),
		},
		&cli.Int64Flag{
			Name:        "github-installation-id",
			Usage:       "GitHub App installation ID",
			Destination: &c.InstallationID,
			Sources:     cli.EnvVars("RELPANEL_GITHUB_INSTALLATION_ID"),
		},
		&cli.StringFlag{
			Name:        "github-private-key",
			Usage:       "Path to the GitHub App private key",
			Destination: &c.PrivateKeyPath,
			Sources:     cli.EnvVars("RELPANEL_GITHUB_PRIVATE_KEY"),
		},
	}
}

// Build creates the API client from the configured credentials. A
// token takes precedence over App credentials.
func (c *GitHub) Build() (interfaces.GitHubClient, error) {
	if c.Token != "" {
		return githubinfra.NewClient(c.Token), nil
	}

	if c.AppID != 0 && c.InstallationID != 0 && c.PrivateKeyPath != "" {
		key, err := os.ReadFile(c.PrivateKeyPath)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read GitHub App private key",
				goerr.V("path", c.PrivateKeyPath))
		}
		return githubinfra.NewAppClient(c.AppID, c.InstallationID, key)
	}

	return nil, goerr.New("GitHub credentials are required: set a token or App credentials")
}
