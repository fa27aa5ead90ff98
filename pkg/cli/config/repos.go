package config

import "github.com/urfave/cli/v3"

// Repos holds the local repositories whose remotes are scanned
type Repos struct {
	Paths []string
}

// Flags returns CLI flags for repository configuration
func (c *Repos) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:        "repo",
			Usage:       "Path to a local git repository (repeatable)",
			Value:       []string{"."},
			Destination: &c.Paths,
			Sources:     cli.EnvVars("RELPANEL_REPOS"),
		},
	}
}
