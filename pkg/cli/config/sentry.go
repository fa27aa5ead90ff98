package config

import (
	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/relpanel/relpanel/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Sentry holds error reporting configuration
type Sentry struct {
	DSN string
}

// Flags returns CLI flags for Sentry configuration
func (c *Sentry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN for error reporting (disabled when empty)",
			Destination: &c.DSN,
			Sources:     cli.EnvVars("RELPANEL_SENTRY_DSN"),
		},
	}
}

// Configure initializes the Sentry client. With an empty DSN error
// reporting stays disabled and Configure is a no-op.
func (c *Sentry) Configure() error {
	if c.DSN == "" {
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:     c.DSN,
		Release: "relpanel@" + types.Version,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to initialize Sentry")
	}

	return nil
}
