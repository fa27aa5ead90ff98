package config

import "github.com/urfave/cli/v3"

// Server holds the view bridge server configuration
type Server struct {
	Addr string
}

// Flags returns CLI flags for server configuration
func (c *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "View bridge address",
			Value:       "localhost:7764",
			Destination: &c.Addr,
			Sources:     cli.EnvVars("RELPANEL_ADDR"),
		},
	}
}
