package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// File is the optional TOML configuration file. Values from the file
// only fill fields that flags and environment variables left empty.
type File struct {
	Logger struct {
		Level string `toml:"level"`
		JSON  bool   `toml:"json"`
	} `toml:"logger"`

	GitHub struct {
		Token          string `toml:"token"`
		AppID          int64  `toml:"app_id"`
		InstallationID int64  `toml:"installation_id"`
		PrivateKeyPath string `toml:"private_key"`
	} `toml:"github"`

	Server struct {
		Addr string `toml:"addr"`
	} `toml:"server"`

	Repos []string `toml:"repos"`
}

// LoadFile parses the TOML configuration at path
func LoadFile(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}

	var file File
	if err := toml.Unmarshal(raw, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse config file", goerr.V("path", path))
	}

	return &file, nil
}

// ApplyTo fills unset fields of the given configs from the file
func (f *File) ApplyTo(github *GitHub, server *Server, repos *Repos) {
	if github.Token == "" {
		github.Token = f.GitHub.Token
	}
	if github.AppID == 0 {
		github.AppID = f.GitHub.AppID
	}
	if github.InstallationID == 0 {
		github.InstallationID = f.GitHub.InstallationID
	}
	if github.PrivateKeyPath == "" {
		github.PrivateKeyPath = f.GitHub.PrivateKeyPath
	}

	if f.Server.Addr != "" {
		server.Addr = f.Server.Addr
	}

	if len(f.Repos) > 0 {
		repos.Paths = f.Repos
	}
}
