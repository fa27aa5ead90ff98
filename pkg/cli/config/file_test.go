package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/relpanel/relpanel/pkg/cli/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "relpanel.toml")
	gt.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	t.Run("parses all sections", func(t *testing.T) {
		path := writeConfig(t, `
repos = ["/work/app", "/work/lib"]

[github]
token = "ghp_dummy"

[server]
addr = "localhost:9900"
`)

		file := gt.R1(config.LoadFile(path)).NoError(t)
		gt.Equal(t, file.GitHub.Token, "ghp_dummy")
		gt.Equal(t, file.Server.Addr, "localhost:9900")
		gt.Equal(t, file.Repos, []string{"/work/app", "/work/lib"})
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := config.LoadFile("/no/such/relpanel.toml")
		gt.Error(t, err)
	})

	t.Run("invalid TOML is an error", func(t *testing.T) {
		path := writeConfig(t, "[github\ntoken =")
		_, err := config.LoadFile(path)
		gt.Error(t, err)
	})
}

func TestFile_ApplyTo(t *testing.T) {
	path := writeConfig(t, `
repos = ["/work/app"]

[github]
token = "ghp_from_file"

[server]
addr = "localhost:9900"
`)
	file := gt.R1(config.LoadFile(path)).NoError(t)

	t.Run("fills unset fields", func(t *testing.T) {
		var github config.GitHub
		var server config.Server
		var repos config.Repos

		file.ApplyTo(&github, &server, &repos)

		gt.Equal(t, github.Token, "ghp_from_file")
		gt.Equal(t, server.Addr, "localhost:9900")
		gt.Equal(t, repos.Paths, []string{"/work/app"})
	})

	t.Run("flags and environment win over the file", func(t *testing.T) {
		github := config.GitHub{Token: "ghp_from_env"}
		var server config.Server
		var repos config.Repos

		file.ApplyTo(&github, &server, &repos)

		gt.Equal(t, github.Token, "ghp_from_env")
	})
}
