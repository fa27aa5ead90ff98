package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/relpanel/relpanel/pkg/cli/config"
	"github.com/relpanel/relpanel/pkg/controller/commands"
	"github.com/relpanel/relpanel/pkg/controller/editor"
	controller "github.com/relpanel/relpanel/pkg/controller/http"
	"github.com/relpanel/relpanel/pkg/domain/interfaces"
	"github.com/relpanel/relpanel/pkg/domain/model"
	gitinfra "github.com/relpanel/relpanel/pkg/infra/git"
	"github.com/relpanel/relpanel/pkg/infra/term"
	"github.com/relpanel/relpanel/pkg/usecase"
	"github.com/relpanel/relpanel/pkg/utils/msgqueue"
	"github.com/urfave/cli/v3"
)

func cmdPanel() *cli.Command {
	var (
		serverCfg  config.Server
		githubCfg  config.GitHub
		repoCfg    config.Repos
		configPath string
	)

	flags := append(serverCfg.Flags(), githubCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, &cli.StringFlag{
		Name:        "config",
		Usage:       "Path to a TOML configuration file",
		Destination: &configPath,
		Sources:     cli.EnvVars("RELPANEL_CONFIG"),
	})

	return &cli.Command{
		Name:    "panel",
		Aliases: []string{"p"},
		Usage:   "Run the release panel: list releases and serve the authoring view bridge",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if configPath != "" {
				file, err := config.LoadFile(configPath)
				if err != nil {
					return err
				}
				file.ApplyTo(&githubCfg, &serverCfg, &repoCfg)
			}

			githubClient, err := githubCfg.Build()
			if err != nil {
				return err
			}

			gitLocal := gitinfra.New(repoCfg.Paths)
			remotes := usecase.NewRemoteList(gitLocal)
			prompt := term.New()
			lister := usecase.NewLister(githubClient, remotes)

			panel := &panelHost{
				out:    os.Stdout,
				lister: lister,
			}

			// Everything that touches the editor or the rendered list
			// runs on this one queue: view protocol frames, host
			// commands, and renders. The editor controller is
			// unsynchronized on purpose and relies on it.
			queue := msgqueue.New(64)

			refresh := func() {
				err := queue.Post(func(ctx context.Context) error {
					panel.render(ctx)
					return nil
				})
				if err != nil {
					logger.Warn("failed to queue render", slog.Any("error", err))
				}
			}

			editorCtrl := editor.New(githubClient, gitLocal, prompt, remotes,
				editor.WithRefreshHook(refresh),
			)

			disp := newDispatcher(queue)
			commands.New(commands.Deps{
				Remotes: remotes,
				Lister:  lister,
				Editor:  editorCtrl,
				GitHub:  githubClient,
				Git:     gitLocal,
				UI:      prompt,
				Refresh: refresh,
			}).Bind(disp)

			queueCtx, stopQueue := context.WithCancel(ctx)
			defer stopQueue()
			go queue.Run(queueCtx)

			bridge := controller.NewBridge(editorCtrl)
			server, err := controller.NewServer(ctx, bridge, queue, controller.WithAddr(serverCfg.Addr))
			if err != nil {
				return goerr.Wrap(err, "failed to create bridge server")
			}

			// Remotes are re-read once at startup; a host editor would
			// call Update again on every git state notification
			if err := remotes.Update(ctx); err != nil {
				logger.Warn("failed to scan local remotes", slog.Any("error", err))
			}

			refresh()

			go func() {
				logger.Info("view bridge starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("view bridge error", slog.Any("error", err))
				}
			}()

			go panel.commandLoop(ctx, prompt, disp)

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown bridge server gracefully")
			}

			logger.Info("Panel shutdown complete")
			return nil
		},
	}
}

// dispatcher is the host command dispatch table. Handlers are bound
// once at startup from the explicit command list. Every dispatch runs
// on the serial queue and waits for its result, so command handlers
// never race with view protocol frames over the editor state.
type dispatcher struct {
	queue    *msgqueue.Queue
	handlers map[string]interfaces.CommandHandler
}

func newDispatcher(queue *msgqueue.Queue) *dispatcher {
	return &dispatcher{
		queue:    queue,
		handlers: map[string]interfaces.CommandHandler{},
	}
}

func (d *dispatcher) Register(id string, handler interfaces.CommandHandler) {
	d.handlers[id] = handler
}

func (d *dispatcher) Dispatch(ctx context.Context, id string, args ...any) error {
	handler, ok := d.handlers[id]
	if !ok {
		return goerr.New("unknown command", goerr.V("id", id))
	}

	result := make(chan error, 1)
	err := d.queue.Post(func(ctx context.Context) error {
		result <- handler(ctx, args...)
		return nil
	})
	if err != nil {
		return err
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// panelHost renders the release tree to the terminal and keeps the
// last rendered releases addressable by index for release commands.
// Renders happen on the queue goroutine while index lookups come from
// the command loop, hence the mutex.
type panelHost struct {
	out    io.Writer
	lister *usecase.Lister

	mu       sync.Mutex
	releases []*model.Release
}

func (p *panelHost) render(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.releases = p.releases[:0]

	fmt.Fprintln(p.out)
	for _, root := range p.lister.Children(ctx, nil) {
		p.renderNode(ctx, root, "")
	}
	fmt.Fprintln(p.out)
}

func (p *panelHost) renderNode(ctx context.Context, node model.Node, indent string) {
	label := node.Label

	switch node.Kind {
	case model.NodeRelease:
		p.releases = append(p.releases, node.Release)
		label = fmt.Sprintf("[%d] %s", len(p.releases), label)
	case model.NodeMessage:
		if node.Description != "" {
			label += "  (" + node.Description + ")"
		}
	}

	fmt.Fprintln(p.out, indent+label)

	if node.Kind == model.NodeRemote {
		for _, child := range p.lister.Children(ctx, &node) {
			p.renderNode(ctx, child, indent+"  ")
		}
	}
}

// renderDetails prints a release's detail rows, numbering the assets
// so the download command can address them
func (p *panelHost) renderDetails(ctx context.Context, release *model.Release) {
	node := model.Node{Kind: model.NodeRelease, Release: release}

	assetIndex := 0
	for _, child := range p.lister.Children(ctx, &node) {
		label := child.Label
		if child.Kind == model.NodeAsset {
			assetIndex++
			label = fmt.Sprintf("[%d] %s", assetIndex, label)
		}
		fmt.Fprintln(p.out, "  "+label)
	}
}

func (p *panelHost) release(index string) (*model.Release, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	i, err := strconv.Atoi(index)
	if err != nil || i < 1 || i > len(p.releases) {
		return nil, goerr.New("no such release index", goerr.V("index", index))
	}
	return p.releases[i-1], nil
}

func (p *panelHost) asset(releaseIndex, assetIndex string) (*model.ReleaseAsset, error) {
	release, err := p.release(releaseIndex)
	if err != nil {
		return nil, err
	}

	i, err := strconv.Atoi(assetIndex)
	if err != nil || i < 1 || i > len(release.Assets) {
		return nil, goerr.New("no such asset index", goerr.V("index", assetIndex))
	}
	return &release.Assets[i-1], nil
}

// commandLoop reads panel commands from the terminal and dispatches
// them through the registered command table
func (p *panelHost) commandLoop(ctx context.Context, prompt *term.Prompt, disp *dispatcher) {
	logger := ctxlog.From(ctx)

	for {
		line, err := prompt.ReadLine("relpanel> ")
		if err != nil {
			return
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		var cmdErr error
		switch fields[0] {
		case "create":
			cmdErr = disp.Dispatch(ctx, commands.CreateRelease)
		case "refresh":
			cmdErr = disp.Dispatch(ctx, commands.RefreshReleases)
		case "page":
			if len(fields) != 3 {
				prompt.Error("usage: page <owner/name> <number>")
				continue
			}
			page, err := strconv.Atoi(fields[2])
			if err != nil {
				prompt.Error("usage: page <owner/name> <number>")
				continue
			}
			cmdErr = disp.Dispatch(ctx, commands.SetPage, fields[1], page)
		case "show":
			if len(fields) != 2 {
				prompt.Error("usage: show <release index>")
				continue
			}
			release, err := p.release(fields[1])
			if err != nil {
				prompt.Error(err.Error())
				continue
			}
			p.renderDetails(ctx, release)
		case "edit", "delete", "open", "checkout":
			if len(fields) != 2 {
				prompt.Error(fmt.Sprintf("usage: %s <release index>", fields[0]))
				continue
			}
			release, err := p.release(fields[1])
			if err != nil {
				prompt.Error(err.Error())
				continue
			}

			id := map[string]string{
				"edit":     commands.EditRelease,
				"delete":   commands.DeleteRelease,
				"open":     commands.OpenRelease,
				"checkout": commands.CheckoutTag,
			}[fields[0]]
			cmdErr = disp.Dispatch(ctx, id, release)
		case "download":
			if len(fields) != 3 {
				prompt.Error("usage: download <release index> <asset index>")
				continue
			}
			asset, err := p.asset(fields[1], fields[2])
			if err != nil {
				prompt.Error(err.Error())
				continue
			}
			cmdErr = disp.Dispatch(ctx, commands.DownloadAsset, asset)
		case "releases":
			cmdErr = disp.Dispatch(ctx, commands.OpenRepoReleases)
		case "help":
			prompt.Info("commands: create, refresh, page, show, edit, delete, open, checkout, download, releases, help")
		default:
			prompt.Error(fmt.Sprintf("unknown command %q (try help)", fields[0]))
		}

		if cmdErr != nil {
			logger.Warn("command failed", "command", fields[0], "error", cmdErr)
			prompt.Error(cmdErr.Error())
		}
	}
}
