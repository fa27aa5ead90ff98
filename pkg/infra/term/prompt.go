package term

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/relpanel/relpanel/pkg/domain/interfaces"
)

var (
	titleColor  = color.New(color.FgCyan, color.Bold)
	noticeColor = color.New(color.FgGreen)
	errorColor  = color.New(color.FgRed, color.Bold)
)

// Prompt is a line-oriented terminal implementation of UserPrompt.
// Selection prompts print a numbered list and read an index; an empty
// line dismisses the prompt.
type Prompt struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a Prompt reading from stdin and writing to stdout
func New() *Prompt {
	return &Prompt{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
	}
}

// NewWithIO creates a Prompt over explicit streams, used by tests
func NewWithIO(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{
		in:  bufio.NewReader(in),
		out: out,
	}
}

func (p *Prompt) Pick(ctx context.Context, title string, items []interfaces.PickItem) (interfaces.PickItem, bool, error) {
	if len(items) == 0 {
		return interfaces.PickItem{}, false, nil
	}

	titleColor.Fprintln(p.out, title)
	for i, item := range items {
		line := fmt.Sprintf("  %d) %s", i+1, item.Label)
		if item.Detail != "" {
			line += "  " + item.Detail
		}
		fmt.Fprintln(p.out, line)
	}

	line, err := p.readLine("> ")
	if err != nil {
		return interfaces.PickItem{}, false, err
	}
	if line == "" {
		return interfaces.PickItem{}, false, nil
	}

	index, err := strconv.Atoi(line)
	if err != nil || index < 1 || index > len(items) {
		return interfaces.PickItem{}, false, nil
	}

	return items[index-1], true, nil
}

func (p *Prompt) Input(ctx context.Context, title string, suggestions []interfaces.PickItem) (string, bool, error) {
	titleColor.Fprintln(p.out, title)
	for _, item := range suggestions {
		fmt.Fprintf(p.out, "  - %s\n", item.Label)
	}

	line, err := p.readLine("> ")
	if err != nil {
		return "", false, err
	}
	if line == "" {
		return "", false, nil
	}

	return line, true, nil
}

func (p *Prompt) PickFile(ctx context.Context, title string) (string, bool, error) {
	titleColor.Fprintln(p.out, title)

	line, err := p.readLine("path> ")
	if err != nil {
		return "", false, err
	}
	if line == "" {
		return "", false, nil
	}

	if _, err := os.Stat(line); err != nil {
		p.Error(fmt.Sprintf("File not found: %s", line))
		return "", false, nil
	}

	return line, true, nil
}

func (p *Prompt) Confirm(ctx context.Context, message string) (bool, error) {
	titleColor.Fprintln(p.out, message)

	line, err := p.readLine("[y/N]> ")
	if err != nil {
		return false, err
	}

	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (p *Prompt) OpenExternal(ctx context.Context, url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", url)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", url)
	}
	return cmd.Start()
}

func (p *Prompt) Info(message string) {
	noticeColor.Fprintln(p.out, message)
}

func (p *Prompt) Error(message string) {
	errorColor.Fprintln(p.out, message)
}

// ReadLine reads one trimmed line after printing the given prompt.
// The panel command loop shares the prompt's reader so interactive
// selections and commands consume the same input stream.
func (p *Prompt) ReadLine(prompt string) (string, error) {
	return p.readLine(prompt)
}

func (p *Prompt) readLine(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)

	line, err := p.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}

	return strings.TrimSpace(line), nil
}
