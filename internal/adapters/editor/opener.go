package editor

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Opener implements ports.EditorOpener.
// Markdown goes to $VISUAL/$EDITOR; canvases go to Obsidian.
type Opener struct {
	lookPath func(string) (string, error)
	getenv   func(string) string
	goos     string
}

// NewOpener creates a new editor opener
func NewOpener() *Opener {
	return &Opener{lookPath: exec.LookPath, getenv: os.Getenv, goos: runtime.GOOS}
}

// OpenFile opens a file and waits for the editor to exit
func (o *Opener) OpenFile(path string) error {
	cmd, err := o.Command(path)
	if err != nil {
		return err
	}
	return cmd.Run()
}

// Command returns an exec.Cmd for opening a file.
// It is wired to the terminal so bubbletea's ExecProcess can hand over the screen.
func (o *Opener) Command(path string) (*exec.Cmd, error) {
	if strings.EqualFold(filepath.Ext(path), ".canvas") {
		return o.canvasCommand(path)
	}

	argv := o.findEditor()
	if len(argv) == 0 {
		return nil, fmt.Errorf("no editor found: set $EDITOR environment variable")
	}

	cmd := exec.Command(argv[0], append(argv[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd, nil
}

// findEditor returns the editor command line; $EDITOR may carry flags such as "code -w"
func (o *Opener) findEditor() []string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if fields := strings.Fields(o.getenv(env)); len(fields) > 0 {
			return fields
		}
	}

	for _, editor := range []string{"nvim", "vim", "vi", "nano"} {
		if path, err := o.lookPath(editor); err == nil {
			return []string{path}
		}
	}

	return nil
}

// CanvasURI builds the obsidian:// link that opens a file by absolute path
func CanvasURI(absPath string) string {
	return "obsidian://open?path=" + url.QueryEscape(filepath.ToSlash(absPath))
}

func (o *Opener) canvasCommand(path string) (*exec.Cmd, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	uri := CanvasURI(abs)

	switch o.goos {
	case "darwin":
		return exec.Command("open", uri), nil
	case "linux":
		return exec.Command("xdg-open", uri), nil
	case "windows":
		return exec.Command("cmd", "/c", "start", "", uri), nil
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", o.goos)
	}
}
