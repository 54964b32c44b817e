// Package host provides the plain console host: blocking stdin/stdout
// with errors on stderr, suitable for piping scripts through the
// interpreter.
package host

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/atotto/clipboard"

	"github.com/lookbusy1344/tinybasic/config"
	"github.com/lookbusy1344/tinybasic/interp"
)

// Console is a blocking HostIO over stdin/stdout/stderr. GetChar never
// returns InputWaiting: reads block until a byte or end of stream.
type Console struct {
	in  *bufio.Reader
	out *bufio.Writer
	err io.Writer

	commandPrompt string
	inputPrompt   string
	filesRoot     string

	quit bool
}

// NewConsole creates a console host configured from cfg.
func NewConsole(cfg *config.Config) *Console {
	root := cfg.Interpreter.FilesRoot
	if root == "" {
		root = "."
	}
	return &Console{
		in:            bufio.NewReader(os.Stdin),
		out:           bufio.NewWriter(os.Stdout),
		err:           os.Stderr,
		commandPrompt: cfg.Display.CommandPrompt,
		inputPrompt:   cfg.Display.InputPrompt,
		filesRoot:     root,
	}
}

// Quit reports whether BYE was requested.
func (c *Console) Quit() bool { return c.quit }

// Run pumps the engine until it terminates or BYE is requested.
func (c *Console) Run(ip *interp.Interp) {
	for !c.quit {
		if ip.Step() == interp.StepDone {
			break
		}
	}
	c.flush()
}

// GetChar implements interp.HostIO.
func (c *Console) GetChar() (byte, interp.InputStatus) {
	c.flush()
	b, err := c.in.ReadByte()
	if err != nil {
		return 0, interp.InputEOF
	}
	return b, interp.InputOK
}

// PutChar implements interp.HostIO.
func (c *Console) PutChar(b byte) {
	_ = c.out.WriteByte(b)
	if b == '\n' {
		c.flush()
	}
}

// ShowCommandPrompt implements interp.HostIO.
func (c *Console) ShowCommandPrompt() {
	_, _ = c.out.WriteString(c.commandPrompt)
	c.flush()
}

// ShowInputPrompt implements interp.HostIO.
func (c *Console) ShowInputPrompt() {
	_, _ = c.out.WriteString(c.inputPrompt)
	c.flush()
}

// ShowError implements interp.HostIO. Errors go to stderr so piped output
// stays clean.
func (c *Console) ShowError(message string) {
	c.flush()
	fmt.Fprintln(c.err, message)
}

// ShowTrace implements interp.HostIO.
func (c *Console) ShowTrace(message string) {
	_, _ = c.out.WriteString(message)
	_ = c.out.WriteByte('\n')
}

// Bye implements interp.HostIO.
func (c *Console) Bye() {
	c.quit = true
}

// ShowHelp implements interp.HostIO.
func (c *Console) ShowHelp() {
	_, _ = c.out.WriteString(interp.HelpText)
	c.flush()
}

// ShowFiles implements interp.HostIO: lists *.bas files under the files
// root.
func (c *Console) ShowFiles() {
	names, err := ListProgramFiles(c.filesRoot)
	if err != nil {
		c.ShowError("FILES: " + err.Error())
		return
	}
	for _, name := range names {
		_, _ = c.out.WriteString(name)
		_ = c.out.WriteByte('\n')
	}
	c.flush()
}

// ClipSave implements interp.HostIO via the system clipboard.
func (c *Console) ClipSave(text string) error {
	return clipboard.WriteAll(text)
}

// ClipLoad implements interp.HostIO via the system clipboard.
func (c *Console) ClipLoad() (string, error) {
	return clipboard.ReadAll()
}

func (c *Console) flush() {
	_ = c.out.Flush()
}

// ListProgramFiles returns the sorted *.bas file names in a directory.
// Shared by the console, TUI and GUI hosts.
func ListProgramFiles(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if filepath.Ext(e.Name()) == ".bas" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
