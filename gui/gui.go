// Package gui is the desktop host: a window with a console view and an
// entry row. Like the TUI it pumps the engine from its own goroutine and
// feeds keystrokes in asynchronously, and it supplies the system clipboard
// for CLIPSAVE and CLIPLOAD.
package gui

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/lookbusy1344/tinybasic/config"
	"github.com/lookbusy1344/tinybasic/host"
	"github.com/lookbusy1344/tinybasic/interp"
)

// consoleLimit caps the retained console text.
const consoleLimit = 256 * 1024

var debugLog *log.Logger

func init() {
	// Debug logging is enabled via environment variable; off by default.
	if os.Getenv("TINYBASIC_DEBUG") == "" {
		debugLog = log.New(io.Discard, "", 0)
		return
	}
	f, err := os.OpenFile(filepath.Join(config.GetLogPath(), "gui-debug.log"),
		os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		debugLog = log.New(os.Stderr, "GUI: ", log.Ltime|log.Lmicroseconds|log.Lshortfile)
		return
	}
	debugLog = log.New(f, "GUI: ", log.Ltime|log.Lmicroseconds|log.Lshortfile)
}

// GUI represents the graphical host for the interpreter
type GUI struct {
	// Core components
	App    fyne.App
	Window fyne.Window

	ConsoleView *widget.TextGrid
	Scroll      *container.Scroll
	EntryField  *widget.Entry
	Toolbar     *widget.Toolbar

	engine *interp.Interp

	// Channel plumbing between the UI and the engine pump.
	keys chan byte
	wake chan struct{}
	brk  chan struct{}
	quit chan struct{}

	commandPrompt string
	inputPrompt   string
	filesRoot     string

	// Console output buffer
	consoleBuffer strings.Builder
	consoleMutex  sync.Mutex
}

// Run opens the window and blocks until it closes.
func Run(cfg *config.Config) error {
	g := newGUI(cfg)
	g.engine = interp.New(g)
	g.engine.SetArraySize(cfg.Interpreter.ArraySize)
	g.engine.SetTrace(cfg.Interpreter.TraceOnStart)
	g.engine.FilesRoot = g.filesRoot

	go g.pump()

	g.Window.ShowAndRun()
	close(g.quit)
	return nil
}

// newGUI creates the window and widgets.
func newGUI(cfg *config.Config) *GUI {
	root := cfg.Interpreter.FilesRoot
	if root == "" {
		root = "."
	}

	myApp := app.New()
	myWindow := myApp.NewWindow("tinybasic")
	myWindow.Resize(fyne.NewSize(800, 600))

	g := &GUI{
		App:           myApp,
		Window:        myWindow,
		keys:          make(chan byte, 4096),
		wake:          make(chan struct{}, 1),
		brk:           make(chan struct{}, 1),
		quit:          make(chan struct{}),
		commandPrompt: cfg.Display.CommandPrompt,
		inputPrompt:   cfg.Display.InputPrompt,
		filesRoot:     root,
	}

	g.ConsoleView = widget.NewTextGrid()
	g.Scroll = container.NewScroll(g.ConsoleView)

	g.EntryField = widget.NewEntry()
	g.EntryField.SetPlaceHolder("type a statement and press Enter")
	g.EntryField.OnSubmitted = g.handleLine

	g.Toolbar = widget.NewToolbar(
		widget.NewToolbarAction(theme.MediaStopIcon(), g.requestBreak),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.CancelIcon(), func() { g.Window.Close() }),
	)

	content := container.NewBorder(g.Toolbar, g.EntryField, nil, nil, g.Scroll)
	myWindow.SetContent(content)
	myWindow.Canvas().Focus(g.EntryField)

	return g
}

// pump drives the engine, parking on an empty input queue.
func (g *GUI) pump() {
	for {
		select {
		case <-g.quit:
			return
		case <-g.brk:
			g.engine.Break()
		default:
		}

		switch g.engine.Step() {
		case interp.StepWaiting:
			select {
			case <-g.wake:
			case <-g.brk:
				g.engine.Break()
			case <-g.quit:
				return
			}
		case interp.StepDone:
			debugLog.Printf("engine finished, closing window")
			fyne.Do(func() { g.Window.Close() })
			return
		case interp.StepContinue:
			// keep going
		}
	}
}

// handleLine echoes the submitted line and queues it for the engine.
func (g *GUI) handleLine(text string) {
	debugLog.Printf("input line: %q", text)
	g.EntryField.SetText("")
	g.appendConsole(text + "\n")
	for i := 0; i < len(text); i++ {
		select {
		case g.keys <- text[i]:
		default:
		}
	}
	select {
	case g.keys <- '\n':
	default:
	}
	g.wakePump()
}

func (g *GUI) wakePump() {
	select {
	case g.wake <- struct{}{}:
	default:
	}
}

func (g *GUI) requestBreak() {
	select {
	case g.brk <- struct{}{}:
	default:
	}
	g.wakePump()
}

// appendConsole adds text to the console buffer and repaints. Safe to call
// from any goroutine.
func (g *GUI) appendConsole(text string) {
	g.consoleMutex.Lock()
	g.consoleBuffer.WriteString(text)
	if g.consoleBuffer.Len() > consoleLimit {
		trimmed := g.consoleBuffer.String()
		trimmed = trimmed[len(trimmed)-consoleLimit/2:]
		g.consoleBuffer.Reset()
		g.consoleBuffer.WriteString(trimmed)
	}
	current := g.consoleBuffer.String()
	g.consoleMutex.Unlock()

	fyne.Do(func() {
		g.ConsoleView.SetText(current)
		g.Scroll.ScrollToBottom()
	})
}

// GetChar implements interp.HostIO without blocking.
func (g *GUI) GetChar() (byte, interp.InputStatus) {
	select {
	case b := <-g.keys:
		return b, interp.InputOK
	default:
		return 0, interp.InputWaiting
	}
}

// PutChar implements interp.HostIO.
func (g *GUI) PutChar(b byte) {
	g.appendConsole(string(rune(b)))
}

// ShowCommandPrompt implements interp.HostIO.
func (g *GUI) ShowCommandPrompt() {
	g.appendConsole(g.commandPrompt)
}

// ShowInputPrompt implements interp.HostIO.
func (g *GUI) ShowInputPrompt() {
	g.appendConsole(g.inputPrompt)
}

// ShowError implements interp.HostIO.
func (g *GUI) ShowError(message string) {
	g.appendConsole(message + "\n")
}

// ShowTrace implements interp.HostIO.
func (g *GUI) ShowTrace(message string) {
	g.appendConsole(message + "\n")
}

// Bye implements interp.HostIO; the pump closes the window when the
// engine reports StepDone.
func (g *GUI) Bye() {}

// ShowHelp implements interp.HostIO.
func (g *GUI) ShowHelp() {
	g.appendConsole(interp.HelpText)
}

// ShowFiles implements interp.HostIO.
func (g *GUI) ShowFiles() {
	names, err := host.ListProgramFiles(g.filesRoot)
	if err != nil {
		g.ShowError("FILES: " + err.Error())
		return
	}
	for _, name := range names {
		g.appendConsole(name + "\n")
	}
}

// ClipSave implements interp.HostIO using the window clipboard.
func (g *GUI) ClipSave(text string) error {
	fyne.DoAndWait(func() {
		g.Window.Clipboard().SetContent(text)
	})
	return nil
}

// ClipLoad implements interp.HostIO using the window clipboard.
func (g *GUI) ClipLoad() (string, error) {
	var text string
	fyne.DoAndWait(func() {
		text = g.Window.Clipboard().Content()
	})
	return text, nil
}
