// Package tui is the full-screen terminal host: a scrolling output view
// over an input line. Input arrives asynchronously, so this host exercises
// the engine's suspension path; the engine itself runs on a single pump
// goroutine.
package tui

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lookbusy1344/tinybasic/config"
	"github.com/lookbusy1344/tinybasic/host"
	"github.com/lookbusy1344/tinybasic/interp"
)

// TUI represents the terminal user interface for the interpreter
type TUI struct {
	// Core components
	App          *tview.Application
	MainLayout   *tview.Flex
	OutputView   *tview.TextView
	CommandInput *tview.InputField

	engine *interp.Interp

	// Channel plumbing between the UI goroutine and the engine pump.
	keys chan byte
	wake chan struct{}
	brk  chan struct{}
	quit chan struct{}

	commandPrompt string
	inputPrompt   string
	filesRoot     string
}

// New creates the terminal user interface. Run wires it to an engine and
// starts the pump.
func New(cfg *config.Config) *TUI {
	root := cfg.Interpreter.FilesRoot
	if root == "" {
		root = "."
	}
	t := &TUI{
		App:           tview.NewApplication(),
		keys:          make(chan byte, 4096),
		wake:          make(chan struct{}, 1),
		brk:           make(chan struct{}, 1),
		quit:          make(chan struct{}),
		commandPrompt: cfg.Display.CommandPrompt,
		inputPrompt:   cfg.Display.InputPrompt,
		filesRoot:     root,
	}

	// Output view. Dynamic colors stay off so program output like "[10]"
	// trace lines is not eaten as a color tag.
	t.OutputView = tview.NewTextView().
		SetScrollable(true).
		SetWrap(true).
		SetMaxLines(cfg.TUI.ScrollbackLines)
	t.OutputView.SetBorder(true).SetTitle(" tinybasic ")
	t.OutputView.SetChangedFunc(func() {
		t.App.Draw()
		t.OutputView.ScrollToEnd()
	})

	// Command input. Esc interrupts a running program.
	t.CommandInput = tview.NewInputField().
		SetLabel("> ").
		SetFieldWidth(0)
	t.CommandInput.SetBorder(true).SetTitle(" Input (Esc = break, Ctrl-C = quit) ")
	t.CommandInput.SetDoneFunc(t.handleLine)
	t.CommandInput.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			t.requestBreak()
			return nil
		}
		return event
	})

	t.MainLayout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(t.OutputView, 0, 1, false).
		AddItem(t.CommandInput, 3, 0, true)

	return t
}

// Run builds the interface, starts the engine pump and blocks until the
// user quits or the program says BYE.
func Run(cfg *config.Config) error {
	t := New(cfg)
	t.engine = interp.New(t)
	t.engine.SetArraySize(cfg.Interpreter.ArraySize)
	t.engine.SetTrace(cfg.Interpreter.TraceOnStart)
	t.engine.FilesRoot = t.filesRoot

	go t.pump()

	err := t.App.SetRoot(t.MainLayout, true).SetFocus(t.CommandInput).Run()
	close(t.quit)
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// pump drives the engine. When the engine reports StepWaiting it parks
// here until the UI hands over more input.
func (t *TUI) pump() {
	for {
		select {
		case <-t.quit:
			return
		case <-t.brk:
			t.engine.Break()
		default:
		}

		switch t.engine.Step() {
		case interp.StepWaiting:
			select {
			case <-t.wake:
			case <-t.brk:
				t.engine.Break()
			case <-t.quit:
				return
			}
		case interp.StepDone:
			t.App.QueueUpdateDraw(func() {})
			t.App.Stop()
			return
		case interp.StepContinue:
			// keep going
		}
	}
}

// handleLine is called on Enter in the input field: echo the line, queue
// its characters for the engine and wake the pump.
func (t *TUI) handleLine(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	text := t.CommandInput.GetText()
	t.CommandInput.SetText("")
	fmt.Fprintf(t.OutputView, "%s\n", text)

	for i := 0; i < len(text); i++ {
		select {
		case t.keys <- text[i]:
		default:
			// queue full; drop the rest of the line
		}
	}
	select {
	case t.keys <- '\n':
	default:
	}
	t.wakePump()
}

func (t *TUI) wakePump() {
	select {
	case t.wake <- struct{}{}:
	default:
	}
}

func (t *TUI) requestBreak() {
	select {
	case t.brk <- struct{}{}:
	default:
	}
	t.wakePump()
}

// GetChar implements interp.HostIO without blocking; an empty queue means
// the engine suspends.
func (t *TUI) GetChar() (byte, interp.InputStatus) {
	select {
	case b := <-t.keys:
		return b, interp.InputOK
	default:
		return 0, interp.InputWaiting
	}
}

// PutChar implements interp.HostIO.
func (t *TUI) PutChar(b byte) {
	_, _ = t.OutputView.Write([]byte{b})
}

// ShowCommandPrompt implements interp.HostIO.
func (t *TUI) ShowCommandPrompt() {
	fmt.Fprint(t.OutputView, t.commandPrompt)
}

// ShowInputPrompt implements interp.HostIO.
func (t *TUI) ShowInputPrompt() {
	fmt.Fprint(t.OutputView, t.inputPrompt)
}

// ShowError implements interp.HostIO.
func (t *TUI) ShowError(message string) {
	fmt.Fprintf(t.OutputView, "%s\n", message)
}

// ShowTrace implements interp.HostIO.
func (t *TUI) ShowTrace(message string) {
	fmt.Fprintf(t.OutputView, "%s\n", message)
}

// Bye implements interp.HostIO. The engine terminates after BYE, and the
// pump stops the application when it sees StepDone.
func (t *TUI) Bye() {}

// ShowHelp implements interp.HostIO.
func (t *TUI) ShowHelp() {
	fmt.Fprint(t.OutputView, interp.HelpText)
}

// ShowFiles implements interp.HostIO.
func (t *TUI) ShowFiles() {
	names, err := host.ListProgramFiles(t.filesRoot)
	if err != nil {
		t.ShowError("FILES: " + err.Error())
		return
	}
	for _, name := range names {
		fmt.Fprintf(t.OutputView, "%s\n", name)
	}
}

// ClipSave implements interp.HostIO via the system clipboard.
func (t *TUI) ClipSave(text string) error {
	return clipboard.WriteAll(text)
}

// ClipLoad implements interp.HostIO via the system clipboard.
func (t *TUI) ClipLoad() (string, error) {
	return clipboard.ReadAll()
}
