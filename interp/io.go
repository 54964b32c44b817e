package interp

// InputStatus is the result category of a single character read from the
// host.
type InputStatus int

const (
	// InputOK means a character was delivered.
	InputOK InputStatus = iota
	// InputEOF means the input stream has ended for good.
	InputEOF
	// InputWaiting means no character is available yet; the engine yields
	// and the host steps it again later.
	InputWaiting
)

// StepResult tells the host what to do after a Step call.
type StepResult int

const (
	// StepContinue means the engine made progress; step again.
	StepContinue StepResult = iota
	// StepWaiting means the engine is blocked on input; step again once
	// more input may be available.
	StepWaiting
	// StepDone means the engine has terminated.
	StepDone
)

// HostIO is everything the engine needs from its host. The engine performs
// no blocking calls itself: a host may block inside GetChar (console) or
// return InputWaiting and pump the engine from an event loop (TUI, GUI,
// websocket).
type HostIO interface {
	// GetChar returns the next input character. The byte is only
	// meaningful when the status is InputOK.
	GetChar() (byte, InputStatus)

	// PutChar emits one byte of program output.
	PutChar(b byte)

	// ShowCommandPrompt is called when the engine starts reading a
	// command line.
	ShowCommandPrompt()

	// ShowInputPrompt is called when the engine starts, or retries,
	// reading an INPUT response.
	ShowInputPrompt()

	// ShowError delivers a user-visible error message.
	ShowError(message string)

	// ShowTrace delivers a trace line while TRON is active.
	ShowTrace(message string)

	// Bye is called when the program requests shutdown; the host decides
	// what that means.
	Bye()

	// ShowHelp prints the statement summary.
	ShowHelp()

	// ShowFiles lists the program files available to LOAD.
	ShowFiles()

	// ClipSave places a program listing on the clipboard.
	ClipSave(text string) error

	// ClipLoad returns program text from the clipboard.
	ClipLoad() (string, error)
}
