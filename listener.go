package oosheet

// CommandListener is notified before and after each editing command a
// Document dispatches to its backend. Implement it to audit, trace or veto
// edits.
type CommandListener interface {
	// BeforeCommand is called before the command runs. Returning an error
	// cancels the command and reports that error to the caller.
	BeforeCommand(cmd string, target Address) error

	// AfterCommand is called once the command returned, with its error.
	AfterCommand(cmd string, target Address, err error)
}
