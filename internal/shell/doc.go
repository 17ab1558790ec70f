// Package shell runs command text through the user's shell.
//
// Scripts are arbitrary shell text written by the project's own authors, so
// Runner hands them to "<shell> -c" verbatim. This is the only place toolbelt
// executes unvalidated text; the trust level is the same as the project's
// configuration file.
//
// A running child is killed when the process receives an interrupt or the
// context is cancelled, and the result then carries InterruptedCode instead
// of a real exit status. There is no timeout: a hung command blocks until it
// is interrupted.
package shell
