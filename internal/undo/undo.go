// Package undo provides reversible commands and the executors that apply them.
//
// Every structural mutation of the design is expressed as a Command and handed
// to an Executor. Two executors exist:
//
//   - *Stack records each command (or macro of commands) so it can be undone
//     and redone.
//   - Scratch() applies commands immediately and forgets them. It is used for
//     throwaway working state that must be removed again before any recorded
//     command depends on it.
//
// Macros nest through explicit BeginMacro/EndMacro pairs or, preferably,
// through Transact, which always finalizes the macro on every exit path.
package undo

import (
	"errors"
	"fmt"
)

var (
	// ErrUnbalancedMacro is returned by EndMacro without a matching BeginMacro.
	ErrUnbalancedMacro = errors.New("end macro without begin")

	// ErrMacroOpen is returned when history is navigated while a macro is open.
	ErrMacroOpen = errors.New("macro still open")

	// ErrNothingToUndo is returned by Undo and Retract on an empty history.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo is returned by Redo at the head of history.
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Command is an atomic, reversible mutation. Do must validate before it
// mutates: a Do that returns an error must leave state unchanged. Undo is only
// called on a command whose Do succeeded and must restore the prior state.
type Command interface {
	Do() error
	Undo() error
	Desc() string
}

// Executor applies commands.
type Executor interface {
	// Exec applies c. When Exec returns an error c was not applied.
	Exec(c Command) error

	// Transact runs fn as one unit named desc. If fn fails, the commands it
	// applied through this executor are reverted where the executor can.
	Transact(desc string, fn func() error) error

	// Tracked reports whether applied commands are recorded for undo.
	Tracked() bool
}

// Func adapts a pair of closures to Command.
type Func struct {
	Name   string
	DoFn   func() error
	UndoFn func() error
}

func (f *Func) Do() error    { return f.DoFn() }
func (f *Func) Undo() error  { return f.UndoFn() }
func (f *Func) Desc() string { return f.Name }

// Macro groups commands into one undo unit.
type Macro struct {
	desc     string
	commands []Command
}

// NewMacro returns an empty macro.
func NewMacro(desc string) *Macro {
	return &Macro{desc: desc}
}

// Add appends an already applied command.
func (m *Macro) Add(c Command) {
	m.commands = append(m.commands, c)
}

// Len returns the number of commands in the macro.
func (m *Macro) Len() int {
	return len(m.commands)
}

// Commands returns the grouped commands in execution order.
func (m *Macro) Commands() []Command {
	return append([]Command(nil), m.commands...)
}

// Desc returns the macro description.
func (m *Macro) Desc() string {
	return m.desc
}

// Do re-applies the grouped commands in order. On failure the commands
// already re-applied are undone again.
func (m *Macro) Do() error {
	for i, c := range m.commands {
		if err := c.Do(); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = m.commands[j].Undo()
			}
			return fmt.Errorf("redo %q: %w", c.Desc(), err)
		}
	}
	return nil
}

// Undo reverts the grouped commands in reverse order.
func (m *Macro) Undo() error {
	for i := len(m.commands) - 1; i >= 0; i-- {
		if err := m.commands[i].Undo(); err != nil {
			return fmt.Errorf("undo %q: %w", m.commands[i].Desc(), err)
		}
	}
	return nil
}

type scratch struct{}

// Scratch returns an executor that applies commands immediately and keeps no
// history.
func Scratch() Executor {
	return scratch{}
}

func (scratch) Exec(c Command) error {
	return c.Do()
}

// Transact runs fn directly. Scratch state has no history to revert, so
// callers must arrange their own cleanup.
func (scratch) Transact(_ string, fn func() error) error {
	return fn()
}

func (scratch) Tracked() bool {
	return false
}
