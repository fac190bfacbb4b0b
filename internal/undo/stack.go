package undo

import (
	"errors"
	"fmt"
	"log/slog"
)

// Stack is the recording Executor. It is not safe for concurrent use.
type Stack struct {
	history []Command
	index   int // history[:index] is applied, history[index:] is the redo tail
	open    []*Macro
	limit   int
	log     *slog.Logger
}

// Ensure Stack implements Executor
var _ Executor = (*Stack)(nil)

// Option configures a Stack.
type Option func(*Stack)

// WithLimit caps the number of top-level entries kept. Zero means unlimited.
func WithLimit(n int) Option {
	return func(s *Stack) {
		s.limit = n
	}
}

// WithLogger sets the logger command execution is reported to.
func WithLogger(l *slog.Logger) Option {
	return func(s *Stack) {
		if l != nil {
			s.log = l
		}
	}
}

// NewStack creates an empty undo stack.
func NewStack(opts ...Option) *Stack {
	s := &Stack{log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tracked always returns true.
func (s *Stack) Tracked() bool {
	return true
}

// Exec applies c and records it in the innermost open macro, or as a new
// top-level entry when no macro is open. A new top-level entry discards the
// redo tail.
func (s *Stack) Exec(c Command) error {
	if err := c.Do(); err != nil {
		return err
	}
	s.log.Debug("exec", "cmd", c.Desc(), "depth", len(s.open))
	if n := len(s.open); n > 0 {
		s.open[n-1].Add(c)
		return nil
	}
	s.push(c)
	return nil
}

func (s *Stack) push(c Command) {
	s.history = append(s.history[:s.index], c)
	s.index++
	if s.limit > 0 && len(s.history) > s.limit {
		drop := len(s.history) - s.limit
		s.history = append([]Command(nil), s.history[drop:]...)
		s.index -= drop
	}
}

// BeginMacro opens a macro. Every BeginMacro must be matched by EndMacro.
func (s *Stack) BeginMacro(desc string) {
	s.open = append(s.open, NewMacro(desc))
}

// EndMacro closes the innermost macro. An empty macro leaves no entry.
func (s *Stack) EndMacro() error {
	n := len(s.open)
	if n == 0 {
		return ErrUnbalancedMacro
	}
	m := s.open[n-1]
	s.open = s.open[:n-1]
	if m.Len() == 0 {
		return nil
	}
	if n > 1 {
		s.open[n-2].Add(m)
		return nil
	}
	s.push(m)
	return nil
}

// abortMacro closes the innermost macro and reverts everything it applied.
func (s *Stack) abortMacro() error {
	n := len(s.open)
	if n == 0 {
		return ErrUnbalancedMacro
	}
	m := s.open[n-1]
	s.open = s.open[:n-1]
	s.log.Debug("abort macro", "macro", m.Desc(), "commands", m.Len())
	return m.Undo()
}

// Transact runs fn inside a macro named desc. The macro is committed when fn
// returns nil and reverted when fn returns an error, panics, or leaves the
// macro nesting unbalanced. A panic is re-raised after the revert.
func (s *Stack) Transact(desc string, fn func() error) (err error) {
	var parent *Macro
	if n := len(s.open); n > 0 {
		parent = s.open[n-1]
	}
	s.BeginMacro(desc)
	depth := len(s.open)
	m := s.open[depth-1]
	committed := false

	defer func() {
		if committed {
			return
		}
		// fn may have left inner macros open on its way out.
		for len(s.open) > depth {
			s.revertFailed(desc, s.abortMacro(), &err)
		}
		switch {
		case len(s.open) == depth:
			s.revertFailed(desc, s.abortMacro(), &err)
		case s.detach(m, parent):
			// fn closed the macro itself.
			s.revertFailed(desc, m.Undo(), &err)
		}
		if r := recover(); r != nil {
			panic(r)
		}
	}()

	if err = fn(); err != nil {
		return err
	}
	if len(s.open) != depth {
		return fmt.Errorf("%q: %w", desc, ErrUnbalancedMacro)
	}
	committed = true
	return s.EndMacro()
}

// detach takes m back out of the place EndMacro put it: the top of history,
// or the end of parent when m was nested.
func (s *Stack) detach(m, parent *Macro) bool {
	if parent == nil {
		if s.index == 0 || s.history[s.index-1] != Command(m) {
			return false
		}
		s.index--
		s.history = s.history[:s.index]
		return true
	}
	n := len(parent.commands)
	if n == 0 || parent.commands[n-1] != Command(m) {
		return false
	}
	parent.commands = parent.commands[:n-1]
	return true
}

// revertFailed records a failed revert on *err, or logs it when there is no
// error to attach it to (the panic path).
func (s *Stack) revertFailed(desc string, revertErr error, err *error) {
	if revertErr == nil {
		return
	}
	if *err != nil {
		*err = errors.Join(*err, fmt.Errorf("reverting %q: %w", desc, revertErr))
		return
	}
	s.log.Error("reverting macro failed", "macro", desc, "err", revertErr)
}

// Undo reverts the latest applied entry.
func (s *Stack) Undo() error {
	if len(s.open) > 0 {
		return ErrMacroOpen
	}
	if s.index == 0 {
		return ErrNothingToUndo
	}
	c := s.history[s.index-1]
	if err := c.Undo(); err != nil {
		return fmt.Errorf("undoing %q: %w", c.Desc(), err)
	}
	s.index--
	s.log.Debug("undo", "cmd", c.Desc())
	return nil
}

// Redo re-applies the next entry of the redo tail.
func (s *Stack) Redo() error {
	if len(s.open) > 0 {
		return ErrMacroOpen
	}
	if s.index == len(s.history) {
		return ErrNothingToRedo
	}
	c := s.history[s.index]
	if err := c.Do(); err != nil {
		return fmt.Errorf("redoing %q: %w", c.Desc(), err)
	}
	s.index++
	s.log.Debug("redo", "cmd", c.Desc())
	return nil
}

// Retract undoes the latest entry and drops it, together with the redo tail,
// from history. Interactive previews use it so tentative states never become
// redoable.
func (s *Stack) Retract() error {
	if err := s.Undo(); err != nil {
		return err
	}
	s.history = s.history[:s.index]
	return nil
}

// Clear drops all history. Open macros are discarded without reverting.
func (s *Stack) Clear() {
	s.history = nil
	s.index = 0
	s.open = nil
}

// Len returns the number of top-level entries, including the redo tail.
func (s *Stack) Len() int {
	return len(s.history)
}

// Index returns the number of applied top-level entries.
func (s *Stack) Index() int {
	return s.index
}

// CanUndo reports whether Undo would do something.
func (s *Stack) CanUndo() bool {
	return len(s.open) == 0 && s.index > 0
}

// CanRedo reports whether Redo would do something.
func (s *Stack) CanRedo() bool {
	return len(s.open) == 0 && s.index < len(s.history)
}

// UndoDesc returns the description of the entry Undo would revert.
func (s *Stack) UndoDesc() string {
	if s.index == 0 {
		return ""
	}
	return s.history[s.index-1].Desc()
}

// RedoDesc returns the description of the entry Redo would apply.
func (s *Stack) RedoDesc() string {
	if s.index == len(s.history) {
		return ""
	}
	return s.history[s.index].Desc()
}

// Top returns the entry Undo would revert, or nil.
func (s *Stack) Top() Command {
	if s.index == 0 {
		return nil
	}
	return s.history[s.index-1]
}

// Depth returns the number of open macros.
func (s *Stack) Depth() int {
	return len(s.open)
}
