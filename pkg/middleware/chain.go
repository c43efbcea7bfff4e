package middleware

import "github.com/eathonq/toolkit-mvvm-plugin/pkg/reactive"

// Chain combines hooks into one. Calls fan out in order; the done
// callbacks of ReactionStarted run in reverse order. Nil hooks are skipped.
func Chain(hooks ...reactive.Hooks) reactive.Hooks {
	c := make(chain, 0, len(hooks))
	for _, h := range hooks {
		if h != nil {
			c = append(c, h)
		}
	}
	return c
}

type chain []reactive.Hooks

func (c chain) Wrapped(kind reactive.Kind) {
	for _, h := range c {
		h.Wrapped(kind)
	}
}

func (c chain) Triggered(op *reactive.Operation, affected int) {
	for _, h := range c {
		h.Triggered(op, affected)
	}
}

func (c chain) ReactionStarted(r *reactive.Reaction, op *reactive.Operation) func(bool) {
	var dones []func(bool)
	for _, h := range c {
		if done := h.ReactionStarted(r, op); done != nil {
			dones = append(dones, done)
		}
	}
	if len(dones) == 0 {
		return nil
	}
	return func(failed bool) {
		for i := len(dones) - 1; i >= 0; i-- {
			dones[i](failed)
		}
	}
}

func (c chain) ReactionSuppressed(r *reactive.Reaction) {
	for _, h := range c {
		h.ReactionSuppressed(r)
	}
}

func (c chain) ReactionStopped(r *reactive.Reaction) {
	for _, h := range c {
		h.ReactionStopped(r)
	}
}
