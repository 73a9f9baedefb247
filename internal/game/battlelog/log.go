// Package battlelog renders battle messages for reflected actions.
package battlelog

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/udisondev/actreflect/internal/game/reflection"
	"github.com/udisondev/actreflect/internal/model"
)

const (
	// DefaultActionReflection is shown when note tags caused the reflection.
	// Args: target name, action name.
	DefaultActionReflection = "%s reflected the %s!"

	// DefaultMagicReflection is the engine message for plain magic reflection.
	// Args: target name.
	DefaultMagicReflection = "%s reflected the magic!"
)

// CuePlayer plays the reflection sound cue.
type CuePlayer interface {
	PlayReflection()
}

// NopCue is a CuePlayer that does nothing.
type NopCue struct{}

// PlayReflection implements CuePlayer.
func (NopCue) PlayReflection() {}

// Options configure a Log.
type Options struct {
	ActionReflection string // format, "%s reflected the %s!" if empty
	MagicReflection  string // format, "%s reflected the magic!" if empty
	AnimatedBattle   bool   // keep the line instead of backing one out
}

// Log is the battle log window.
// Thread-safe: all methods acquire internal mutex.
type Log struct {
	mu    sync.Mutex
	cue   CuePlayer
	opts  Options
	lines []string
	waits int
}

// New creates a Log. nil cue uses NopCue.
func New(cue CuePlayer, opts Options) *Log {
	if cue == nil {
		cue = NopCue{}
	}
	if opts.ActionReflection == "" {
		opts.ActionReflection = DefaultActionReflection
	}
	if opts.MagicReflection == "" {
		opts.MagicReflection = DefaultMagicReflection
	}
	return &Log{cue: cue, opts: opts}
}

// DisplayReflection announces that target reflected action.
// Tag-driven reflections use the action message; otherwise the engine
// magic reflection message is shown.
func (l *Log) DisplayReflection(target *model.Battler, action model.Action, outcome reflection.Outcome) {
	l.cue.PlayReflection()

	var text string
	if outcome.Reflected {
		text = fmt.Sprintf(l.opts.ActionReflection, target.Name(), action.Name)
	} else {
		text = fmt.Sprintf(l.opts.MagicReflection, target.Name())
	}

	l.AddText(text)
	l.Wait()
	if !outcome.Reflected || !l.opts.AnimatedBattle {
		l.BackOne()
	}

	slog.Debug("battle log", "text", text)
}

// AddText appends a line.
func (l *Log) AddText(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, text)
}

// Wait records one message wait.
func (l *Log) Wait() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.waits++
}

// BackOne removes the last line. No-op on an empty log.
func (l *Log) BackOne() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.lines) > 0 {
		l.lines = l.lines[:len(l.lines)-1]
	}
}

// Lines returns a copy of the current lines.
func (l *Log) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Waits returns the number of waits recorded.
func (l *Log) Waits() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.waits
}
