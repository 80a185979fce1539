// Package carousel implements the auto-scrolling strip and the modal slide
// carousel used across the brochure. Both engines are Bubble Tea components:
// timers are commands whose messages come back through Update, and every
// message is stamped with the owning instance and a generation so that a
// superseded or torn-down timer is dropped on arrival.
package carousel

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Scheduler turns a delay and a message into a command that delivers the
// message once the delay has elapsed.
type Scheduler func(d time.Duration, msg tea.Msg) tea.Cmd

// TickScheduler schedules with tea.Tick.
func TickScheduler(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return msg
	})
}

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// gate is a generation counter that invalidates stale timer messages.
// Arming returns a fresh generation; any message carrying an older one is
// ignored, so at most one scheduled message per gate is ever honoured.
type gate struct {
	gen     uint64
	pending bool
}

func (g *gate) arm() uint64 {
	g.gen++
	g.pending = true
	return g.gen
}

func (g *gate) cancel() {
	g.gen++
	g.pending = false
}

// fire consumes a one-shot message. It reports false for stale generations.
func (g *gate) fire(gen uint64) bool {
	if !g.pending || gen != g.gen {
		return false
	}
	g.pending = false
	return true
}

// current reports whether gen belongs to the live recurring loop.
func (g *gate) current(gen uint64) bool {
	return g.pending && gen == g.gen
}

// Transition describes how a host should apply the latest offset.
type Transition int

const (
	// TransitionNone applies the offset directly; used for per-frame motion.
	TransitionNone Transition = iota
	// TransitionEase animates towards the offset over EaseDuration.
	TransitionEase
)

// EaseDuration is the length of the eased manual jump.
const EaseDuration = 400 * time.Millisecond

func (t Transition) String() string {
	switch t {
	case TransitionEase:
		return "transform 0.4s ease"
	default:
		return "none"
	}
}
