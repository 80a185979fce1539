package carousel

import (
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	// DefaultSpeed is the per-frame advance in pixels (or cells).
	DefaultSpeed = 0.6
	// DefaultPitch is used until the host reports a measured pitch.
	DefaultPitch = 424.0
	// DefaultFrameInterval approximates one display frame at 60Hz.
	DefaultFrameInterval = time.Second / 60
	// DefaultStripResume is how long a manual jump suspends auto-scrolling.
	DefaultStripResume = 3 * time.Second
)

// StripConfig tunes a Strip. Zero values fall back to the defaults above.
type StripConfig struct {
	Speed         float64
	FallbackPitch float64
	FrameInterval time.Duration
	ResumeDelay   time.Duration
	Schedule      Scheduler
}

func (c StripConfig) withDefaults() StripConfig {
	if c.Speed <= 0 {
		c.Speed = DefaultSpeed
	}
	if c.FallbackPitch <= 0 {
		c.FallbackPitch = DefaultPitch
	}
	if c.FrameInterval <= 0 {
		c.FrameInterval = DefaultFrameInterval
	}
	if c.ResumeDelay <= 0 {
		c.ResumeDelay = DefaultStripResume
	}
	if c.Schedule == nil {
		c.Schedule = TickScheduler
	}
	return c
}

type frameMsg struct {
	id  int
	gen uint64
}

type stripResumeMsg struct {
	id  int
	gen uint64
}

// Strip continuously scrolls a row of items leftwards and loops once the
// offset has travelled one full pass over its items. Hosts may render a
// cloned copy of the row after the real one; the offset never reaches the
// clones' end.
type Strip struct {
	id     int
	cfg    StripConfig
	items  int
	pitch  float64
	offset float64

	running    bool
	hovered    bool
	closed     bool
	transition Transition

	frames gate
	resume gate
}

// NewStrip returns a stopped strip over items entries.
func NewStrip(items int, cfg StripConfig) *Strip {
	if items < 0 {
		items = 0
	}
	return &Strip{
		id:    nextID(),
		cfg:   cfg.withDefaults(),
		items: items,
	}
}

// Start begins the frame loop. It does nothing for an empty strip, a torn
// down strip, or one that is already running.
func (s *Strip) Start() tea.Cmd {
	if s.closed || s.items == 0 || s.running {
		return nil
	}
	s.running = true
	return s.frame(s.frames.arm())
}

// Stop cancels the pending frame. Calling it repeatedly is harmless.
func (s *Strip) Stop() {
	s.running = false
	s.frames.cancel()
}

// NavigateNext jumps one pitch forward, suspending auto-scroll until the
// resume timer fires.
func (s *Strip) NavigateNext() tea.Cmd {
	if s.closed || s.items == 0 {
		return nil
	}
	s.Stop()
	s.offset += s.Pitch()
	if loop := s.LoopWidth(); s.offset >= loop {
		s.offset -= loop
	}
	s.transition = TransitionEase
	return s.armResume()
}

// NavigatePrev jumps one pitch backwards. Only the forward direction has
// clones to loop into, so the offset stops at zero instead of wrapping.
func (s *Strip) NavigatePrev() tea.Cmd {
	if s.closed || s.items == 0 {
		return nil
	}
	s.Stop()
	s.offset -= s.Pitch()
	if s.offset < 0 {
		s.offset = 0
	}
	s.transition = TransitionEase
	return s.armResume()
}

// HoverEnter pauses the strip while the pointer is over it.
func (s *Strip) HoverEnter() {
	if s.closed {
		return
	}
	s.hovered = true
	s.resume.cancel()
	s.Stop()
}

// HoverLeave resumes scrolling immediately.
func (s *Strip) HoverLeave() tea.Cmd {
	if s.closed {
		return nil
	}
	s.hovered = false
	s.resume.cancel()
	return s.Start()
}

// Measure records the pitch observed in the rendered layout. Non-positive
// measurements are ignored and the fallback pitch stays in effect.
func (s *Strip) Measure(pitch float64) {
	if pitch <= 0 {
		return
	}
	s.pitch = pitch
	if s.offset >= s.LoopWidth() {
		s.offset = 0
	}
}

// Teardown releases the strip. Messages already in flight become no-ops.
func (s *Strip) Teardown() {
	s.closed = true
	s.running = false
	s.frames.cancel()
	s.resume.cancel()
}

// Update handles the strip's own frame and resume messages and ignores
// everything else, including messages addressed to other strips.
func (s *Strip) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case frameMsg:
		if msg.id != s.id || s.closed || !s.running || !s.frames.current(msg.gen) {
			return nil
		}
		s.advance()
		return s.frame(msg.gen)
	case stripResumeMsg:
		if msg.id != s.id || s.closed || !s.resume.fire(msg.gen) {
			return nil
		}
		if s.hovered {
			return nil
		}
		return s.Start()
	}
	return nil
}

func (s *Strip) advance() {
	s.offset += s.cfg.Speed
	if s.offset >= s.LoopWidth() {
		s.offset = 0
	}
	s.transition = TransitionNone
}

func (s *Strip) frame(gen uint64) tea.Cmd {
	return s.cfg.Schedule(s.cfg.FrameInterval, frameMsg{id: s.id, gen: gen})
}

func (s *Strip) armResume() tea.Cmd {
	gen := s.resume.arm()
	return s.cfg.Schedule(s.cfg.ResumeDelay, stripResumeMsg{id: s.id, gen: gen})
}

// Offset is the current scroll offset, always within [0, LoopWidth).
func (s *Strip) Offset() float64 { return s.offset }

// Running reports whether the frame loop is active.
func (s *Strip) Running() bool { return s.running }

// Hovered reports whether the pointer is over the strip.
func (s *Strip) Hovered() bool { return s.hovered }

// Items is the number of distinct (non-cloned) items.
func (s *Strip) Items() int { return s.items }

// Transition reports how the latest offset should be applied.
func (s *Strip) Transition() Transition { return s.transition }

// Pitch is the measured pitch, or the fallback before any measurement.
func (s *Strip) Pitch() float64 {
	if s.pitch > 0 {
		return s.pitch
	}
	return s.cfg.FallbackPitch
}

// LoopWidth is the length of one pass over the items.
func (s *Strip) LoopWidth() float64 {
	return float64(s.items) * s.Pitch()
}

// Transform renders the offset as a CSS translate.
func (s *Strip) Transform() string {
	if s.offset == 0 {
		return "translateX(0)"
	}
	return "translateX(-" + strconv.FormatFloat(s.offset, 'f', -1, 64) + "px)"
}
