package carousel

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	// DefaultInterval is the auto-advance period of the modal carousel.
	DefaultInterval = 2500 * time.Millisecond
	// DefaultSlidesResume is how long manual navigation suspends auto-advance.
	DefaultSlidesResume = 5 * time.Second
)

// SlidesConfig tunes a Slides carousel. Zero values fall back to defaults.
type SlidesConfig struct {
	Interval    time.Duration
	ResumeDelay time.Duration
	Schedule    Scheduler
}

func (c SlidesConfig) withDefaults() SlidesConfig {
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.ResumeDelay <= 0 {
		c.ResumeDelay = DefaultSlidesResume
	}
	if c.Schedule == nil {
		c.Schedule = TickScheduler
	}
	return c
}

type advanceMsg struct {
	id  int
	gen uint64
}

type slidesResumeMsg struct {
	id  int
	gen uint64
}

// Indices are the slide positions a view needs to style a frame.
type Indices struct {
	Current int
	Prev    int
	Next    int
}

// Slides shows one item at a time and advances on a fixed interval.
type Slides struct {
	id      int
	cfg     SlidesConfig
	items   []string
	start   int
	current int

	running bool
	closed  bool

	ticks  gate
	resume gate
}

// NewSlides returns a stopped carousel positioned at start. Out-of-range
// starts fall back to the first item.
func NewSlides(items []string, start int, cfg SlidesConfig) *Slides {
	return &Slides{
		id:      nextID(),
		cfg:     cfg.withDefaults(),
		items:   items,
		start:   start,
		current: clampStart(start, len(items)),
	}
}

func clampStart(start, n int) int {
	if start < 0 || start >= n {
		return 0
	}
	return start
}

// Start arms the auto-advance interval. Lists of one item or fewer never
// advance.
func (c *Slides) Start() tea.Cmd {
	if c.closed || len(c.items) <= 1 || c.running {
		return nil
	}
	c.running = true
	return c.tick(c.ticks.arm())
}

// Stop cancels auto-advance. Calling it repeatedly is harmless.
func (c *Slides) Stop() {
	c.running = false
	c.ticks.cancel()
}

// NextSlide moves forward one item, wrapping at the end.
func (c *Slides) NextSlide() {
	n := len(c.items)
	if n == 0 {
		return
	}
	c.current = (c.current + 1) % n
}

// PrevSlide moves back one item, wrapping at the start.
func (c *Slides) PrevSlide() {
	n := len(c.items)
	if n == 0 {
		return
	}
	c.current = (c.current - 1 + n) % n
}

// GoToSlide jumps to i without touching the timers. Indices outside the
// list are ignored.
func (c *Slides) GoToSlide(i int) {
	if i < 0 || i >= len(c.items) {
		return
	}
	c.current = i
}

// HandleNext is manual forward navigation: stop, move, then resume later.
func (c *Slides) HandleNext() tea.Cmd {
	if c.closed {
		return nil
	}
	c.Stop()
	c.NextSlide()
	return c.armResume()
}

// HandlePrev is manual backward navigation: stop, move, then resume later.
func (c *Slides) HandlePrev() tea.Cmd {
	if c.closed {
		return nil
	}
	c.Stop()
	c.PrevSlide()
	return c.armResume()
}

// Reset repositions the carousel when the list or the requested start
// changes, without recreating it. The list is compared by identity.
func (c *Slides) Reset(items []string, start int) tea.Cmd {
	if c.closed {
		return nil
	}
	if sameList(items, c.items) && start == c.start {
		return nil
	}
	c.items = items
	c.start = start
	c.current = clampStart(start, len(items))
	c.halt()
	return c.Start()
}

// clear drops the list so the next Reset always repositions.
func (c *Slides) clear() {
	c.items = nil
	c.start = 0
	c.current = 0
	c.halt()
}

func (c *Slides) halt() {
	c.Stop()
	c.resume.cancel()
}

// Teardown releases the carousel. Messages already in flight become no-ops.
func (c *Slides) Teardown() {
	c.closed = true
	c.halt()
}

// Update handles the carousel's own timer messages.
func (c *Slides) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case advanceMsg:
		if msg.id != c.id || c.closed || !c.running || !c.ticks.current(msg.gen) {
			return nil
		}
		c.NextSlide()
		return c.tick(msg.gen)
	case slidesResumeMsg:
		if msg.id != c.id || c.closed || !c.resume.fire(msg.gen) {
			return nil
		}
		return c.Start()
	}
	return nil
}

func (c *Slides) tick(gen uint64) tea.Cmd {
	return c.cfg.Schedule(c.cfg.Interval, advanceMsg{id: c.id, gen: gen})
}

func (c *Slides) armResume() tea.Cmd {
	gen := c.resume.arm()
	return c.cfg.Schedule(c.cfg.ResumeDelay, slidesResumeMsg{id: c.id, gen: gen})
}

// Current is the index of the visible item.
func (c *Slides) Current() int { return c.current }

// Running reports whether auto-advance is armed.
func (c *Slides) Running() bool { return c.running }

// Len is the number of items.
func (c *Slides) Len() int { return len(c.items) }

// Items returns the list being shown.
func (c *Slides) Items() []string { return c.items }

// Indices derives the previous and next positions around Current.
func (c *Slides) Indices() Indices {
	n := len(c.items)
	if n == 0 {
		return Indices{}
	}
	return Indices{
		Current: c.current,
		Prev:    (c.current - 1 + n) % n,
		Next:    (c.current + 1) % n,
	}
}

func sameList(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}
