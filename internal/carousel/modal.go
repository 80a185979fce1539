package carousel

import tea "github.com/charmbracelet/bubbletea"

// Mode selects how the modal presents its items.
type Mode int

const (
	ModeSingle Mode = iota
	ModeCarousel
)

func (m Mode) String() string {
	if m == ModeCarousel {
		return "carousel"
	}
	return "single"
}

// ClickTarget identifies what a click inside the modal landed on.
type ClickTarget int

const (
	// TargetBackdrop is the dimmed area around the content itself.
	TargetBackdrop ClickTarget = iota
	// TargetContent is the image, a control, or anything nested in them.
	TargetContent
)

// ScrollLocker suspends and restores scrolling of the page behind the modal.
type ScrollLocker interface {
	LockScroll()
	UnlockScroll()
}

// ModalConfig wires a Modal to its host.
type ModalConfig struct {
	Slides SlidesConfig
	Lock   ScrollLocker
}

// Modal is the fullscreen viewer shell. It owns the open state, the active
// list and the embedded Slides carousel.
type Modal struct {
	open   bool
	items  []string
	mode   Mode
	start  int
	slides *Slides
	lock   ScrollLocker
}

// NewModal returns a closed modal.
func NewModal(cfg ModalConfig) *Modal {
	return &Modal{
		slides: NewSlides(nil, 0, cfg.Slides),
		lock:   cfg.Lock,
	}
}

// OpenSingle shows one image without auto-advance.
func (m *Modal) OpenSingle(src string) tea.Cmd {
	return m.show([]string{src}, ModeSingle, 0)
}

// OpenCarousel shows items starting at start.
func (m *Modal) OpenCarousel(items []string, start int) tea.Cmd {
	return m.show(items, ModeCarousel, start)
}

func (m *Modal) show(items []string, mode Mode, start int) tea.Cmd {
	if len(items) == 0 {
		return nil
	}
	m.items = items
	m.mode = mode
	m.start = start
	m.open = true
	if m.lock != nil {
		m.lock.LockScroll()
	}
	return m.slides.Reset(items, start)
}

// Close hides the modal, stops the carousel and restores page scrolling.
func (m *Modal) Close() {
	m.open = false
	m.items = nil
	m.slides.clear()
	if m.lock != nil {
		m.lock.UnlockScroll()
	}
}

// Teardown releases the modal and always restores page scrolling.
func (m *Modal) Teardown() {
	m.open = false
	m.items = nil
	m.slides.Teardown()
	if m.lock != nil {
		m.lock.UnlockScroll()
	}
}

// HandleKey routes keys while the modal is open. The second return value
// is false when the modal is closed or the key is not one of its own, so
// the host can handle it instead.
func (m *Modal) HandleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if !m.open {
		return nil, false
	}
	switch msg.Type {
	case tea.KeyLeft:
		return m.slides.HandlePrev(), true
	case tea.KeyRight:
		return m.slides.HandleNext(), true
	case tea.KeyEsc:
		m.Close()
		return nil, true
	}
	return nil, false
}

// HandleClick closes the modal for clicks on the backdrop itself.
func (m *Modal) HandleClick(target ClickTarget) {
	if m.open && target == TargetBackdrop {
		m.Close()
	}
}

// Update forwards timer messages to the carousel.
func (m *Modal) Update(msg tea.Msg) tea.Cmd {
	return m.slides.Update(msg)
}

// Visible reports whether there is anything to render.
func (m *Modal) Visible() bool { return m.open && len(m.items) > 0 }

// Open reports the open flag.
func (m *Modal) Open() bool { return m.open }

// Mode is the current display mode.
func (m *Modal) Mode() Mode { return m.mode }

// Items is the active list.
func (m *Modal) Items() []string { return m.items }

// Slides exposes the embedded carousel for rendering and controls.
func (m *Modal) Slides() *Slides { return m.slides }

// CurrentItem is the item on screen, or "" when nothing is visible.
func (m *Modal) CurrentItem() string {
	if !m.Visible() {
		return ""
	}
	if m.mode == ModeSingle {
		return m.items[0]
	}
	return m.items[m.slides.Current()]
}

// Rotate reorders items so that the one at index comes first, the way a
// gallery hands a clicked image to the modal.
func Rotate(items []string, index int) []string {
	if len(items) == 0 {
		return nil
	}
	if index < 0 || index >= len(items) {
		index = 0
	}
	out := make([]string, 0, len(items))
	out = append(out, items[index:]...)
	return append(out, items[:index]...)
}
