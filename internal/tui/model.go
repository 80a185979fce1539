package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"go.uber.org/zap"

	"github.com/parvatislap/lapas/internal/carousel"
	"github.com/parvatislap/lapas/internal/enquiries"
	"github.com/parvatislap/lapas/internal/places"
	"github.com/parvatislap/lapas/internal/site"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Content *site.Content
	Reviews places.Source
	Logger  *zap.Logger
	Strip   carousel.StripConfig
	Slides  carousel.SlidesConfig
	// Schedule overrides the timer source of every strip and carousel.
	Schedule   carousel.Scheduler
	JobTimeout time.Duration
	// Outbox is the enquiry log. Empty disables it.
	Outbox string
}

const (
	defaultJobTimeout = 15 * time.Second
	fullHelpRows      = 4
)

const (
	heroZone         = "hero"
	modalContentZone = "modal:content"
	modalPrevZone    = "modal:prev"
	modalNextZone    = "modal:next"
	modalCloseZone   = "modal:close"
	modalDotPrefix   = "modal:dot:"
	maxIndicatorDots = 24
)

func navZoneID(s section) string { return fmt.Sprintf("nav:%d", int(s)) }

func roomZoneID(i int) string { return fmt.Sprintf("room:%d", i) }

func modalDotZoneID(i int) string { return modalDotPrefix + strconv.Itoa(i) }

// modalDotIndex reverses modalDotZoneID.
func modalDotIndex(id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, modalDotPrefix)
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return i, true
}

type model struct {
	config  Config
	content *site.Content
	logger  *zap.Logger
	jobs    *jobBus
	zone    *zone.Manager

	keys      keyMap
	modalKeys modalKeys
	help      help.Model
	spinner   spinner.Model
	viewport  viewport.Model
	layout    pageLayout
	form      contactForm

	cafeStrip   *stripView
	viewsStrip  *stripView
	reviewStrip *stripView
	modal       *carousel.Modal

	reviews        []places.Review
	reviewsLoading bool
	reviewsNote    string

	focus         focusTarget
	roomIndex     int
	menuOpen      bool
	menuCursor    int
	scrollLocked  bool
	whatsAppURL   string
	anchors       map[section]int
	lineCount     int
	viewportDirty bool
	infoMessage   string
	errorMessage  string
	quitting      bool
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	return newModel(config)
}

func newModel(config Config) *model {
	content := config.Content
	if content == nil {
		loaded, err := site.Load("")
		if err != nil {
			loaded = &site.Content{}
		}
		content = loaded
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Schedule != nil {
		config.Strip.Schedule = config.Schedule
		config.Slides.Schedule = config.Schedule
	}
	timeout := config.JobTimeout
	if timeout <= 0 {
		timeout = defaultJobTimeout
	}

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	m := &model{
		config:         config,
		content:        content,
		logger:         logger,
		jobs:           newJobBus(logger, timeout),
		zone:           zone.New(),
		keys:           newKeyMap(),
		modalKeys:      newModalKeys(),
		help:           help.New(),
		spinner:        spin,
		viewport:       vp,
		layout:         newPageLayout(),
		form:           newContactForm(),
		reviewsLoading: true,
		anchors:        map[section]int{},
		viewportDirty:  true,
	}
	m.modal = carousel.NewModal(carousel.ModalConfig{Lock: m, Slides: config.Slides})
	m.cafeStrip = newStripView("cafe", content.Cafe.Images, config.Strip)
	m.viewsStrip = newStripView("views", content.Views.Images, config.Strip)
	m.layoutStrips()
	m.refreshViewport()
	return m
}

// LockScroll freezes the page behind the modal.
func (m *model) LockScroll() { m.scrollLocked = true }

// UnlockScroll restores page scrolling.
func (m *model) UnlockScroll() { m.scrollLocked = false }

func (m *model) Init() tea.Cmd {
	return tea.Batch(
		m.cafeStrip.start(),
		m.viewsStrip.start(),
		m.jobs.Start(jobKindReviews, loadReviewsJob(m.config.Reviews)),
		m.spinner.Tick,
	)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		m.viewport.Width = m.layout.viewportWidth
		m.resizeViewport()
		m.help.Width = msg.Width
		m.form.setWidth(min(40, m.layout.viewportWidth-6))
		m.layoutStrips()
		m.markViewportDirty()
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	case spinner.TickMsg:
		if !m.reviewsLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.markViewportDirty()
		return m, cmd
	case jobSignalMsg:
		m.logger.Debug("job started", zap.String("id", msg.Snapshot.ID), zap.String("kind", string(msg.Snapshot.Kind)))
		return m, nil
	case jobResultEnvelope:
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case reviewsResultMsg:
		return m, m.applyReviews(msg)
	case enquirySavedMsg:
		if msg.err != nil {
			m.logger.Warn("failed to save enquiry", zap.String("path", msg.path), zap.Error(msg.err))
			m.errorMessage = "Could not keep a copy of your enquiry: " + msg.err.Error()
		}
		return m, nil
	case clipboardResultMsg:
		if msg.err != nil {
			m.infoMessage = fmt.Sprintf("Clipboard unavailable; %s: %s", msg.label, msg.value)
		} else {
			m.infoMessage = fmt.Sprintf("Copied %s to the clipboard.", msg.label)
		}
		return m, nil
	default:
		return m, m.forward(msg)
	}
}

// forward hands timer messages to every engine; each ignores what is not
// its own.
func (m *model) forward(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for _, v := range m.strips() {
		cmds = append(cmds, v.Update(msg))
	}
	cmds = append(cmds, m.modal.Update(msg))
	m.markViewportDirty()
	return tea.Batch(cmds...)
}

func (m *model) strips() []*stripView {
	out := []*stripView{m.cafeStrip, m.viewsStrip}
	if m.reviewStrip != nil {
		out = append(out, m.reviewStrip)
	}
	return out
}

func (m *model) applyReviews(msg reviewsResultMsg) tea.Cmd {
	m.reviewsLoading = false
	m.reviewsNote = ""
	switch {
	case msg.err == nil:
	case errors.Is(msg.err, context.Canceled):
		return nil
	case len(msg.reviews) > 0:
		m.reviewsNote = cachedReviewsNote
		m.logger.Warn("showing fallback reviews", zap.Error(msg.err))
	default:
		m.errorMessage = msg.err.Error()
	}
	m.markViewportDirty()
	return m.setReviews(msg.reviews)
}

func (m *model) setReviews(reviews []places.Review) tea.Cmd {
	if m.reviewStrip != nil {
		m.reviewStrip.teardown()
		m.reviewStrip = nil
	}
	m.reviews = reviews
	if len(reviews) == 0 {
		return nil
	}
	ids := make([]string, len(reviews))
	for i, r := range reviews {
		ids[i] = r.ID
	}
	m.reviewStrip = newStripView("reviews", ids, m.config.Strip)
	m.layoutStrips()
	return m.reviewStrip.start()
}

// layoutStrips re-renders every strip's cards for the current width,
// which re-measures their pitch.
func (m *model) layoutStrips() {
	window := m.layout.stripWindow()
	width := m.layout.cardWidth()
	m.cafeStrip.setCards(imageCards(m.content.Cafe.Images, width), window)
	m.viewsStrip.setCards(imageCards(m.content.Views.Images, width), window)
	if m.reviewStrip != nil {
		cards := make([]string, len(m.reviews))
		for i, r := range m.reviews {
			cards[i] = reviewCard(r, m.layout.reviewCardWidth())
		}
		m.reviewStrip.setCards(cards, window)
	}
}

func imageCards(images []string, width int) []string {
	cards := make([]string, len(images))
	for i, img := range images {
		cards[i] = imageCard(img, i, len(images), width)
	}
	return cards
}

func (m *model) resizeViewport() {
	height := m.layout.viewportHeight
	if m.help.ShowAll {
		height -= fullHelpRows - 1
	}
	if height < 3 {
		height = 3
	}
	m.viewport.Height = height
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}
	if m.modal.Open() {
		if cmd, handled := m.modal.HandleKey(msg); handled {
			m.markViewportDirty()
			return cmd
		}
		if key.Matches(msg, m.keys.Quit) {
			return m.quit()
		}
		return nil
	}
	if m.form.editing {
		cmd, action := m.form.handleKey(msg)
		m.markViewportDirty()
		if action == formSubmit {
			return tea.Batch(cmd, m.submitEnquiry())
		}
		return cmd
	}
	if m.menuOpen {
		return m.handleMenuKey(msg)
	}

	m.errorMessage = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resizeViewport()
	case key.Matches(msg, m.keys.Menu):
		m.menuOpen = true
		m.menuCursor = int(m.currentSection())
	case key.Matches(msg, m.keys.Book):
		return m.jobs.Start(jobKindClipboard, copyJob("booking link", m.content.Links.Booking))
	case key.Matches(msg, m.keys.Sections):
		m.selectSection(sectionSequence[int(msg.String()[0]-'1')])
	case key.Matches(msg, m.keys.Focus):
		m.cycleFocus(1)
	case key.Matches(msg, m.keys.Unfocus):
		m.cycleFocus(-1)
	case key.Matches(msg, m.keys.Prev):
		return m.navigate(-1)
	case key.Matches(msg, m.keys.Next):
		return m.navigate(1)
	case key.Matches(msg, m.keys.Open):
		return m.openFocused()
	case key.Matches(msg, m.keys.Up):
		m.scroll(-1)
	case key.Matches(msg, m.keys.Down):
		m.scroll(1)
	default:
		if m.scrollLocked {
			return nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	return nil
}

func (m *model) handleMenuKey(msg tea.KeyMsg) tea.Cmd {
	n := len(sectionSequence)
	switch msg.String() {
	case "esc", "m", "q":
		m.menuOpen = false
	case "up", "k":
		m.menuCursor = (m.menuCursor - 1 + n) % n
	case "down", "j":
		m.menuCursor = (m.menuCursor + 1) % n
	case "enter":
		m.menuOpen = false
		m.selectSection(sectionSequence[m.menuCursor])
	default:
		if key.Matches(msg, m.keys.Sections) {
			m.menuOpen = false
			m.selectSection(sectionSequence[int(msg.String()[0]-'1')])
		}
	}
	return nil
}

func (m *model) quit() tea.Cmd {
	m.teardown()
	m.quitting = true
	return tea.Quit
}

func (m *model) teardown() {
	for _, v := range m.strips() {
		v.teardown()
	}
	m.modal.Teardown()
	m.form.stop()
}

// selectSection scrolls to s and moves keyboard focus into it when it has
// something focusable.
func (m *model) selectSection(s section) {
	for _, f := range focusSequence {
		if f.section() == s {
			m.focus = f
			break
		}
	}
	m.jumpToSection(s)
}

func (m *model) cycleFocus(delta int) {
	n := len(focusSequence)
	idx := 0
	for i, f := range focusSequence {
		if f == m.focus {
			idx = i
		}
	}
	m.focus = focusSequence[((idx+delta)%n+n)%n]
	m.jumpToSection(m.focus.section())
}

func (m *model) jumpToSection(s section) {
	m.markViewportDirty()
	m.refreshViewportIfDirty()
	line, ok := m.anchors[s]
	if !ok {
		m.infoMessage = "Section unavailable."
		return
	}
	m.viewport.SetYOffset(m.clampYOffset(line))
	m.infoMessage = fmt.Sprintf("Jumped to %s.", s)
}

func (m *model) currentSection() section {
	current := sectionHome
	for _, s := range sectionSequence {
		if line, ok := m.anchors[s]; ok && line <= m.viewport.YOffset {
			current = s
		}
	}
	return current
}

func (m *model) scroll(delta int) {
	if m.scrollLocked {
		return
	}
	m.viewport.SetYOffset(m.clampYOffset(m.viewport.YOffset + delta))
}

func (m *model) focusedStrip() *stripView {
	switch m.focus {
	case focusCafe:
		return m.cafeStrip
	case focusViews:
		return m.viewsStrip
	case focusReviews:
		return m.reviewStrip
	default:
		return nil
	}
}

func (m *model) navigate(delta int) tea.Cmd {
	defer m.markViewportDirty()
	if m.focus == focusRooms {
		if n := len(m.content.Accommodation.Rooms); n > 0 {
			m.roomIndex = ((m.roomIndex+delta)%n + n) % n
		}
		return nil
	}
	v := m.focusedStrip()
	if v == nil {
		return nil
	}
	if delta < 0 {
		return v.prev()
	}
	return v.next()
}

func (m *model) openFocused() tea.Cmd {
	defer m.markViewportDirty()
	switch m.focus {
	case focusHero:
		if m.content.HeroImage == "" {
			return nil
		}
		return m.modal.OpenSingle(m.content.HeroImage)
	case focusRooms:
		return m.openRoom(m.roomIndex)
	case focusContact:
		return m.form.begin()
	case focusReviews:
		return nil
	default:
		v := m.focusedStrip()
		return m.openStripAt(v, v.leading())
	}
}

func (m *model) openRoom(i int) tea.Cmd {
	rooms := m.content.Accommodation.Rooms
	if i < 0 || i >= len(rooms) {
		return nil
	}
	m.roomIndex = i
	return m.modal.OpenCarousel(rooms[i].Images, 0)
}

// openStripAt opens the modal carousel with the gallery rotated so that
// idx comes first.
func (m *model) openStripAt(v *stripView, idx int) tea.Cmd {
	if v == nil || v == m.reviewStrip || idx < 0 {
		return nil
	}
	return m.modal.OpenCarousel(carousel.Rotate(v.items, idx), 0)
}

func (m *model) submitEnquiry() tea.Cmd {
	enquiry := m.form.enquiry()
	if err := enquiry.Validate(); err != nil {
		m.errorMessage = err.Error()
		return nil
	}
	m.errorMessage = ""
	m.whatsAppURL = site.WhatsAppURL(m.content.Links.WhatsApp, enquiry)
	m.form.reset()
	m.infoMessage = "Thanks! Your message is ready to send on WhatsApp."
	m.logger.Info("enquiry prepared", zap.String("name", enquiry.Name()))
	cmds := []tea.Cmd{m.jobs.Start(jobKindClipboard, copyJob("WhatsApp link", m.whatsAppURL))}
	if m.config.Outbox != "" {
		record := enquiries.New(enquiry, m.whatsAppURL, time.Now())
		cmds = append(cmds, m.jobs.Start(jobKindOutbox, saveEnquiryJob(m.config.Outbox, record)))
	}
	return tea.Batch(cmds...)
}

func (m *model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.modal.Open() {
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return nil
		}
		cmd := m.clickModal(m.modalHit(msg))
		m.markViewportDirty()
		return cmd
	}

	var cmds []tea.Cmd
	for _, v := range m.strips() {
		cmds = append(cmds, v.hover(m.zone.Get(v.zoneID()).InBounds(msg)))
	}
	switch {
	case tea.MouseEvent(msg).IsWheel():
		if !m.scrollLocked {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		cmds = append(cmds, m.clickPage(msg))
	}
	m.markViewportDirty()
	return tea.Batch(cmds...)
}

func (m *model) modalHit(msg tea.MouseMsg) string {
	if n := len(m.modal.Items()); m.modal.Mode() == carousel.ModeCarousel && n <= maxIndicatorDots {
		for i := 0; i < n; i++ {
			if id := modalDotZoneID(i); m.zone.Get(id).InBounds(msg) {
				return id
			}
		}
	}
	for _, id := range []string{modalCloseZone, modalPrevZone, modalNextZone, modalContentZone} {
		if m.zone.Get(id).InBounds(msg) {
			return id
		}
	}
	return ""
}

// clickModal routes a click that landed on the named zone; anything
// outside every zone is the backdrop.
func (m *model) clickModal(hit string) tea.Cmd {
	switch hit {
	case modalCloseZone:
		m.modal.Close()
	case modalPrevZone:
		return m.modal.Slides().HandlePrev()
	case modalNextZone:
		return m.modal.Slides().HandleNext()
	case modalContentZone:
		m.modal.HandleClick(carousel.TargetContent)
	default:
		if i, ok := modalDotIndex(hit); ok {
			m.modal.Slides().GoToSlide(i)
			return nil
		}
		m.modal.HandleClick(carousel.TargetBackdrop)
	}
	return nil
}

func (m *model) clickPage(msg tea.MouseMsg) tea.Cmd {
	for _, v := range m.strips() {
		switch {
		case m.zone.Get(v.prevZoneID()).InBounds(msg):
			return v.prev()
		case m.zone.Get(v.nextZoneID()).InBounds(msg):
			return v.next()
		case m.zone.Get(v.zoneID()).InBounds(msg):
			x, _ := m.zone.Get(v.zoneID()).Pos(msg)
			return m.openStripAt(v, v.cardAt(x))
		}
	}
	for i := range m.content.Accommodation.Rooms {
		if m.zone.Get(roomZoneID(i)).InBounds(msg) {
			m.focus = focusRooms
			return m.openRoom(i)
		}
	}
	for _, s := range sectionSequence {
		if m.zone.Get(navZoneID(s)).InBounds(msg) {
			m.menuOpen = false
			m.selectSection(s)
			return nil
		}
	}
	if m.zone.Get(heroZone).InBounds(msg) && m.content.HeroImage != "" {
		m.focus = focusHero
		return m.modal.OpenSingle(m.content.HeroImage)
	}
	return nil
}
