package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/parvatislap/lapas/internal/carousel"
	"github.com/parvatislap/lapas/internal/places"
	"github.com/parvatislap/lapas/internal/site"
)

func (m *model) View() string {
	if m.quitting {
		return ""
	}
	if m.modal.Visible() {
		return m.zone.Scan(m.modalView())
	}
	m.refreshViewportIfDirty()
	body := m.viewport.View()
	if m.menuOpen {
		body = m.menuView()
	}
	parts := []string{m.headerView(), body, m.statusView(), m.helpView()}
	return m.zone.Scan(joinLines(parts))
}

func (m *model) headerView() string {
	brand := lipgloss.JoinHorizontal(
		lipgloss.Bottom,
		heroTitleStyle.Render(m.content.Name),
		"  ",
		taglineStyle.Render(m.content.Tagline),
	)
	current := m.currentSection()
	tabs := make([]string, len(sectionSequence))
	for i, s := range sectionSequence {
		label := fmt.Sprintf("%d %s", i+1, s)
		style := navStyle
		if s == current {
			style = navActiveStyle
		}
		tabs[i] = m.zone.Mark(navZoneID(s), style.Render(label))
	}
	nav := truncate.String(strings.Join(tabs, " "), uint(m.layout.viewportWidth+viewportHorizontalPadding))
	return joinLines([]string{brand, nav, ""})
}

func (m *model) statusView() string {
	switch {
	case m.errorMessage != "":
		return errorStyle.Render(m.errorMessage)
	case m.infoMessage != "":
		return helperStyle.Render(m.infoMessage)
	default:
		return helperStyle.Render(m.content.Location)
	}
}

func (m *model) helpView() string {
	return m.help.View(m.keys)
}

func (m *model) menuView() string {
	rows := []string{sectionHeaderStyle.Render("Sections")}
	for i, s := range sectionSequence {
		label := fmt.Sprintf("  %d  %s", i+1, s)
		if i == m.menuCursor {
			label = currentLineStyle.Render(fmt.Sprintf("▸ %d  %s", i+1, s))
		}
		rows = append(rows, m.zone.Mark(navZoneID(s), label))
	}
	rows = append(rows, "", helperStyle.Render("↑/↓ choose • enter jump • esc close"))
	box := menuBoxStyle.Render(strings.Join(rows, "\n"))
	return lipgloss.Place(m.viewport.Width, m.viewport.Height, lipgloss.Left, lipgloss.Top, box)
}

func (m *model) markViewportDirty() {
	m.viewportDirty = true
}

func (m *model) refreshViewportIfDirty() {
	if m.viewportDirty {
		m.refreshViewport()
	}
}

func (m *model) refreshViewport() {
	m.viewportDirty = false
	prevYOffset := m.viewport.YOffset
	page := m.buildPage()
	m.anchors = page.anchors
	m.lineCount = page.lines
	m.viewport.SetContent(page.content)
	m.viewport.SetYOffset(m.clampYOffset(prevYOffset))
}

func (m *model) buildPage() pageView {
	cb := &contentBuilder{}
	anchors := map[section]int{}
	begin := func(s section, title string) {
		if cb.Line() > 0 {
			cb.WriteRune('\n')
		}
		anchors[s] = cb.Line()
		if title != "" {
			cb.WriteBlock(sectionHeaderStyle.Render(title))
		}
	}

	begin(sectionHome, "")
	m.writeHome(cb)
	begin(sectionHostel, "Hostel & Villa")
	m.writeRooms(cb)
	begin(sectionCafe, m.content.Cafe.Title)
	m.writeCafe(cb)
	begin(sectionReviews, "What Our Guests Say")
	m.writeReviews(cb)
	begin(sectionViews, "Views from Parvati's Lap")
	m.writeViews(cb)
	begin(sectionContact, "Contact Us")
	m.writeContact(cb)

	return pageView{content: cb.String(), anchors: anchors, lines: cb.Line()}
}

func (m *model) writeHome(cb *contentBuilder) {
	c := m.content
	hero := m.zone.Mark(heroZone, heroBoxStyle.Render(joinLines([]string{
		heroTitleStyle.Render(c.Name),
		taglineStyle.Render(c.Tagline),
		helperStyle.Render(c.Location),
	})))
	cb.WriteBlock(lipgloss.JoinHorizontal(lipgloss.Center, renderLogo(), hero))
	cb.WriteRune('\n')
	cb.WriteBlock(subtitleStyle.Render(c.Welcome.Title))
	cb.WriteBlock(wordwrap.String(c.Welcome.Body, m.wrapWidth(2)))
	cb.WriteRune('\n')
	cb.WriteBlock(helperStyle.Render("Press b to copy the booking link: " + c.Links.Booking))
}

func (m *model) writeRooms(cb *contentBuilder) {
	cb.WriteBlock(wordwrap.String(m.content.Accommodation.Intro, m.wrapWidth(2)))
	cb.WriteRune('\n')
	rooms := m.content.Accommodation.Rooms
	width := m.roomCardWidth()
	columns := m.viewport.Width / (width + cardGap)
	if columns < 1 {
		columns = 1
	}
	for start := 0; start < len(rooms); start += columns {
		end := start + columns
		if end > len(rooms) {
			end = len(rooms)
		}
		cards := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			selected := m.focus == focusRooms && i == m.roomIndex
			card := roomCard(rooms[i], width, selected)
			cards = append(cards, lipgloss.NewStyle().MarginRight(cardGap).Render(m.zone.Mark(roomZoneID(i), card)))
		}
		cb.WriteBlock(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
}

func (m *model) roomCardWidth() int {
	width := m.viewport.Width/2 - cardGap
	if width > 36 {
		width = 36
	}
	if width < minCardWidth+4 {
		width = minCardWidth + 4
	}
	return width
}

func roomCard(room site.Room, width int, selected bool) string {
	inner := width - 4
	lines := []string{subtitleStyle.Render(truncate.String(room.Title, uint(inner)))}
	for _, line := range strings.Split(room.Subtitle, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, helperStyle.Render(truncate.String(line, uint(inner))))
		}
	}
	lines = append(lines, "", clampLines(room.Description, inner, 4), "")
	lines = append(lines, helperStyle.Render(fmt.Sprintf("%d photos • enter to view", len(room.Images))))
	style := cardStyle
	if selected {
		style = cardSelectedStyle
	}
	return style.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func (m *model) writeCafe(cb *contentBuilder) {
	cafe := m.content.Cafe
	wrap := m.wrapWidth(2)
	for _, p := range cafe.Paragraphs {
		cb.WriteBlock(wordwrap.String(p, wrap))
		cb.WriteRune('\n')
	}
	for _, f := range cafe.Features {
		cb.WriteBlock(" • " + subtitleStyle.Render(f.Title))
		cb.WriteBlock(indentMultiline(wordwrap.String(f.Body, wrap-3), "   "))
	}
	cb.WriteRune('\n')
	cb.WriteBlock(m.stripFrame(m.cafeStrip, focusCafe, "Cafe Gallery"))

	todo := m.content.ThingsToDo
	cb.WriteRune('\n')
	cb.WriteBlock(sectionHeaderStyle.Render(todo.Title))
	cb.WriteBlock(wordwrap.String(todo.Intro, wrap))
	for _, trek := range todo.Treks {
		cb.WriteRune('\n')
		cb.WriteBlock(" ▲ " + subtitleStyle.Render(trek.Title) + "  " + helperStyle.Render(trek.Subtitle))
		cb.WriteBlock(indentMultiline(wordwrap.String(trek.Description, wrap-3), "   "))
	}
	for _, act := range todo.Activities {
		cb.WriteRune('\n')
		cb.WriteBlock(" ✦ " + subtitleStyle.Render(act.Title))
		cb.WriteBlock(indentMultiline(wordwrap.String(act.Body, wrap-3), "   "))
	}
}

func (m *model) writeReviews(cb *contentBuilder) {
	cb.WriteBlock(wordwrap.String(m.content.Reviews.Intro, m.wrapWidth(2)))
	cb.WriteRune('\n')
	switch {
	case m.reviewsLoading:
		cb.WriteBlock(helperStyle.Render(fmt.Sprintf("%s %s", m.spinner.View(), loadingReviews)))
		return
	case m.reviewsNote != "":
		cb.WriteBlock(noteStyle.Render(m.reviewsNote))
	}
	if m.reviewStrip == nil {
		cb.WriteBlock(helperStyle.Render("No reviews yet."))
		return
	}
	cb.WriteBlock(m.stripFrame(m.reviewStrip, focusReviews, ""))
}

func (m *model) writeViews(cb *contentBuilder) {
	cb.WriteBlock(m.stripFrame(m.viewsStrip, focusViews, ""))
}

func (m *model) writeContact(cb *contentBuilder) {
	c := m.content
	wrap := m.wrapWidth(2)
	cb.WriteBlock(wordwrap.String(c.Contact.Intro, wrap))
	cb.WriteRune('\n')
	cb.WriteBlock(subtitleStyle.Render("Address"))
	cb.WriteBlock(wordwrap.String(c.Contact.Address, wrap))
	for _, step := range c.Contact.Directions {
		cb.WriteBlock(" • " + wordwrap.String(step, wrap-3))
	}
	cb.WriteRune('\n')
	links := []string{
		"Phone     " + c.Links.Phone,
		"Email     " + c.Links.Email,
		"WhatsApp  +" + c.Links.WhatsApp,
		"Maps      " + c.Links.Maps,
		"Instagram " + c.Links.Instagram,
		"Facebook  " + c.Links.Facebook,
		"YouTube   " + c.Links.YouTube,
	}
	cb.WriteBlock(helperStyle.Render(strings.Join(links, "\n")))
	cb.WriteRune('\n')
	title := "Send us a message"
	if m.focus == focusContact {
		title = focusMarkerStyle.Render("▸ ") + title
	}
	cb.WriteBlock(subtitleStyle.Render(title))
	cb.WriteBlock(m.form.View())
	if m.whatsAppURL != "" {
		cb.WriteBlock(helperStyle.Render(wordwrap.String("WhatsApp link: "+m.whatsAppURL, wrap)))
	}
}

// stripFrame renders the strip window flanked by its ‹ › buttons.
func (m *model) stripFrame(v *stripView, target focusTarget, title string) string {
	window := m.layout.stripWindow()
	body := v.render(window)
	height := lipgloss.Height(body)
	button := lipgloss.NewStyle().Width(2).Height(height).AlignVertical(lipgloss.Center)
	prevStyle, nextStyle := stripButtonStyle, stripButtonStyle
	if m.focus == target {
		prevStyle, nextStyle = stripButtonFocusStyle, stripButtonFocusStyle
	}
	row := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.zone.Mark(v.prevZoneID(), button.Render(prevStyle.Render("‹"))),
		m.zone.Mark(v.zoneID(), body),
		m.zone.Mark(v.nextZoneID(), button.Render(nextStyle.Render("›"))),
	)
	var header []string
	if title != "" || m.focus == target {
		label := title
		if m.focus == target {
			label = strings.TrimSpace(focusMarkerStyle.Render("▸ ") + label + " " + helperStyle.Render("←/→ scroll • enter opens"))
		}
		header = append(header, subtitleStyle.Render(label))
	}
	return joinLines(append(header, row))
}

func imageCard(path string, idx, total, width int) string {
	inner := width - 2
	shade := strings.Repeat("░", inner)
	label := truncate.String(imageLabel(path), uint(inner))
	position := fmt.Sprintf("%d/%d", idx+1, total)
	body := lipgloss.NewStyle().Width(inner).Align(lipgloss.Center).Render(
		strings.Join([]string{shade, label, position, shade}, "\n"),
	)
	return imageCardStyle.Height(imageCardHeight - 2).Render(body)
}

func reviewCard(r places.Review, width int) string {
	inner := width - 4
	stars := strings.Repeat("★", clampStars(r.Stars)) + strings.Repeat("☆", 5-clampStars(r.Stars))
	lines := []string{
		starStyle.Render(stars),
		clampLines(r.Text, inner, 5),
		helperStyle.Render(truncate.String(r.Author, uint(inner))),
	}
	return reviewCardStyle.Width(width - 2).Height(9).Render(strings.Join(lines, "\n"))
}

func clampStars(n int) int {
	if n < 0 {
		return 0
	}
	if n > 5 {
		return 5
	}
	return n
}

func (m *model) modalView() string {
	items := m.modal.Items()
	width := m.layout.windowWidth
	height := m.layout.windowHeight
	if width <= 0 {
		width = m.layout.viewportWidth + viewportHorizontalPadding
	}
	if height <= 0 {
		height = m.layout.viewportHeight + m.layout.headerHeight + m.layout.footerHeight
	}
	slideWidth := width / 2
	if slideWidth < minCardWidth {
		slideWidth = minCardWidth
	}

	current := m.modal.CurrentItem()
	idx := m.modal.Slides().Indices()
	title := fmt.Sprintf("Photo %d of %d", idx.Current+1, len(items))
	if m.modal.Mode() == carousel.ModeSingle {
		title = imageLabel(current)
	}
	active := modalSlideStyle.Width(slideWidth).Height(height / 3).Render(
		lipgloss.JoinVertical(lipgloss.Center, modalLabelStyle.Render(imageLabel(current)), helperStyle.Render(current)),
	)
	row := active
	if m.modal.Mode() == carousel.ModeCarousel && len(items) > 1 {
		prev := m.zone.Mark(modalPrevZone, modalSideStyle.Render("‹ "+imageLabel(items[idx.Prev])))
		next := m.zone.Mark(modalNextZone, modalSideStyle.Render(imageLabel(items[idx.Next])+" ›"))
		row = lipgloss.JoinHorizontal(lipgloss.Center, prev, "  ", active, "  ", next)
	}
	parts := []string{subtitleStyle.Render(title), row}
	if m.modal.Mode() == carousel.ModeCarousel && len(items) > 1 {
		parts = append(parts, m.indicators(len(items), idx.Current))
	}
	parts = append(parts, m.help.ShortHelpView(m.modalKeys.ShortHelp()))
	content := m.zone.Mark(modalContentZone, modalBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Center, parts...)))
	closeButton := m.zone.Mark(modalCloseZone, modalCloseStyle.Render("✕"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Right, closeButton, content))
}

// indicators draws one clickable dot per slide, or a counter once the dots
// would no longer fit.
func (m *model) indicators(n, current int) string {
	if n > maxIndicatorDots {
		return helperStyle.Render(fmt.Sprintf("%d / %d", current+1, n))
	}
	dots := make([]string, n)
	for i := range dots {
		dot := helperStyle.Render("○")
		if i == current {
			dot = indicatorActiveStyle.Render("●")
		}
		dots[i] = m.zone.Mark(modalDotZoneID(i), dot)
	}
	return strings.Join(dots, " ")
}

func joinLines(parts []string) string {
	return strings.Join(parts, "\n")
}

func renderLogo() string {
	if len(logoArtLines) == 0 {
		return ""
	}
	width := 0
	lineRunes := make([][]rune, len(logoArtLines))
	for i, line := range logoArtLines {
		runes := []rune(line)
		lineRunes[i] = runes
		if len(runes) > width {
			width = len(runes)
		}
	}
	width++
	height := len(logoArtLines) + 1

	type cell struct {
		r     rune
		style lipgloss.Style
	}
	grid := make([][]cell, height)
	for i := range grid {
		grid[i] = make([]cell, width)
	}
	for y, runes := range lineRunes {
		for x, r := range runes {
			if r != ' ' {
				grid[y+1][x+1] = cell{r: r, style: logoShadowStyle}
			}
		}
	}
	for y, runes := range lineRunes {
		for x, r := range runes {
			if r != ' ' {
				grid[y][x] = cell{r: r, style: logoFaceStyle}
			}
		}
	}

	lines := make([]string, height)
	for y, row := range grid {
		var b strings.Builder
		for _, c := range row {
			if c.r == 0 {
				b.WriteRune(' ')
				continue
			}
			b.WriteString(c.style.Render(string(c.r)))
		}
		lines[y] = b.String()
	}
	return logoContainerStyle.Render(strings.Join(lines, "\n"))
}

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	subtitleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("147"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	noteStyle          = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("214"))
	starStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))

	heroAccentColor        = lipgloss.Color("#ff8c00")
	heroEmberColor         = lipgloss.Color("#2b1400")
	heroTextColor          = lipgloss.Color("#fff4d0")
	heroSecondaryTextColor = lipgloss.Color("#ffb347")

	heroTitleStyle        = lipgloss.NewStyle().Bold(true).Foreground(heroAccentColor)
	heroBoxStyle          = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(heroAccentColor).Foreground(heroTextColor).Background(heroEmberColor).Padding(1, 2)
	taglineStyle          = lipgloss.NewStyle().Foreground(heroSecondaryTextColor).Italic(true)
	navStyle              = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4")).Padding(0, 1)
	navActiveStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	currentLineStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6"))
	menuBoxStyle          = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(1, 2)
	focusMarkerStyle      = lipgloss.NewStyle().Bold(true).Foreground(heroAccentColor)
	cardStyle             = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(0, 1)
	cardSelectedStyle     = cardStyle.BorderForeground(heroAccentColor)
	imageCardStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#7f5af0"))
	reviewCardStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(0, 1)
	stripButtonStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	stripButtonFocusStyle = lipgloss.NewStyle().Bold(true).Foreground(heroAccentColor)
	modalBoxStyle         = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("#7f5af0")).Padding(1, 2)
	modalSlideStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(heroAccentColor).Align(lipgloss.Center, lipgloss.Center)
	modalSideStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Faint(true)
	modalLabelStyle       = lipgloss.NewStyle().Bold(true).Foreground(heroTextColor)
	modalCloseStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")).Padding(0, 1)
	indicatorActiveStyle  = lipgloss.NewStyle().Foreground(heroAccentColor)
	logoFaceStyle         = lipgloss.NewStyle().Bold(true).Foreground(heroTextColor).Background(heroEmberColor)
	logoShadowStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#110600"))
	logoContainerStyle    = lipgloss.NewStyle().Padding(0, 1)
	logoArtLines          = []string{
		"        /\\          ",
		"   /\\  /  \\   /\\    ",
		"  /  \\/ /\\ \\_/  \\   ",
		" /   / /  \\ \\    \\  ",
		"/___/_/____\\_\\____\\ ",
	}
)
