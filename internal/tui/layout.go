package tui

import (
	"strings"

	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
)

type pageLayout struct {
	windowWidth    int
	windowHeight   int
	viewportWidth  int
	viewportHeight int
	headerHeight   int
	footerHeight   int
}

func newPageLayout() pageLayout {
	return pageLayout{
		viewportWidth:  80,
		viewportHeight: 20,
		headerHeight:   3,
		footerHeight:   2,
	}
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	innerWidth := width - viewportHorizontalPadding
	if innerWidth < minViewportWidth {
		innerWidth = minViewportWidth
	}
	l.viewportWidth = innerWidth
	l.headerHeight = 3
	l.footerHeight = 2
	usable := height - l.headerHeight - l.footerHeight
	if usable < 6 {
		usable = 6
	}
	l.viewportHeight = usable
}

// cardWidth sizes gallery cards so that roughly three fit the window.
func (l pageLayout) cardWidth() int {
	width := l.stripWindow()/3 - cardGap
	if width > maxCardWidth {
		width = maxCardWidth
	}
	if width < minCardWidth {
		width = minCardWidth
	}
	return width
}

// reviewCardWidth leaves room for two review cards side by side.
func (l pageLayout) reviewCardWidth() int {
	width := l.stripWindow()/2 - cardGap
	if width > maxCardWidth+8 {
		width = maxCardWidth + 8
	}
	if width < minCardWidth+8 {
		width = minCardWidth + 8
	}
	return width
}

// stripWindow is the visible width of a strip between its ‹ › buttons.
func (l pageLayout) stripWindow() int {
	return l.viewportWidth - 4
}

type contentBuilder struct {
	builder strings.Builder
	lines   int
}

func (cb *contentBuilder) WriteString(s string) {
	cb.builder.WriteString(s)
	cb.lines += strings.Count(s, "\n")
}

func (cb *contentBuilder) WriteRune(r rune) {
	cb.builder.WriteRune(r)
	if r == '\n' {
		cb.lines++
	}
}

// WriteBlock writes s and terminates it with a newline.
func (cb *contentBuilder) WriteBlock(s string) {
	cb.WriteString(s)
	cb.WriteRune('\n')
}

func (cb *contentBuilder) String() string {
	return cb.builder.String()
}

func (cb *contentBuilder) Line() int {
	return cb.lines
}

type pageView struct {
	content string
	anchors map[section]int
	lines   int
}

func indentMultiline(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

// clampLines keeps at most limit wrapped lines, marking the cut with an ellipsis.
func clampLines(text string, width, limit int) string {
	lines := strings.Split(wordwrap.String(text, width), "\n")
	if len(lines) <= limit {
		return strings.Join(lines, "\n")
	}
	lines = lines[:limit]
	last := truncate.String(lines[limit-1], uint(width-1))
	lines[limit-1] = strings.TrimRight(last, " ") + "…"
	return strings.Join(lines, "\n")
}

func (m *model) wrapWidth(padding int) int {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	if padding < 0 {
		padding = 0
	}
	available := width - padding
	if available < 20 {
		available = 20
	}
	return available
}

func (m *model) clampYOffset(offset int) int {
	maxOffset := m.lineCount - m.viewport.Height
	if m.viewport.Height <= 0 {
		maxOffset = m.lineCount - 1
	}
	if maxOffset < 0 {
		maxOffset = 0
	}
	if offset < 0 {
		return 0
	}
	if offset > maxOffset {
		return maxOffset
	}
	return offset
}

// imageLabel turns "/images/cafe/cafe3.jpg" into "cafe3".
func imageLabel(path string) string {
	name := path
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	return name
}
