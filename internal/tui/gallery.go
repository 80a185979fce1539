package tui

import (
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/parvatislap/lapas/internal/carousel"
)

const (
	easeFPS       = 60
	springFreq    = 12.0
	springDamping = 1.0
	settleEpsilon = 0.5
)

// stripView renders a carousel.Strip as a window over a repeated row of
// cards. Manual jumps are eased with a spring; frame ticks snap.
type stripView struct {
	name     string
	strip    *carousel.Strip
	items    []string
	schedule carousel.Scheduler

	cardWidth int
	row       []string

	display  float64
	velocity float64
	spring   harmonica.Spring
	easeGen  uint64
	easing   bool
}

func newStripView(name string, items []string, cfg carousel.StripConfig) *stripView {
	schedule := cfg.Schedule
	if schedule == nil {
		schedule = carousel.TickScheduler
	}
	return &stripView{
		name:     name,
		strip:    carousel.NewStrip(len(items), cfg),
		items:    items,
		schedule: schedule,
		spring:   harmonica.NewSpring(harmonica.FPS(easeFPS), springFreq, springDamping),
	}
}

func (v *stripView) zoneID() string     { return "strip:" + v.name }
func (v *stripView) prevZoneID() string { return "strip:" + v.name + ":prev" }
func (v *stripView) nextZoneID() string { return "strip:" + v.name + ":next" }

// setCards lays the rendered cards out in a row and feeds the measured
// pitch back into the strip.
func (v *stripView) setCards(cards []string, window int) {
	v.cardWidth = 0
	for _, card := range cards {
		if w := lipgloss.Width(card); w > v.cardWidth {
			v.cardWidth = w
		}
	}
	if len(cards) == 0 || v.cardWidth == 0 {
		v.row = nil
		return
	}
	v.strip.Measure(float64(v.cardWidth + cardGap))

	loop := int(v.strip.LoopWidth())
	copies := 2
	if loop > 0 {
		copies = window/loop + 2
	}
	cell := lipgloss.NewStyle().Width(v.cardWidth).MarginRight(cardGap)
	parts := make([]string, 0, len(cards)*copies)
	for c := 0; c < copies; c++ {
		for _, card := range cards {
			parts = append(parts, cell.Render(card))
		}
	}
	v.row = strings.Split(lipgloss.JoinHorizontal(lipgloss.Top, parts...), "\n")
	v.snap()
}

// position is the rendered offset folded into one loop.
func (v *stripView) position() float64 {
	loop := v.strip.LoopWidth()
	if loop <= 0 {
		return 0
	}
	pos := math.Mod(v.display, loop)
	if pos < 0 {
		pos += loop
	}
	return pos
}

func (v *stripView) render(window int) string {
	if len(v.row) == 0 || window <= 0 {
		return ""
	}
	left := int(math.Round(v.position()))
	lines := make([]string, len(v.row))
	for i, line := range v.row {
		lines[i] = ansi.Cut(line, left, left+window)
	}
	return strings.Join(lines, "\n")
}

// cardAt maps a column inside the window to an item index.
func (v *stripView) cardAt(col int) int {
	n := len(v.items)
	pitch := v.strip.Pitch()
	if n == 0 || pitch <= 0 {
		return -1
	}
	idx := int(math.Floor((v.position() + float64(col)) / pitch))
	return ((idx % n) + n) % n
}

// leading is the item nearest the left edge of the window.
func (v *stripView) leading() int {
	n := len(v.items)
	pitch := v.strip.Pitch()
	if n == 0 || pitch <= 0 {
		return 0
	}
	return int(math.Round(v.position()/pitch)) % n
}

func (v *stripView) start() tea.Cmd { return v.strip.Start() }

func (v *stripView) next() tea.Cmd {
	return tea.Batch(v.strip.NavigateNext(), v.ease())
}

func (v *stripView) prev() tea.Cmd {
	return tea.Batch(v.strip.NavigatePrev(), v.ease())
}

func (v *stripView) hover(inside bool) tea.Cmd {
	switch {
	case inside && !v.strip.Hovered():
		v.strip.HoverEnter()
	case !inside && v.strip.Hovered():
		return v.strip.HoverLeave()
	}
	return nil
}

func (v *stripView) teardown() {
	v.strip.Teardown()
	v.easeGen++
	v.easing = false
}

func (v *stripView) Update(msg tea.Msg) tea.Cmd {
	if ease, ok := msg.(easeMsg); ok {
		if ease.strip != v.name {
			return nil
		}
		return v.step(ease.gen)
	}
	cmd := v.strip.Update(msg)
	if v.strip.Transition() == carousel.TransitionNone {
		v.snap()
	}
	return cmd
}

func (v *stripView) snap() {
	v.display = v.strip.Offset()
	v.velocity = 0
	v.easeGen++
	v.easing = false
}

// ease starts a spring towards the strip offset along the shorter way
// round the loop.
func (v *stripView) ease() tea.Cmd {
	if v.strip.Transition() != carousel.TransitionEase {
		return nil
	}
	target := v.strip.Offset()
	if loop := v.strip.LoopWidth(); loop > 0 {
		for target-v.display > loop/2 {
			v.display += loop
		}
		for v.display-target > loop/2 {
			v.display -= loop
		}
	}
	v.easeGen++
	v.easing = true
	return v.schedule(time.Second/easeFPS, easeMsg{strip: v.name, gen: v.easeGen})
}

func (v *stripView) step(gen uint64) tea.Cmd {
	if !v.easing || gen != v.easeGen {
		return nil
	}
	target := v.strip.Offset()
	v.display, v.velocity = v.spring.Update(v.display, v.velocity, target)
	if math.Abs(target-v.display) < settleEpsilon && math.Abs(v.velocity) < settleEpsilon {
		v.display = target
		v.velocity = 0
		v.easing = false
		return nil
	}
	return v.schedule(time.Second/easeFPS, easeMsg{strip: v.name, gen: gen})
}
