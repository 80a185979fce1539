package carousel

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type scheduled struct {
	delay time.Duration
	msg   tea.Msg
}

// manualClock records every scheduled message instead of sleeping. The
// returned commands deliver their message immediately when invoked.
type manualClock struct {
	queue []scheduled
}

func (c *manualClock) Schedule(d time.Duration, msg tea.Msg) tea.Cmd {
	c.queue = append(c.queue, scheduled{delay: d, msg: msg})
	return func() tea.Msg { return msg }
}

func (c *manualClock) last() scheduled {
	if len(c.queue) == 0 {
		return scheduled{}
	}
	return c.queue[len(c.queue)-1]
}

func (c *manualClock) count(match func(tea.Msg) bool) int {
	n := 0
	for _, s := range c.queue {
		if match(s.msg) {
			n++
		}
	}
	return n
}

func isFrame(msg tea.Msg) bool {
	_, ok := msg.(frameMsg)
	return ok
}

// pump feeds the result of cmd back into update n times.
func pump(cmd tea.Cmd, update func(tea.Msg) tea.Cmd, n int) tea.Cmd {
	for i := 0; i < n && cmd != nil; i++ {
		cmd = update(cmd())
	}
	return cmd
}
