package carousel

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLock struct {
	locked  bool
	unlocks int
}

func (l *fakeLock) LockScroll()   { l.locked = true }
func (l *fakeLock) UnlockScroll() { l.locked = false; l.unlocks++ }

func newTestModal() (*Modal, *fakeLock, *manualClock) {
	lock := &fakeLock{}
	clock := &manualClock{}
	return NewModal(ModalConfig{Lock: lock, Slides: SlidesConfig{Schedule: clock.Schedule}}), lock, clock
}

func TestModalClosedRendersNothing(t *testing.T) {
	m, lock, _ := newTestModal()
	assert.False(t, m.Visible())
	assert.Equal(t, "", m.CurrentItem())

	assert.Nil(t, m.OpenCarousel(nil, 0))
	assert.False(t, m.Visible())
	assert.False(t, lock.locked)
}

func TestModalLocksScrollWhileOpen(t *testing.T) {
	m, lock, _ := newTestModal()
	m.OpenCarousel([]string{"a", "b"}, 0)
	assert.True(t, lock.locked)

	m.Close()
	assert.False(t, lock.locked)
	assert.False(t, m.Visible())

	m.OpenSingle("a")
	m.Teardown()
	assert.False(t, lock.locked)
}

func TestModalSingleMode(t *testing.T) {
	m, _, clock := newTestModal()
	assert.Nil(t, m.OpenSingle("/images/home/home.jpg"))
	assert.Equal(t, ModeSingle, m.Mode())
	assert.Equal(t, "/images/home/home.jpg", m.CurrentItem())
	assert.Empty(t, clock.queue, "single image never auto-advances")
}

func TestModalCarouselStartsAtRequestedIndex(t *testing.T) {
	m, _, _ := newTestModal()
	cmd := m.OpenCarousel([]string{"A", "B", "C"}, 2)
	require.NotNil(t, cmd)
	assert.Equal(t, "C", m.CurrentItem())

	m.Update(cmd())
	assert.Equal(t, "A", m.CurrentItem())
}

func TestModalKeyboardOnlyWhileOpen(t *testing.T) {
	m, _, _ := newTestModal()
	_, handled := m.HandleKey(tea.KeyMsg{Type: tea.KeyRight})
	assert.False(t, handled, "closed modal must not consume keys")

	m.OpenCarousel([]string{"A", "B", "C"}, 0)

	_, handled = m.HandleKey(tea.KeyMsg{Type: tea.KeyRight})
	assert.True(t, handled)
	assert.Equal(t, "B", m.CurrentItem())

	_, handled = m.HandleKey(tea.KeyMsg{Type: tea.KeyLeft})
	assert.True(t, handled)
	_, handled = m.HandleKey(tea.KeyMsg{Type: tea.KeyLeft})
	assert.True(t, handled)
	assert.Equal(t, "C", m.CurrentItem())

	_, handled = m.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.False(t, handled)

	_, handled = m.HandleKey(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, handled)
	assert.False(t, m.Open())
}

func TestModalBackdropClick(t *testing.T) {
	m, _, _ := newTestModal()
	m.OpenCarousel([]string{"A", "B"}, 0)

	m.HandleClick(TargetContent)
	assert.True(t, m.Open(), "clicks inside the content bubble up without closing")

	m.HandleClick(TargetBackdrop)
	assert.False(t, m.Open())
}

func TestModalReopenRepositions(t *testing.T) {
	m, _, _ := newTestModal()
	items := []string{"A", "B", "C"}
	m.OpenCarousel(items, 1)
	m.HandleKey(tea.KeyMsg{Type: tea.KeyRight})
	m.Close()

	m.OpenCarousel(items, 1)
	assert.Equal(t, "B", m.CurrentItem())
	assert.True(t, m.Slides().Running())
}

func TestModalCloseStopsTimers(t *testing.T) {
	m, _, _ := newTestModal()
	tick := m.OpenCarousel([]string{"A", "B", "C"}, 0)
	inflight := tick()
	m.Close()
	assert.Nil(t, m.Update(inflight))
	assert.False(t, m.Slides().Running())
}

func TestRotate(t *testing.T) {
	items := []string{"a", "b", "c", "d"}
	assert.Equal(t, []string{"c", "d", "a", "b"}, Rotate(items, 2))
	assert.Equal(t, items, Rotate(items, 0))
	assert.Equal(t, items, Rotate(items, 7))
	assert.Nil(t, Rotate(nil, 1))
	assert.Equal(t, []string{"a", "b", "c", "d"}, items, "input is not modified")
}
