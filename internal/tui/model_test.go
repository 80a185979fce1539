package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parvatislap/lapas/internal/carousel"
	"github.com/parvatislap/lapas/internal/places"
	"github.com/parvatislap/lapas/internal/site"
)

func newTestModel(t *testing.T) *model {
	t.Helper()
	clock := &manualClock{}
	teaModel, ok := New(Config{Schedule: clock.schedule}).(*model)
	require.True(t, ok, "expected *model, got %T", teaModel)
	teaModel.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return teaModel
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelRendersEverySection(t *testing.T) {
	m := newTestModel(t)
	m.refreshViewport()
	for _, s := range sectionSequence {
		require.Contains(t, m.anchors, s, "missing anchor for %s", s)
	}
	assert.Zero(t, m.anchors[sectionHome], "home should anchor the top")
	view := m.View()
	for _, want := range []string{m.content.Name, "Hostel & Villa", "Contact"} {
		assert.Contains(t, view, want)
	}
}

func TestModelMeasuresPitchFromRenderedCards(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, float64(m.layout.cardWidth()+cardGap), m.cafeStrip.strip.Pitch())

	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.Equal(t, float64(m.layout.cardWidth()+cardGap), m.viewsStrip.strip.Pitch(),
		"views pitch not re-measured after resize")
}

func TestModelReviewsFallbackShowsNote(t *testing.T) {
	m := newTestModel(t)
	require.True(t, m.reviewsLoading, "reviews should be loading until the job reports back")
	m.Update(jobResultEnvelope{Payload: reviewsResultMsg{reviews: places.Fallback(), err: places.ErrMissingConfig}})
	assert.False(t, m.reviewsLoading)
	assert.Equal(t, cachedReviewsNote, m.reviewsNote)
	require.NotNil(t, m.reviewStrip)
	assert.Equal(t, len(places.Fallback()), m.reviewStrip.strip.Items())
	assert.True(t, m.reviewStrip.strip.Running(), "reviews strip should start scrolling")
	assert.Contains(t, m.buildPage().content, cachedReviewsNote)
}

func TestModelReviewsReplaceStrip(t *testing.T) {
	m := newTestModel(t)
	m.Update(reviewsResultMsg{reviews: places.Fallback()})
	first := m.reviewStrip
	live := []places.Review{{ID: "google-review-1", Stars: 5, Text: `"Lovely"`, Author: "- Asha, today"}}
	m.Update(reviewsResultMsg{reviews: live})
	assert.Empty(t, m.reviewsNote, "live reviews should not carry a note")
	assert.False(t, first.strip.Running(), "previous strip should be torn down")
	assert.Equal(t, 1, m.reviewStrip.strip.Items())
}

func TestModelReviewsCanceledIsQuiet(t *testing.T) {
	m := newTestModel(t)
	m.Update(reviewsResultMsg{err: context.Canceled})
	assert.Nil(t, m.reviewStrip)
	assert.Empty(t, m.errorMessage)
}

func TestModelOpenRoomLocksScroll(t *testing.T) {
	m := newTestModel(t)
	m.Update(runeKey("2"))
	require.Equal(t, focusRooms, m.focus)
	require.Equal(t, sectionHostel, m.currentSection())
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.roomIndex, "right should select the next room")

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.modal.Visible(), "enter should open the modal")
	room := m.content.Accommodation.Rooms[1]
	assert.Equal(t, room.Images, m.modal.Items())
	assert.Equal(t, room.Images[0], m.modal.CurrentItem())
	assert.True(t, m.scrollLocked, "page should lock while the modal is open")

	offset := m.viewport.YOffset
	m.scroll(5)
	m.Update(runeKey("j"))
	assert.Equal(t, offset, m.viewport.YOffset, "page scrolled behind the modal")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.modal.Open())
	assert.False(t, m.scrollLocked)
}

func TestModelGalleryOpensRotated(t *testing.T) {
	m := newTestModel(t)
	m.selectSection(sectionCafe)
	require.Equal(t, focusCafe, m.focus)
	m.cafeStrip.strip.NavigateNext()
	m.cafeStrip.snap()

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	images := m.content.Cafe.Images
	assert.Equal(t, carousel.Rotate(images, 1), m.modal.Items(), "modal should start at the leading card")
	assert.Equal(t, carousel.ModeCarousel, m.modal.Mode())
}

func TestModelHeroOpensSingleImage(t *testing.T) {
	m := newTestModel(t)
	require.Equal(t, focusHero, m.focus)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, carousel.ModeSingle, m.modal.Mode())
	assert.Equal(t, m.content.HeroImage, m.modal.CurrentItem())
}

func TestModelEnterFollowsFocusNotScroll(t *testing.T) {
	t.Run("contact on a window tall enough to show the whole page", func(t *testing.T) {
		m := newTestModel(t)
		m.refreshViewport()
		m.Update(tea.WindowSizeMsg{Width: 120, Height: m.lineCount + 20})
		m.selectSection(sectionContact)
		require.Equal(t, focusContact, m.focus)
		require.Equal(t, sectionHome, m.currentSection(), "page cannot scroll on a tall window")

		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		assert.True(t, m.form.editing, "enter should start the contact form")
		assert.False(t, m.modal.Open(), "hero must not open while contact is focused")
	})

	t.Run("cafe focused after scrolling back to the top", func(t *testing.T) {
		m := newTestModel(t)
		m.selectSection(sectionCafe)
		m.viewport.SetYOffset(0)
		require.Equal(t, sectionHome, m.currentSection())

		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		assert.Equal(t, carousel.ModeCarousel, m.modal.Mode())
		assert.Equal(t, m.content.Cafe.Images[0], m.modal.CurrentItem())
	})
}

func TestModelModalClickRouting(t *testing.T) {
	m := newTestModel(t)
	m.openRoom(0)
	images := m.content.Accommodation.Rooms[0].Images

	m.clickModal(modalContentZone)
	assert.True(t, m.modal.Open(), "clicks on the content keep the modal open")
	m.clickModal(modalNextZone)
	assert.Equal(t, images[1], m.modal.CurrentItem(), "next button should advance")
	m.clickModal(modalPrevZone)
	m.clickModal(modalPrevZone)
	assert.Equal(t, images[len(images)-1], m.modal.CurrentItem(), "prev should wrap")
	m.clickModal("")
	assert.False(t, m.modal.Open(), "backdrop click should close")
	assert.False(t, m.scrollLocked)

	m.openRoom(0)
	m.clickModal(modalCloseZone)
	assert.False(t, m.modal.Open(), "close button should close")
}

func TestModelIndicatorDotJumpsToSlide(t *testing.T) {
	m := newTestModel(t)
	m.openRoom(0)
	images := m.content.Accommodation.Rooms[0].Images
	require.Greater(t, len(images), 3)
	running := m.modal.Slides().Running()

	m.clickModal(modalDotZoneID(3))
	assert.True(t, m.modal.Open(), "dot clicks keep the modal open")
	assert.Equal(t, images[3], m.modal.CurrentItem())
	assert.Equal(t, running, m.modal.Slides().Running(), "jumping leaves the auto-advance alone")

	m.clickModal(modalDotZoneID(len(images) + 5))
	assert.Equal(t, images[3], m.modal.CurrentItem(), "out of range dots are ignored")
	assert.True(t, m.modal.Open())
}

func TestModalDotZoneIDRoundTrip(t *testing.T) {
	i, ok := modalDotIndex(modalDotZoneID(7))
	require.True(t, ok)
	assert.Equal(t, 7, i)

	for _, id := range []string{modalContentZone, "modal:dot:", "modal:dot:x", ""} {
		_, ok := modalDotIndex(id)
		assert.False(t, ok, id)
	}
}

func TestModelModalSwallowsPageKeys(t *testing.T) {
	m := newTestModel(t)
	m.openRoom(0)
	m.Update(runeKey("6"))
	assert.NotEqual(t, focusContact, m.focus, "section keys must not reach the page while the modal is open")
	_, cmd := m.Update(runeKey("q"))
	assert.NotNil(t, cmd)
	assert.True(t, m.quitting, "q should still quit")
}

func TestModelSectionKeysAndFocus(t *testing.T) {
	m := newTestModel(t)
	m.Update(runeKey("3"))
	require.Equal(t, focusCafe, m.focus)
	require.Equal(t, sectionCafe, m.currentSection())
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, focusReviews, m.focus, "tab should move focus to reviews")
	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, focusContact, m.focus, "shift+tab should wrap to contact")
}

func TestModelMenu(t *testing.T) {
	m := newTestModel(t)
	m.Update(runeKey("m"))
	require.True(t, m.menuOpen, "m should open the menu")
	assert.Contains(t, m.View(), "Sections")
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.menuOpen, "enter should close the menu")
	assert.Equal(t, sectionCafe, m.currentSection())
}

func TestModelHelpToggleShrinksViewport(t *testing.T) {
	m := newTestModel(t)
	before := m.viewport.Height
	m.Update(runeKey("?"))
	assert.True(t, m.help.ShowAll)
	assert.Equal(t, before-(fullHelpRows-1), m.viewport.Height)
}

func TestModelContactFormBuildsWhatsAppLink(t *testing.T) {
	stubClipboard(t, nil)
	m := newTestModel(t)
	m.selectSection(sectionContact)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.form.editing, "enter on contact should start the form")

	for range fieldMessage + 1 {
		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	}
	assert.Equal(t, site.ErrMissingName.Error(), m.errorMessage)

	m.form.inputs[fieldFirstName].SetValue("Asha")
	m.form.inputs[fieldLastName].SetValue("Rao")
	m.form.inputs[fieldPhone].SetValue("+91 98765 43210")
	m.form.inputs[fieldMessage].SetValue("Two beds in March?")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd, "submit should start the clipboard job")
	assert.Regexp(t, `^https://wa\.me/`+m.content.Links.WhatsApp+`\?text=`, m.whatsAppURL)
	assert.Contains(t, m.whatsAppURL, "Asha%20Rao")
	assert.False(t, m.form.editing)
	assert.Empty(t, m.form.inputs[fieldFirstName].Value(), "form should reset after sending")
}

func TestModelClipboardResult(t *testing.T) {
	m := newTestModel(t)
	m.Update(clipboardResultMsg{label: "booking link", value: "https://example.com"})
	assert.Contains(t, m.infoMessage, "Copied booking link")
	m.Update(clipboardResultMsg{label: "booking link", value: "https://example.com", err: context.DeadlineExceeded})
	assert.Contains(t, m.infoMessage, "https://example.com", "failure should show the link")
}

func TestModelQuitTearsDownEngines(t *testing.T) {
	m := newTestModel(t)
	m.cafeStrip.start()
	m.viewsStrip.start()
	m.openRoom(0)

	_, cmd := m.Update(runeKey("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.False(t, m.cafeStrip.strip.Running())
	assert.False(t, m.viewsStrip.strip.Running())
	assert.False(t, m.modal.Open())
	assert.False(t, m.scrollLocked)
	assert.Empty(t, m.View(), "view should be empty after quitting")
}

func TestModelForwardsTimerMessages(t *testing.T) {
	m := newTestModel(t)
	cmd := m.cafeStrip.start()
	require.NotNil(t, cmd, "cafe strip should start")
	before := m.cafeStrip.strip.Offset()
	m.Update(cmd())
	assert.Greater(t, m.cafeStrip.strip.Offset(), before, "frame message should reach the cafe strip")
	assert.Zero(t, m.viewsStrip.strip.Offset(), "frame for the cafe strip must not move the views strip")
}
