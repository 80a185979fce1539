package carousel

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStrip(t *testing.T, items int, pitch float64) (*Strip, *manualClock) {
	t.Helper()
	clock := &manualClock{}
	s := NewStrip(items, StripConfig{Speed: 0.6, FallbackPitch: 50, Schedule: clock.Schedule})
	s.Measure(pitch)
	return s, clock
}

func TestStripOffsetStaysWithinLoop(t *testing.T) {
	s, _ := newTestStrip(t, 10, 100)
	require.Equal(t, 1000.0, s.LoopWidth())

	cmd := s.Start()
	require.NotNil(t, cmd)

	wraps := 0
	prev := s.Offset()
	for i := 0; i < 1667; i++ {
		cmd = s.Update(cmd())
		require.NotNil(t, cmd, "frame loop stopped at tick %d", i)
		off := s.Offset()
		require.GreaterOrEqual(t, off, 0.0)
		require.Less(t, off, s.LoopWidth())
		if off < prev {
			wraps++
		}
		prev = off
	}
	assert.GreaterOrEqual(t, wraps, 1)
}

func TestStripFullLoopReturnsToOrigin(t *testing.T) {
	s, _ := newTestStrip(t, 7, 200)
	require.Equal(t, 1400.0, s.LoopWidth())

	cmd := s.Start()
	ticks := 0
	for {
		cmd = s.Update(cmd())
		ticks++
		if s.Offset() == 0 {
			break
		}
		require.Less(t, ticks, 5000, "strip never wrapped")
	}

	assert.GreaterOrEqual(t, float64(ticks)*0.6, 1400.0)
	assert.Equal(t, 2334, ticks)
	assert.Equal(t, "translateX(0)", s.Transform())
	assert.Equal(t, TransitionNone, s.Transition())
}

func TestStripUsesFallbackPitchUntilMeasured(t *testing.T) {
	clock := &manualClock{}
	s := NewStrip(4, StripConfig{FallbackPitch: 424, Schedule: clock.Schedule})
	assert.Equal(t, 424.0, s.Pitch())

	s.Measure(0)
	s.Measure(-3)
	assert.Equal(t, 424.0, s.Pitch())

	s.Measure(120)
	assert.Equal(t, 120.0, s.Pitch())
	assert.Equal(t, 480.0, s.LoopWidth())
}

func TestStripMeasureRewrapsOffset(t *testing.T) {
	s, _ := newTestStrip(t, 3, 100)
	s.NavigateNext()
	s.NavigateNext()
	require.Equal(t, 200.0, s.Offset())

	s.Measure(50)
	assert.Equal(t, 0.0, s.Offset())
}

func TestStripEmptyNeverStarts(t *testing.T) {
	s, clock := newTestStrip(t, 0, 100)
	assert.Nil(t, s.Start())
	assert.Nil(t, s.NavigateNext())
	assert.Nil(t, s.HoverLeave())
	assert.False(t, s.Running())
	assert.Empty(t, clock.queue)
}

func TestStripStartIsSingleDriver(t *testing.T) {
	s, clock := newTestStrip(t, 5, 100)
	require.NotNil(t, s.Start())
	assert.Nil(t, s.Start())
	assert.Equal(t, 1, clock.count(isFrame))
}

func TestStripStopIsIdempotent(t *testing.T) {
	s, _ := newTestStrip(t, 5, 100)
	cmd := s.Start()
	s.Stop()
	s.Stop()
	assert.False(t, s.Running())
	assert.Nil(t, s.Update(cmd()), "frame after stop must not reschedule")
}

func TestStripNavigation(t *testing.T) {
	s, clock := newTestStrip(t, 4, 100)
	s.Start()

	s.NavigateNext()
	assert.False(t, s.Running())
	assert.Equal(t, 100.0, s.Offset())
	assert.Equal(t, TransitionEase, s.Transition())
	assert.Equal(t, DefaultStripResume, clock.last().delay)

	s.NavigatePrev()
	assert.Equal(t, 0.0, s.Offset())

	s.NavigatePrev()
	assert.Equal(t, 0.0, s.Offset(), "prev clamps at zero")

	for i := 0; i < 4; i++ {
		s.NavigateNext()
	}
	assert.Equal(t, 0.0, s.Offset(), "next wraps past the loop width")
}

func TestStripDebouncedResume(t *testing.T) {
	s, clock := newTestStrip(t, 6, 100)
	frame := s.Start()
	require.NotNil(t, frame)
	staleFrame := frame()

	var resumes []tea.Msg
	for i := 0; i < 3; i++ {
		cmd := s.NavigateNext()
		require.NotNil(t, cmd)
		resumes = append(resumes, cmd())
	}
	framesBefore := clock.count(isFrame)

	assert.Nil(t, s.Update(staleFrame), "frame from the interrupted loop is stale")
	assert.Nil(t, s.Update(resumes[0]))
	assert.Nil(t, s.Update(resumes[1]))
	assert.False(t, s.Running())

	restart := s.Update(resumes[2])
	require.NotNil(t, restart)
	assert.True(t, s.Running())
	assert.Nil(t, s.Update(resumes[2]), "a resume fires once")
	assert.Equal(t, framesBefore+1, clock.count(isFrame), "driver restarted exactly once")
}

func TestStripHoverTakesPrecedence(t *testing.T) {
	s, _ := newTestStrip(t, 6, 100)
	s.Start()

	resume := s.NavigateNext()
	s.HoverEnter()
	assert.True(t, s.Hovered())
	assert.False(t, s.Running())
	assert.Nil(t, s.Update(resume()), "hover cancels the pending resume")

	resume = s.NavigateNext()
	assert.Nil(t, s.Update(resume()), "no resume while the pointer stays over the strip")
	assert.False(t, s.Running())

	require.NotNil(t, s.HoverLeave())
	assert.True(t, s.Running())
	assert.False(t, s.Hovered())
}

func TestStripTeardownDropsInflightMessages(t *testing.T) {
	s, _ := newTestStrip(t, 6, 100)
	frame := s.Start()
	frame = pump(frame, s.Update, 10)
	inflight := frame()
	resume := s.NavigateNext()
	pendingResume := resume()

	offset := s.Offset()
	s.Teardown()

	assert.NotPanics(t, func() {
		assert.Nil(t, s.Update(inflight))
		assert.Nil(t, s.Update(pendingResume))
	})
	assert.Equal(t, offset, s.Offset())
	assert.False(t, s.Running())
	assert.Nil(t, s.Start())
	assert.Nil(t, s.NavigateNext())
	assert.Equal(t, offset, s.Offset())
}

func TestStripIgnoresOtherInstances(t *testing.T) {
	a, _ := newTestStrip(t, 3, 100)
	b, _ := newTestStrip(t, 3, 100)
	a.Start()
	cmd := b.Start()
	assert.Nil(t, a.Update(cmd()))
	assert.Equal(t, 0.0, a.Offset())
}

func TestStripTransform(t *testing.T) {
	s, _ := newTestStrip(t, 3, 100)
	assert.Equal(t, "translateX(0)", s.Transform())
	s.NavigateNext()
	assert.Equal(t, "translateX(-100px)", s.Transform())
	assert.Equal(t, "transform 0.4s ease", s.Transition().String())
}

func TestTickSchedulerReturnsCommand(t *testing.T) {
	assert.NotNil(t, TickScheduler(time.Millisecond, nil))
}
