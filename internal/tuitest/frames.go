package tuitest

import (
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
)

// Recording is the raw terminal stream of one run.
type Recording struct {
	Raw      []byte
	Frames   []Frame
	Duration time.Duration
}

// Frame is one repaint: everything the program wrote after moving the
// cursor back to redraw.
type Frame struct {
	Index int
	Raw   string
	// Text is Raw without escapes or trailing blank space.
	Text string
}

// repaint matches what a renderer emits before drawing over the previous
// screen: erase display, cursor home, or cursor up.
var repaint = regexp.MustCompile(`\x1b\[(?:[0-9]*J|(?:1;1)?H|[0-9]*A)`)

var controlStripper = strings.NewReplacer("\r", "", "\x0e", "", "\x0f", "")

// plainText drops carriage returns, charset shifts and every escape sequence.
func plainText(raw string) string {
	return ansi.Strip(controlStripper.Replace(raw))
}

func splitFrames(raw []byte) []Frame {
	var frames []Frame
	for _, chunk := range repaint.Split(string(raw), -1) {
		text := trimFrame(plainText(strings.Trim(chunk, "\x00")))
		if text == "" {
			continue
		}
		frames = append(frames, Frame{Index: len(frames), Raw: chunk, Text: text})
	}
	return frames
}

func trimFrame(s string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// Plain is the whole stream as text.
func (r *Recording) Plain() string {
	if r == nil {
		return ""
	}
	return plainText(string(r.Raw))
}

// Contains reports whether text was drawn at any point.
func (r *Recording) Contains(text string) bool {
	return strings.Contains(r.Plain(), text)
}

// LastFrame is the final repaint before the program exited.
func (r *Recording) LastFrame() (Frame, bool) {
	if r == nil || len(r.Frames) == 0 {
		return Frame{}, false
	}
	return r.Frames[len(r.Frames)-1], true
}

// FrameWith returns the first repaint that drew text.
func (r *Recording) FrameWith(text string) (Frame, bool) {
	if r == nil {
		return Frame{}, false
	}
	for _, f := range r.Frames {
		if strings.Contains(f.Text, text) {
			return f, true
		}
	}
	return Frame{}, false
}
