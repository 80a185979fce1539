package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageLayoutUpdate(t *testing.T) {
	cases := []struct {
		name           string
		width          int
		height         int
		viewportWidth  int
		viewportHeight int
		cardWidth      int
	}{
		{name: "narrow", width: 80, height: 24, viewportWidth: 76, viewportHeight: 19, cardWidth: 22},
		{name: "wide", width: 200, height: 40, viewportWidth: 196, viewportHeight: 35, cardWidth: 40},
		{name: "tiny", width: 30, height: 8, viewportWidth: 40, viewportHeight: 6, cardWidth: 18},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			layout := newPageLayout()
			layout.Update(tc.width, tc.height)
			assert.Equal(t, tc.viewportWidth, layout.viewportWidth)
			assert.Equal(t, tc.viewportHeight, layout.viewportHeight)
			assert.Equal(t, tc.cardWidth, layout.cardWidth())
		})
	}
}

func TestContentBuilderCountsLines(t *testing.T) {
	cb := &contentBuilder{}
	cb.WriteBlock("one")
	cb.WriteString("two\nthree")
	cb.WriteRune('\n')
	assert.Equal(t, 3, cb.Line())
	assert.Equal(t, "one\ntwo\nthree\n", cb.String())
}

func TestClampLines(t *testing.T) {
	text := strings.Repeat("snow peaks and pine forests ", 10)
	got := clampLines(text, 20, 3)
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasSuffix(lines[2], "…"), "clamped text should end with an ellipsis, got %q", lines[2])
	assert.Equal(t, "short", clampLines("short", 20, 3))
}

func TestImageLabel(t *testing.T) {
	cases := map[string]string{
		"/images/cafe/cafe3.jpg": "cafe3",
		"Picture52.png":          "Picture52",
		"/images/noext":          "noext",
		".hidden":                ".hidden",
	}
	for in, want := range cases {
		assert.Equal(t, want, imageLabel(in), in)
	}
}
