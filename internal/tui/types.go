package tui

import (
	"github.com/parvatislap/lapas/internal/places"
)

type section int

const (
	sectionHome section = iota
	sectionHostel
	sectionCafe
	sectionReviews
	sectionViews
	sectionContact
)

var sectionSequence = []section{
	sectionHome,
	sectionHostel,
	sectionCafe,
	sectionReviews,
	sectionViews,
	sectionContact,
}

func (s section) String() string {
	switch s {
	case sectionHome:
		return "Home"
	case sectionHostel:
		return "Hostel & Villa"
	case sectionCafe:
		return "Cafe & Things to Do"
	case sectionReviews:
		return "Reviews"
	case sectionViews:
		return "Views"
	case sectionContact:
		return "Contact"
	default:
		return ""
	}
}

// focusTarget is the element that receives arrow keys and enter.
type focusTarget int

const (
	focusHero focusTarget = iota
	focusRooms
	focusCafe
	focusReviews
	focusViews
	focusContact
)

var focusSequence = []focusTarget{focusHero, focusRooms, focusCafe, focusReviews, focusViews, focusContact}

func (f focusTarget) section() section {
	switch f {
	case focusHero:
		return sectionHome
	case focusRooms:
		return sectionHostel
	case focusCafe:
		return sectionCafe
	case focusReviews:
		return sectionReviews
	case focusViews:
		return sectionViews
	default:
		return sectionContact
	}
}

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
	cardGap                   = 2
	maxCardWidth              = 40
	minCardWidth              = 18
	imageCardHeight           = 5
)

const (
	cachedReviewsNote = "Showing cached reviews"
	loadingReviews    = "Loading reviews…"
)

type reviewsResultMsg struct {
	reviews []places.Review
	err     error
}

type clipboardResultMsg struct {
	label string
	value string
	err   error
}

type enquirySavedMsg struct {
	path string
	err  error
}

// easeMsg drives the spring animation of one strip view.
type easeMsg struct {
	strip string
	gen   uint64
}
