package ui

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the navbar drops hints.
	LayoutCompactWidth = 80

	// FormMaxWidth caps the width of the login, register and editor panels.
	FormMaxWidth = 72
)

// Feed layout.
const (
	// CardHeight is the rendered height of one post card, borders included.
	CardHeight = 7

	// CardContentLines is how many lines of post content a card shows.
	CardContentLines = 2

	// LoadMoreThreshold is how close to the last card the selection must be
	// before the next page is requested.
	LoadMoreThreshold = 2
)

// chromeHeight is the navbar plus the command bar.
const chromeHeight = 2
