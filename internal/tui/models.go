package tui

type View int

const (
	ViewFeed View = iota
	ViewReader
)

// inputFocus says which text input, if any, receives keystrokes.
type inputFocus int

const (
	focusNone inputFocus = iota
	focusSearch
	focusFilter
)
