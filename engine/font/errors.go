package font

import "errors"

var (
	ErrGlyphNotFound = errors.New("glyph not found")
	ErrBadOutline    = errors.New("malformed glyph outline")
)
