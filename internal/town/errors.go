package town

import "errors"

// ErrTownClosed is returned by mutations that arrive after the town has been
// torn down.
var ErrTownClosed = errors.New("town has been closed")
