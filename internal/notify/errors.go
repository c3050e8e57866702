package notify

import "errors"

var errPanic = errors.New("sender panicked")
