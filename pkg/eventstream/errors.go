package eventstream

import "errors"

// ErrNilEvent is returned when a nil event is passed to a Publisher.
var ErrNilEvent = errors.New("eventstream: nil event")
