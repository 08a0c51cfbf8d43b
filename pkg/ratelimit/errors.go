package ratelimit

import "errors"

// ErrInvalidArgument is returned by SetSingleBurstBytes when given a
// negative byte count. The setter makes no state change in this case.
var ErrInvalidArgument = errors.New("ratelimit: invalid argument")
