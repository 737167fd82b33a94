package repack

import "errors"

// ErrInvalidConfiguration is returned by NewChunkRepacker when n < 1.
var ErrInvalidConfiguration = errors.New("repack: invalid configuration")
