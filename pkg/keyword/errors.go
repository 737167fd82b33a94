package keyword

import "errors"

// ErrInvalidKeyword is returned by Registry.Register when the supplied
// keyword is the empty string.
var ErrInvalidKeyword = errors.New("keyword: invalid keyword, must be non-empty")
