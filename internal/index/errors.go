package index

import "errors"

// ErrAlreadyIndexed is returned by InsertNew when called for a user key
// that already has a TK mapping.
var ErrAlreadyIndexed = errors.New("index: key already indexed")
