package crypto

import "errors"

// ErrInvalidHashLength is returned when a hex string does not decode to
// exactly HashSize bytes.
var ErrInvalidHashLength = errors.New("hex string does not encode a 32-byte digest")
