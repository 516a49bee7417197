package convert

import "errors"

var (
	// ErrFormat reports a malformed literal that cannot be decoded at all.
	ErrFormat = errors.New("malformed literal")
	// ErrLookup reports an object reference naming an object that does not exist.
	ErrLookup = errors.New("object reference not found")
	// ErrFallback reports a leaf that was decoded to its kind's zero value.
	// Callers are expected to log it and carry on.
	ErrFallback = errors.New("decoded to zero value")
	ErrKind     = errors.New("value kind mismatch")
)
