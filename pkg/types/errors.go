package types

import "errors"

var (
	// ErrMalformedListing is returned when the raw listing lacks required parts.
	ErrMalformedListing = errors.New("malformed listing data")
	// ErrLengthMismatch is returned when markers and listing items are not index aligned.
	ErrLengthMismatch = errors.New("markers and listing items differ in length")
	// ErrNotASequence is returned when a list field is neither an array nor an index keyed object.
	ErrNotASequence = errors.New("value is not a sequence")
)
