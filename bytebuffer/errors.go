package bytebuffer

import "github.com/pkg/errors"

var (
	// ErrUnderflow is returned by a pop that needs more bytes than are unread.
	// The buffer is unchanged, so the caller may push more data and retry.
	ErrUnderflow = errors.New("not enough data in buffer")

	// ErrAllocation is returned when the backing store cannot grow. The
	// buffer should not be used afterwards.
	ErrAllocation = errors.New("could not allocate")

	// ErrStringTooLong is returned when a string does not fit the 16 bit
	// length prefix. Nothing is pushed.
	ErrStringTooLong = errors.New("string too long")

	// ErrInvalidCapacity is returned by PopStringInto for a destination that
	// cannot even hold the terminator.
	ErrInvalidCapacity = errors.New("invalid destination capacity")
)
