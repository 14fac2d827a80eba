package bytebuffer

import (
	"github.com/pkg/errors"

	"github.com/performancecopilot/wirebuf/wire"
)

// PushString pushes the byte length of s as a network order uint16 followed
// by the bytes of s. Strings longer than wire.MaxStringLength are refused
// rather than having their length prefix truncated.
func (b *ByteBuffer) PushString(s string) error {
	if len(s) > wire.MaxStringLength {
		return errors.Wrapf(ErrStringTooLong, "%d bytes, at most %d fit", len(s), wire.MaxStringLength)
	}

	if err := b.grow(wire.StringLength(s)); err != nil {
		return err
	}

	return b.wrote(b.writer().WriteString(s, b.wpos))
}

// MustPushString panics if PushString fails.
func (b *ByteBuffer) MustPushString(s string) {
	if err := b.PushString(s); err != nil {
		panic(err)
	}
}

// PopStringInto pops a string into dst and writes a 0 terminator after it.
// At most len(dst)-1 bytes are copied; it returns how many were.
//
// When the string is longer than dst can hold, the rest of it is discarded,
// not left unread: the next pop starts after the whole string. Readers that
// consume only the copied bytes and leave the tail in the stream are not
// compatible with this; the tail is never popped as the start of the next
// value here. Nothing tells the caller that this happened other than the
// returned length being len(dst)-1.
//
// If the length prefix is popped but the copied part of the payload is not
// available, the prefix stays consumed and ErrUnderflow is returned.
func (b *ByteBuffer) PopStringInto(dst []byte) (int, error) {
	if len(dst) == 0 {
		return 0, errors.Wrap(ErrInvalidCapacity, "no room for the terminator")
	}

	length, err := b.PopUint16()
	if err != nil {
		return 0, err
	}

	n := min(len(dst)-1, int(length))
	if err = b.popInto(dst[:n]); err != nil {
		return 0, err
	}

	dst[n] = 0
	b.skip(int(length) - n)

	return n, nil
}

// PopStringOwned pops a whole string into a newly allocated slice that the
// caller owns. The slice has the string's length; its backing array holds one
// more byte, a 0 terminator, reachable as s[:len(s)+1].
//
// If the length prefix is popped but the payload is not available, the prefix
// stays consumed and ErrUnderflow is returned.
func (b *ByteBuffer) PopStringOwned() ([]byte, error) {
	length, err := b.PopUint16()
	if err != nil {
		return nil, err
	}

	s := make([]byte, int(length)+1)
	if err = b.popInto(s[:length]); err != nil {
		return nil, err
	}

	return s[:length], nil
}

// PopString is PopStringOwned returning a Go string.
func (b *ByteBuffer) PopString() (string, error) {
	s, err := b.PopStringOwned()
	if err != nil {
		return "", err
	}

	return string(s), nil
}
