// Package wire defines the byte level encoding shared by every buffer in this
// module.
//
// Multi-byte integers always travel in network byte order. Floating point
// values are copied in the host's in-memory representation, so a float written
// on a little endian machine reads back as garbage on a big endian one. That
// asymmetry is part of the format and existing consumers depend on it.
//
// Strings are a 2 byte network order length followed by exactly that many raw
// bytes, no terminator.
package wire

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// NetworkOrder is the byte order for all integers on the wire.
var NetworkOrder binary.ByteOrder = binary.BigEndian

// HostOrder is the byte order floats are written in.
var HostOrder binary.ByteOrder = binary.NativeEndian

// byte widths of the encoded values
const (
	ByteLength         = 1
	Int16Length        = 2
	Int32Length        = 4
	Float32Length      = 4
	Float64Length      = 8
	LengthPrefixLength = Int16Length
)

// MaxStringLength is the largest payload a length prefix can describe.
const MaxStringLength = 1<<(8*LengthPrefixLength) - 1

// ErrOverflow is returned when a positional write or read would cross the end
// of the underlying slice.
var ErrOverflow = errors.New("offset out of range")

// StringLength returns the encoded size of s, prefix included.
func StringLength(s string) int { return LengthPrefixLength + len(s) }

func bounds(buf []byte, offset, n int) error {
	if offset < 0 || n > len(buf)-offset {
		return errors.Wrapf(ErrOverflow, "%d bytes at offset %d in %d byte slice", n, offset, len(buf))
	}
	return nil
}
