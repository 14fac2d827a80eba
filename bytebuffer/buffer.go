// Package bytebuffer implements a growable byte buffer with independent read
// and write cursors, for building and parsing flat binary messages.
//
// Values are pushed at the write cursor and popped from the read cursor. The
// buffer grows by half of its current capacity whenever a push does not fit,
// and it never shrinks. A pop asking for more than what lies between the two
// cursors fails with ErrUnderflow and consumes nothing.
//
// The encoding of every value is defined by package wire. Integers are
// converted to network byte order, floats are copied as the host holds them.
//
// A buffer has exactly one owner and is not safe for concurrent use. It holds
// its backing storage until Close is called; using a buffer after Close is
// undefined.
package bytebuffer

import "io"

// DefaultSize is the capacity of a buffer created by NewDefaultByteBuffer.
const DefaultSize = 512

// Buffer defines an abstraction for an object that allows sequential pushes of
// binary values at one end and pops at the other.
type Buffer interface {
	io.Writer
	io.Closer
	Bytes() []byte
	Len() int
	Cap() int
	ReadPos() int
	Unread() int
	PushBytes([]byte) error
	PushByte(byte) error
	PushInt16(int16) error
	PushUint16(uint16) error
	PushInt32(int32) error
	PushUint32(uint32) error
	PushFloat32(float32) error
	PushFloat64(float64) error
	PushString(string) error
	PopBytes(int) ([]byte, error)
	PopByte() (byte, error)
	PopInt16() (int16, error)
	PopUint16() (uint16, error)
	PopInt32() (int32, error)
	PopUint32() (uint32, error)
	PopFloat32() (float32, error)
	PopFloat64() (float64, error)
	PopStringInto([]byte) (int, error)
	PopStringOwned() ([]byte, error)
	PopString() (string, error)
}
