package wire

import (
	"math"

	"github.com/pkg/errors"
)

// ByteWriter writes encoded values at arbitrary offsets of a fixed slice.
//
// Every write returns the offset just past the written value, or -1 and an
// error if the value does not fit. A failed write leaves the slice untouched.
type ByteWriter struct {
	buffer []byte
}

// NewByteWriter creates a ByteWriter over a fresh slice of n bytes.
func NewByteWriter(n int) *ByteWriter {
	return &ByteWriter{buffer: make([]byte, n)}
}

// NewByteWriterSlice creates a ByteWriter writing into buffer.
func NewByteWriterSlice(buffer []byte) *ByteWriter {
	return &ByteWriter{buffer: buffer}
}

// Bytes returns the underlying slice.
func (w *ByteWriter) Bytes() []byte { return w.buffer }

// Len returns the size of the underlying slice.
func (w *ByteWriter) Len() int { return len(w.buffer) }

// Write copies data at offset.
func (w *ByteWriter) Write(data []byte, offset int) (int, error) {
	if err := bounds(w.buffer, offset, len(data)); err != nil {
		return -1, err
	}

	return offset + copy(w.buffer[offset:], data), nil
}

// WriteUint8 writes a single byte at offset.
func (w *ByteWriter) WriteUint8(val uint8, offset int) (int, error) {
	if err := bounds(w.buffer, offset, ByteLength); err != nil {
		return -1, err
	}

	w.buffer[offset] = val
	return offset + ByteLength, nil
}

// WriteUint16 writes val in network order.
func (w *ByteWriter) WriteUint16(val uint16, offset int) (int, error) {
	if err := bounds(w.buffer, offset, Int16Length); err != nil {
		return -1, err
	}

	NetworkOrder.PutUint16(w.buffer[offset:], val)
	return offset + Int16Length, nil
}

// WriteInt16 writes val in network order.
func (w *ByteWriter) WriteInt16(val int16, offset int) (int, error) {
	return w.WriteUint16(uint16(val), offset)
}

// WriteUint32 writes val in network order.
func (w *ByteWriter) WriteUint32(val uint32, offset int) (int, error) {
	if err := bounds(w.buffer, offset, Int32Length); err != nil {
		return -1, err
	}

	NetworkOrder.PutUint32(w.buffer[offset:], val)
	return offset + Int32Length, nil
}

// WriteInt32 writes val in network order.
func (w *ByteWriter) WriteInt32(val int32, offset int) (int, error) {
	return w.WriteUint32(uint32(val), offset)
}

// WriteFloat32 writes the host representation of val.
func (w *ByteWriter) WriteFloat32(val float32, offset int) (int, error) {
	if err := bounds(w.buffer, offset, Float32Length); err != nil {
		return -1, err
	}

	HostOrder.PutUint32(w.buffer[offset:], math.Float32bits(val))
	return offset + Float32Length, nil
}

// WriteFloat64 writes the host representation of val.
func (w *ByteWriter) WriteFloat64(val float64, offset int) (int, error) {
	if err := bounds(w.buffer, offset, Float64Length); err != nil {
		return -1, err
	}

	HostOrder.PutUint64(w.buffer[offset:], math.Float64bits(val))
	return offset + Float64Length, nil
}

// WriteString writes the length prefix followed by the bytes of val.
func (w *ByteWriter) WriteString(val string, offset int) (int, error) {
	if len(val) > MaxStringLength {
		return -1, errors.Errorf("string of %d bytes does not fit a %d byte length prefix", len(val), LengthPrefixLength)
	}

	if err := bounds(w.buffer, offset, StringLength(val)); err != nil {
		return -1, err
	}

	NetworkOrder.PutUint16(w.buffer[offset:], uint16(len(val)))
	offset += LengthPrefixLength
	return offset + copy(w.buffer[offset:], val), nil
}
