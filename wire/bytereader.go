package wire

import "math"

// ByteReader decodes values at arbitrary offsets of a fixed slice.
//
// Reads return the decoded value and the offset just past it, or -1 and an
// error when the slice ends first.
type ByteReader struct {
	buffer []byte
}

// NewByteReader creates a ByteReader over buffer.
func NewByteReader(buffer []byte) *ByteReader {
	return &ByteReader{buffer: buffer}
}

// Len returns the size of the underlying slice.
func (r *ByteReader) Len() int { return len(r.buffer) }

// Read copies len(data) bytes starting at offset into data.
func (r *ByteReader) Read(data []byte, offset int) (int, error) {
	if err := bounds(r.buffer, offset, len(data)); err != nil {
		return -1, err
	}

	return offset + copy(data, r.buffer[offset:]), nil
}

// ReadUint8 reads a single byte.
func (r *ByteReader) ReadUint8(offset int) (uint8, int, error) {
	if err := bounds(r.buffer, offset, ByteLength); err != nil {
		return 0, -1, err
	}

	return r.buffer[offset], offset + ByteLength, nil
}

// ReadUint16 reads a network order uint16.
func (r *ByteReader) ReadUint16(offset int) (uint16, int, error) {
	if err := bounds(r.buffer, offset, Int16Length); err != nil {
		return 0, -1, err
	}

	return NetworkOrder.Uint16(r.buffer[offset:]), offset + Int16Length, nil
}

// ReadInt16 reads a network order int16.
func (r *ByteReader) ReadInt16(offset int) (int16, int, error) {
	v, next, err := r.ReadUint16(offset)
	return int16(v), next, err
}

// ReadUint32 reads a network order uint32.
func (r *ByteReader) ReadUint32(offset int) (uint32, int, error) {
	if err := bounds(r.buffer, offset, Int32Length); err != nil {
		return 0, -1, err
	}

	return NetworkOrder.Uint32(r.buffer[offset:]), offset + Int32Length, nil
}

// ReadInt32 reads a network order int32.
func (r *ByteReader) ReadInt32(offset int) (int32, int, error) {
	v, next, err := r.ReadUint32(offset)
	return int32(v), next, err
}

// ReadFloat32 reads a float32 stored in host order.
func (r *ByteReader) ReadFloat32(offset int) (float32, int, error) {
	if err := bounds(r.buffer, offset, Float32Length); err != nil {
		return 0, -1, err
	}

	return math.Float32frombits(HostOrder.Uint32(r.buffer[offset:])), offset + Float32Length, nil
}

// ReadFloat64 reads a float64 stored in host order.
func (r *ByteReader) ReadFloat64(offset int) (float64, int, error) {
	if err := bounds(r.buffer, offset, Float64Length); err != nil {
		return 0, -1, err
	}

	return math.Float64frombits(HostOrder.Uint64(r.buffer[offset:])), offset + Float64Length, nil
}
