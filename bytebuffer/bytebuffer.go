package bytebuffer

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/performancecopilot/wirebuf/wire"
)

// ByteBuffer is a cursor tracked wrapper over a Store.
//
// The store is split into three regions: [0, ReadPos) has been popped,
// [ReadPos, Len) is unread, [Len, Cap) is free.
type ByteBuffer struct {
	store  Store
	buffer []byte // current view of store
	rpos   int
	wpos   int
}

// NewByteBuffer creates a new empty ByteBuffer with a capacity of n bytes.
func NewByteBuffer(n int) *ByteBuffer {
	return NewByteBufferStore(NewHeapStore(n))
}

// NewDefaultByteBuffer creates a new empty ByteBuffer of DefaultSize bytes.
func NewDefaultByteBuffer() *ByteBuffer { return NewByteBuffer(DefaultSize) }

// NewByteBufferFrom creates a ByteBuffer holding a copy of data, ready to be
// popped. Its capacity is exactly len(data).
func NewByteBufferFrom(data []byte) *ByteBuffer {
	b := NewByteBuffer(len(data))
	b.wpos = copy(b.buffer, data)
	return b
}

// NewByteBufferStore creates an empty ByteBuffer over store. The buffer owns
// the store from now on and closes it on Close.
func NewByteBufferStore(store Store) *ByteBuffer {
	return &ByteBuffer{
		store:  store,
		buffer: store.Bytes(),
	}
}

// With creates a buffer of size bytes, passes it to fn and closes it once fn
// returns.
func With(size int, fn func(*ByteBuffer) error) (err error) {
	b := NewByteBuffer(size)
	defer func() {
		if cerr := b.Close(); err == nil {
			err = cerr
		}
	}()

	return fn(b)
}

// Bytes returns everything pushed so far, including bytes already popped.
//
// The slice aliases the buffer's storage and must not be modified. It is only
// valid until the next push, since growing may move the storage.
func (b *ByteBuffer) Bytes() []byte { return b.buffer[:b.wpos] }

// Len returns the number of bytes pushed, which is the write position. It is
// not the capacity.
func (b *ByteBuffer) Len() int { return b.wpos }

// Cap returns the size of the backing storage.
func (b *ByteBuffer) Cap() int { return len(b.buffer) }

// ReadPos returns the offset of the next pop.
func (b *ByteBuffer) ReadPos() int { return b.rpos }

// Unread returns the number of bytes that can still be popped.
func (b *ByteBuffer) Unread() int { return b.wpos - b.rpos }

// Close releases the backing storage.
func (b *ByteBuffer) Close() error {
	store := b.release()
	if store == nil {
		return nil
	}

	return store.Close()
}

// release detaches the store and resets the buffer to its closed state.
func (b *ByteBuffer) release() Store {
	store := b.store
	b.store, b.buffer = nil, nil
	b.rpos, b.wpos = 0, 0
	return store
}

// resync picks up the store's region after a failed Grow, which may have
// moved or dropped it. If the pushed bytes are gone the buffer is emptied.
func (b *ByteBuffer) resync() {
	current := b.store.Bytes()
	if len(current) < b.wpos {
		logger.Error("buffer storage lost", zap.Int("size", b.wpos))
		b.buffer = nil
		b.rpos, b.wpos = 0, 0
		return
	}

	b.buffer = current
}

// nextCapacity grows capacity by half until it holds required bytes. When a
// step would not move (capacity below 2) or would overflow, it returns
// required itself.
func nextCapacity(capacity, required int) int {
	for capacity < required {
		step := capacity / 2
		if step == 0 || capacity > math.MaxInt-step {
			return required
		}

		capacity += step
	}

	return capacity
}

// grow makes sure at least n more bytes can be pushed.
func (b *ByteBuffer) grow(n int) error {
	if n <= len(b.buffer)-b.wpos {
		return nil
	}

	required := b.wpos + n
	if required < b.wpos {
		return errors.Wrapf(ErrAllocation, "%d bytes after %d overflows", n, b.wpos)
	}

	size := nextCapacity(len(b.buffer), required)

	buffer, err := b.store.Grow(size)
	if err != nil {
		logger.Error("cannot grow buffer",
			zap.Int("capacity", len(b.buffer)),
			zap.Int("size", size),
			zap.Error(err),
		)
		b.resync()
		return errors.Wrapf(ErrAllocation, "growing to %d bytes: %v", size, err)
	}

	if len(buffer) < required {
		return errors.Wrapf(ErrAllocation, "store grew to %d bytes, need %d", len(buffer), required)
	}

	logger.Debug("grew buffer",
		zap.Int("from", len(b.buffer)),
		zap.Int("to", len(buffer)),
	)

	b.buffer = buffer
	return nil
}

func (b *ByteBuffer) underflow(n int) error {
	return errors.Wrapf(ErrUnderflow, "need %d bytes, %d unread", n, b.Unread())
}

func (b *ByteBuffer) writer() *wire.ByteWriter { return wire.NewByteWriterSlice(b.buffer) }

// reader only sees pushed bytes, so a read past the write position fails.
func (b *ByteBuffer) reader() *wire.ByteReader { return wire.NewByteReader(b.buffer[:b.wpos]) }

func (b *ByteBuffer) wrote(next int, err error) error {
	if err != nil {
		return err
	}

	b.wpos = next
	return nil
}

// PushBytes appends a copy of data at the write position, growing as needed.
func (b *ByteBuffer) PushBytes(data []byte) error {
	if err := b.grow(len(data)); err != nil {
		return err
	}

	b.wpos += copy(b.buffer[b.wpos:], data)
	return nil
}

// MustPushBytes panics if PushBytes fails.
func (b *ByteBuffer) MustPushBytes(data []byte) {
	if err := b.PushBytes(data); err != nil {
		panic(err)
	}
}

func (b *ByteBuffer) Write(data []byte) (int, error) {
	if err := b.PushBytes(data); err != nil {
		return 0, err
	}

	return len(data), nil
}

// PopBytes returns a copy of the next n unread bytes.
func (b *ByteBuffer) PopBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, errors.Errorf("cannot pop %d bytes", n)
	}

	data := make([]byte, n)
	if err := b.popInto(data); err != nil {
		return nil, err
	}

	return data, nil
}

// popInto fills data from the read position, all or nothing.
func (b *ByteBuffer) popInto(data []byte) error {
	next, err := b.reader().Read(data, b.rpos)
	if err != nil {
		return b.underflow(len(data))
	}

	b.rpos = next
	return nil
}

// skip discards up to n unread bytes.
func (b *ByteBuffer) skip(n int) {
	b.rpos += min(n, b.Unread())
}

// PushByte pushes a single byte.
func (b *ByteBuffer) PushByte(val byte) error {
	if err := b.grow(wire.ByteLength); err != nil {
		return err
	}

	return b.wrote(b.writer().WriteUint8(val, b.wpos))
}

// MustPushByte panics if PushByte fails.
func (b *ByteBuffer) MustPushByte(val byte) {
	if err := b.PushByte(val); err != nil {
		panic(err)
	}
}

// PopByte pops a single byte.
func (b *ByteBuffer) PopByte() (byte, error) {
	val, next, err := b.reader().ReadUint8(b.rpos)
	if err != nil {
		return 0, b.underflow(wire.ByteLength)
	}

	b.rpos = next
	return val, nil
}

// PushInt16 pushes val in network byte order.
func (b *ByteBuffer) PushInt16(val int16) error { return b.PushUint16(uint16(val)) }

// MustPushInt16 panics if PushInt16 fails.
func (b *ByteBuffer) MustPushInt16(val int16) {
	if err := b.PushInt16(val); err != nil {
		panic(err)
	}
}

// PopInt16 pops a network byte order int16.
func (b *ByteBuffer) PopInt16() (int16, error) {
	val, err := b.PopUint16()
	return int16(val), err
}

// PushUint16 pushes val in network byte order.
func (b *ByteBuffer) PushUint16(val uint16) error {
	if err := b.grow(wire.Int16Length); err != nil {
		return err
	}

	return b.wrote(b.writer().WriteUint16(val, b.wpos))
}

// PopUint16 pops a network byte order uint16.
func (b *ByteBuffer) PopUint16() (uint16, error) {
	val, next, err := b.reader().ReadUint16(b.rpos)
	if err != nil {
		return 0, b.underflow(wire.Int16Length)
	}

	b.rpos = next
	return val, nil
}

// PushInt32 pushes val in network byte order.
func (b *ByteBuffer) PushInt32(val int32) error { return b.PushUint32(uint32(val)) }

// MustPushInt32 panics if PushInt32 fails.
func (b *ByteBuffer) MustPushInt32(val int32) {
	if err := b.PushInt32(val); err != nil {
		panic(err)
	}
}

// PopInt32 pops a network byte order int32.
func (b *ByteBuffer) PopInt32() (int32, error) {
	val, err := b.PopUint32()
	return int32(val), err
}

// PushUint32 pushes val in network byte order.
func (b *ByteBuffer) PushUint32(val uint32) error {
	if err := b.grow(wire.Int32Length); err != nil {
		return err
	}

	return b.wrote(b.writer().WriteUint32(val, b.wpos))
}

// PopUint32 pops a network byte order uint32.
func (b *ByteBuffer) PopUint32() (uint32, error) {
	val, next, err := b.reader().ReadUint32(b.rpos)
	if err != nil {
		return 0, b.underflow(wire.Int32Length)
	}

	b.rpos = next
	return val, nil
}

// PushFloat32 pushes val as the host represents it in memory.
func (b *ByteBuffer) PushFloat32(val float32) error {
	if err := b.grow(wire.Float32Length); err != nil {
		return err
	}

	return b.wrote(b.writer().WriteFloat32(val, b.wpos))
}

// MustPushFloat32 panics if PushFloat32 fails.
func (b *ByteBuffer) MustPushFloat32(val float32) {
	if err := b.PushFloat32(val); err != nil {
		panic(err)
	}
}

// PopFloat32 pops a float32 in host representation.
func (b *ByteBuffer) PopFloat32() (float32, error) {
	val, next, err := b.reader().ReadFloat32(b.rpos)
	if err != nil {
		return 0, b.underflow(wire.Float32Length)
	}

	b.rpos = next
	return val, nil
}

// PushFloat64 pushes val as the host represents it in memory.
func (b *ByteBuffer) PushFloat64(val float64) error {
	if err := b.grow(wire.Float64Length); err != nil {
		return err
	}

	return b.wrote(b.writer().WriteFloat64(val, b.wpos))
}

// MustPushFloat64 panics if PushFloat64 fails.
func (b *ByteBuffer) MustPushFloat64(val float64) {
	if err := b.PushFloat64(val); err != nil {
		panic(err)
	}
}

// PopFloat64 pops a float64 in host representation.
func (b *ByteBuffer) PopFloat64() (float64, error) {
	val, next, err := b.reader().ReadFloat64(b.rpos)
	if err != nil {
		return 0, b.underflow(wire.Float64Length)
	}

	b.rpos = next
	return val, nil
}
