package bytebuffer

import (
	"bytes"
	"math"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
)

func checkCursors(t *testing.T, b *ByteBuffer) {
	t.Helper()
	if !(0 <= b.ReadPos() && b.ReadPos() <= b.Len() && b.Len() <= b.Cap()) {
		t.Fatalf("cursor invariant broken: read %d, write %d, capacity %d", b.ReadPos(), b.Len(), b.Cap())
	}
}

func TestPushPopBytes(t *testing.T) {
	cases := [][]byte{
		{},
		{0},
		[]byte("MMV"),
		bytes.Repeat([]byte{0xAB}, 1000),
	}

	for _, val := range cases {
		b := NewByteBuffer(4)

		if err := b.PushBytes(val); err != nil {
			t.Error(err)
			return
		}

		got, err := b.PopBytes(len(val))
		if err != nil {
			t.Error(err)
			return
		}

		if !bytes.Equal(got, val) {
			t.Errorf("expected %v, got %v", val, got)
		}

		if b.Unread() != 0 {
			t.Errorf("expected nothing unread, got %d bytes", b.Unread())
		}
	}
}

func TestPopBytesIsCopy(t *testing.T) {
	b := NewByteBufferFrom([]byte{1, 2, 3})

	got, _ := b.PopBytes(3)
	got[0] = 9

	if b.Bytes()[0] != 1 {
		t.Error("popped bytes alias the buffer")
	}
}

func TestCursorInvariant(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	b := NewByteBuffer(0)

	for i := 0; i < 2000; i++ {
		switch r.Intn(6) {
		case 0:
			_ = b.PushBytes(make([]byte, r.Intn(40)))
		case 1:
			_ = b.PushInt32(r.Int31())
		case 2:
			_ = b.PushString("abc")
		case 3:
			_, _ = b.PopBytes(r.Intn(40))
		case 4:
			_, _ = b.PopInt16()
		case 5:
			_, _ = b.PopStringInto(make([]byte, 2))
		}
		checkCursors(t, b)
	}
}

func TestInt32RoundTrip(t *testing.T) {
	cases := []int32{0, -1, math.MinInt32, math.MaxInt32, 42}

	for _, val := range cases {
		b := NewByteBuffer(4)

		if err := b.PushInt32(val); err != nil {
			t.Error(err)
			return
		}

		if b.Len() != 4 {
			t.Error("Not Writing 4 bytes for int32")
			return
		}

		u := uint32(val)
		e := []byte{byte(u >> 24), byte(u >> 16), byte(u >> 8), byte(u)}
		for i := 0; i < 4; i++ {
			if b.Bytes()[i] != e[i] {
				t.Errorf("pos: %v, expected: %v, got %v", i, e[i], b.Bytes()[i])
			}
		}

		got, err := b.PopInt32()
		if err != nil {
			t.Error(err)
			return
		}

		if got != val {
			t.Errorf("expected %v, got %v", val, got)
		}
	}
}

func TestInt16RoundTrip(t *testing.T) {
	cases := []int16{0, -1, math.MinInt16, math.MaxInt16, 0x0102}

	for _, val := range cases {
		b := NewByteBuffer(0)
		b.MustPushInt16(val)

		if b.Bytes()[0] != byte(uint16(val)>>8) || b.Bytes()[1] != byte(val) {
			t.Errorf("%v not written in network order: %v", val, b.Bytes())
		}

		got, err := b.PopInt16()
		if err != nil {
			t.Error(err)
			return
		}

		if got != val {
			t.Errorf("expected %v, got %v", val, got)
		}
	}
}

func TestUnsignedRoundTrip(t *testing.T) {
	b := NewDefaultByteBuffer()

	if err := b.PushUint16(math.MaxUint16); err != nil {
		t.Fatal(err)
	}

	if err := b.PushUint32(math.MaxUint32); err != nil {
		t.Fatal(err)
	}

	u16, err := b.PopUint16()
	if err != nil || u16 != math.MaxUint16 {
		t.Errorf("expected %v, got %v (%v)", uint16(math.MaxUint16), u16, err)
	}

	u32, err := b.PopUint32()
	if err != nil || u32 != math.MaxUint32 {
		t.Errorf("expected %v, got %v (%v)", uint32(math.MaxUint32), u32, err)
	}
}

func TestFloatRoundTrip(t *testing.T) {
	f32s := []float32{0, 1.5, -3.25, math.MaxFloat32, float32(math.Inf(-1))}
	f64s := []float64{0, math.Pi, -math.E, math.MaxFloat64, math.SmallestNonzeroFloat64}

	b := NewByteBuffer(1)
	for _, v := range f32s {
		b.MustPushFloat32(v)
	}
	for _, v := range f64s {
		b.MustPushFloat64(v)
	}

	if b.Len() != 4*len(f32s)+8*len(f64s) {
		t.Errorf("unexpected length %d", b.Len())
	}

	for _, v := range f32s {
		got, err := b.PopFloat32()
		if err != nil || got != v {
			t.Errorf("expected %v, got %v (%v)", v, got, err)
		}
	}

	for _, v := range f64s {
		got, err := b.PopFloat64()
		if err != nil || got != v {
			t.Errorf("expected %v, got %v (%v)", v, got, err)
		}
	}
}

func TestFloatHostRepresentation(t *testing.T) {
	b := NewByteBuffer(8)
	b.MustPushFloat64(1)

	// 1.0 is 0x3FF0000000000000, its most significant byte lands first only
	// on big endian hosts
	var raw [8]byte
	copy(raw[:], b.Bytes())

	le := raw[7] == 0x3F && raw[6] == 0xF0
	be := raw[0] == 0x3F && raw[1] == 0xF0
	if !le && !be {
		t.Errorf("unexpected representation of 1.0: %v", raw)
	}
}

func TestByteRoundTrip(t *testing.T) {
	b := NewByteBuffer(0)

	for i := 0; i < 256; i++ {
		b.MustPushByte(byte(i))
	}

	for i := 0; i < 256; i++ {
		got, err := b.PopByte()
		if err != nil {
			t.Fatal(err)
		}

		if got != byte(i) {
			t.Errorf("pos: %v, expected: %v, got %v", i, byte(i), got)
		}
	}

	if _, err := b.PopByte(); errors.Cause(err) != ErrUnderflow {
		t.Errorf("expected underflow, got %v", err)
	}
}

func TestUnderflow(t *testing.T) {
	b := NewDefaultByteBuffer()

	_, err := b.PopInt32()
	if err == nil {
		t.Fatal("expected popping from an empty buffer to fail")
	}

	if errors.Cause(err) != ErrUnderflow {
		t.Errorf("expected ErrUnderflow, got %v", err)
	}

	if !errors.Is(err, ErrUnderflow) {
		t.Error("expected errors.Is to see ErrUnderflow")
	}

	if b.ReadPos() != 0 || b.Len() != 0 {
		t.Errorf("cursors moved on failure: read %d, write %d", b.ReadPos(), b.Len())
	}
}

func TestUnderflowPartial(t *testing.T) {
	b := NewByteBuffer(8)
	b.MustPushInt16(7)
	b.MustPushByte(1)

	if _, err := b.PopInt32(); errors.Cause(err) != ErrUnderflow {
		t.Errorf("expected ErrUnderflow, got %v", err)
	}

	if b.ReadPos() != 0 {
		t.Error("failed pop consumed bytes")
	}

	// after more data arrives the same pop succeeds
	b.MustPushByte(2)

	v, err := b.PopInt32()
	if err != nil {
		t.Fatal(err)
	}

	if v != 0x00070102 {
		t.Errorf("expected %#x, got %#x", 0x00070102, v)
	}
}

func TestPopNegative(t *testing.T) {
	b := NewByteBufferFrom([]byte{1})

	if _, err := b.PopBytes(-1); err == nil {
		t.Error("expected error popping a negative count")
	}

	if b.ReadPos() != 0 {
		t.Error("read position moved")
	}
}

func TestGrowth(t *testing.T) {
	b := NewByteBuffer(1)

	data := make([]byte, 100)
	for i := range data {
		data[i] = byte(i * 7)
	}

	if err := b.PushBytes(data); err != nil {
		t.Fatal(err)
	}

	if b.Cap() < 100 {
		t.Errorf("capacity %d cannot hold 100 bytes", b.Cap())
	}

	got, err := b.PopBytes(100)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(got, data) {
		t.Error("data changed while growing")
	}
}

func TestGrowthPreservesPushed(t *testing.T) {
	b := NewByteBuffer(2)
	b.MustPushInt16(0x1234)

	for i := 0; i < 50; i++ {
		b.MustPushInt32(int32(i))
	}

	if v, _ := b.PopInt16(); v != 0x1234 {
		t.Errorf("expected 0x1234, got %#x", v)
	}

	for i := 0; i < 50; i++ {
		if v, _ := b.PopInt32(); v != int32(i) {
			t.Errorf("expected %d, got %d", i, v)
		}
	}
}

func TestGrowthFactor(t *testing.T) {
	cases := []struct {
		capacity, push, expected int
	}{
		{10, 10, 10},
		{10, 11, 15},
		{10, 16, 22},
		{100, 151, 225},
		{0, 1, 1},
		{1, 100, 100},
		{2, 3, 3},
		{3, 5, 6},
	}

	for _, c := range cases {
		b := NewByteBuffer(c.capacity)

		if err := b.PushBytes(make([]byte, c.push)); err != nil {
			t.Error(err)
			continue
		}

		if b.Cap() != c.expected {
			t.Errorf("capacity %d after pushing %d: expected %d, got %d", c.capacity, c.push, c.expected, b.Cap())
		}
	}
}

func TestCapacityNeverShrinks(t *testing.T) {
	b := NewByteBuffer(16)
	last := b.Cap()

	for i := 0; i < 100; i++ {
		b.MustPushBytes(make([]byte, i))
		_, _ = b.PopBytes(i)

		if b.Cap() < last {
			t.Fatalf("capacity shrank from %d to %d", last, b.Cap())
		}
		last = b.Cap()
	}
}

func TestPushZeroBytes(t *testing.T) {
	b := NewByteBuffer(0)

	if err := b.PushBytes(nil); err != nil {
		t.Error(err)
	}

	if b.Cap() != 0 || b.Len() != 0 {
		t.Errorf("empty push changed the buffer: capacity %d, length %d", b.Cap(), b.Len())
	}
}

func TestAllocationFailure(t *testing.T) {
	store, err := NewHeapStoreLimit(4, 6)
	if err != nil {
		t.Fatal(err)
	}

	b := NewByteBufferStore(store)
	b.MustPushInt32(1)

	// 4 grows to 6, exactly the limit
	if err = b.PushInt16(2); err != nil {
		t.Fatalf("growing within the limit failed: %v", err)
	}

	// 6 would grow to 9
	err = b.PushByte(3)
	if errors.Cause(err) != ErrAllocation {
		t.Errorf("expected ErrAllocation, got %v", err)
	}

	if _, err = NewHeapStoreLimit(9, 6); err == nil {
		t.Error("expected an initial size above the limit to fail")
	}
}

// movingStore fails to grow but moves its bytes, the way a remapped file may.
type movingStore struct {
	data []byte
	lose bool
}

func (s *movingStore) Bytes() []byte { return s.data }

func (s *movingStore) Grow(size int) ([]byte, error) {
	if s.lose {
		s.data = nil
	} else {
		s.data = append([]byte(nil), s.data...)
	}
	return nil, errors.New("cannot grow")
}

func (s *movingStore) Close() error { return nil }

func TestFailedGrowFollowsStore(t *testing.T) {
	store := &movingStore{data: make([]byte, 4)}
	b := NewByteBufferStore(store)
	b.MustPushInt32(42)

	if err := b.PushByte(1); errors.Cause(err) != ErrAllocation {
		t.Fatalf("expected ErrAllocation, got %v", err)
	}

	if &b.Bytes()[0] != &store.data[0] {
		t.Error("buffer still refers to the storage it had before the failed grow")
	}

	checkCursors(t, b)

	if v, err := b.PopInt32(); err != nil || v != 42 {
		t.Errorf("expected 42 after a failed grow, got %v (%v)", v, err)
	}
}

func TestFailedGrowLosingStorage(t *testing.T) {
	b := NewByteBufferStore(&movingStore{data: make([]byte, 4), lose: true})
	b.MustPushInt32(42)

	if err := b.PushByte(1); errors.Cause(err) != ErrAllocation {
		t.Fatalf("expected ErrAllocation, got %v", err)
	}

	if b.Len() != 0 || b.Cap() != 0 {
		t.Errorf("expected an empty buffer, got size %d capacity %d", b.Len(), b.Cap())
	}

	if _, err := b.PopInt32(); errors.Cause(err) != ErrUnderflow {
		t.Errorf("expected ErrUnderflow, got %v", err)
	}
}

func TestNewByteBufferFrom(t *testing.T) {
	data := []byte("The great number!")
	b := NewByteBufferFrom(data)

	if b.Len() != len(data) {
		t.Errorf("expected size %d, got %d", len(data), b.Len())
	}

	if b.Cap() != len(data) {
		t.Errorf("expected capacity %d, got %d", len(data), b.Cap())
	}

	data[0] = 'X'

	got, err := b.PopBytes(b.Len())
	if err != nil {
		t.Fatal(err)
	}

	if string(got) != "The great number!" {
		t.Errorf("expected a copy of the data, got %q", got)
	}
}

func TestLenIsWritePosition(t *testing.T) {
	b := NewDefaultByteBuffer()

	if b.Cap() != DefaultSize {
		t.Errorf("expected capacity %d, got %d", DefaultSize, b.Cap())
	}

	b.MustPushInt32(1)
	b.MustPushString("ab")

	if b.Len() != 8 {
		t.Errorf("expected length 8, got %d", b.Len())
	}

	_, _ = b.PopInt32()

	if b.Len() != 8 || b.Unread() != 4 || len(b.Bytes()) != 8 {
		t.Errorf("popping changed the size: length %d, unread %d", b.Len(), b.Unread())
	}
}

func TestWriter(t *testing.T) {
	b := NewByteBuffer(0)

	n, err := b.Write([]byte("abc"))
	if err != nil || n != 3 {
		t.Fatalf("expected 3 bytes written, got %d (%v)", n, err)
	}

	var _ Buffer = b
}

func TestRoundTripMessage(t *testing.T) {
	w := NewDefaultByteBuffer()
	w.MustPushInt32(42)
	w.MustPushString("The great number!")

	r := NewByteBufferFrom(w.Bytes())

	number, err := r.PopInt32()
	if err != nil {
		t.Fatal(err)
	}

	s := make([]byte, 256)
	n, err := r.PopStringInto(s)
	if err != nil {
		t.Fatal(err)
	}

	if number != 42 || string(s[:n]) != "The great number!" {
		t.Errorf("got %d, %q", number, s[:n])
	}
}

func TestClose(t *testing.T) {
	b := NewByteBuffer(8)
	b.MustPushInt32(1)

	if err := b.Close(); err != nil {
		t.Error(err)
	}

	if b.Cap() != 0 || b.Len() != 0 {
		t.Error("closed buffer still reports storage")
	}

	if err := b.Close(); err != nil {
		t.Error("second close should be a no-op")
	}
}

func TestWith(t *testing.T) {
	var kept *ByteBuffer

	err := With(4, func(b *ByteBuffer) error {
		kept = b
		return b.PushString("hello")
	})
	if err != nil {
		t.Fatal(err)
	}

	if kept.Cap() != 0 {
		t.Error("buffer not released after With returned")
	}

	sentinel := errors.New("boom")
	if err = With(4, func(*ByteBuffer) error { return sentinel }); err != sentinel {
		t.Errorf("expected the callback error, got %v", err)
	}
}
