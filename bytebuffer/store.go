package bytebuffer

import "github.com/pkg/errors"

// Store is the storage a ByteBuffer keeps its bytes in.
//
// Grow must return a slice of at least size bytes whose prefix holds the
// previous contents. The slice returned by an earlier Bytes or Grow call may
// be invalid afterwards.
type Store interface {
	Bytes() []byte
	Grow(size int) ([]byte, error)
	Close() error
}

// HeapStore keeps the bytes in an ordinary Go slice.
type HeapStore struct {
	data  []byte
	limit int
}

// NewHeapStore returns a HeapStore of size bytes that can grow without bound.
func NewHeapStore(size int) *HeapStore {
	return &HeapStore{data: make([]byte, size)}
}

// NewHeapStoreLimit returns a HeapStore of size bytes that refuses to grow
// past limit bytes.
func NewHeapStoreLimit(size, limit int) (*HeapStore, error) {
	if size > limit {
		return nil, errors.Errorf("initial size %d exceeds limit %d", size, limit)
	}

	return &HeapStore{data: make([]byte, size), limit: limit}, nil
}

// Bytes returns the whole store.
func (s *HeapStore) Bytes() []byte { return s.data }

// Grow reallocates the store to size bytes.
func (s *HeapStore) Grow(size int) ([]byte, error) {
	if size <= len(s.data) {
		return s.data, nil
	}

	if s.limit > 0 && size > s.limit {
		return nil, errors.Errorf("%d bytes exceeds limit of %d", size, s.limit)
	}

	data := make([]byte, size)
	copy(data, s.data)
	s.data = data

	return data, nil
}

// Close drops the reference to the slice.
func (s *HeapStore) Close() error {
	s.data = nil
	return nil
}
