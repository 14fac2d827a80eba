package bytebuffer

import (
	"os"

	"go.uber.org/zap"
)

// MemoryMappedBuffer is a ByteBuffer whose storage is a memory mapped file
type MemoryMappedBuffer struct {
	*ByteBuffer
	store *MappedStore

	// the file is never cut below this size on Close
	opened int
}

// NewMemoryMappedBuffer will create and return a new empty MemoryMappedBuffer
// backed by a file of size bytes at loc. An existing file at loc is replaced.
func NewMemoryMappedBuffer(loc string, size int) (*MemoryMappedBuffer, error) {
	store, err := CreateMappedStore(loc, size)
	if err != nil {
		return nil, err
	}

	logger.Info("created memory mapped buffer",
		zap.String("location", loc),
		zap.Int("size", size),
	)

	return &MemoryMappedBuffer{ByteBuffer: NewByteBufferStore(store), store: store}, nil
}

// OpenMemoryMappedBuffer maps the existing file at loc. The whole file counts
// as pushed, so it can be popped right away, and further pushes append to it.
// A file left by a closed MemoryMappedBuffer holds just what was pushed; one
// still mapped by a writer also has its unused capacity, read as zeros.
func OpenMemoryMappedBuffer(loc string) (*MemoryMappedBuffer, error) {
	store, err := OpenMappedStore(loc)
	if err != nil {
		return nil, err
	}

	b := NewByteBufferStore(store)
	b.wpos = len(b.buffer)

	logger.Info("opened memory mapped buffer",
		zap.String("location", loc),
		zap.Int("size", b.wpos),
	)

	return &MemoryMappedBuffer{ByteBuffer: b, store: store, opened: b.wpos}, nil
}

// Location returns the path of the backing file.
func (b *MemoryMappedBuffer) Location() string { return b.store.Location() }

// Flush syncs the mapped region to the file.
func (b *MemoryMappedBuffer) Flush() error { return b.store.Flush() }

// Close unmaps the buffer and cuts the file down to the pushed bytes, so that
// reopening it with OpenMemoryMappedBuffer pops exactly what was pushed. A
// buffer made by OpenMemoryMappedBuffer leaves at least the size it opened.
func (b *MemoryMappedBuffer) Close() error {
	size := max(b.Len(), b.opened)
	if b.ByteBuffer.release() == nil {
		return nil
	}

	return b.store.CloseAt(size)
}

// Unmap will manually delete the memory mapping of a mapped buffer
func (b *MemoryMappedBuffer) Unmap(removefile bool) error {
	loc := b.store.Location()

	if err := b.Close(); err != nil {
		logger.Error("error unmapping buffer", zap.String("location", loc), zap.Error(err))
		return err
	}

	if removefile {
		if err := os.Remove(loc); err != nil {
			return err
		}
	}

	logger.Info("unmapped buffer", zap.String("location", loc))
	return nil
}
