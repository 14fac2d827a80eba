package bytebuffer

import (
	"os"
	"path/filepath"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// MappedStore keeps the bytes in a shared memory mapping of a file, so that
// whatever is pushed is visible to other processes reading the file.
type MappedStore struct {
	file *os.File
	data mmap.MMap
	loc  string
}

// CreateMappedStore creates a file of size bytes at loc, replacing any file
// already there, and maps it.
func CreateMappedStore(loc string, size int) (*MappedStore, error) {
	if _, err := os.Stat(loc); err == nil {
		if err = os.Remove(loc); err != nil {
			return nil, err
		}
	}

	// ensure destination directory exists
	if err := os.MkdirAll(filepath.Dir(loc), 0700); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(loc, os.O_CREATE|os.O_RDWR|os.O_EXCL, 0644)
	if err != nil {
		return nil, err
	}

	s := &MappedStore{file: f, loc: loc}
	if err = s.remap(size); err != nil {
		f.Close()
		return nil, err
	}

	return s, nil
}

// OpenMappedStore maps an existing file at loc with its current size.
func OpenMappedStore(loc string) (*MappedStore, error) {
	f, err := os.OpenFile(loc, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	s := &MappedStore{file: f, loc: loc}
	if err = s.remap(int(fi.Size())); err != nil {
		f.Close()
		return nil, err
	}

	return s, nil
}

// Location returns the path of the mapped file.
func (s *MappedStore) Location() string { return s.loc }

// Bytes returns the mapped region.
func (s *MappedStore) Bytes() []byte { return s.data }

// Grow extends the file to size bytes and maps it again. The address of the
// mapping usually changes.
func (s *MappedStore) Grow(size int) ([]byte, error) {
	if size <= len(s.data) {
		return s.data, nil
	}

	old := len(s.data)
	if err := s.unmap(); err != nil {
		return nil, err
	}

	if err := s.remap(size); err != nil {
		if rerr := s.remap(old); rerr != nil {
			logger.Error("cannot restore mapping",
				zap.String("location", s.loc),
				zap.Int("size", old),
				zap.Error(rerr),
			)
		}
		return nil, err
	}

	logger.Debug("remapped file",
		zap.String("location", s.loc),
		zap.Int("size", size),
	)

	return s.data, nil
}

// Flush writes the mapped region back to the file.
func (s *MappedStore) Flush() error {
	if s.data == nil {
		return nil
	}

	return s.data.Flush()
}

// Close unmaps the region and closes the file. The file itself is kept.
func (s *MappedStore) Close() error {
	return s.CloseAt(-1)
}

// CloseAt unmaps the region, cuts the file down to size bytes and closes it.
// A negative size keeps the file as large as the mapping was.
func (s *MappedStore) CloseAt(size int) error {
	if err := s.unmap(); err != nil {
		return err
	}

	if size >= 0 {
		if err := s.file.Truncate(int64(size)); err != nil {
			s.file.Close()
			return errors.Wrapf(err, "truncating %s to %d bytes", s.loc, size)
		}
	}

	return s.file.Close()
}

func (s *MappedStore) unmap() error {
	if s.data == nil {
		return nil
	}

	if err := s.data.Unmap(); err != nil {
		return errors.Wrapf(err, "unmapping %s", s.loc)
	}

	s.data = nil
	return nil
}

// remap sizes the file to size bytes and maps all of it. A zero sized file
// cannot be mapped and is left unmapped.
func (s *MappedStore) remap(size int) error {
	if err := s.file.Truncate(int64(size)); err != nil {
		return errors.Wrapf(err, "resizing %s to %d bytes", s.loc, size)
	}

	if size == 0 {
		return nil
	}

	data, err := mmap.Map(s.file, mmap.RDWR, 0)
	if err != nil {
		return errors.Wrapf(err, "mapping %s", s.loc)
	}

	s.data = data
	return nil
}
