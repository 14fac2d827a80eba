package wirebuf

import (
	"os"
	"path"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/performancecopilot/wirebuf/bytebuffer"
)

// NewBuffer creates an empty heap backed buffer of DefaultSize bytes.
func NewBuffer() *bytebuffer.ByteBuffer {
	return bytebuffer.NewByteBuffer(DefaultSize())
}

// MappedBufferLocation returns where the mapped buffer called name lives:
// a wirebuf directory under WIREBUF_TMP_DIR, or under the system temporary
// directory if that is not configured.
func MappedBufferLocation(name string) (string, error) {
	if name == "" || strings.ContainsRune(name, os.PathSeparator) {
		return "", errors.New("name must be non empty and cannot have path separator")
	}

	tdir, present := ConfigValue("WIREBUF_TMP_DIR")
	var loc string
	if present {
		loc = path.Join(rootPath, tdir)
	} else {
		loc = os.TempDir()
	}

	return path.Join(loc, "wirebuf", name), nil
}

// NewMappedBuffer creates a memory mapped buffer of size bytes called name,
// so that other processes can read what is pushed into it.
func NewMappedBuffer(name string, size int) (*bytebuffer.MemoryMappedBuffer, error) {
	loc, err := MappedBufferLocation(name)
	if err != nil {
		return nil, err
	}

	Logger().Info("deduced location to write the mapped buffer", zap.String("location", loc))

	return bytebuffer.NewMemoryMappedBuffer(loc, size)
}
