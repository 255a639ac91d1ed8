package sensor

import (
	"errors"
	"io"
	"io/fs"
	"math"
	"os"
)

// maxSampleLen bounds a single read of an IIO attribute.
const maxSampleLen = 63

// Reader reads and converts one channel at a time. It is safe for concurrent
// use: every Read opens its own handle.
type Reader struct {
	fsys fs.FS
}

// NewReader reads from fsys. A nil fsys reads the host filesystem with the
// paths used as given, so absolute sysfs paths work unchanged.
func NewReader(fsys fs.FS) *Reader {
	if fsys == nil {
		fsys = hostFS{}
	}
	return &Reader{fsys: fsys}
}

// Read opens spec.Path, parses the sample and applies the calibration for
// spec.Kind. Failures are returned as *ReadError.
func (r *Reader) Read(spec ChannelSpec) (Reading, error) {
	f, err := r.fsys.Open(spec.Path)
	if err != nil {
		return Reading{}, &ReadError{Op: ErrOpenFailed, Path: spec.Path, Err: err}
	}
	defer f.Close()

	buf := make([]byte, maxSampleLen)
	n, err := f.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return Reading{}, &ReadError{Op: ErrReadFailed, Path: spec.Path, Err: err}
	}

	raw := ParseSample(buf[:n])
	return Reading{Channel: spec, Raw: raw, Value: Convert(spec.Kind, raw)}, nil
}

// ParseSample decodes a decimal integer the way C atoi does: leading white
// space and an optional sign are accepted, parsing stops at the first
// non-digit and text without digits yields 0. Out of range values saturate.
func ParseSample(b []byte) int {
	i := 0
	for i < len(b) && isSpace(b[i]) {
		i++
	}
	neg := false
	if i < len(b) && (b[i] == '+' || b[i] == '-') {
		neg = b[i] == '-'
		i++
	}
	var v int64
	for ; i < len(b) && b[i] >= '0' && b[i] <= '9'; i++ {
		d := int64(b[i] - '0')
		if v > (math.MaxInt32-d)/10 {
			if neg {
				return math.MinInt32
			}
			return math.MaxInt32
		}
		v = v*10 + d
	}
	if neg {
		v = -v
	}
	return int(v)
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

type hostFS struct{}

func (hostFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}
