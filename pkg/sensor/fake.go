package sensor

import (
	"io/fs"
	"math/rand"
	"strconv"
	"strings"
	"sync"
)

// FakeFS serves a fresh random 12-bit code for every path it is asked to
// open, so the sampler can run without the evaluation board.
type FakeFS struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewFakeFS(seed int64) *FakeFS {
	return &FakeFS{rnd: rand.New(rand.NewSource(seed))}
}

func (f *FakeFS) Open(name string) (fs.File, error) {
	f.mu.Lock()
	code := f.rnd.Intn(4096)
	f.mu.Unlock()
	return &sampleFile{Reader: strings.NewReader(strconv.Itoa(code) + "\n")}, nil
}

type sampleFile struct {
	*strings.Reader
}

func (*sampleFile) Stat() (fs.FileInfo, error) { return nil, fs.ErrInvalid }
func (*sampleFile) Close() error               { return nil }
