// Package archive accumulates rendered images in memory and finalizes them
// into a single ZIP file.
package archive

import (
	"archive/zip"
	"bytes"
	"strconv"
	"sync"
	"time"
)

// Builder is an in-memory, ordered set of named files. Nothing is written
// until Finalize is called, so dropping a Builder discards every entry.
type Builder struct {
	mu       sync.Mutex
	names    []string
	files    map[string][]byte
	modified time.Time
}

// NewBuilder creates an empty archive builder. Entries are stamped with
// modified.
func NewBuilder(modified time.Time) *Builder {
	return &Builder{
		files:    make(map[string][]byte),
		modified: modified,
	}
}

// Add stores data under name and returns the name actually used. A name that
// is already taken gets a numeric suffix before the extension: "a.png",
// "a-2.png", "a-3.png".
func (b *Builder) Add(name string, data []byte) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	unique := name
	if _, taken := b.files[unique]; taken {
		base, ext := splitExt(name)
		for i := 2; ; i++ {
			unique = base + "-" + strconv.Itoa(i) + ext
			if _, taken := b.files[unique]; !taken {
				break
			}
		}
	}

	b.names = append(b.names, unique)
	b.files[unique] = data
	return unique
}

// Len returns the number of entries added so far.
func (b *Builder) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.names)
}

// Names returns entry names in insertion order.
func (b *Builder) Names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.names...)
}

// Finalize writes every entry, in insertion order, into a deflated ZIP file.
func (b *Builder) Finalize() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range b.names {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: b.modified,
		})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(b.files[name]); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func splitExt(name string) (string, string) {
	for i := len(name) - 1; i > 0; i-- {
		if name[i] == '.' {
			return name[:i], name[i:]
		}
	}
	return name, ""
}
