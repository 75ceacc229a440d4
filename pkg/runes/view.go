package runes

import (
	"encoding/binary"
	"iter"
	"strings"
	"sync"
	"unsafe"
)

// Archived is a zero-copy view over an archive image. All accessors
// read directly from the underlying bytes; no accessor allocates. The
// view is a fixed pointer+length regardless of manifest size, is
// freely copyable, and is safe for concurrent use (the bytes are never
// mutated).
type Archived struct {
	data []byte
}

// Root returns an unchecked view over data. The caller asserts that
// Validate(data) would succeed; accessing a view over bytes that do
// not validate may panic or return garbage. Use CheckedRoot (or the
// checked accessor of an inscribed package) unless the bytes are known
// good and startup cost matters.
func Root(data []byte) *Archived {
	return &Archived{data: data}
}

// CheckedRoot validates data and returns a view over it.
func CheckedRoot(data []byte) (*Archived, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	return &Archived{data: data}, nil
}

func (a *Archived) rootOff() uint64 {
	return binary.LittleEndian.Uint64(a.data[offRoot:])
}

// StorageAccount returns the 32-byte storage account identifier,
// aliased in place.
func (a *Archived) StorageAccount() *[HashSize]byte {
	return (*[HashSize]byte)(a.data[a.rootOff() : a.rootOff()+HashSize])
}

// Count returns the number of runes in the manifest.
func (a *Archived) Count() int {
	return int(binary.LittleEndian.Uint64(a.data[a.rootOff()+HashSize:]))
}

// At returns the i-th rune. Panics if i is out of range.
func (a *Archived) At(i int) ArchivedRune {
	if i < 0 || i >= a.Count() {
		panic("runes: archived rune index out of range")
	}
	tableOff := binary.LittleEndian.Uint64(a.data[a.rootOff()+HashSize+8:])
	return ArchivedRune{data: a.data, entry: tableOff + uint64(i)*entrySize}
}

// All iterates runes in manifest order. The sequence is finite and
// restartable.
func (a *Archived) All() iter.Seq[ArchivedRune] {
	return func(yield func(ArchivedRune) bool) {
		for i, n := 0, a.Count(); i < n; i++ {
			if !yield(a.At(i)) {
				return
			}
		}
	}
}

// Get returns the rune with the given name, scanning the table in
// order. Names are unique, so at most one rune matches; a miss is not
// an error. Comparison is byte-exact on the UTF-8 encoding.
func (a *Archived) Get(name string) (ArchivedRune, bool) {
	for i, n := 0, a.Count(); i < n; i++ {
		if r := a.At(i); r.Name() == name {
			return r, true
		}
	}
	return ArchivedRune{}, false
}

// Equal reports whether the view and the owned manifest are
// structurally identical: same storage account, same runes in the
// same order, all fields byte-for-byte equal.
func (a *Archived) Equal(m *Manifest) bool {
	if m == nil || *a.StorageAccount() != m.StorageAccount || a.Count() != len(m.Runes) {
		return false
	}
	for i, want := range m.Runes {
		r := a.At(i)
		if r.Name() != want.Name || r.Len() != want.Len || *r.Hash() != want.Hash {
			return false
		}
	}
	return true
}

// Decode materializes an owned manifest from a validated image.
func Decode(data []byte) (*Manifest, error) {
	view, err := CheckedRoot(data)
	if err != nil {
		return nil, err
	}
	m := &Manifest{
		StorageAccount: *view.StorageAccount(),
		Runes:          make([]Rune, view.Count()),
	}
	for i := range m.Runes {
		r := view.At(i)
		m.Runes[i] = Rune{
			// The owned manifest must not alias the image.
			Name: strings.Clone(r.Name()),
			Len:  r.Len(),
			Hash: *r.Hash(),
		}
	}
	return m, nil
}

// ArchivedRune is a zero-copy view of a single rune table entry.
type ArchivedRune struct {
	data  []byte
	entry uint64
}

// Name returns the rune name, aliasing the image bytes. The returned
// string is valid for as long as the archive bytes are.
func (r ArchivedRune) Name() string {
	nameOff := binary.LittleEndian.Uint64(r.data[r.entry:])
	nameLen := binary.LittleEndian.Uint32(r.data[r.entry+8:])
	if nameLen == 0 {
		return ""
	}
	return unsafe.String(&r.data[nameOff], nameLen)
}

// Len returns the declared byte length of the object. It is opaque
// metadata; nothing validates it against the digest.
func (r ArchivedRune) Len() uint64 {
	return binary.LittleEndian.Uint64(r.data[r.entry+16:])
}

// Hash returns the 32-byte object digest, aliased in place.
func (r ArchivedRune) Hash() *[HashSize]byte {
	return (*[HashSize]byte)(r.data[r.entry+24 : r.entry+24+HashSize])
}

// Embedded wraps a program-lifetime byte region holding an archive,
// typically a //go:embed variable produced by the inscribe generator.
// The checked accessor validates once, on first use, and caches the
// outcome; concurrent first calls are safe and every caller observes
// the same result.
type Embedded struct {
	data []byte
	once sync.Once
	view *Archived
	err  error
}

// NewEmbedded wraps data, which must stay immutable for the life of
// the program.
func NewEmbedded(data []byte) *Embedded {
	return &Embedded{data: data}
}

// View validates the embedded archive on first call and returns the
// cached view or the cached validation error thereafter.
func (e *Embedded) View() (*Archived, error) {
	e.once.Do(func() {
		e.view, e.err = CheckedRoot(e.data)
	})
	return e.view, e.err
}

// ViewUnchecked skips validation entirely. The caller asserts the
// embedded bytes are a valid archive.
func (e *Embedded) ViewUnchecked() *Archived {
	return Root(e.data)
}
