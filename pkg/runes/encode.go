package runes

import (
	"encoding/binary"
	"unicode/utf8"
)

// Archive format, version 1. All integers are little-endian; every
// offset is relative to the start of the image, so the same bytes work
// at any address.
//
//	header (24 bytes):
//	    magic     [4]byte  "RUNE"
//	    version   uint16   1
//	    reserved  uint16   0
//	    total     uint64   exact image length
//	    rootOff   uint64   offset of the root record (always 24)
//	root record (48 bytes):
//	    storageAccount [32]byte
//	    runeCount      uint64
//	    tableOff       uint64   offset of the rune table
//	rune table (runeCount entries, 56 bytes each):
//	    nameOff  uint64
//	    nameLen  uint32
//	    reserved uint32
//	    length   uint64
//	    hash     [32]byte
//	name heap:
//	    UTF-8 name bytes, concatenated in table order, ending exactly
//	    at the declared total length.
//
// The layout is canonical: the root record follows the header, the
// table follows the root record, and names are contiguous in table
// order. Validate rejects any image that deviates, which also makes
// single-byte corruption of the header or of any offset detectable.
// Name lookup in version 1 is a linear scan over the table; there is
// no side lookup table.
const (
	formatVersion = 1

	// MaxNameLen caps rune name length in bytes. Declared as part of
	// format version 1.
	MaxNameLen = 255

	headerSize = 24
	rootSize   = 8 + HashSize + 8
	entrySize  = 16 + 8 + HashSize

	offTotal = 8
	offRoot  = 16
)

var magic = [4]byte{'R', 'U', 'N', 'E'}

// Encode serializes the manifest into a self-contained archive image.
// Encoding is deterministic: equal manifests produce identical bytes.
// Returns an *EncodeError if a rune name is duplicated, over-long, or
// not valid UTF-8.
func Encode(m *Manifest) ([]byte, error) {
	nameBytes := 0
	seen := make(map[string]struct{}, len(m.Runes))
	for _, r := range m.Runes {
		if !utf8.ValidString(r.Name) {
			return nil, &EncodeError{Name: r.Name, Err: ErrInvalidUTF8}
		}
		if len(r.Name) > MaxNameLen {
			return nil, &EncodeError{Name: r.Name, Err: ErrNameTooLong}
		}
		if _, dup := seen[r.Name]; dup {
			return nil, &EncodeError{Name: r.Name, Err: ErrDuplicateName}
		}
		seen[r.Name] = struct{}{}
		nameBytes += len(r.Name)
	}

	rootOff := uint64(headerSize)
	tableOff := rootOff + rootSize
	heapOff := tableOff + uint64(len(m.Runes))*entrySize
	total := heapOff + uint64(nameBytes)

	buf := make([]byte, total)
	le := binary.LittleEndian

	copy(buf[0:4], magic[:])
	le.PutUint16(buf[4:6], formatVersion)
	le.PutUint64(buf[offTotal:], total)
	le.PutUint64(buf[offRoot:], rootOff)

	copy(buf[rootOff:], m.StorageAccount[:])
	le.PutUint64(buf[rootOff+HashSize:], uint64(len(m.Runes)))
	le.PutUint64(buf[rootOff+HashSize+8:], tableOff)

	nameOff := heapOff
	for i, r := range m.Runes {
		entry := tableOff + uint64(i)*entrySize
		le.PutUint64(buf[entry:], nameOff)
		le.PutUint32(buf[entry+8:], uint32(len(r.Name)))
		le.PutUint64(buf[entry+16:], r.Len)
		copy(buf[entry+24:], r.Hash[:])
		copy(buf[nameOff:], r.Name)
		nameOff += uint64(len(r.Name))
	}

	return buf, nil
}
