package runes

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

// Validate confirms that data is a structurally sound version-1
// archive: correct magic and version, exact length, in-bounds and
// canonical offsets, valid UTF-8 names, and unique names. It runs in
// time linear in len(data) with no recursion. A nil return guarantees
// that every accessor of the unchecked view stays within bounds.
func Validate(data []byte) error {
	le := binary.LittleEndian
	size := uint64(len(data))

	if size < headerSize {
		return structural(0, fmt.Errorf("%w: %d bytes, header needs %d", ErrTruncated, size, headerSize))
	}
	if [4]byte(data[0:4]) != magic {
		return structural(0, fmt.Errorf("%w: got %q", ErrBadMagic, data[0:4]))
	}
	if v := le.Uint16(data[4:6]); v != formatVersion {
		return structural(4, fmt.Errorf("%w: got %d, want %d", ErrVersionMismatch, v, formatVersion))
	}
	if r := le.Uint16(data[6:8]); r != 0 {
		return structural(6, fmt.Errorf("%w: header reserved field is %d", ErrReservedNotZero, r))
	}

	total := le.Uint64(data[offTotal:])
	if total < size {
		return structural(offTotal, fmt.Errorf("%w: declared %d, image %d", ErrTrailingBytes, total, size))
	}
	if total > size {
		return structural(offTotal, fmt.Errorf("%w: declared %d, image %d", ErrTruncated, total, size))
	}

	rootOff := le.Uint64(data[offRoot:])
	if rootOff != headerSize {
		return structural(offRoot, fmt.Errorf("%w: root record at %d, want %d", ErrBadOffset, rootOff, headerSize))
	}
	if total < headerSize+rootSize {
		return structural(offTotal,
			fmt.Errorf("%w: %d bytes, root record needs %d", ErrTruncated, total, headerSize+rootSize))
	}

	count := le.Uint64(data[rootOff+HashSize:])
	tableOff := le.Uint64(data[rootOff+HashSize+8:])
	if tableOff != rootOff+rootSize {
		return structural(rootOff+HashSize+8,
			fmt.Errorf("%w: rune table at %d, want %d", ErrBadOffset, tableOff, rootOff+rootSize))
	}
	if count > (total-tableOff)/entrySize {
		return structural(rootOff+HashSize,
			fmt.Errorf("%w: %d rune entries exceed image bounds", ErrBadOffset, count))
	}

	// Names must be contiguous in table order and fill the image
	// exactly. This makes any corrupted offset or length land outside
	// its expected position.
	heapOff := tableOff + count*entrySize
	names := make(map[string]struct{}, count)
	for i := uint64(0); i < count; i++ {
		entry := tableOff + i*entrySize
		nameOff := le.Uint64(data[entry:])
		nameLen := uint64(le.Uint32(data[entry+8:]))

		if nameLen > MaxNameLen {
			return structural(entry+8, fmt.Errorf("%w: rune %d name is %d bytes", ErrNameTooLong, i, nameLen))
		}
		if r := le.Uint32(data[entry+12:]); r != 0 {
			return structural(entry+12, fmt.Errorf("%w: rune %d entry reserved field is %d", ErrReservedNotZero, i, r))
		}
		if nameOff != heapOff {
			return structural(entry, fmt.Errorf("%w: rune %d name at %d, want %d", ErrBadOffset, i, nameOff, heapOff))
		}
		if heapOff+nameLen > total {
			return structural(entry, fmt.Errorf("%w: rune %d name ends past image", ErrBadOffset, i))
		}

		name := data[nameOff : nameOff+nameLen]
		if !utf8.Valid(name) {
			return structural(nameOff, fmt.Errorf("%w: rune %d", ErrInvalidUTF8, i))
		}
		if _, dup := names[string(name)]; dup {
			return structural(nameOff, fmt.Errorf("%w: %q", ErrDuplicateName, name))
		}
		names[string(name)] = struct{}{}

		heapOff += nameLen
	}
	if heapOff != total {
		return structural(heapOff, fmt.Errorf("%w: name heap ends at %d, image at %d", ErrBadOffset, heapOff, total))
	}

	return nil
}
