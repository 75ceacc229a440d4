package runes

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var aidanManifest = &Manifest{
	StorageAccount: [32]byte{
		1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6, 7, 7, 8, 8,
		9, 9, 10, 10, 11, 11, 12, 12, 13, 13, 14, 14, 15, 15, 16, 16,
	},
	Runes: []Rune{
		{
			Name: "Aidan Tooty",
			Len:  128,
			Hash: [32]byte{
				1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16,
				1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16,
			},
		},
	},
}

func TestEncode_RoundTrip(t *testing.T) {
	data, err := Encode(aidanManifest)
	require.NoError(t, err)
	require.NoError(t, Validate(data))

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, aidanManifest, decoded)
}

func TestEncode_Deterministic(t *testing.T) {
	first, err := Encode(aidanManifest)
	require.NoError(t, err)
	second, err := Encode(aidanManifest)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEncode_PreservesOrder(t *testing.T) {
	m := &Manifest{Runes: []Rune{
		{Name: "zeta", Len: 3},
		{Name: "alpha", Len: 1},
		{Name: "mid", Len: 2},
	}}
	data, err := Encode(m)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	for i, r := range m.Runes {
		assert.Equal(t, r.Name, decoded.Runes[i].Name)
	}
}

func TestEncode_EmptyManifest(t *testing.T) {
	m := &Manifest{}
	data, err := Encode(m)
	require.NoError(t, err)
	require.NoError(t, Validate(data))

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Empty(t, decoded.Runes)

	view := Root(data)
	assert.Equal(t, 0, view.Count())
	_, ok := view.Get("anything")
	assert.False(t, ok)
}

func TestEncode_InvariantViolations(t *testing.T) {
	tests := []struct {
		name     string
		manifest *Manifest
		reason   error
	}{
		{
			name: "duplicate name",
			manifest: &Manifest{Runes: []Rune{
				{Name: "X", Len: 1},
				{Name: "X", Len: 2},
			}},
			reason: ErrDuplicateName,
		},
		{
			name: "name one byte over the cap",
			manifest: &Manifest{Runes: []Rune{
				{Name: strings.Repeat("a", MaxNameLen+1)},
			}},
			reason: ErrNameTooLong,
		},
		{
			name: "malformed UTF-8 name",
			manifest: &Manifest{Runes: []Rune{
				{Name: string([]byte{0xff, 0xfe})},
			}},
			reason: ErrInvalidUTF8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode(tt.manifest)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.reason)

			var encErr *EncodeError
			require.ErrorAs(t, err, &encErr)
			assert.NotEmpty(t, encErr.Name)
		})
	}
}

func TestEncode_NameAtCap(t *testing.T) {
	m := &Manifest{Runes: []Rune{{Name: strings.Repeat("n", MaxNameLen), Len: 7}}}
	data, err := Encode(m)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, m.Runes[0].Name, decoded.Runes[0].Name)
}

func TestValidate_Truncated(t *testing.T) {
	data, err := Encode(aidanManifest)
	require.NoError(t, err)

	err = Validate(data[:len(data)-1])
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestValidate_TrailingBytes(t *testing.T) {
	data, err := Encode(aidanManifest)
	require.NoError(t, err)

	err = Validate(append(data, 0))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTrailingBytes)
}

func TestValidate_WrongMagic(t *testing.T) {
	data, err := Encode(aidanManifest)
	require.NoError(t, err)

	data[0] ^= 0xff
	err = Validate(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadMagic)
	assert.Contains(t, err.Error(), "magic mismatch")
}

func TestValidate_VersionMismatch(t *testing.T) {
	data, err := Encode(aidanManifest)
	require.NoError(t, err)

	data[4] = 2
	err = Validate(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVersionMismatch)
}

// A header-only image that declares its own length passes every
// header check; the root record checks must still reject it instead
// of reading past the end.
func TestValidate_ShortImage(t *testing.T) {
	for _, size := range []int{headerSize, headerSize + 1, headerSize + rootSize - 1} {
		img := make([]byte, size)
		copy(img, magic[:])
		binary.LittleEndian.PutUint16(img[4:], formatVersion)
		binary.LittleEndian.PutUint64(img[offTotal:], uint64(size))
		binary.LittleEndian.PutUint64(img[offRoot:], headerSize)

		err := Validate(img)
		require.Error(t, err, "size %d", size)
		assert.ErrorIs(t, err, ErrTruncated, "size %d", size)

		var serr *StructuralError
		assert.ErrorAs(t, err, &serr)
	}
}

func TestValidate_ReservedFields(t *testing.T) {
	data, err := Encode(aidanManifest)
	require.NoError(t, err)

	header := append([]byte(nil), data...)
	header[6] = 1
	err = Validate(header)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReservedNotZero)

	entry := append([]byte(nil), data...)
	entry[headerSize+rootSize+12] = 1
	err = Validate(entry)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReservedNotZero)
}

// Flipping any single byte of the header or of any offset field must
// be caught by Validate. The rune table entry carries its name offset,
// length and a reserved word in the first 16 bytes; the declared
// object length and digest are opaque payload and excluded.
func TestValidate_HeaderAndOffsetCorruption(t *testing.T) {
	data, err := Encode(aidanManifest)
	require.NoError(t, err)

	offsetFields := [][2]int{
		{0, headerSize},                      // header
		{headerSize + 32, headerSize + 48},   // runeCount, tableOff
		{headerSize + 48, headerSize + 64},   // entry nameOff, nameLen, reserved
	}
	for _, span := range offsetFields {
		for off := span[0]; off < span[1]; off++ {
			for _, flip := range []byte{0x01, 0x80, 0xff} {
				corrupted := append([]byte(nil), data...)
				corrupted[off] ^= flip
				assert.Errorf(t, Validate(corrupted),
					"flip 0x%02x at offset %d went undetected", flip, off)
			}
		}
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	stem := filepath.Join(dir, "aidan")

	require.NoError(t, aidanManifest.Save(stem))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file must not survive a successful save")
	assert.Equal(t, "aidan.runes", entries[0].Name())

	loaded, err := Load(stem + ".runes")
	require.NoError(t, err)
	assert.Equal(t, aidanManifest, loaded)

	// Re-encoding the loaded manifest reproduces the file bytes.
	onDisk, err := os.ReadFile(stem + ".runes")
	require.NoError(t, err)
	reencoded, err := Encode(loaded)
	require.NoError(t, err)
	assert.Equal(t, onDisk, reencoded)
}

func TestSave_EncodeFailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	bad := &Manifest{Runes: []Rune{{Name: "X"}, {Name: "X"}}}

	err := bad.Save(filepath.Join(dir, "bad"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateName)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.runes"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	stem := filepath.Join(dir, "aidan")
	require.NoError(t, aidanManifest.Save(stem))

	path := stem + ".runes"
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[0] ^= 0xff
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadMagic)

	var structErr *StructuralError
	assert.ErrorAs(t, err, &structErr)
}

func TestNewManifest_HashesData(t *testing.T) {
	m, err := NewManifest(
		[32]byte{42},
		[]string{"a.txt", "b.bin"},
		[][]byte{[]byte("hello"), {0x01, 0x02}},
		[]uint64{5, 2},
	)
	require.NoError(t, err)
	require.Len(t, m.Runes, 2)
	assert.Equal(t, uint64(5), m.Runes[0].Len)
	// sha256("hello")
	assert.Equal(t, byte(0x2c), m.Runes[0].Hash[0])
	assert.Equal(t, byte(0xf2), m.Runes[0].Hash[1])
	assert.NotEqual(t, m.Runes[0].Hash, m.Runes[1].Hash)
}

func TestNewManifest_MismatchedInputs(t *testing.T) {
	_, err := NewManifest([32]byte{}, []string{"a"}, nil, nil)
	require.Error(t, err)
}
