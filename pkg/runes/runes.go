// Package runes builds, archives, and reads manifests of Shadow Drive
// storage objects.
//
// A Manifest binds a storage account to a list of named objects, each
// carrying a declared byte length and a SHA-256 digest. The manifest is
// produced offline, serialized once into a `.runes` archive, and baked
// into a consumer binary at build time (see the inscribe subpackage).
// Consumers read the embedded archive through a zero-copy view without
// deserializing it.
package runes

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
)

// HashSize is the byte length of object digests and storage account
// identifiers.
const HashSize = 32

// Rune describes a single stored object: its name within the storage
// account, its declared byte length, and the SHA-256 digest of its
// contents. The length is advisory metadata and is never recomputed
// from the digest.
type Rune struct {
	Name string
	Len  uint64
	Hash [HashSize]byte
}

// Manifest binds a storage account to an ordered list of runes. Rune
// names must be unique (case-sensitive); the order is meaningful and
// preserved across archive round-trips.
type Manifest struct {
	StorageAccount [HashSize]byte
	Runes          []Rune
}

// NewManifest builds a manifest for the given storage account,
// hashing each object's data with SHA-256. names, data, and sizes
// must have equal lengths.
func NewManifest(storageAccount [HashSize]byte, names []string, data [][]byte, sizes []uint64) (*Manifest, error) {
	if len(names) != len(data) || len(names) != len(sizes) {
		return nil, fmt.Errorf("runes: mismatched input lengths: %d names, %d objects, %d sizes",
			len(names), len(data), len(sizes))
	}

	runes := make([]Rune, 0, len(names))
	for i, name := range names {
		runes = append(runes, Rune{
			Name: name,
			Len:  sizes[i],
			Hash: sha256.Sum256(data[i]),
		})
	}
	return &Manifest{
		StorageAccount: storageAccount,
		Runes:          runes,
	}, nil
}

// Save encodes the manifest and writes it to "<stem>.runes". The write
// is atomic: bytes go to a temporary file in the target directory
// which is renamed into place on success and removed on any failure.
func (m *Manifest) Save(stem string) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}

	target := stem + archiveExtension
	tmp, err := os.CreateTemp(filepath.Dir(target), filepath.Base(target)+".tmp-*")
	if err != nil {
		return fmt.Errorf("runes: create temporary file for %s: %w", target, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("runes: write %s: %w", target, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("runes: close %s: %w", target, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("runes: rename %s into place: %w", target, err)
	}
	return nil
}

// Load reads an archive from disk, validates it, and materializes an
// owned manifest. This is the producer-side counterpart of Save;
// consumers should use the embedded zero-copy view instead.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("runes: read %s: %w", path, err)
	}
	m, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("runes: load %s: %w", path, err)
	}
	return m, nil
}

// archiveExtension is part of the external contract: Save always
// produces a file with this suffix.
const archiveExtension = ".runes"
