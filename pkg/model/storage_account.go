// Package model defines the on-chain account schemas of Shadow Drive
// and the shadow NFT standard, decoded from Anchor accounts
// (an 8-byte type discriminator followed by a Borsh-encoded body).
package model

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/genesysgo/shadow-drive-go/pkg/drive"
)

// StorageAccount is the original (v1) storage account schema.
type StorageAccount struct {
	IsStatic                  bool
	InitCounter               uint32
	DelCounter                uint32
	Immutable                 bool
	ToBeDeleted               bool
	DeleteRequestEpoch        uint32
	Storage                   uint64
	StorageAvailable          uint64
	Owner1                    solana.PublicKey
	Owner2                    solana.PublicKey
	ShdwPayer                 solana.PublicKey
	AccountCounterSeed        uint32
	TotalCostOfCurrentStorage uint64
	TotalFeesPaid             uint64
	CreationTime              uint32
	CreationEpoch             uint32
	LastFeeEpoch              uint32
	Identifier                string
}

// StorageAccountV2 is the slimmed-down v2 schema.
type StorageAccountV2 struct {
	Immutable          bool
	ToBeDeleted        bool
	DeleteRequestEpoch uint32
	Storage            uint64
	Owner1             solana.PublicKey
	AccountCounterSeed uint32
	CreationTime       uint32
	CreationEpoch      uint32
	LastFeeEpoch       uint32
	Identifier         string
}

// StorageAcct holds a decoded storage account of either version.
// Exactly one of V1 and V2 is non-nil.
type StorageAcct struct {
	V1 *StorageAccount
	V2 *StorageAccountV2
}

// Version reports the schema version, 1 or 2.
func (s *StorageAcct) Version() int {
	if s.V2 != nil {
		return 2
	}
	return 1
}

// Owner returns the primary owner of the storage account.
func (s *StorageAcct) Owner() solana.PublicKey {
	if s.V2 != nil {
		return s.V2.Owner1
	}
	return s.V1.Owner1
}

// Identifier returns the user-chosen account name.
func (s *StorageAcct) Identifier() string {
	if s.V2 != nil {
		return s.V2.Identifier
	}
	return s.V1.Identifier
}

// Storage returns the reserved capacity in bytes.
func (s *StorageAcct) Storage() uint64 {
	if s.V2 != nil {
		return s.V2.Storage
	}
	return s.V1.Storage
}

// Immutable reports whether the account has been irreversibly marked
// immutable.
func (s *StorageAcct) Immutable() bool {
	if s.V2 != nil {
		return s.V2.Immutable
	}
	return s.V1.Immutable
}

// ToBeDeleted reports whether the account is queued for deletion.
func (s *StorageAcct) ToBeDeleted() bool {
	if s.V2 != nil {
		return s.V2.ToBeDeleted
	}
	return s.V1.ToBeDeleted
}

var (
	discStorageAccountV1 = drive.AccountDiscriminator("StorageAccount")
	discStorageAccountV2 = drive.AccountDiscriminator("StorageAccountV2")
)

// DecodeStorageAccount decodes an account blob, dispatching on the
// Anchor discriminator to the v1 or v2 schema.
func DecodeStorageAccount(data []byte) (*StorageAcct, error) {
	disc, body, err := splitDiscriminator(data)
	if err != nil {
		return nil, fmt.Errorf("model: storage account: %w", err)
	}

	switch disc {
	case discStorageAccountV2:
		var acct StorageAccountV2
		if err := bin.NewBorshDecoder(body).Decode(&acct); err != nil {
			return nil, fmt.Errorf("model: decode StorageAccountV2: %w", err)
		}
		return &StorageAcct{V2: &acct}, nil
	case discStorageAccountV1:
		var acct StorageAccount
		if err := bin.NewBorshDecoder(body).Decode(&acct); err != nil {
			return nil, fmt.Errorf("model: decode StorageAccount: %w", err)
		}
		return &StorageAcct{V1: &acct}, nil
	default:
		return nil, fmt.Errorf("model: account discriminator %x does not match a storage account schema", disc)
	}
}

// UserInfo tracks per-wallet account counters.
type UserInfo struct {
	AccountCounter  uint32
	DelCounter      uint32
	AgreedToTos     bool
	LifetimeBadCsam bool
}

// DecodeUserInfo decodes a user-info account blob.
func DecodeUserInfo(data []byte) (*UserInfo, error) {
	return decodeAccount[UserInfo]("UserInfo", data)
}

// UnstakeInfo records a pending unstake for a storage account.
type UnstakeInfo struct {
	TimeLastUnstaked  int64
	EpochLastUnstaked uint64
	Unstaker          solana.PublicKey
}

// DecodeUnstakeInfo decodes an unstake-info account blob.
func DecodeUnstakeInfo(data []byte) (*UnstakeInfo, error) {
	return decodeAccount[UnstakeInfo]("UnstakeInfo", data)
}

func splitDiscriminator(data []byte) ([8]byte, []byte, error) {
	if len(data) < 8 {
		return [8]byte{}, nil, fmt.Errorf("account blob is %d bytes, discriminator needs 8", len(data))
	}
	return [8]byte(data[:8]), data[8:], nil
}

func decodeAccount[T any](name string, data []byte) (*T, error) {
	disc, body, err := splitDiscriminator(data)
	if err != nil {
		return nil, fmt.Errorf("model: %s: %w", name, err)
	}
	if disc != drive.AccountDiscriminator(name) {
		return nil, fmt.Errorf("model: account discriminator %x does not match %s", disc, name)
	}
	var out T
	if err := bin.NewBorshDecoder(body).Decode(&out); err != nil {
		return nil, fmt.Errorf("model: decode %s: %w", name, err)
	}
	return &out, nil
}
