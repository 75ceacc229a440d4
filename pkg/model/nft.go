package model

import (
	"github.com/gagliardetto/solana-go"
)

// Collection is a shadow NFT standard collection account.
type Collection struct {
	CreatorGroupKey solana.PublicKey
	Size            uint32
	Sigs            uint8
	ForMinter       bool
	Royalty50bp     uint8
	Symbol          string
	Name            string
}

// CreatorGroup is a group of creators sharing collections.
type CreatorGroup struct {
	Sigs     uint8
	Creators []solana.PublicKey
	Name     string
}

// ShadowySuperMinter is a minter account driving collection mints.
type ShadowySuperMinter struct {
	CreatorGroup   solana.PublicKey
	Collection     solana.PublicKey
	ItemsRedeemed  uint64
	IsVerified     bool
	ItemsAvailable uint32
	Price          uint64
	StartTime      int64
	EndTime        int64
}

// DecodeCollection decodes a collection account blob.
func DecodeCollection(data []byte) (*Collection, error) {
	return decodeAccount[Collection]("Collection", data)
}

// DecodeCreatorGroup decodes a creator group account blob.
func DecodeCreatorGroup(data []byte) (*CreatorGroup, error) {
	return decodeAccount[CreatorGroup]("CreatorGroup", data)
}

// DecodeShadowySuperMinter decodes a minter account blob.
func DecodeShadowySuperMinter(data []byte) (*ShadowySuperMinter, error) {
	return decodeAccount[ShadowySuperMinter]("ShadowySuperMinter", data)
}
