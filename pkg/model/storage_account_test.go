package model

import (
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genesysgo/shadow-drive-go/pkg/drive"
)

func encodeAccount(t *testing.T, name string, v interface{}) []byte {
	t.Helper()
	body, err := bin.MarshalBorsh(v)
	require.NoError(t, err)
	disc := drive.AccountDiscriminator(name)
	return append(disc[:], body...)
}

func TestDecodeStorageAccount_V2(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	want := StorageAccountV2{
		Immutable:          false,
		ToBeDeleted:        true,
		DeleteRequestEpoch: 410,
		Storage:            1 << 30,
		Owner1:             owner,
		AccountCounterSeed: 3,
		CreationTime:       1690000000,
		CreationEpoch:      400,
		LastFeeEpoch:       409,
		Identifier:         "my-drive",
	}

	acct, err := DecodeStorageAccount(encodeAccount(t, "StorageAccountV2", want))
	require.NoError(t, err)
	require.NotNil(t, acct.V2)
	assert.Nil(t, acct.V1)
	assert.Equal(t, want, *acct.V2)

	assert.Equal(t, 2, acct.Version())
	assert.Equal(t, owner, acct.Owner())
	assert.Equal(t, "my-drive", acct.Identifier())
	assert.Equal(t, uint64(1<<30), acct.Storage())
	assert.True(t, acct.ToBeDeleted())
	assert.False(t, acct.Immutable())
}

func TestDecodeStorageAccount_V1(t *testing.T) {
	want := StorageAccount{
		IsStatic:           true,
		InitCounter:        1,
		Storage:            2048,
		StorageAvailable:   1024,
		Owner1:             solana.NewWallet().PublicKey(),
		Owner2:             solana.NewWallet().PublicKey(),
		ShdwPayer:          solana.NewWallet().PublicKey(),
		AccountCounterSeed: 0,
		Identifier:         "legacy",
	}

	acct, err := DecodeStorageAccount(encodeAccount(t, "StorageAccount", want))
	require.NoError(t, err)
	require.NotNil(t, acct.V1)
	assert.Equal(t, 1, acct.Version())
	assert.Equal(t, want.Owner1, acct.Owner())
	assert.Equal(t, "legacy", acct.Identifier())
}

func TestDecodeStorageAccount_UnknownDiscriminator(t *testing.T) {
	blob := encodeAccount(t, "SomethingElse", StorageAccountV2{})
	_, err := DecodeStorageAccount(blob)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "discriminator")
}

func TestDecodeStorageAccount_TooShort(t *testing.T) {
	_, err := DecodeStorageAccount([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestDecodeCollection(t *testing.T) {
	want := Collection{
		CreatorGroupKey: solana.NewWallet().PublicKey(),
		Size:            10000,
		Sigs:            1,
		ForMinter:       true,
		Royalty50bp:     5,
		Symbol:          "SHDW",
		Name:            "Shadowy Things",
	}

	got, err := DecodeCollection(encodeAccount(t, "Collection", want))
	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestDecodeCreatorGroup(t *testing.T) {
	want := CreatorGroup{
		Sigs: 2,
		Creators: []solana.PublicKey{
			solana.NewWallet().PublicKey(),
			solana.NewWallet().PublicKey(),
		},
		Name: "the-group",
	}

	got, err := DecodeCreatorGroup(encodeAccount(t, "CreatorGroup", want))
	require.NoError(t, err)
	assert.Equal(t, want, *got)

	// A collection blob must not decode as a creator group.
	_, err = DecodeCreatorGroup(encodeAccount(t, "Collection", Collection{}))
	require.Error(t, err)
}

func TestDecodeShadowySuperMinter(t *testing.T) {
	want := ShadowySuperMinter{
		CreatorGroup:   solana.NewWallet().PublicKey(),
		Collection:     solana.NewWallet().PublicKey(),
		ItemsRedeemed:  42,
		IsVerified:     true,
		ItemsAvailable: 1000,
		Price:          5_000_000_000,
		StartTime:      1700000000,
		EndTime:        1800000000,
	}

	got, err := DecodeShadowySuperMinter(encodeAccount(t, "ShadowySuperMinter", want))
	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestDecodeUserInfo(t *testing.T) {
	want := UserInfo{
		AccountCounter: 4,
		DelCounter:     1,
		AgreedToTos:    true,
	}

	got, err := DecodeUserInfo(encodeAccount(t, "UserInfo", want))
	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestDecodeUnstakeInfo(t *testing.T) {
	want := UnstakeInfo{
		TimeLastUnstaked:  1690000000,
		EpochLastUnstaked: 412,
		Unstaker:          solana.NewWallet().PublicKey(),
	}

	got, err := DecodeUnstakeInfo(encodeAccount(t, "UnstakeInfo", want))
	require.NoError(t, err)
	assert.Equal(t, want, *got)

	_, err = DecodeUnstakeInfo(encodeAccount(t, "UserInfo", want))
	require.Error(t, err)
}
