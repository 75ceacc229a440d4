// Package drive holds the on-chain constants of the Shadow Drive
// user-staking program: well-known addresses, program-derived address
// helpers, and Anchor discriminators.
package drive

import (
	"crypto/sha256"

	"github.com/gagliardetto/solana-go"
)

var (
	// ProgramID is the Shadow Drive user-staking program.
	ProgramID = solana.MustPublicKeyFromBase58("2e1wdyNhUvE76y6yUCvah2KaviavMJYKoRun8acMRBZZ")

	// TokenMint is the SHDW token mint.
	TokenMint = solana.MustPublicKeyFromBase58("SHDWyBxihqiCj6YekG2GUr7wqKLeLAMK1gHZck9pL6y")

	// Uploader is the uploader authority co-signing storage writes.
	Uploader = solana.MustPublicKeyFromBase58("972oJTFyjmVNsWM4GHEGPWUomAiJf2qrVotLtwnKmWem")

	// Emissions is the emissions wallet.
	Emissions = solana.MustPublicKeyFromBase58("SHDWRWMZ6kmRG9CvKFSD7kVcnUqXMtd3SaMrLvWscbj")

	// StorageConfigPDA is the program's global config account.
	StorageConfigPDA, _ = mustFindProgramAddress([][]byte{[]byte("storage-config")})
)

// ObjectEndpoint is the public host serving storage objects.
const ObjectEndpoint = "https://shdw-drive.genesysgo.net"

func mustFindProgramAddress(seeds [][]byte) (solana.PublicKey, uint8) {
	addr, bump, err := solana.FindProgramAddress(seeds, ProgramID)
	if err != nil {
		panic("drive: program address derivation failed: " + err.Error())
	}
	return addr, bump
}

// StorageAccountAddress derives the storage account address for a
// wallet and account counter seed.
func StorageAccountAddress(wallet solana.PublicKey, seed uint32) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte("storage-account"),
		wallet.Bytes(),
		leUint32(seed),
	}, ProgramID)
}

// StakeAccount derives the SHDW token account holding a storage
// account's stake.
func StakeAccount(storageAccount solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte("stake-account"),
		storageAccount.Bytes(),
	}, ProgramID)
}

// UnstakeAccount derives the token account handling SHDW while
// unstaking.
func UnstakeAccount(storageAccount solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte("unstake-account"),
		storageAccount.Bytes(),
	}, ProgramID)
}

// UnstakeInfo derives the unstake bookkeeping account.
func UnstakeInfo(storageAccount solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte("unstake-info"),
		storageAccount.Bytes(),
	}, ProgramID)
}

// UserInfoAddress derives a wallet's user-info account.
func UserInfoAddress(wallet solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte("user-info"),
		wallet.Bytes(),
	}, ProgramID)
}

// InstructionDiscriminator returns the 8-byte Anchor sighash for a
// program instruction, e.g. "request_delete_account2".
func InstructionDiscriminator(name string) []byte {
	sum := sha256.Sum256([]byte("global:" + name))
	return sum[:8]
}

// AccountDiscriminator returns the 8-byte Anchor discriminator that
// prefixes accounts of the named type, e.g. "StorageAccountV2".
func AccountDiscriminator(name string) [8]byte {
	sum := sha256.Sum256([]byte("account:" + name))
	return [8]byte(sum[:8])
}

func leUint32(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}
