package client

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog/log"

	"github.com/genesysgo/shadow-drive-go/pkg/drive"
	"github.com/genesysgo/shadow-drive-go/pkg/model"
)

// Byte offsets of the owner_1 field within storage account blobs,
// discriminator included. Used for getProgramAccounts owner filters.
const (
	ownerOffsetV1 = 8 + 31
	ownerOffsetV2 = 8 + 14
)

// GetStorageAccount fetches and decodes a storage account of either
// schema version.
func (c *Client) GetStorageAccount(ctx context.Context, key solana.PublicKey) (*model.StorageAcct, error) {
	data, err := c.GetAccountData(ctx, key)
	if err != nil {
		return nil, err
	}
	acct, err := model.DecodeStorageAccount(data)
	if err != nil {
		return nil, fmt.Errorf("client: storage account %s: %w", key, err)
	}
	return acct, nil
}

// GetStorageAccounts lists the storage accounts owned by a wallet,
// querying both schema versions.
func (c *Client) GetStorageAccounts(ctx context.Context, owner solana.PublicKey) ([]*model.StorageAcct, error) {
	var accounts []*model.StorageAcct
	for _, offset := range []uint64{ownerOffsetV1, ownerOffsetV2} {
		out, err := c.rpc.GetProgramAccountsWithOpts(ctx, drive.ProgramID, &rpc.GetProgramAccountsOpts{
			Filters: []rpc.RPCFilter{
				{
					Memcmp: &rpc.RPCFilterMemcmp{
						Offset: offset,
						Bytes:  solana.Base58(owner.Bytes()),
					},
				},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("client: get storage accounts for %s: %w", owner, err)
		}
		for _, keyed := range out {
			acct, err := model.DecodeStorageAccount(keyed.Account.Data.GetBinary())
			if err != nil {
				// The owner filter can match unrelated program
				// accounts; skip anything that is not a storage
				// account.
				log.Debug().Err(err).Msgf("skipping account %s", keyed.Pubkey)
				continue
			}
			accounts = append(accounts, acct)
		}
	}
	return accounts, nil
}

// RequestDeleteStorageAccount queues a storage account for deletion.
// The request can be cancelled until the grace period ends (see
// CancelDeleteStorageAccount).
func (c *Client) RequestDeleteStorageAccount(ctx context.Context, key solana.PublicKey) (*TxResponse, error) {
	acct, err := c.GetStorageAccount(ctx, key)
	if err != nil {
		return nil, err
	}

	instruction := solana.NewInstruction(
		drive.ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(drive.StorageConfigPDA).WRITE(),
			solana.Meta(key).WRITE(),
			solana.Meta(acct.Owner()).WRITE().SIGNER(),
			solana.Meta(drive.TokenMint),
			solana.Meta(solana.SystemProgramID),
		},
		drive.InstructionDiscriminator(versioned("request_delete_account", acct)),
	)
	return c.sendInstructions(ctx, []solana.Instruction{instruction})
}

// CancelDeleteStorageAccount cancels a pending deletion request.
func (c *Client) CancelDeleteStorageAccount(ctx context.Context, key solana.PublicKey) (*TxResponse, error) {
	acct, err := c.GetStorageAccount(ctx, key)
	if err != nil {
		return nil, err
	}
	stakeAccount, _, err := drive.StakeAccount(key)
	if err != nil {
		return nil, fmt.Errorf("client: derive stake account: %w", err)
	}

	instruction := solana.NewInstruction(
		drive.ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(drive.StorageConfigPDA).WRITE(),
			solana.Meta(key).WRITE(),
			solana.Meta(stakeAccount).WRITE(),
			solana.Meta(acct.Owner()).WRITE().SIGNER(),
			solana.Meta(drive.TokenMint),
			solana.Meta(solana.SystemProgramID),
		},
		drive.InstructionDiscriminator(versioned("unmark_delete_account", acct)),
	)
	return c.sendInstructions(ctx, []solana.Instruction{instruction})
}

// ClaimStake redeems stake made claimable by a storage reduction.
// Users must wait until the end of the epoch in which the reduction
// happened before the claim succeeds.
func (c *Client) ClaimStake(ctx context.Context, key solana.PublicKey) (*TxResponse, error) {
	acct, err := c.GetStorageAccount(ctx, key)
	if err != nil {
		return nil, err
	}
	unstakeAccount, _, err := drive.UnstakeAccount(key)
	if err != nil {
		return nil, fmt.Errorf("client: derive unstake account: %w", err)
	}
	unstakeInfo, _, err := drive.UnstakeInfo(key)
	if err != nil {
		return nil, fmt.Errorf("client: derive unstake info: %w", err)
	}
	ownerATA, _, err := solana.FindAssociatedTokenAddress(c.wallet.PublicKey(), drive.TokenMint)
	if err != nil {
		return nil, fmt.Errorf("client: derive owner token account: %w", err)
	}

	instruction := solana.NewInstruction(
		drive.ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(drive.StorageConfigPDA).WRITE(),
			solana.Meta(key).WRITE(),
			solana.Meta(unstakeInfo).WRITE(),
			solana.Meta(unstakeAccount).WRITE(),
			solana.Meta(acct.Owner()).WRITE().SIGNER(),
			solana.Meta(ownerATA).WRITE(),
			solana.Meta(drive.TokenMint),
			solana.Meta(solana.SystemProgramID),
			solana.Meta(solana.TokenProgramID),
		},
		drive.InstructionDiscriminator(versioned("claim_stake", acct)),
	)
	return c.sendInstructions(ctx, []solana.Instruction{instruction})
}

// RedeemRent reclaims the rent of an on-chain file account belonging
// to a storage account.
func (c *Client) RedeemRent(ctx context.Context, storageAccount, fileAccount solana.PublicKey) (*TxResponse, error) {
	instruction := solana.NewInstruction(
		drive.ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(storageAccount),
			solana.Meta(fileAccount).WRITE(),
			solana.Meta(c.wallet.PublicKey()).WRITE().SIGNER(),
		},
		drive.InstructionDiscriminator("redeem_rent"),
	)
	return c.sendInstructions(ctx, []solana.Instruction{instruction})
}

// versioned appends the "2" suffix used by v2 instruction handlers.
func versioned(name string, acct *model.StorageAcct) string {
	if acct.Version() == 2 {
		return name + "2"
	}
	return name
}
