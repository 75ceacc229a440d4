// Package client implements the Shadow Drive SDK: storage account
// reads and lifecycle transactions against the user-staking program.
package client

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog/log"
)

// Client performs Shadow Drive operations on behalf of a wallet.
// Reads go straight to the RPC node; lifecycle operations build,
// sign, and submit transactions paid by the wallet.
type Client struct {
	rpc    *rpc.Client
	wallet solana.PrivateKey
}

// New creates a client talking to the given RPC endpoint.
func New(wallet solana.PrivateKey, rpcURL string) *Client {
	return NewWithRPC(wallet, rpc.New(rpcURL))
}

// NewWithRPC creates a client over an existing RPC client, e.g. one
// with custom auth headers.
func NewWithRPC(wallet solana.PrivateKey, rpcClient *rpc.Client) *Client {
	return &Client{
		rpc:    rpcClient,
		wallet: wallet,
	}
}

// Wallet returns the public key of the signing wallet.
func (c *Client) Wallet() solana.PublicKey {
	return c.wallet.PublicKey()
}

// Balance returns the wallet's lamport balance.
func (c *Client) Balance(ctx context.Context) (uint64, error) {
	out, err := c.rpc.GetBalance(ctx, c.wallet.PublicKey(), rpc.CommitmentConfirmed)
	if err != nil {
		return 0, fmt.Errorf("client: get balance: %w", err)
	}
	return out.Value, nil
}

// GetAccountData fetches the raw data blob of an account. Returns an
// error if the account does not exist.
func (c *Client) GetAccountData(ctx context.Context, account solana.PublicKey) ([]byte, error) {
	out, err := c.rpc.GetAccountInfo(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("client: no account found at %s: %w", account, err)
	}
	if out.Value == nil || out.Value.Data == nil {
		return nil, fmt.Errorf("client: no account found at %s", account)
	}
	return out.Value.Data.GetBinary(), nil
}

// TxResponse reports a submitted transaction.
type TxResponse struct {
	Signature solana.Signature
}

// sendInstructions assembles the instructions into a transaction paid
// and signed by the wallet, and submits it.
func (c *Client) sendInstructions(ctx context.Context, instructions []solana.Instruction) (*TxResponse, error) {
	recent, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return nil, fmt.Errorf("client: get latest blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(
		instructions,
		recent.Value.Blockhash,
		solana.TransactionPayer(c.wallet.PublicKey()),
	)
	if err != nil {
		return nil, fmt.Errorf("client: build transaction: %w", err)
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(c.wallet.PublicKey()) {
			return &c.wallet
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("client: sign transaction: %w", err)
	}

	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return nil, fmt.Errorf("client: send transaction: %w", err)
	}

	log.Info().Msgf("submitted transaction %s", sig)
	return &TxResponse{Signature: sig}, nil
}
