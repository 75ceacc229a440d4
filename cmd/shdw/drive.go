package main

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/genesysgo/shadow-drive-go/pkg/model"
)

// shadesDecimals is the SHDW token mint precision. On-chain amounts
// are denominated in shades.
const shadesDecimals = 9

func shdwAmount(shades uint64) decimal.Decimal {
	return decimal.New(int64(shades), -shadesDecimals)
}

func driveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drive",
		Short: "Storage account operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get-storage-account <pubkey>",
		Short: "Fetch and print a storage account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := solana.PublicKeyFromBase58(args[0])
			if err != nil {
				return fmt.Errorf("invalid storage account key '%s': %w", args[0], err)
			}

			cl, err := newClient()
			if err != nil {
				return err
			}

			acct, err := cl.GetStorageAccount(cmd.Context(), key)
			if err != nil {
				return fmt.Errorf("failed to fetch storage account: %w", err)
			}

			printStorageAccount(key, acct)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get-storage-accounts [owner]",
		Short: "List storage accounts owned by a wallet (defaults to the signing wallet)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := newClient()
			if err != nil {
				return err
			}

			owner := cl.Wallet()
			if len(args) == 1 {
				owner, err = solana.PublicKeyFromBase58(args[0])
				if err != nil {
					return fmt.Errorf("invalid owner key '%s': %w", args[0], err)
				}
			}

			accounts, err := cl.GetStorageAccounts(cmd.Context(), owner)
			if err != nil {
				return fmt.Errorf("failed to fetch storage accounts: %w", err)
			}
			if len(accounts) == 0 {
				fmt.Printf("no storage accounts for %s\n", owner)
				return nil
			}

			for _, acct := range accounts {
				fmt.Printf("%s (v%d): %d bytes%s\n",
					acct.Identifier(), acct.Version(), acct.Storage(), storageFlags(acct))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete-storage-account <pubkey>",
		Short: "Mark a storage account for deletion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := solana.PublicKeyFromBase58(args[0])
			if err != nil {
				return fmt.Errorf("invalid storage account key '%s': %w", args[0], err)
			}
			if err := confirm(fmt.Sprintf("This will mark storage account %s for deletion", key)); err != nil {
				return err
			}

			cl, err := newClient()
			if err != nil {
				return err
			}

			resp, err := cl.RequestDeleteStorageAccount(cmd.Context(), key)
			if err != nil {
				return fmt.Errorf("failed to request deletion: %w", err)
			}

			log.Info().Msgf("storage account %s marked for deletion: %s", key, resp.Signature)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "cancel-delete-storage-account <pubkey>",
		Short: "Unmark a storage account queued for deletion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := solana.PublicKeyFromBase58(args[0])
			if err != nil {
				return fmt.Errorf("invalid storage account key '%s': %w", args[0], err)
			}
			if err := confirm(fmt.Sprintf("This will cancel the pending deletion of %s", key)); err != nil {
				return err
			}

			cl, err := newClient()
			if err != nil {
				return err
			}

			resp, err := cl.CancelDeleteStorageAccount(cmd.Context(), key)
			if err != nil {
				return fmt.Errorf("failed to cancel deletion: %w", err)
			}

			log.Info().Msgf("deletion of %s cancelled: %s", key, resp.Signature)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "claim-stake <pubkey>",
		Short: "Claim the unstaked balance of a storage account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := solana.PublicKeyFromBase58(args[0])
			if err != nil {
				return fmt.Errorf("invalid storage account key '%s': %w", args[0], err)
			}
			if err := confirm(fmt.Sprintf("This will claim the unstaked balance of %s", key)); err != nil {
				return err
			}

			cl, err := newClient()
			if err != nil {
				return err
			}

			resp, err := cl.ClaimStake(cmd.Context(), key)
			if err != nil {
				return fmt.Errorf("failed to claim stake: %w", err)
			}

			log.Info().Msgf("stake claimed for %s: %s", key, resp.Signature)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "redeem-rent <storage-account> <file-account>",
		Short: "Redeem the rent of an on-chain file account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			storageAccount, err := solana.PublicKeyFromBase58(args[0])
			if err != nil {
				return fmt.Errorf("invalid storage account key '%s': %w", args[0], err)
			}
			fileAccount, err := solana.PublicKeyFromBase58(args[1])
			if err != nil {
				return fmt.Errorf("invalid file account key '%s': %w", args[1], err)
			}
			if err := confirm(fmt.Sprintf("This will close file account %s and redeem its rent", fileAccount)); err != nil {
				return err
			}

			cl, err := newClient()
			if err != nil {
				return err
			}

			resp, err := cl.RedeemRent(cmd.Context(), storageAccount, fileAccount)
			if err != nil {
				return fmt.Errorf("failed to redeem rent: %w", err)
			}

			log.Info().Msgf("rent redeemed for %s: %s", fileAccount, resp.Signature)
			return nil
		},
	})

	return cmd
}

func storageFlags(acct *model.StorageAcct) string {
	out := ""
	if acct.Immutable() {
		out += " [immutable]"
	}
	if acct.ToBeDeleted() {
		out += " [to-be-deleted]"
	}
	return out
}

func printStorageAccount(key solana.PublicKey, acct *model.StorageAcct) {
	fmt.Printf("storage account:  %s\n", key)
	fmt.Printf("identifier:       %s\n", acct.Identifier())
	fmt.Printf("version:          v%d\n", acct.Version())
	fmt.Printf("owner:            %s\n", acct.Owner())
	fmt.Printf("reserved bytes:   %d\n", acct.Storage())
	fmt.Printf("immutable:        %t\n", acct.Immutable())
	fmt.Printf("to be deleted:    %t\n", acct.ToBeDeleted())
	if acct.V1 != nil {
		fmt.Printf("available bytes:  %d\n", acct.V1.StorageAvailable)
		fmt.Printf("total cost:       %s SHDW\n", shdwAmount(acct.V1.TotalCostOfCurrentStorage))
		fmt.Printf("total fees paid:  %s SHDW\n", shdwAmount(acct.V1.TotalFeesPaid))
	}
}
