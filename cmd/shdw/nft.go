package main

import (
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/genesysgo/shadow-drive-go/pkg/model"
)

func nftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nft",
		Short: "Shadowy Super Minter account inspection",
	}

	collection := &cobra.Command{
		Use:   "collection",
		Short: "Collection accounts",
	}
	collection.AddCommand(&cobra.Command{
		Use:   "get <pubkey>",
		Short: "Fetch and print a collection account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := fetchAccount(cmd, args[0])
			if err != nil {
				return err
			}

			c, err := model.DecodeCollection(raw)
			if err != nil {
				return fmt.Errorf("failed to decode collection: %w", err)
			}

			fmt.Printf("name:          %s\n", c.Name)
			fmt.Printf("symbol:        %s\n", c.Symbol)
			fmt.Printf("creator group: %s\n", c.CreatorGroupKey)
			fmt.Printf("size:          %d\n", c.Size)
			fmt.Printf("signatures:    %d\n", c.Sigs)
			fmt.Printf("for minter:    %t\n", c.ForMinter)
			fmt.Printf("royalty:       %.2f%%\n", float64(c.Royalty50bp)*0.5)
			return nil
		},
	})

	creatorGroup := &cobra.Command{
		Use:   "creator-group",
		Short: "Creator group accounts",
	}
	creatorGroup.AddCommand(&cobra.Command{
		Use:   "get <pubkey>",
		Short: "Fetch and print a creator group account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := fetchAccount(cmd, args[0])
			if err != nil {
				return err
			}

			g, err := model.DecodeCreatorGroup(raw)
			if err != nil {
				return fmt.Errorf("failed to decode creator group: %w", err)
			}

			fmt.Printf("name:       %s\n", g.Name)
			fmt.Printf("signatures: %d\n", g.Sigs)
			for i, creator := range g.Creators {
				fmt.Printf("creator %d:  %s\n", i, creator)
			}
			return nil
		},
	})

	minter := &cobra.Command{
		Use:   "minter",
		Short: "Shadowy super minter accounts",
	}
	minter.AddCommand(&cobra.Command{
		Use:   "get <pubkey>",
		Short: "Fetch and print a minter account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := fetchAccount(cmd, args[0])
			if err != nil {
				return err
			}

			m, err := model.DecodeShadowySuperMinter(raw)
			if err != nil {
				return fmt.Errorf("failed to decode minter: %w", err)
			}

			fmt.Printf("collection:      %s\n", m.Collection)
			fmt.Printf("creator group:   %s\n", m.CreatorGroup)
			fmt.Printf("items available: %d\n", m.ItemsAvailable)
			fmt.Printf("items redeemed:  %d\n", m.ItemsRedeemed)
			fmt.Printf("verified:        %t\n", m.IsVerified)
			fmt.Printf("price:           %s SOL\n", decimal.New(int64(m.Price), -9))
			fmt.Printf("start time:      %s\n", time.Unix(m.StartTime, 0).UTC().Format(time.RFC3339))
			fmt.Printf("end time:        %s\n", time.Unix(m.EndTime, 0).UTC().Format(time.RFC3339))
			return nil
		},
	})

	cmd.AddCommand(collection, creatorGroup, minter)
	return cmd
}

func fetchAccount(cmd *cobra.Command, arg string) ([]byte, error) {
	key, err := solana.PublicKeyFromBase58(arg)
	if err != nil {
		return nil, fmt.Errorf("invalid account key '%s': %w", arg, err)
	}

	cl, err := newClient()
	if err != nil {
		return nil, err
	}

	raw, err := cl.GetAccountData(cmd.Context(), key)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch account %s: %w", key, err)
	}
	return raw, nil
}
