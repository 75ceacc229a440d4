package main

import (
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/genesysgo/shadow-drive-go/pkg/client"
)

var (
	rpcURL      string
	keypairPath string
	skipConfirm bool
	debug       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "shdw",
		Short: "Shadow Drive command-line client",
		Long: `A command-line interface for the Shadow Drive storage network.

Reads storage accounts, NFT collections, creator groups and minters from
the chain, manages storage-account lifecycle, and builds runes archives.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&rpcURL, "url", "", "RPC endpoint (defaults to the Solana CLI config)")
	rootCmd.PersistentFlags().StringVar(&keypairPath, "keypair", "", "path to the signing keypair (defaults to the Solana CLI config)")
	rootCmd.PersistentFlags().BoolVar(&skipConfirm, "skip-confirm", false, "do not prompt before irreversible operations")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(driveCmd())
	rootCmd.AddCommand(nftCmd())
	rootCmd.AddCommand(runesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// newClient resolves the RPC endpoint and keypair from flags and the
// Solana CLI config file and returns a signing client.
func newClient() (*client.Client, error) {
	cfg, err := loadSolanaConfig()
	if err != nil {
		log.Debug().Err(err).Msg("could not read solana CLI config, relying on flags")
		cfg = &solanaConfig{}
	}

	url := rpcURL
	if url == "" {
		url = cfg.JSONRPCURL
	}
	if url == "" {
		return nil, fmt.Errorf("no RPC endpoint: pass --url or configure the solana CLI")
	}

	path := keypairPath
	if path == "" {
		path = cfg.KeypairPath
	}
	if path == "" {
		return nil, fmt.Errorf("no keypair: pass --keypair or configure the solana CLI")
	}

	wallet, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load keypair '%s': %w", path, err)
	}

	return client.New(wallet, url), nil
}

// confirm asks the user to press ENTER before an irreversible
// operation. Honors --skip-confirm.
func confirm(action string) error {
	if skipConfirm {
		return nil
	}
	fmt.Printf("%s. Press ENTER to continue, Ctrl-C to abort: ", action)
	_, err := fmt.Scanln()
	if err != nil && err.Error() != "unexpected newline" {
		return fmt.Errorf("aborted: %w", err)
	}
	return nil
}
