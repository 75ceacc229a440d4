package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/genesysgo/shadow-drive-go/pkg/runes"
	"github.com/genesysgo/shadow-drive-go/pkg/runes/inscribe"
)

func runesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runes",
		Short: "Build, inspect and inscribe runes archives",
	}

	var (
		storageAccount string
		outStem        string
	)
	create := &cobra.Command{
		Use:   "create --storage-account <pubkey> --out <stem> <files...>",
		Short: "Build a runes archive from local files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := solana.PublicKeyFromBase58(storageAccount)
			if err != nil {
				return fmt.Errorf("invalid storage account key '%s': %w", storageAccount, err)
			}

			names := make([]string, 0, len(args))
			data := make([][]byte, 0, len(args))
			sizes := make([]uint64, 0, len(args))
			for _, path := range args {
				raw, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read '%s': %w", path, err)
				}
				names = append(names, filepath.Base(path))
				data = append(data, raw)
				sizes = append(sizes, uint64(len(raw)))
			}

			manifest, err := runes.NewManifest([32]byte(key), names, data, sizes)
			if err != nil {
				return fmt.Errorf("failed to build manifest: %w", err)
			}
			if err := manifest.Save(outStem); err != nil {
				return fmt.Errorf("failed to save manifest: %w", err)
			}

			log.Info().Msgf("wrote %s.runes with %d runes", outStem, len(manifest.Runes))
			return nil
		},
	}
	create.Flags().StringVar(&storageAccount, "storage-account", "", "storage account the archive belongs to (required)")
	create.Flags().StringVar(&outStem, "out", "", "output path stem, .runes is appended (required)")
	create.MarkFlagRequired("storage-account")
	create.MarkFlagRequired("out")

	var (
		archive string
		output  string
		goPkg   string
	)
	ins := &cobra.Command{
		Use:   "inscribe --archive <path> --output <dir> --go-package <name>",
		Short: "Generate a Go package embedding a runes archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			return inscribe.Generate(archive, output, goPkg)
		},
	}
	ins.Flags().StringVar(&archive, "archive", "", "path to the .runes archive (required)")
	ins.Flags().StringVar(&output, "output", "", "output directory for the generated package (required)")
	ins.Flags().StringVar(&goPkg, "go-package", "", "Go package name for generated code (required)")
	ins.MarkFlagRequired("archive")
	ins.MarkFlagRequired("output")
	ins.MarkFlagRequired("go-package")

	show := &cobra.Command{
		Use:   "show <path>",
		Short: "Validate a runes archive and print its contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read '%s': %w", args[0], err)
			}

			view, err := runes.CheckedRoot(raw)
			if err != nil {
				return fmt.Errorf("invalid archive '%s': %w", args[0], err)
			}

			fmt.Printf("storage account: %s\n", solana.PublicKeyFromBytes(view.StorageAccount()[:]))
			fmt.Printf("runes:           %d\n", view.Count())
			for r := range view.All() {
				fmt.Printf("  %-32s %10d bytes  sha256:%s\n",
					r.Name(), r.Len(), hex.EncodeToString(r.Hash()[:]))
			}
			return nil
		},
	}

	cmd.AddCommand(create, ins, show)
	return cmd
}
