package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// solanaConfig is the subset of the Solana CLI config file we care
// about (~/.config/solana/cli/config.yml).
type solanaConfig struct {
	JSONRPCURL  string `yaml:"json_rpc_url"`
	KeypairPath string `yaml:"keypair_path"`
}

func solanaConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "solana", "cli", "config.yml"), nil
}

func loadSolanaConfig() (*solanaConfig, error) {
	path, err := solanaConfigPath()
	if err != nil {
		return nil, err
	}
	return parseSolanaConfig(path)
}

func parseSolanaConfig(path string) (*solanaConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read solana config '%s': %w", path, err)
	}

	var cfg solanaConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse solana config '%s': %w", path, err)
	}

	return &cfg, nil
}
