// Package testutil starts a throwaway solana-test-validator in Docker
// for integration tests. Tests that need a live RPC node call Setup
// once and read the RPC URL and funded wallet from the package state.
package testutil

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/rs/zerolog/log"
)

var (
	once         sync.Once
	setupErr     error
	dockerPool   *dockertest.Pool
	resValidator *dockertest.Resource
	rpcURL       string
	wallet       solana.PrivateKey
)

// Setup starts the validator container (once per process), waits for
// its RPC endpoint to report healthy, and airdrops SOL to a fresh
// test wallet.
func Setup(ctx context.Context) error {
	once.Do(func() {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
		defer cancel()

		pool, err := dockertest.NewPool("")
		if err != nil {
			setupErr = fmt.Errorf("could not connect to docker: %w", err)
			return
		}
		dockerPool = pool

		if err := dockerPool.Client.Ping(); err != nil {
			setupErr = fmt.Errorf("could not ping docker: %w", err)
			return
		}

		resValidator, rpcURL, setupErr = initTestValidator(ctx, dockerPool)
		if setupErr != nil {
			return
		}

		wallet, setupErr = fundTestWallet(ctx, rpcURL)
		if setupErr != nil {
			return
		}

		log.Info().Msg("test validator ready, running tests")
	})
	return setupErr
}

// Teardown removes the validator container.
func Teardown() {
	if dockerPool != nil && resValidator != nil {
		if err := dockerPool.Purge(resValidator); err != nil {
			log.Error().Err(err).Msg("could not purge test validator resource")
		}
	}
}

// RPCURL returns the endpoint of the running test validator.
func RPCURL() string {
	return rpcURL
}

// Wallet returns the funded test wallet.
func Wallet() solana.PrivateKey {
	return wallet
}

func initTestValidator(ctx context.Context, pool *dockertest.Pool) (*dockertest.Resource, string, error) {
	const rpcPort = "8899"

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "solanalabs/solana",
		Tag:        "v1.18.26",
		Platform:   "linux/amd64",
		Cmd: []string{
			"solana-test-validator",
			"--reset",
			"--quiet",
		},
		ExposedPorts: []string{rpcPort + "/tcp"},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return nil, "", fmt.Errorf("could not start test validator: %w", err)
	}

	resource.Expire(300)

	mappedPort := resource.GetPort(rpcPort + "/tcp")
	url := fmt.Sprintf("http://127.0.0.1:%s", mappedPort)

	if err := waitForPort(ctx, mappedPort, 2*time.Minute); err != nil {
		return nil, "", fmt.Errorf("test validator RPC port %s not ready: %w", mappedPort, err)
	}
	if err := waitForHealthy(ctx, url, 2*time.Minute); err != nil {
		return nil, "", fmt.Errorf("test validator did not become healthy: %w", err)
	}

	log.Info().Msgf("test validator started, RPC on %s", url)
	return resource, url, nil
}

func fundTestWallet(ctx context.Context, url string) (solana.PrivateKey, error) {
	w := solana.NewWallet()
	rpcClient := rpc.New(url)

	sig, err := rpcClient.RequestAirdrop(ctx, w.PublicKey(), 10*solana.LAMPORTS_PER_SOL, rpc.CommitmentFinalized)
	if err != nil {
		return nil, fmt.Errorf("airdrop to test wallet: %w", err)
	}
	log.Info().Msgf("airdropped 10 SOL to %s (%s)", w.PublicKey(), sig)

	deadline := time.Now().Add(time.Minute)
	for time.Now().Before(deadline) {
		balance, err := rpcClient.GetBalance(ctx, w.PublicKey(), rpc.CommitmentFinalized)
		if err == nil && balance.Value > 0 {
			return w.PrivateKey, nil
		}
		time.Sleep(time.Second)
	}
	return nil, fmt.Errorf("airdrop to %s never landed", w.PublicKey())
}

func waitForPort(ctx context.Context, port string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	address := fmt.Sprintf("127.0.0.1:%s", port)

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		conn, err := net.DialTimeout("tcp", address, time.Second)
		if err == nil {
			conn.Close()
			return nil
		}

		time.Sleep(500 * time.Millisecond)
	}

	return fmt.Errorf("timeout waiting for port %s", port)
}

func waitForHealthy(ctx context.Context, url string, timeout time.Duration) error {
	rpcClient := rpc.New(url)
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		out, err := rpcClient.GetHealth(ctx)
		if err == nil && out == rpc.HealthOk {
			return nil
		}

		time.Sleep(2 * time.Second)
	}

	return fmt.Errorf("validator at %s did not report healthy within %v", url, timeout)
}
