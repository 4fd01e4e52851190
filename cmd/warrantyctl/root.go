package main

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/venkateshn67/warranty-verification/internal/blockchain"
	"github.com/venkateshn67/warranty-verification/internal/chain"
	"github.com/venkateshn67/warranty-verification/internal/config"
	"github.com/venkateshn67/warranty-verification/internal/logging"
)

type rootOptions struct {
	NodeURL string
	Timeout time.Duration
	Retries int
	Verbose bool
}

func newRootOptions() *rootOptions {
	node := os.Getenv("APTOS_NODE_URL")
	if node == "" {
		node = config.DefaultAptosNodeURL
	}
	return &rootOptions{
		NodeURL: node,
		Timeout: 10 * time.Second,
		Retries: 2,
	}
}

func newRootCmd() *cobra.Command {
	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		_, _ = os.Stderr.WriteString("warning: " + err.Error() + "\n")
	}
	opts := newRootOptions()

	root := &cobra.Command{
		Use:           "warrantyctl",
		Short:         "Inspect wallet keys and warranty accounts on Aptos",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.NodeURL, "node", opts.NodeURL, "Aptos fullnode REST endpoint")
	root.PersistentFlags().DurationVar(&opts.Timeout, "timeout", opts.Timeout, "Per-request timeout")
	root.PersistentFlags().IntVar(&opts.Retries, "retries", opts.Retries, "Retries for failed node requests")
	root.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Log node requests")

	root.AddCommand(
		newKeygenCmd(),
		newAddressCmd(),
		newBalanceCmd(opts),
		newRoleCmd(opts),
		newNetworkCmd(opts),
	)
	return root
}

// service builds the blockchain service against the configured node.
func (o *rootOptions) service() (*blockchain.Service, error) {
	logger := logging.Discard()
	if o.Verbose {
		logger = logging.New("debug", "text")
	}
	client, err := chain.NewClient(o.NodeURL, chain.Options{
		Timeout:  o.Timeout,
		RetryMax: o.Retries,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}
	return blockchain.NewService(client, logger, nil), nil
}
