package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/venkateshn67/warranty-verification/internal/chain"
	"github.com/venkateshn67/warranty-verification/internal/keystore"
)

func newKeygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a wallet seed for WALLET_PRIVATE_KEYS",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			seed, account, err := keystore.Generate()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "seed:       %s\n", seed)
			fmt.Fprintf(out, "address:    %s\n", account.Address)
			fmt.Fprintf(out, "public key: %s\n", account.PublicKey)
			return nil
		},
	}
}

func newAddressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "address <seed>",
		Short: "Print the account address of a wallet seed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := keystore.AccountForSeed(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), account.Address)
			return nil
		},
	}
}

func newBalanceCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "balance <address>",
		Short: "Print the APT balance of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := chain.NormalizeAddress(args[0])
			if err != nil {
				return err
			}
			svc, err := opts.service()
			if err != nil {
				return err
			}
			balance, err := svc.Balance(cmd.Context(), address)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s APT\n", strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.8f", balance), "0"), "."))
			return nil
		},
	}
}

func newRoleCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "role <address>",
		Short: "Print the role an account's marker resources grant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.service()
			if err != nil {
				return err
			}
			role, err := svc.ResolveRole(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), role)
			return nil
		},
	}
}

func newNetworkCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "network",
		Short: "Print the ledger state of the node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := opts.service()
			if err != nil {
				return err
			}
			info := svc.NetworkInfo(cmd.Context())
			if info == nil {
				return fmt.Errorf("node %s is unreachable", opts.NodeURL)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "chain id:       %d\n", info.ChainID)
			fmt.Fprintf(out, "epoch:          %s\n", info.Epoch)
			fmt.Fprintf(out, "ledger version: %s\n", info.LedgerVersion)
			return nil
		},
	}
}
