package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/innovinitylabs/x402/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "x402",
		Short: "x402 - pay-per-call HTTP payment gateway",
		Long:  `x402 gates HTTP actions behind pay-per-call payment challenges and manages the resulting payment sessions.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
