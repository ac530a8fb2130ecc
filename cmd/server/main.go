// Package main is the entry point for the egg-brawl server, client and bot
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/egg-brawl/cmd/server/client"
)

var (
	logLevel string
	logJSON  bool
)

var rootCmd = &cobra.Command{
	Use:   "egg-brawl",
	Short: "Egg Brawl match server",
	Long:  `Egg Brawl hosts simultaneous-move matches over gRPC, with a spectator HTTP surface and scripted bots.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// .env is optional
		_ = godotenv.Load()

		if err := bindEnv(cmd, envBindings); err != nil {
			return err
		}
		initLogger(logLevel, logJSON)
		return nil
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Emit logs as JSON")

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(botCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
