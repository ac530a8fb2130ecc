// Package main provides a standalone command-line client for the match service
package main

import (
	"fmt"
	"os"

	"github.com/KirkDiggler/egg-brawl/cmd/server/client"
)

func main() {
	client.ClientCmd.Use = "egg-client"
	if err := client.ClientCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
