// Package client provides commands that talk to a running match server
package client

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/KirkDiggler/egg-brawl/internal/entities"
	matchv1alpha1 "github.com/KirkDiggler/egg-brawl/internal/handlers/match/v1alpha1"
)

var (
	// Connection flags
	serverAddr string
	timeout    time.Duration
)

// ClientCmd is the root command for all client commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Play a match from the command line",
	Long:  `Client commands join matches, commit moves and follow snapshots over gRPC.`,
}

func init() {
	ClientCmd.PersistentFlags().StringVar(&serverAddr, "server", "localhost:50051", "gRPC server address")
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	ClientCmd.AddCommand(joinCmd)
	ClientCmd.AddCommand(leaveCmd)
	ClientCmd.AddCommand(commitCmd)
	ClientCmd.AddCommand(snapshotCmd)
	ClientCmd.AddCommand(watchCmd)
}

// createClient creates a match service client
func createClient() (*matchv1alpha1.Client, func(), error) {
	conn, err := grpc.NewClient(serverAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	cleanup := func() {
		_ = conn.Close() // nolint:errcheck // safe to ignore in cleanup
	}

	client, err := matchv1alpha1.NewClient(&matchv1alpha1.ClientConfig{Conn: conn})
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return client, cleanup, nil
}

func printSnapshot(snap *entities.Snapshot) {
	fmt.Printf("\nMatch %s, round %d\n", snap.MatchID, snap.Round)
	fmt.Printf("==========================\n")
	for _, p := range snap.Participants {
		status := "alive"
		if !p.Alive {
			status = "dead"
		}
		fmt.Printf("  %-12s hp=%d eggs=%d %s\n", p.DisplayName, p.Health, len(p.StatusEffects), status)
	}

	switch {
	case snap.Draw:
		fmt.Println("\nThe match ended in a draw")
	case snap.WinnerID != nil:
		fmt.Printf("\n%s wins\n", *snap.WinnerID)
	}
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
