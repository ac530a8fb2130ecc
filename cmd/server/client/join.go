package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/egg-brawl/internal/entities"
	"github.com/KirkDiggler/egg-brawl/internal/orchestrators/match"
)

var joinName string

var joinCmd = &cobra.Command{
	Use:   "join [match-id] [participant-id]",
	Short: "Join a match, creating it if needed",
	Args:  cobra.ExactArgs(2),
	RunE:  runJoin,
}

func init() {
	joinCmd.Flags().StringVar(&joinName, "name", "", "Display name")
}

func runJoin(_ *cobra.Command, args []string) error {
	client, cleanup, err := createClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	out, err := client.Join(ctx, &match.JoinInput{
		MatchID:       args[0],
		ParticipantID: entities.ParticipantID(args[1]),
		DisplayName:   joinName,
	})
	if err != nil {
		return err
	}

	if out.Started {
		fmt.Println("The match has started")
	} else {
		fmt.Println("Waiting for more participants")
	}
	printSnapshot(out.Snapshot)
	return nil
}
