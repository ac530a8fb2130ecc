package client

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/egg-brawl/internal/entities"
	"github.com/KirkDiggler/egg-brawl/internal/orchestrators/match"
)

var leaveCmd = &cobra.Command{
	Use:   "leave [match-id] [participant-id]",
	Short: "Leave a match; the participant is removed from play",
	Args:  cobra.ExactArgs(2),
	RunE:  runLeave,
}

func runLeave(_ *cobra.Command, args []string) error {
	client, cleanup, err := createClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	out, err := client.Leave(ctx, &match.LeaveInput{
		MatchID:       args[0],
		ParticipantID: entities.ParticipantID(args[1]),
	})
	if err != nil {
		return err
	}

	printSnapshot(out.Snapshot)
	return nil
}
