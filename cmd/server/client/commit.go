package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/egg-brawl/internal/entities"
	"github.com/KirkDiggler/egg-brawl/internal/orchestrators/match"
)

var commitRound int

var commitCmd = &cobra.Command{
	Use:   "commit [match-id] [participant-id] [move] [target-id]",
	Short: "Commit a move for the open round",
	Long: fmt.Sprintf(`Commit one of: %s.

The target may be left out when there is a single opponent. Examples:

  commit arena alice egg bob
  commit arena bob barrier`, strings.Join(entities.MoveNames(), ", ")),
	Args: cobra.RangeArgs(3, 4),
	RunE: runCommit,
}

func init() {
	commitCmd.Flags().IntVar(&commitRound, "round", 0, "Round to commit for; 0 is the open round")
}

func runCommit(_ *cobra.Command, args []string) error {
	move, err := entities.ParseMove(args[2])
	if err != nil {
		return err
	}

	input := &match.CommitMoveInput{
		MatchID:       args[0],
		ParticipantID: entities.ParticipantID(args[1]),
		Move:          move,
		Round:         commitRound,
	}
	if len(args) == 4 {
		target := entities.ParticipantID(args[3])
		input.TargetID = &target
	}

	client, cleanup, err := createClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	out, err := client.CommitMove(ctx, input)
	if err != nil {
		return err
	}

	fmt.Printf("Committed %s for round %d", move, out.Round)
	if out.TargetID != nil {
		fmt.Printf(" targeting %s", *out.TargetID)
	}
	fmt.Println()

	if out.Resolved {
		fmt.Println("Your commit closed the round")
		printSnapshot(out.Snapshot)
	}
	return nil
}
