package client

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/egg-brawl/internal/entities"
	"github.com/KirkDiggler/egg-brawl/internal/errors"
	"github.com/KirkDiggler/egg-brawl/internal/orchestrators/match"
)

var watchCmd = &cobra.Command{
	Use:   "watch [match-id]",
	Short: "Follow a match as a replica and print its event log",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func runWatch(_ *cobra.Command, args []string) error {
	matchID := args[0]

	client, cleanup, err := createClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	bus := events.NewBus()
	replica, err := match.NewReplica(&match.ReplicaConfig{
		EventBus: bus,
		Sender:   client,
		Source:   client,
	})
	if err != nil {
		return err
	}

	stop := match.Subscribe(bus, matchID, func(_ context.Context, n *match.Notification) error {
		switch n.Type {
		case match.EventMatchStarted:
			fmt.Printf("Following match %s at round %d\n", n.MatchID, n.Snapshot.Round)
		case match.EventLogAppended:
			fmt.Printf("  %s\n", n.Line)
		case match.EventRoundResolved:
			fmt.Printf("-- round %d open --\n", n.Snapshot.Round)
		case match.EventMatchOver:
			printSnapshot(n.Snapshot)
		}
		return nil
	})
	defer stop()

	err = client.Watch(ctx, matchID, func(ctx context.Context, snap *entities.Snapshot) error {
		if err := replica.ApplySnapshot(ctx, snap); err != nil {
			fmt.Fprintf(os.Stderr, "bad snapshot, resyncing: %v\n", err)
			return replica.Resync(ctx, matchID)
		}
		return nil
	})
	if err != nil && !errors.IsCanceled(err) {
		return err
	}
	return nil
}
