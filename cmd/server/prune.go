package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/egg-brawl/internal/errors"
	"github.com/KirkDiggler/egg-brawl/internal/pkg/clock"
	"github.com/KirkDiggler/egg-brawl/internal/redis"
	"github.com/KirkDiggler/egg-brawl/internal/repositories/snapshots"
)

var (
	pruneRedisAddr string
	pruneYes       bool
)

var pruneCmd = &cobra.Command{
	Use:   "prune-snapshots",
	Short: "Find and delete malformed snapshots in redis",
	Long: `Scan every stored match snapshot and report the ones replicas would reject.
Nothing is deleted without confirmation unless --yes is given.`,
	RunE: runPrune,
}

func init() {
	pruneCmd.Flags().StringVar(&pruneRedisAddr, "redis-addr", "localhost:6379", "Redis address")
	pruneCmd.Flags().BoolVar(&pruneYes, "yes", false, "Delete without asking")
}

func runPrune(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	client, err := redis.NewClient(pruneRedisAddr, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis at %s: %w", pruneRedisAddr, err)
	}

	repo, err := snapshots.NewRedisRepository(&snapshots.Config{Client: client, Clock: clock.New()})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scanning %s for malformed snapshots...\n", pruneRedisAddr)

	var malformed []string
	var checked int
	iter := client.Scan(ctx, 0, snapshots.KeyPattern, 0).Iterator()
	for iter.Next(ctx) {
		matchID, ok := snapshots.MatchIDFromKey(iter.Val())
		if !ok {
			continue
		}
		checked++

		_, err := repo.Get(ctx, snapshots.GetInput{MatchID: matchID})
		switch {
		case err == nil, errors.IsNotFound(err):
		case errors.IsMalformedSnapshot(err):
			fmt.Fprintf(out, "  malformed %s: %v\n", matchID, err)
			malformed = append(malformed, matchID)
		default:
			fmt.Fprintf(out, "  error reading %s: %v\n", matchID, err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	fmt.Fprintf(out, "\nChecked %d snapshots, found %d malformed\n", checked, len(malformed))
	if len(malformed) == 0 {
		return nil
	}

	if !pruneYes {
		fmt.Fprint(out, "\nDelete them? (yes/no): ")
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if strings.TrimSpace(answer) != "yes" {
			fmt.Fprintln(out, "Aborted, no changes made")
			return nil
		}
	}

	for _, matchID := range malformed {
		if _, err := repo.Delete(ctx, snapshots.DeleteInput{MatchID: matchID}); err != nil {
			fmt.Fprintf(out, "Failed to delete %s: %v\n", matchID, err)
			continue
		}
		fmt.Fprintf(out, "Deleted %s\n", matchID)
	}
	return nil
}
