package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/KirkDiggler/egg-brawl/internal/entities"
	"github.com/KirkDiggler/egg-brawl/internal/errors"
	matchv1alpha1 "github.com/KirkDiggler/egg-brawl/internal/handlers/match/v1alpha1"
	"github.com/KirkDiggler/egg-brawl/internal/orchestrators/bot"
	"github.com/KirkDiggler/egg-brawl/internal/orchestrators/match"
	"github.com/KirkDiggler/egg-brawl/internal/pkg/clock"
)

var (
	botServer   string
	botMatchID  string
	botID       string
	botName     string
	botStrategy string
	botScript   string
	botDelay    time.Duration
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Join a match as a scripted opponent",
	Long: `Join a match over gRPC and play every round until the match is over.

The random strategy picks uniformly among allowed moves and living opponents.
The lua strategy loads a script defining choose(state) returning move, target.`,
	RunE: runBot,
}

func init() {
	botCmd.Flags().StringVar(&botServer, "server", "localhost:50051", "gRPC server address")
	botCmd.Flags().StringVar(&botMatchID, "match", "", "Match to join")
	botCmd.Flags().StringVar(&botID, "id", "bot", "Participant ID")
	botCmd.Flags().StringVar(&botName, "name", "", "Display name")
	botCmd.Flags().StringVar(&botStrategy, "strategy", "random", "Strategy (random, lua)")
	botCmd.Flags().StringVar(&botScript, "script", "", "Lua script for the lua strategy")
	botCmd.Flags().DurationVar(&botDelay, "delay", time.Second, "Wait before each commit")
	_ = botCmd.MarkFlagRequired("match")
}

func runBot(_ *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	strategy, closeStrategy, err := newStrategy()
	if err != nil {
		return err
	}
	defer closeStrategy()

	conn, err := grpc.NewClient(botServer, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer func() {
		_ = conn.Close()
	}()

	remote, err := matchv1alpha1.NewClient(&matchv1alpha1.ClientConfig{Conn: conn})
	if err != nil {
		return err
	}

	replica, err := match.NewReplica(&match.ReplicaConfig{
		EventBus: events.NewBus(),
		Sender:   remote,
		Source:   remote,
	})
	if err != nil {
		return err
	}

	driver, err := bot.NewDriver(&bot.DriverConfig{
		MatchID:   botMatchID,
		Self:      entities.ParticipantID(botID),
		Strategy:  strategy,
		Submitter: replica,
		Clock:     clock.New(),
		Delay:     botDelay,
	})
	if err != nil {
		return err
	}

	joined, err := remote.Join(ctx, &match.JoinInput{
		MatchID:       botMatchID,
		ParticipantID: entities.ParticipantID(botID),
		DisplayName:   botName,
	})
	if err != nil {
		return err
	}
	slog.Info("Bot joined", "match_id", botMatchID, "participant_id", botID, "started", joined.Started)

	var last *entities.Snapshot
	err = remote.Watch(ctx, botMatchID, func(ctx context.Context, snap *entities.Snapshot) error {
		if err := replica.ApplySnapshot(ctx, snap); err != nil {
			if err := replica.Resync(ctx, botMatchID); err != nil {
				return err
			}
		}
		last = snap
		return driver.Observe(ctx, snap)
	})
	if err != nil && !errors.IsCanceled(err) {
		return err
	}

	if last != nil && last.Over {
		slog.Info("Match over", "match_id", botMatchID, "round", last.Round, "result", describeResult(last))
	}
	return nil
}

func newStrategy() (bot.Strategy, func(), error) {
	switch botStrategy {
	case "random":
		s, err := bot.NewRandomStrategy(&bot.RandomConfig{Roller: dice.DefaultRoller})
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	case "lua":
		if botScript == "" {
			return nil, nil, errors.InvalidArgument("--script is required for the lua strategy")
		}
		source, err := os.ReadFile(botScript)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read script: %w", err)
		}
		s, err := bot.NewLuaStrategy(&bot.LuaConfig{Name: botScript, Source: string(source)})
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, errors.InvalidArgumentf("unknown strategy %q", botStrategy)
	}
}

func describeResult(snap *entities.Snapshot) string {
	switch {
	case snap.Draw:
		return "draw"
	case snap.WinnerID != nil:
		return string(*snap.WinnerID) + " wins"
	default:
		return "no winner"
	}
}
