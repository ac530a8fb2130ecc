package client

import (
	"context"

	"github.com/spf13/cobra"
)

var snapshotJSON bool

var snapshotCmd = &cobra.Command{
	Use:   "snapshot [match-id]",
	Short: "Show the latest authoritative snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshot,
}

func init() {
	snapshotCmd.Flags().BoolVar(&snapshotJSON, "json", false, "Print the raw snapshot")
}

func runSnapshot(_ *cobra.Command, args []string) error {
	client, cleanup, err := createClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	snap, err := client.GetSnapshot(ctx, args[0])
	if err != nil {
		return err
	}

	if snapshotJSON {
		return printJSON(snap)
	}
	printSnapshot(snap)
	return nil
}
