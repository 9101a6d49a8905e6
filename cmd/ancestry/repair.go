package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/ancestry-builder/internal/errors"
	"github.com/KirkDiggler/ancestry-builder/internal/redis"
	buildrepo "github.com/KirkDiggler/ancestry-builder/internal/repositories/build"
)

var repairDelete bool

var sessionRepairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Find stored builds that no longer decode",
	Long:  `Scan every stored build and list the ones that cannot be decoded. With --delete they are removed.`,
	Args:  cobra.NoArgs,
	RunE:  runSessionRepair,
}

func init() {
	sessionRepairCmd.Flags().BoolVar(&repairDelete, "delete", false, "Delete the corrupted builds")
	sessionCmd.AddCommand(sessionRepairCmd)
}

func runSessionRepair(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	client, err := redis.NewClientFromURL(cfg.RedisURL)
	if err != nil {
		return errors.Wrap(err, "failed to create redis client")
	}
	defer func() {
		_ = client.Close() // nolint:errcheck // safe to ignore in cleanup
	}()

	scan, err := buildrepo.Scan(ctx, client)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Checked %d builds, found %d corrupted\n", scan.Checked, len(scan.Corrupted))
	for _, key := range scan.Corrupted {
		fmt.Fprintf(out, "  - %s\n", key)
	}
	if !repairDelete || len(scan.Corrupted) == 0 {
		return nil
	}

	n, err := buildrepo.Purge(ctx, client, scan.Corrupted)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Deleted %d builds\n", n)
	return nil
}
