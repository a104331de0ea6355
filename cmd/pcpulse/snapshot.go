package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dm/pcpulse/internal/engine"
	"github.com/dm/pcpulse/internal/model"
	"github.com/dm/pcpulse/internal/probe"
)

func newSnapshotCmd(opts *options) *cobra.Command {
	var (
		output string
		warmup time.Duration
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Take one sample and print it",
		Long: "Take one sample and print it as JSON or YAML. A warm-up sample is\n" +
			"taken first so that CPU utilization covers the warm-up period.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer opts.flush()
			if output != "json" && output != "yaml" {
				return fmt.Errorf("unsupported output %q (must be json or yaml)", output)
			}

			pr, err := opts.newProbe(opts.cfg, opts.logger)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			snap, err := takeSnapshot(ctx, pr, warmup)
			if err != nil {
				return err
			}
			return writeSnapshot(cmd.OutOrStdout(), snap, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format: json or yaml")
	cmd.Flags().DurationVar(&warmup, "warmup", 500*time.Millisecond, "delay between the warm-up sample and the reported one (0 skips warm-up)")
	return cmd
}

// takeSnapshot collects a warm-up sample, waits, and returns the next one.
func takeSnapshot(ctx context.Context, pr probe.PlatformProbe, warmup time.Duration) (model.Snapshot, error) {
	if warmup > 0 {
		if _, err := engine.Collect(ctx, pr); err != nil {
			return model.Snapshot{}, err
		}
		select {
		case <-ctx.Done():
			return model.Snapshot{}, ctx.Err()
		case <-time.After(warmup):
		}
	}
	return engine.Collect(ctx, pr)
}

func writeSnapshot(w io.Writer, snap model.Snapshot, output string) error {
	switch output {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	}
}
