package engine

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dm/pcpulse/internal/model"
	"github.com/dm/pcpulse/internal/probe"
)

// Collect runs the CPU, GPU and motherboard probes concurrently and
// assembles their sections into one Snapshot. Probes degrade rather than
// fail, so the only error is a probe that panicked; in that case no
// Snapshot is produced.
func Collect(ctx context.Context, p probe.PlatformProbe) (model.Snapshot, error) {
	var (
		cpu model.CPU
		gpu model.GPU
		mb  model.Motherboard
	)

	var g errgroup.Group

	g.Go(func() (err error) {
		defer recoverSection("cpu", &err)
		cpu = p.CPU(ctx)
		return nil
	})

	g.Go(func() (err error) {
		defer recoverSection("gpu", &err)
		gpu = p.GPU(ctx)
		return nil
	})

	g.Go(func() (err error) {
		defer recoverSection("motherboard", &err)
		mb = p.Motherboard(ctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		return model.Snapshot{}, err
	}

	return model.Snapshot{
		Timestamp:   time.Now(),
		CPU:         cpu,
		GPU:         gpu,
		Motherboard: mb,
	}, nil
}

// recoverSection turns a panic in a probe goroutine into an error.
func recoverSection(section string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%s probe panicked: %v", section, r)
	}
}
