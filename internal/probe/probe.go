// Package probe reads one Snapshot section per telemetry domain.
//
// A PlatformProbe is selected once at startup from the runtime OS name.
// Every probe method returns a fully populated section: a source that is
// missing, slow, forbidden or produces unexpected output leaves only its
// own sub-field absent, and nothing is ever returned as an error.
package probe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-logr/logr"

	"github.com/dm/pcpulse/internal/client"
	"github.com/dm/pcpulse/internal/command"
	"github.com/dm/pcpulse/internal/model"
	"github.com/dm/pcpulse/internal/parse"
)

// ErrUnsupported reports a source that does not exist on this platform.
var ErrUnsupported = errors.New("unsupported on this platform")

// PlatformProbe produces the three Snapshot sections for one OS family.
type PlatformProbe interface {
	Platform() string
	CPU(ctx context.Context) model.CPU
	GPU(ctx context.Context) model.GPU
	Motherboard(ctx context.Context) model.Motherboard
}

// DefaultModelNames are display names for model identifiers that are
// not self-describing.
var DefaultModelNames = map[string]string{
	"MacBookPro16,2": "MacBook Pro (13-inch, 2020, Intel)",
}

// Deps are the data sources a PlatformProbe draws on. Nil fields are
// replaced by the production implementation in New.
type Deps struct {
	Logger  logr.Logger
	Runner  command.Runner
	CPU     CPUSource
	Temps   TemperatureSource
	Sensors client.SensorClient

	// SysfsRoot is the mount point of sysfs, "/sys" by default.
	SysfsRoot string
	// Timeout bounds each library or service call. Defaults to
	// command.DefaultTimeout.
	Timeout time.Duration
	// ModelNames overrides or extends DefaultModelNames.
	ModelNames map[string]string
}

// New returns the PlatformProbe for goos, a runtime.GOOS value.
// Unknown platforms get a probe that reports CPU utilization only.
func New(goos string, deps Deps) PlatformProbe {
	deps = withDefaults(deps)
	b := base{
		goos:    goos,
		log:     deps.Logger.WithName("probe").WithValues("platform", goos),
		runner:  deps.Runner,
		cpu:     deps.CPU,
		timeout: deps.Timeout,
		names:   mergeNames(deps.ModelNames),
	}

	switch goos {
	case "darwin":
		return &darwinProbe{base: b}
	case "windows":
		return &windowsProbe{base: b, sensors: deps.Sensors}
	case "linux":
		return &linuxProbe{base: b, temps: deps.Temps, sysfs: deps.SysfsRoot}
	default:
		return &genericProbe{base: b}
	}
}

func withDefaults(deps Deps) Deps {
	if deps.Timeout <= 0 || deps.Timeout > command.DefaultTimeout {
		deps.Timeout = command.DefaultTimeout
	}
	if deps.Runner == nil {
		deps.Runner = command.NewExecRunner(deps.Logger, deps.Timeout)
	}
	if deps.CPU == nil {
		deps.CPU = NewGopsutilCPU()
	}
	if deps.Temps == nil {
		deps.Temps = GopsutilTemperatures{}
	}
	if deps.Sensors == nil {
		// NewDefaultClient only fails on a broken http.DefaultTransport.
		if c, err := client.NewDefaultClient(client.ClientConfig{RequestTimeout: deps.Timeout}); err == nil {
			deps.Sensors = c
		}
	}
	if deps.SysfsRoot == "" {
		deps.SysfsRoot = "/sys"
	}
	return deps
}

func mergeNames(overrides map[string]string) map[string]string {
	names := make(map[string]string, len(DefaultModelNames)+len(overrides))
	for k, v := range DefaultModelNames {
		names[k] = v
	}
	for k, v := range overrides {
		names[k] = v
	}
	return names
}

// Classify names the failure kind of err for log output.
func Classify(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupported):
		return "unsupported"
	case errors.Is(err, command.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, command.ErrDenied), errors.Is(err, os.ErrPermission):
		return "denied"
	case errors.Is(err, parse.ErrMalformed):
		return "parse_failure"
	default:
		return "unavailable"
	}
}

// base carries what every platform variant shares.
type base struct {
	goos    string
	log     logr.Logger
	runner  command.Runner
	cpu     CPUSource
	timeout time.Duration
	names   map[string]string
}

func (b *base) Platform() string { return b.goos }

// guard runs fn and converts a panic into a logged degradation of the
// named section.
func (b *base) guard(section string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error(fmt.Errorf("panic: %v", r), "probe section failed", "section", section)
		}
	}()
	fn()
}

// degraded logs a source that produced no data.
func (b *base) degraded(section string, err error) {
	b.log.V(1).Info("source unavailable", "section", section, "kind", Classify(err), "err", err.Error())
}

// run invokes a platform tool through the bounded runner.
func (b *base) run(ctx context.Context, name string, args ...string) (string, error) {
	return b.runner.Output(ctx, name, args...)
}

// cpuBasics fills the platform-independent part of the CPU section.
func (b *base) cpuBasics(ctx context.Context) model.CPU {
	c := model.NewCPU()
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	b.guard("cpu.name", func() {
		name, err := b.cpu.Brand(ctx)
		if err != nil {
			b.degraded("cpu.name", err)
			c.Name = "Unknown CPU"
			return
		}
		c.Name = name
	})
	b.guard("cpu.per_core_usage", func() {
		perCore, err := b.cpu.Usage(ctx, true)
		if err != nil {
			b.degraded("cpu.per_core_usage", err)
			return
		}
		c.PerCoreUsage = perCore
	})
	b.guard("cpu.overall_usage", func() {
		overall, err := b.cpu.Usage(ctx, false)
		if err != nil || len(overall) == 0 {
			b.degraded("cpu.overall_usage", orNoData(err))
			return
		}
		c.OverallUsage = overall[0]
	})
	b.guard("cpu.counts", func() {
		if n, err := b.cpu.Counts(ctx, false); err != nil {
			b.degraded("cpu.physical_cores", err)
		} else {
			c.PhysicalCores = n
		}
		if n, err := b.cpu.Counts(ctx, true); err != nil {
			b.degraded("cpu.logical_threads", err)
		} else {
			c.LogicalThreads = n
		}
	})
	b.guard("cpu.frequencies", func() {
		freqs, err := b.cpu.Frequencies(ctx)
		if err != nil {
			b.degraded("cpu.frequencies", err)
			return
		}
		c.Frequencies = freqs
	})
	return c
}

// displayName looks up the override table for model identifiers.
func (b *base) displayName(ids ...string) string {
	for _, id := range ids {
		if name, ok := b.names[id]; ok {
			return name
		}
	}
	return ""
}

var errNoData = errors.New("no data")

func orNoData(err error) error {
	if err != nil {
		return err
	}
	return errNoData
}
