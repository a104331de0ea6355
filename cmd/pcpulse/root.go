package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dm/pcpulse/internal/client"
	"github.com/dm/pcpulse/internal/config"
	"github.com/dm/pcpulse/internal/engine"
	"github.com/dm/pcpulse/internal/logging"
	"github.com/dm/pcpulse/internal/probe"
	"github.com/dm/pcpulse/internal/tui"
)

// options holds flag values and the state resolved from them before a
// command runs.
type options struct {
	configPath  string
	envFile     string
	interval    time.Duration
	toolTimeout time.Duration
	sensorURL   string
	logFile     string
	verbosity   int
	platform    string

	cfg    *config.Config
	logger logr.Logger
	flush  func()

	// newProbe builds the platform probe; replaced in tests.
	newProbe func(cfg *config.Config, logger logr.Logger) (probe.PlatformProbe, error)
}

func newOptions() *options {
	return &options{newProbe: buildProbe, logger: logr.Discard(), flush: func() {}}
}

func newRootCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pcpulse",
		Short: "Live CPU, GPU and motherboard telemetry in the terminal",
		Long: "pcpulse samples processor, graphics and board sensors at a fixed interval\n" +
			"and renders them as a live dashboard. Missing sensors degrade to\n" +
			"placeholders instead of errors.",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.resolve(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer opts.flush()
			return runLive(opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "YAML config file")
	flags.StringVar(&opts.envFile, "env-file", ".env", "dotenv file with PCPULSE_* settings")
	flags.DurationVarP(&opts.interval, "interval", "i", config.DefaultInterval, "pause between samples")
	flags.DurationVar(&opts.toolTimeout, "tool-timeout", config.DefaultToolTimeout, "budget for each external tool or sensor call (max 2s)")
	flags.StringVar(&opts.sensorURL, "sensor-url", config.DefaultSensorURL, "hardware sensor service data.json URL")
	flags.StringVar(&opts.logFile, "log-file", config.Default().LogFile, `log file ("" disables logging)`)
	flags.IntVarP(&opts.verbosity, "verbosity", "v", 0, "log verbosity")
	flags.StringVar(&opts.platform, "platform", config.Default().Platform, "override the detected platform")

	cmd.AddCommand(newSnapshotCmd(opts))
	return cmd
}

// resolve layers flags that were set explicitly over the loaded
// configuration, validates it, and opens the log.
func (o *options) resolve(flags *pflag.FlagSet) error {
	cfg, err := config.Load(o.configPath, o.envFile)
	if err != nil {
		return err
	}

	if flags.Changed("interval") {
		cfg.Interval = o.interval
	}
	if flags.Changed("tool-timeout") {
		cfg.ToolTimeout = o.toolTimeout
	}
	if flags.Changed("sensor-url") {
		cfg.SensorURL = o.sensorURL
	}
	if flags.Changed("log-file") {
		cfg.LogFile = o.logFile
	}
	if flags.Changed("verbosity") {
		cfg.Verbosity = o.verbosity
	}
	if flags.Changed("platform") {
		cfg.Platform = o.platform
	}
	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, flush, err := logging.New(cfg.LogFile, cfg.Verbosity)
	if err != nil {
		return err
	}
	o.cfg, o.logger, o.flush = cfg, logger, flush
	return nil
}

// buildProbe wires the production data sources for cfg.Platform.
func buildProbe(cfg *config.Config, logger logr.Logger) (probe.PlatformProbe, error) {
	sensors, err := client.NewDefaultClient(client.ClientConfig{
		BaseURL:        cfg.SensorURL,
		RequestTimeout: cfg.ToolTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("sensor client: %w", err)
	}
	if cfg.Platform == "windows" {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ToolTimeout)
		defer cancel()
		if err := sensors.Ping(ctx); err != nil {
			logger.Info("sensor service unreachable, CPU temperatures will carry an advisory",
				"url", sensors.BaseURL(), "err", err.Error())
		}
	}
	return probe.New(cfg.Platform, probe.Deps{
		Logger:     logger,
		Sensors:    sensors,
		Timeout:    cfg.ToolTimeout,
		ModelNames: cfg.ModelNames,
	}), nil
}

// runLive runs the dashboard until the user quits.
func runLive(o *options) error {
	pr, err := o.newProbe(o.cfg, o.logger)
	if err != nil {
		return err
	}

	app := tui.NewApp(pr.Platform(), o.cfg.Interval)
	p := tea.NewProgram(app, tea.WithAltScreen())

	sampler := engine.NewSampler(pr, tui.Consumer(p), o.cfg.Interval, o.logger)
	if err := sampler.Start(); err != nil {
		return err
	}
	o.logger.Info("sampler started", "platform", pr.Platform(), "interval", sampler.Interval().String())

	// Stop only after Run returns: the sampler's consumer blocks on
	// p.Send while the program loop is running.
	_, runErr := p.Run()
	sampler.Stop()

	if runErr != nil {
		return fmt.Errorf("running TUI: %w", runErr)
	}
	return nil
}
