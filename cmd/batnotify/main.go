package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cptspacemanspiff/batnotify/internal/collector"
	"github.com/cptspacemanspiff/batnotify/internal/config"
	"github.com/cptspacemanspiff/batnotify/internal/logging"
	"github.com/cptspacemanspiff/batnotify/internal/monitor"
	"github.com/cptspacemanspiff/batnotify/internal/notify"
)

// runFunc starts monitoring with a validated config. It returns when ctx is
// cancelled or on a fatal error.
type runFunc func(ctx context.Context, cfg *config.Config, log *logrus.Logger) error

type options struct {
	percentage   float64
	urgency      string
	useDefault   bool
	failFast     bool
	interval     time.Duration
	longInterval time.Duration
	verbose      bool
	logTopics    string
}

func main() {
	cmd := NewCommand(run)
	if err := cmd.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func printError(w io.Writer, err error) {
	color.New(color.FgRed, color.Bold).Fprint(w, "Error: ")
	fmt.Fprintln(w, err)
}

func NewCommand(runner runFunc) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "batnotify [OPTIONS]",
		Short: "Trigger a notification when battery drops below a certain level",
		Long: `Trigger a notification when battery drops below a certain level.

Must use at least one of -p, -u or -d to start monitoring. While the battery
is discharging at or below the trigger percentage, a notification that never
expires is shown and kept up to date. It is closed once the battery charges
or rises back above the trigger.`,
		Example: `  batnotify -p 20.0 -u critical
  batnotify -p 30.0 -u normal
  batnotify -d`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if !flags.Changed("percentage") && !flags.Changed("urgency") && !flags.Changed("default") {
				return cmd.Help()
			}

			cfg, err := opts.config(flags.Changed("percentage"))
			if err != nil {
				_ = cmd.Usage()
				return err
			}

			log := logging.New(cmd.ErrOrStderr(), logging.ParseTopics(opts.logTopics, opts.verbose))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runner(ctx, cfg, log)
		},
	}
	cmd.SetOut(os.Stdout)
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		_ = c.Usage()
		return err
	})

	flags := cmd.Flags()
	flags.Float64VarP(&opts.percentage, "percentage", "p", 0, "battery percentage (float) that triggers the notification, in (0, 100]")
	flags.StringVarP(&opts.urgency, "urgency", "u", "normal", "urgency of the notification: low, normal or critical")
	flags.BoolVarP(&opts.useDefault, "default", "d", false, fmt.Sprintf("use the default percentage of %.1f", config.DefaultThreshold))
	flags.BoolVar(&opts.failFast, "fail-fast", false, "exit on the first battery read error instead of retrying")
	flags.DurationVar(&opts.interval, "interval", config.DefaultInterval, "delay between polls near or below the trigger")
	flags.DurationVar(&opts.longInterval, "long-interval", config.DefaultLongInterval, "delay between polls while well above the trigger")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable all verbose logging (equivalent to --log=all)")
	flags.StringVar(&opts.logTopics, "log", "", "comma-separated log topics: battery,notify,sleep (or 'all')")

	return cmd
}

func (o *options) config(percentageSet bool) (*config.Config, error) {
	urgency, err := notify.ParseUrgency(o.urgency)
	if err != nil {
		return nil, err
	}

	cfg := config.DefaultConfig()
	cfg.Urgency = urgency
	if percentageSet {
		cfg.Threshold = o.percentage
	}
	cfg.FailFast = o.failFast
	cfg.Interval = o.interval
	cfg.LongInterval = o.longInterval

	return config.NormalizeAndValidate(cfg)
}

func run(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	bat, err := collector.LocateBattery()
	if err != nil {
		return errors.Wrap(err, "locate battery")
	}
	nowFile, fullFile := bat.LevelFiles()
	log.WithFields(logrus.Fields{
		"battery": bat.Name,
		"now":     nowFile,
		"full":    fullFile,
	}).Info("battery located")

	notifier, err := notify.NewDBus()
	if err != nil {
		return errors.Wrap(err, "notification service unavailable")
	}
	defer notifier.Close()

	var wake <-chan struct{}
	sleepMon, err := collector.NewSleepMonitor(logging.WithTopic(log, logging.TopicSleep))
	if err != nil {
		log.WithError(err).Warn("sleep monitor unavailable")
	} else {
		wake = sleepMon.Wake()
		defer sleepMon.Close()
	}

	log.WithFields(logrus.Fields{
		"threshold": cfg.Threshold,
		"urgency":   cfg.Urgency,
	}).Info("batnotify started")

	alert := notify.NewAlert(notifier, cfg.Urgency)
	if err := monitor.New(bat, alert, cfg, wake, log).Run(ctx); err != nil {
		return err
	}
	log.Info("shutting down")
	return nil
}
