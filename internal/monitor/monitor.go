// Package monitor runs the battery poll loop.
package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cptspacemanspiff/batnotify/internal/collector"
	"github.com/cptspacemanspiff/batnotify/internal/config"
	"github.com/cptspacemanspiff/batnotify/internal/logging"
	"github.com/cptspacemanspiff/batnotify/internal/notify"
)

// Source is a battery that can be sampled.
type Source interface {
	Collect() (*collector.BatterySample, error)
	Present() bool
}

// Monitor polls a battery and drives the low-battery alert.
type Monitor struct {
	src   Source
	alert *notify.Alert
	cfg   *config.Config
	wake  <-chan struct{}

	batteryLog logrus.FieldLogger
	notifyLog  logrus.FieldLogger
}

// New returns a Monitor. wake may be nil; when it fires, the current sleep is
// cut short and the battery is polled at once.
func New(src Source, alert *notify.Alert, cfg *config.Config, wake <-chan struct{}, log logrus.FieldLogger) *Monitor {
	return &Monitor{
		src:        src,
		alert:      alert,
		cfg:        cfg,
		wake:       wake,
		batteryLog: logging.WithTopic(log, logging.TopicBattery),
		notifyLog:  logging.WithTopic(log, logging.TopicNotify),
	}
}

// Run polls until ctx is cancelled or a fatal error occurs. In both cases any
// visible notification is closed before Run returns. Cancellation is not an
// error.
func (m *Monitor) Run(ctx context.Context) error {
	defer func() {
		if dErr := m.alert.Dismiss(); dErr != nil {
			m.notifyLog.WithError(dErr).Warn("close notification on exit")
		}
	}()

	for {
		pct, err := m.Tick()
		if err != nil {
			return err
		}

		d := m.cfg.SleepInterval(pct)
		m.batteryLog.WithField("next_poll", d).Debug("sleeping")
		if !m.sleep(ctx, d) {
			return nil
		}
	}
}

// Tick performs one poll: sample the battery, then show or dismiss the alert.
// It returns the charge percentage acted upon, which is 0 when the battery is
// not discharging or could not be read.
func (m *Monitor) Tick() (float64, error) {
	sample, err := m.src.Collect()
	if err != nil {
		if !m.src.Present() {
			// Both the sentinel and the read error stay matchable.
			return 0, fmt.Errorf("%w: %w", collector.ErrBatteryGone, err)
		}
		if m.cfg.FailFast {
			return 0, err
		}
		m.batteryLog.WithError(err).Warn("read battery, retrying next poll")
		m.dismiss()
		return 0, nil
	}

	m.batteryLog.WithFields(logrus.Fields{
		"status":     sample.Status,
		"now":        sample.Now,
		"full":       sample.Full,
		"percentage": sample.Percentage,
	}).Debug("sample")

	pct := sample.Percentage
	if sample.Discharging && pct > 0 && pct <= m.cfg.Threshold {
		if err := m.alert.Show(pct); err != nil {
			m.notifyLog.WithError(err).Error("show notification")
		} else {
			m.notifyLog.WithField("text", notify.LevelText(pct)).Debug("notification shown")
		}
		return pct, nil
	}

	m.dismiss()
	return pct, nil
}

func (m *Monitor) dismiss() {
	if !m.alert.Active() {
		return
	}
	if err := m.alert.Dismiss(); err != nil {
		m.notifyLog.WithError(err).Error("close notification")
		return
	}
	m.notifyLog.Debug("notification closed")
}

// sleep waits for d, a wake signal or cancellation. It reports false when ctx
// is done.
func (m *Monitor) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
	case <-m.wake:
		m.batteryLog.Debug("woken early")
	}
	return true
}
