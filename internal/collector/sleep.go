package collector

import (
	"github.com/godbus/dbus/v5"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	login1Interface   = "org.freedesktop.login1.Manager"
	prepareForSleep   = login1Interface + ".PrepareForSleep"
	prepareForSleepFn = "PrepareForSleep"
)

// SleepMonitor listens for systemd-logind PrepareForSleep signals and reports
// resumes, so the poll loop can re-read the battery right after a suspend
// instead of waiting out a long interval.
type SleepMonitor struct {
	conn *dbus.Conn
	done chan struct{}
	wake chan struct{}
	log  logrus.FieldLogger
}

// NewSleepMonitor creates a sleep monitor connected to the system bus.
func NewSleepMonitor(log logrus.FieldLogger) (*SleepMonitor, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, errors.Wrap(err, "connect system bus")
	}

	err = conn.AddMatchSignal(
		dbus.WithMatchInterface(login1Interface),
		dbus.WithMatchMember(prepareForSleepFn),
	)
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "match PrepareForSleep")
	}

	m := &SleepMonitor{
		conn: conn,
		done: make(chan struct{}),
		wake: make(chan struct{}, 1),
		log:  log,
	}
	sigs := make(chan *dbus.Signal, 16)
	conn.Signal(sigs)
	go func() {
		defer conn.RemoveSignal(sigs)
		m.listen(sigs)
	}()
	return m, nil
}

// Wake returns a channel that receives a value each time the system resumes.
// Resumes that arrive while a previous one is unread are coalesced.
func (m *SleepMonitor) Wake() <-chan struct{} {
	return m.wake
}

// Close stops the monitor and releases its bus connection.
func (m *SleepMonitor) Close() error {
	close(m.done)
	return m.conn.Close()
}

func (m *SleepMonitor) listen(sigs <-chan *dbus.Signal) {
	for {
		select {
		case sig, ok := <-sigs:
			if !ok {
				return
			}
			m.handle(sig)
		case <-m.done:
			return
		}
	}
}

func (m *SleepMonitor) handle(sig *dbus.Signal) {
	if sig == nil || sig.Name != prepareForSleep || len(sig.Body) < 1 {
		return
	}
	active, ok := sig.Body[0].(bool)
	if !ok {
		return
	}
	if active {
		m.log.Info("system going to sleep")
		return
	}

	m.log.Info("system woke up")
	select {
	case m.wake <- struct{}{}:
	default:
	}
}
