package collector

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	batteryMarker     = "BAT"
	statusDischarging = "Discharging"
)

var (
	// ErrNoBattery is returned by LocateBattery when no power supply looks like a battery.
	ErrNoBattery = errors.New("no battery found")
	// ErrBatteryGone means the battery directory vanished after it was located.
	ErrBatteryGone = errors.New("battery device disappeared")
)

// Battery is a located battery device. It is read-only once built.
type Battery struct {
	Name string
	Dir  string

	nowFile  string
	fullFile string
}

// LocateBattery returns the first entry of /sys/class/power_supply whose name
// contains "BAT". Entries are visited in name order.
func LocateBattery() (*Battery, error) {
	dir := powerSupplyDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", dir)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), batteryMarker) {
			return NewBattery(filepath.Join(dir, e.Name())), nil
		}
	}
	return nil, ErrNoBattery
}

// NewBattery builds a Battery for a power supply directory. Level files are
// energy_now/energy_full, or charge_now/charge_full on firmware that only
// reports charge.
func NewBattery(dir string) *Battery {
	b := &Battery{
		Name:     filepath.Base(dir),
		Dir:      dir,
		nowFile:  "energy_now",
		fullFile: "energy_full",
	}
	if !exists(filepath.Join(dir, b.nowFile)) && exists(filepath.Join(dir, "charge_now")) {
		b.nowFile = "charge_now"
		b.fullFile = "charge_full"
	}
	return b
}

// LevelFiles returns the attribute names used for the current and full readings.
func (b *Battery) LevelFiles() (now, full string) {
	return b.nowFile, b.fullFile
}

// Present reports whether the battery directory still exists.
func (b *Battery) Present() bool {
	return exists(b.Dir)
}

// Status returns the raw contents of the status attribute.
func (b *Battery) Status() (string, error) {
	return readStringFile(filepath.Join(b.Dir, "status"))
}

// Discharging reports whether the status attribute reads exactly "Discharging".
func (b *Battery) Discharging() (bool, error) {
	status, err := b.Status()
	if err != nil {
		return false, err
	}
	return isDischarging(status), nil
}

// Levels reads the current and full charge readings.
func (b *Battery) Levels() (now, full float64, err error) {
	full, err = readFloatFile(filepath.Join(b.Dir, b.fullFile))
	if err != nil {
		return 0, 0, err
	}
	now, err = readFloatFile(filepath.Join(b.Dir, b.nowFile))
	if err != nil {
		return 0, 0, err
	}
	return now, full, nil
}

// Collect takes one sample. Level files are only read while discharging.
func (b *Battery) Collect() (*BatterySample, error) {
	status, err := b.Status()
	if err != nil {
		return nil, errors.Wrap(err, "read status")
	}

	s := &BatterySample{
		Timestamp:   time.Now().Unix(),
		Status:      strings.TrimSpace(status),
		Discharging: isDischarging(status),
	}
	if !s.Discharging {
		return s, nil
	}

	s.Now, s.Full, err = b.Levels()
	if err != nil {
		return nil, errors.Wrap(err, "read levels")
	}
	s.Percentage = Percentage(s.Now, s.Full)
	return s, nil
}

// Percentage returns now/full*100, or 0 when either reading is not positive.
func Percentage(now, full float64) float64 {
	if now <= 0 || full <= 0 {
		return 0
	}
	return now / full * 100
}

func isDischarging(status string) bool {
	return strings.TrimSuffix(status, "\n") == statusDischarging
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
