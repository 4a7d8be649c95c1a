package notify

import "fmt"

const (
	alertTitle  = "Battery low"
	levelSuffix = "% BATTERY LEVEL"
)

// Alert owns the single low-battery notification. It is either idle (nothing
// shown) or active (one notification on screen, updated in place). An Alert
// is not safe for concurrent use; the poll loop owns it.
type Alert struct {
	notifier Notifier
	urgency  Urgency

	id     uint32
	active bool
}

// NewAlert returns an idle Alert that shows notifications with the given urgency.
func NewAlert(n Notifier, urgency Urgency) *Alert {
	return &Alert{notifier: n, urgency: urgency}
}

// LevelText formats a charge percentage the way the alert displays it.
func LevelText(pct float64) string {
	return fmt.Sprintf("%.1f%s", pct, levelSuffix)
}

// Active reports whether a notification is currently shown.
func (a *Alert) Active() bool {
	return a.active
}

// Show displays pct. An idle alert creates a notification; an active one
// replaces its text in place. The notification never expires on its own.
func (a *Alert) Show(pct float64) error {
	var replaces uint32
	if a.active {
		replaces = a.id
	}

	id, err := a.notifier.Notify(Notification{
		Title:      alertTitle,
		Body:       LevelText(pct),
		Timeout:    0,
		ReplacesID: replaces,
		Urgency:    a.urgency,
	})
	if err != nil {
		return err
	}

	a.id = id
	a.active = true
	return nil
}

// Dismiss closes the notification if one is shown. Dismissing an idle alert
// is a no-op, so Dismiss may be called any number of times.
func (a *Alert) Dismiss() error {
	if !a.active {
		return nil
	}

	id := a.id
	a.id = 0
	a.active = false
	return a.notifier.CloseNotification(id)
}
