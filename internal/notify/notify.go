// Package notify shows desktop notifications through the freedesktop
// notification service.
package notify

import "fmt"

// Urgency is the freedesktop notification priority hint.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// ParseUrgency maps "low", "normal" or "critical" to an Urgency.
func ParseUrgency(s string) (Urgency, error) {
	switch s {
	case "low":
		return UrgencyLow, nil
	case "normal":
		return UrgencyNormal, nil
	case "critical":
		return UrgencyCritical, nil
	}
	return UrgencyNormal, fmt.Errorf("%s is an invalid urgency (want low, normal or critical)", s)
}

func (u Urgency) String() string {
	switch u {
	case UrgencyLow:
		return "low"
	case UrgencyNormal:
		return "normal"
	case UrgencyCritical:
		return "critical"
	}
	return fmt.Sprintf("urgency(%d)", byte(u))
}

// Notification contains data for a desktop notification.
type Notification struct {
	Title      string  // Summary text
	Body       string  // Body text
	Timeout    int32   // ms, -1 = server default, 0 = never expire
	ReplacesID uint32  // 0 = new notification, >0 = replace existing
	Urgency    Urgency // Low, Normal, Critical
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify shows n and returns the ID the server assigned to it. When
	// ReplacesID is set the existing notification is updated in place.
	Notify(n Notification) (uint32, error)
	// CloseNotification closes a notification by ID.
	CloseNotification(id uint32) error
}
