// Package notifytest provides an in-memory notify.Notifier for tests.
package notifytest

import (
	"fmt"
	"sync"

	"github.com/cptspacemanspiff/batnotify/internal/notify"
)

// Recorder is a notify.Notifier that remembers what it was asked to do and
// which notifications would currently be on screen.
type Recorder struct {
	mu      sync.Mutex
	nextID  uint32
	visible map[uint32]notify.Notification

	Sent   []notify.Notification
	Closed []uint32

	// NotifyErr and CloseErr, when set, are returned by the next call.
	NotifyErr error
	CloseErr  error
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{visible: make(map[uint32]notify.Notification)}
}

// Notify records n and shows it, reusing ReplacesID when that one is visible.
func (r *Recorder) Notify(n notify.Notification) (uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.NotifyErr; err != nil {
		r.NotifyErr = nil
		return 0, err
	}
	r.Sent = append(r.Sent, n)

	id := n.ReplacesID
	if _, ok := r.visible[id]; !ok || id == 0 {
		r.nextID++
		id = r.nextID
	}
	r.visible[id] = n
	return id, nil
}

// CloseNotification hides id. Closing an id that is not visible is an error.
func (r *Recorder) CloseNotification(id uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.CloseErr; err != nil {
		r.CloseErr = nil
		return err
	}
	if _, ok := r.visible[id]; !ok {
		return fmt.Errorf("notification %d is not open", id)
	}
	delete(r.visible, id)
	r.Closed = append(r.Closed, id)
	return nil
}

// Visible returns the notifications currently on screen.
func (r *Recorder) Visible() []notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]notify.Notification, 0, len(r.visible))
	for _, n := range r.visible {
		out = append(out, n)
	}
	return out
}

// Counts returns how many Notify and CloseNotification calls succeeded.
func (r *Recorder) Counts() (sent, closed int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Sent), len(r.Closed)
}
