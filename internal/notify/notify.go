// Package notify provides desktop notifications via D-Bus.
package notify

// Urgency is a freedesktop notification priority level.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// Notification contains data for a desktop notification.
type Notification struct {
	Title      string  // Summary text (required)
	Body       string  // Body text (optional, supports basic markup)
	Icon       string  // Path to image file or icon name (optional)
	Timeout    int32   // ms, -1 = server default, 0 = never expire
	ReplacesID uint32  // 0 = new notification, >0 = replace existing
	Urgency    Urgency // Low, Normal, Critical

	// Progress is a percentage in [0,100] rendered as a progress bar.
	// Nil means no progress bar.
	Progress *int
	// Indeterminate marks ongoing work with no known percentage.
	Indeterminate bool
}

// ProgressValue returns the progress clamped to [0,100] and whether the
// notification carries a determinate progress bar.
func (n Notification) ProgressValue() (int, bool) {
	if n.Progress == nil || n.Indeterminate {
		return 0, false
	}
	return min(max(*n.Progress, 0), 100), true
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify sends a notification and returns its ID.
	// Returns 0 and nil error if notifications are disabled or unavailable.
	Notify(n Notification) (uint32, error)
	// Close closes a notification by ID.
	Close(id uint32) error
}

// Disabled returns a notifier that drops every notification.
func Disabled() Notifier {
	return disabled{}
}

type disabled struct{}

func (disabled) Notify(Notification) (uint32, error) { return 0, nil }

func (disabled) Close(uint32) error { return nil }
