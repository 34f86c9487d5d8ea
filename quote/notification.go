package quote

// Severity classifies a Notification for the host's rendering layer.
type Severity int64

const (
	SeveritySuccess Severity = iota
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityError:
		return "error"
	}
	return "unknown"
}

// Notification is a transient message surfaced to the user when a
// processing cycle settles. It is not persisted - it exists only as a
// momentary signal to the host's rendering layer.
type Notification struct {
	Title    string
	Message  string
	Severity Severity
}

// Notifier is the host-supplied channel for surfacing notifications.
// Delivery is fire-and-forget - no acknowledgment is expected and
// nothing is retried if the host fails to render it.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a plain function to the Notifier interface.
type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) {
	f(n)
}
