package quote

import (
	"context"
	"errors"
	gosync "sync"

	"github.com/google/uuid"
)

const (
	SuccessTitle   = "Success"
	SuccessMessage = "Quote PDF generated successfully!"

	ErrorTitle           = "Error"
	FallbackErrorMessage = "An error occurred while processing the record."
)

// TriggerController invokes the remote processing operation whenever the
// host assigns a record identifier, and reports the outcome through the
// injected Notifier. It tracks a busy state for the host's rendering
// layer (e.g. to show a spinner) while cycles are in flight.
//
// Overlapping cycles are permitted but not coordinated: each assignment
// starts a fresh, independent cycle and the busy state remains set until
// every in-flight cycle has settled.
type TriggerController struct {
	processor RecordProcessor
	notifier  Notifier

	mu       gosync.Mutex
	recordID string
	inFlight int
}

func NewTriggerController(processor RecordProcessor, notifier Notifier) *TriggerController {
	return &TriggerController{
		processor: processor,
		notifier:  notifier,
	}
}

// Cycle is a handle to a single processing cycle started by SetRecordID.
// It settles exactly once, with the Notification that was emitted.
type Cycle struct {
	ID string

	notification Notification
	done         chan struct{}
}

// Done is closed once the cycle has settled.
func (c *Cycle) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the cycle settles and returns the emitted Notification.
func (c *Cycle) Wait() Notification {
	<-c.done
	return c.notification
}

// SetRecordID stores the record identifier and immediately starts a
// processing cycle for it. The call returns without blocking - the cycle
// runs to completion in the background and its outcome is reported via
// the Notifier. The returned Cycle can be used to observe settlement.
//
// The identifier is passed to the remote operation as-is, no validation
// is performed here.
func (t *TriggerController) SetRecordID(recordid string, ctx context.Context) *Cycle {
	t.mu.Lock()
	t.recordID = recordid
	t.inFlight++
	t.mu.Unlock()

	cycle := &Cycle{
		ID:   uuid.NewString(),
		done: make(chan struct{}),
	}
	go t.run(cycle, recordid, ctx)
	return cycle
}

// RecordID returns the most recently assigned record identifier.
func (t *TriggerController) RecordID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.recordID
}

// Busy reports whether at least one processing cycle is in flight.
func (t *TriggerController) Busy() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inFlight > 0
}

func (t *TriggerController) run(cycle *Cycle, recordid string, ctx context.Context) {
	err := t.invoke(recordid, ctx)

	var n Notification
	if err == nil {
		n = Notification{Title: SuccessTitle, Message: SuccessMessage, Severity: SeveritySuccess}
	} else {
		n = Notification{Title: ErrorTitle, Message: failureMessage(err), Severity: SeverityError}
	}

	t.notifier.Notify(n)
	cycle.notification = n
	close(cycle.done)
}

// invoke calls the remote operation with the busy state set around the
// call. The busy reset is guaranteed on both success and failure, and
// happens before the outcome notification is emitted.
func (t *TriggerController) invoke(recordid string, ctx context.Context) error {
	defer func() {
		t.mu.Lock()
		t.inFlight--
		t.mu.Unlock()
	}()
	return t.processor.ProcessRecord(recordid, ctx)
}

// failureMessage resolves the user-facing message for a failed cycle:
// the server-supplied message verbatim when the failure carries one,
// otherwise the fixed fallback text.
func failureMessage(err error) string {
	var failure *RemoteOperationFailure
	if errors.As(err, &failure) && failure.Message != "" {
		return failure.Message
	}
	return FallbackErrorMessage
}
