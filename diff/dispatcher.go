package diff

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"

	"github.com/liveview-native/liveview-native-core/dom"
)

// dispatch delivers events to a's installed handler, in order, after every
// tree edit has already been applied (§4.7: "the full set of edits for a
// single Merge call is applied to the tree before any event is delivered").
// A handler error or panic on one event does not stop delivery of the
// remaining events; only the first such failure is reported, wrapped as
// MergeError{HandlerFailed}.
func dispatch(a *dom.Document, events []dom.ChangeEvent) error {
	handler := a.Handler()
	if handler == nil || len(events) == 0 {
		return nil
	}

	var firstErr error
	for _, ev := range events {
		if err := deliverOne(handler, ev); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if firstErr != nil {
		return &MergeError{
			Kind:    HandlerFailed,
			Message: "change handler failed for at least one event",
			Inner:   pkgerrors.Wrap(firstErr, "handler"),
		}
	}
	return nil
}

// deliverOne calls the handler for a single event, converting a panic into
// an error so that one misbehaving handler invocation cannot abort delivery
// of the remaining events in the batch.
func deliverOne(handler dom.ChangeHandler, ev dom.ChangeEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler.OnDocumentChange(ev)
}
