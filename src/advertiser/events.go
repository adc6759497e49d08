package advertiser

import "github.com/jmalloc/mdnssd/src/service"

// EventKind identifies what an Event reports.
type EventKind int

const (
	// Registered is emitted once a newly registered service has been
	// inserted and its initial announcement started.
	Registered EventKind = iota
	// Updated is emitted when a registered service's fields are
	// replaced and it has been re-announced.
	Updated
	// Unregistered is emitted after a service is removed and its
	// goodbye sent.
	Unregistered
	// Conflict is reserved for a future probing/renegotiation phase.
	// The core advertiser never emits it.
	Conflict
	// Error is emitted when a background operation — a send, a
	// scheduled re-announcement — fails.
	Error
)

// Event reports a change in the advertiser's registered services or a
// background failure.
type Event struct {
	Kind    EventKind
	Service service.Service
	Err     error
}
