package browser

import "github.com/jmalloc/mdnssd/src/service"

// EventKind identifies which of the four Event variants an Event holds.
type EventKind int

const (
	// Found is emitted the first time a service's PTR record is seen.
	Found EventKind = iota
	// Updated is emitted when a known service's SRV, TXT, or address
	// records change.
	Updated
	// Removed is emitted when a service's goodbye (TTL=0 PTR) is
	// received, or when StopBrowsing drops services of a type no longer
	// being browsed.
	Removed
	// Error is emitted for transport-originated failures only; decode
	// errors on incoming datagrams are never surfaced here.
	Error
)

// Event is a single notification from a running Browser.
type Event struct {
	Kind    EventKind
	Service service.Service
	Err     error
}
