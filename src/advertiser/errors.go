package advertiser

import "errors"

// Sentinel errors for the preconditions Register/Unregister/Update
// enforce, in the same plain errors.New style as the wire package's
// error taxonomy.
var (
	// ErrNotStarted is returned by Register, Unregister, and Update when
	// called before Start.
	ErrNotStarted = errors.New("advertiser: not started")

	// ErrPortRequired is returned by Register and Update when the
	// service being registered or updated has no port set.
	ErrPortRequired = errors.New("advertiser: service port must be set")

	// ErrNotRegistered is returned by Update when the service's full
	// name does not match any currently registered service.
	ErrNotRegistered = errors.New("advertiser: service not registered")

	// ErrInvalidName is returned by Register and Update when the
	// service's name, type, and domain do not form a usable DNS name
	// once qualified.
	ErrInvalidName = errors.New("advertiser: invalid service name")
)
