package wire

import "errors"

// Sentinel errors identifying the distinct failure kinds callers need to
// switch on. Each is returned (optionally wrapped with fmt.Errorf and %w
// for additional context) rather than represented as a single generic
// decode-failure type, so that errors.Is can distinguish them.
var (
	// ErrInvalidName is returned by name construction when a label is
	// empty, a label exceeds MaxLabelLength, or the total encoded length
	// would exceed MaxNameLength.
	ErrInvalidName = errors.New("wire: invalid name")

	// ErrInvalidMessage covers every decode-time wire-format violation:
	// a buffer shorter than the 12-octet header, a truncated name,
	// question, or record, a reserved label type, a compression pointer
	// that loops or points out of range, an oversized label, rdata of the
	// wrong fixed size, an rdlength exceeding the remaining buffer, or
	// embedded invalid UTF-8.
	ErrInvalidMessage = errors.New("wire: invalid message")

	// ErrUnsupportedType is returned when decoding a question whose type
	// code is not in the recognized set. Resource records with unknown
	// type codes are never an error; they decode as UnknownRecord.
	ErrUnsupportedType = errors.New("wire: unsupported record type")
)
