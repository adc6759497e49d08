package wire

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Name is a DNS name: an ordered sequence of labels, each 1–63 octets, whose
// encoded form (length-prefixed labels plus a terminating zero octet) is at
// most MaxNameLength octets. The empty sequence is the root name.
//
// Identity is case-insensitive over ASCII letters only; Equal and the
// canonical key returned by Key fold 'A'-'Z' to 'a'-'z' and compare
// everything else byte-for-byte. Labels are immutable once constructed.
type Name struct {
	labels [][]byte
}

// RootName is the zero-label name.
var RootName = Name{}

// NewName constructs a Name from its labels, in order. It fails if any
// label is empty or longer than MaxLabelLength octets, or if the total
// encoded length (each label's length prefix and bytes, plus the root
// terminator) would exceed MaxNameLength.
func NewName(labels ...string) (Name, error) {
	n := Name{labels: make([][]byte, len(labels))}

	total := 1 // root terminator
	for i, l := range labels {
		if l == "" {
			return Name{}, fmt.Errorf("%w: empty label", ErrInvalidName)
		}
		if len(l) > MaxLabelLength {
			return Name{}, fmt.Errorf("%w: label %q exceeds %d octets", ErrInvalidName, l, MaxLabelLength)
		}

		n.labels[i] = []byte(l)
		total += 1 + len(l)
	}

	if total > MaxNameLength {
		return Name{}, fmt.Errorf("%w: encoded length %d exceeds %d octets", ErrInvalidName, total, MaxNameLength)
	}

	return n, nil
}

// ParseName parses a dot-separated domain name such as "example.com" or
// "example.com." into a Name. A single trailing dot is permitted and
// ignored; it does not denote anything beyond what NewName already implies
// (every Name is implicitly rooted). An empty string parses to RootName.
func ParseName(s string) (Name, error) {
	s = strings.TrimSuffix(s, ".")
	if s == "" {
		return RootName, nil
	}
	return NewName(strings.Split(s, ".")...)
}

// MustParseName parses s as a Name, panicking if it is invalid. It exists
// for internal call sites constructing names from values this package has
// already validated by another means — a panic there signals an internal
// invariant violation, not a condition callers are expected to handle.
func MustParseName(s string) Name {
	n, err := ParseName(s)
	if err != nil {
		panic(err)
	}
	return n
}

// Labels returns the name's labels, in order, as strings. The returned
// slice is a copy; mutating it does not affect n.
func (n Name) Labels() []string {
	out := make([]string, len(n.labels))
	for i, l := range n.labels {
		out[i] = string(l)
	}
	return out
}

// IsRoot returns true if n has no labels.
func (n Name) IsRoot() bool {
	return len(n.labels) == 0
}

// String returns the dotted, case-preserved, trailing-dot representation of
// n, e.g. "_http._tcp.local.". RootName renders as ".".
func (n Name) String() string {
	if n.IsRoot() {
		return "."
	}

	var b strings.Builder
	for _, l := range n.labels {
		b.Write(l)
		b.WriteByte('.')
	}
	return b.String()
}

// Key returns a case-folded, dot-joined representation of n suitable for use
// as a map key when case-insensitive identity is required.
func (n Name) Key() string {
	return foldKey(n.labels)
}

// Equal reports whether n and other denote the same name, comparing ASCII
// letters case-insensitively.
func (n Name) Equal(other Name) bool {
	if len(n.labels) != len(other.labels) {
		return false
	}
	for i := range n.labels {
		a, b := n.labels[i], other.labels[i]
		if len(a) != len(b) {
			return false
		}
		for j := range a {
			if foldByte(a[j]) != foldByte(b[j]) {
				return false
			}
		}
	}
	return true
}

// Qualify returns the name produced by appending suffix's labels after n's.
// It fails under the same conditions as NewName.
func (n Name) Qualify(suffix Name) (Name, error) {
	return NewName(append(n.Labels(), suffix.Labels()...)...)
}

// HasSuffix reports whether n ends with suffix, comparing case-insensitively.
func (n Name) HasSuffix(suffix Name) bool {
	if len(suffix.labels) > len(n.labels) {
		return false
	}

	offset := len(n.labels) - len(suffix.labels)
	for i, l := range suffix.labels {
		a := n.labels[offset+i]
		if len(a) != len(l) {
			return false
		}
		for j := range a {
			if foldByte(a[j]) != foldByte(l[j]) {
				return false
			}
		}
	}
	return true
}

// TrimSuffix returns n with suffix's labels removed from the end. It
// returns n unchanged (ok=false) if n does not end with suffix.
func (n Name) TrimSuffix(suffix Name) (trimmed Name, ok bool) {
	if !n.HasSuffix(suffix) {
		return n, false
	}

	offset := len(n.labels) - len(suffix.labels)
	return Name{labels: n.labels[:offset]}, true
}

// encode appends n's compressed wire representation to buf.
func (n Name) encode(buf *writeBuffer) error {
	return buf.writeName(n)
}

// decodeName decodes a Name starting at offset within msg (the full message
// buffer, required so that compression pointers can be resolved).
//
// It returns the decoded name and the number of input octets consumed
// starting at offset. If decoding follows one or more compression pointers,
// only the bytes up to and including the first pointer's 2 octets count
// toward the consumed total — the jump target's own bytes do not, since
// they were already accounted for (or will be) wherever they originally
// occur in the message.
func decodeName(msg []byte, offset int) (Name, int, error) {
	var labels [][]byte

	pos := offset
	consumed := -1
	hops := 0

	for {
		if pos >= len(msg) {
			return Name{}, 0, fmt.Errorf("%w: name extends past end of message", ErrInvalidMessage)
		}

		lengthByte := msg[pos]

		switch lengthByte & 0xC0 {
		case 0x00:
			length := int(lengthByte)
			if length == 0 {
				pos++
				if consumed == -1 {
					consumed = pos - offset
				}
				return Name{labels: labels}, consumed, nil
			}

			if length > MaxLabelLength {
				return Name{}, 0, fmt.Errorf("%w: label length %d exceeds %d", ErrInvalidMessage, length, MaxLabelLength)
			}
			if pos+1+length > len(msg) {
				return Name{}, 0, fmt.Errorf("%w: label extends past end of message", ErrInvalidMessage)
			}

			label := msg[pos+1 : pos+1+length]
			if !utf8.Valid(label) {
				return Name{}, 0, fmt.Errorf("%w: label is not valid UTF-8", ErrInvalidMessage)
			}

			cp := make([]byte, length)
			copy(cp, label)
			labels = append(labels, cp)

			pos += 1 + length

		case 0xC0:
			if pos+1 >= len(msg) {
				return Name{}, 0, fmt.Errorf("%w: truncated compression pointer", ErrInvalidMessage)
			}

			ptr := (int(lengthByte&0x3F) << 8) | int(msg[pos+1])

			if consumed == -1 {
				consumed = pos + 2 - offset
			}

			if ptr >= len(msg) {
				return Name{}, 0, fmt.Errorf("%w: compression pointer %d out of range", ErrInvalidMessage, ptr)
			}

			hops++
			if hops > MaxPointerHops {
				return Name{}, 0, fmt.Errorf("%w: more than %d compression pointer hops", ErrInvalidMessage, MaxPointerHops)
			}

			pos = ptr

		default:
			return Name{}, 0, fmt.Errorf("%w: reserved label type 0x%02x", ErrInvalidMessage, lengthByte&0xC0)
		}
	}
}
