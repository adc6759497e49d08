// Package txt models a DNS TXT record as the ordered sequence of strings
// RFC 6763 §6 specifies, plus a derived key/value index over that
// sequence.
//
// DNS-SD (RFC 6763 §6.4) treats a TXT record as a set of unique
// attributes: at most one value per key. The libp2p mDNS discovery
// extension relaxes this and allows a key to repeat, each occurrence
// contributing another value. Record keeps the raw sequence as the
// source of truth so that both views are representable, and derives the
// index from it rather than maintaining the two in lockstep.
package txt

import "strings"

// Record is a TXT record's ordered strings together with a case-folded
// key index over them.
//
// The zero value is an empty record, ready to use.
type Record struct {
	raw   []string
	index map[string][]int
}

// FromStrings builds a Record from the raw, ordered strings of a decoded
// TXT resource record. Per RFC 6763 §6.1, empty strings carry no
// information and are dropped.
func FromStrings(strs []string) Record {
	var t Record
	for _, s := range strs {
		if s == "" {
			continue
		}
		t.raw = append(t.raw, s)
	}
	t.reindex()
	return t
}

// ToStrings returns the raw sequence in insertion order. The returned
// slice is owned by the caller; it is not a view onto t's internal state.
func (t *Record) ToStrings() []string {
	out := make([]string, len(t.raw))
	copy(out, t.raw)
	return out
}

// Get returns the first value associated with key (the DNS-SD view), and
// whether key is present at all. A stored entry with no "=" is a boolean
// attribute whose value is the empty string.
func (t *Record) Get(key string) (string, bool) {
	positions, ok := t.index[foldKey(key)]
	if !ok {
		return "", false
	}
	_, v := splitEntry(t.raw[positions[0]])
	return v, true
}

// Contains reports whether at least one entry exists for key.
func (t *Record) Contains(key string) bool {
	_, ok := t.index[foldKey(key)]
	return ok
}

// Values returns every value associated with key (the libp2p multi-value
// view), in the order the entries appear in the raw sequence. It returns
// nil if key is absent.
func (t *Record) Values(key string) []string {
	positions, ok := t.index[foldKey(key)]
	if !ok {
		return nil
	}

	out := make([]string, len(positions))
	for i, pos := range positions {
		_, out[i] = splitEntry(t.raw[pos])
	}
	return out
}

// Set replaces every existing value for key with the single value v,
// per the DNS-SD single-valued-attribute convention. It is equivalent to
// Remove(key) followed by Append(key, v).
func (t *Record) Set(key, v string) {
	t.Remove(key)
	t.Append(key, v)
}

// Append adds another entry for key without disturbing any existing
// entries, producing the multi-valued form the libp2p extension relies
// on.
func (t *Record) Append(key, v string) {
	t.raw = append(t.raw, joinEntry(key, v))
	t.reindex()
}

// SetValues replaces every existing value for key with vs, preserving
// the order of vs. It is equivalent to Remove(key) followed by one
// Append(key, v) per element of vs.
func (t *Record) SetValues(key string, vs []string) {
	t.Remove(key)
	for _, v := range vs {
		t.Append(key, v)
	}
}

// Remove deletes every entry for key. It is a no-op if key is absent.
func (t *Record) Remove(key string) {
	positions, ok := t.index[foldKey(key)]
	if !ok {
		return
	}

	drop := make(map[int]bool, len(positions))
	for _, pos := range positions {
		drop[pos] = true
	}

	kept := t.raw[:0:0]
	for i, s := range t.raw {
		if !drop[i] {
			kept = append(kept, s)
		}
	}
	t.raw = kept
	t.reindex()
}

// reindex rebuilds the key index from scratch. The index is a derived
// view rather than one kept incrementally consistent on removal, which
// keeps Remove free of any risk of drifting out of sync with raw at the
// cost of an O(n) rebuild.
func (t *Record) reindex() {
	if len(t.raw) == 0 {
		t.index = nil
		return
	}

	t.index = make(map[string][]int, len(t.raw))
	for i, s := range t.raw {
		k, _ := splitEntry(s)
		folded := foldKey(k)
		t.index[folded] = append(t.index[folded], i)
	}
}

// splitEntry divides a raw TXT string into its key and value at the
// first "=", per RFC 6763 §6.3. A string with no "=" is a boolean
// attribute: its key is the whole string and its value is empty.
func splitEntry(s string) (key, value string) {
	if i := strings.IndexByte(s, '='); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}

// joinEntry is the inverse of splitEntry.
func joinEntry(key, value string) string {
	if value == "" {
		return key
	}
	return key + "=" + value
}

// foldKey lowercases ASCII letters only, matching DNS-SD's
// case-insensitive key comparison.
func foldKey(key string) string {
	b := []byte(key)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
