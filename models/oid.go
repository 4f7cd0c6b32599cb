package models

import (
	"fmt"
	"strconv"
	"strings"
)

// OID is a parsed object identifier. Values returned by the walker are never
// mutated; use WithSuffix to derive new paths.
type OID []uint32

// ParseOID parses dotted notation, with or without the leading dot.
func ParseOID(s string) (OID, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), ".")
	if s == "" {
		return nil, fmt.Errorf("%w: empty object identifier", ErrProtocol)
	}
	parts := strings.Split(s, ".")
	oid := make(OID, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: bad object identifier %q", ErrProtocol, s)
		}
		oid = append(oid, uint32(n))
	}
	return oid, nil
}

// MustParseOID is ParseOID for package level constants.
func MustParseOID(s string) OID {
	oid, err := ParseOID(s)
	if err != nil {
		panic(err)
	}
	return oid
}

// String renders the identifier the way gosnmp does, with a leading dot.
func (o OID) String() string {
	var b strings.Builder
	for _, n := range o {
		b.WriteByte('.')
		b.WriteString(strconv.FormatUint(uint64(n), 10))
	}
	return b.String()
}

// HasPrefix reports whether o lies in the subtree rooted at root.
func (o OID) HasPrefix(root OID) bool {
	if len(o) < len(root) {
		return false
	}
	for i := range root {
		if o[i] != root[i] {
			return false
		}
	}
	return true
}

func (o OID) Equal(other OID) bool {
	return len(o) == len(other) && o.HasPrefix(other)
}

// Compare orders identifiers lexicographically, segment by segment.
func (o OID) Compare(other OID) int {
	for i := 0; i < len(o) && i < len(other); i++ {
		switch {
		case o[i] < other[i]:
			return -1
		case o[i] > other[i]:
			return 1
		}
	}
	switch {
	case len(o) < len(other):
		return -1
	case len(o) > len(other):
		return 1
	}
	return 0
}

// Last returns the final segment, the row index for single-index tables.
func (o OID) Last() (int, bool) {
	if len(o) == 0 {
		return 0, false
	}
	return int(o[len(o)-1]), true
}

func (o OID) WithSuffix(suffix ...uint32) OID {
	out := make(OID, 0, len(o)+len(suffix))
	out = append(out, o...)
	return append(out, suffix...)
}
