package models

import "fmt"

type ValueKind int

const (
	KindOther ValueKind = iota
	KindInteger
	KindOctetString
	KindObjectIdentifier
	KindEndOfMibView
	KindNoSuchObject
	KindNoSuchInstance
)

var valueKindNames = map[ValueKind]string{
	KindOther:            "other",
	KindInteger:          "integer",
	KindOctetString:      "octet-string",
	KindObjectIdentifier: "object-identifier",
	KindEndOfMibView:     "end-of-mib-view",
	KindNoSuchObject:     "no-such-object",
	KindNoSuchInstance:   "no-such-instance",
}

func (k ValueKind) String() string {
	if name, ok := valueKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Value is a decoded varbind value. Only the field matching Kind is set.
type Value struct {
	Kind  ValueKind
	Int   int64
	Bytes []byte
	OID   OID
}

// Terminal reports the exception markers that end a walk.
func (v Value) Terminal() bool {
	switch v.Kind {
	case KindEndOfMibView, KindNoSuchObject, KindNoSuchInstance:
		return true
	}
	return false
}

func (v Value) String() string {
	switch v.Kind {
	case KindInteger:
		return fmt.Sprintf("%d", v.Int)
	case KindOctetString:
		return string(v.Bytes)
	case KindObjectIdentifier:
		return v.OID.String()
	}
	return v.Kind.String()
}

// WalkEntry is one varbind yielded by a walk step.
type WalkEntry struct {
	OID   OID
	Value Value
}
