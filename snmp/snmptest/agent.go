// Package snmptest provides an in-memory agent implementing snmp.Client.
package snmptest

import (
	"fmt"
	"sort"
	"sync"

	"github.com/logingood/yt-snmp-checks/models"
)

// Agent serves GET and GETNEXT from a fixed table of varbinds.
type Agent struct {
	mu      sync.Mutex
	entries []models.WalkEntry

	// Fail makes requests for the listed identifiers return the error.
	Fail map[string]error
	// Override replaces the GETNEXT answer for a cursor, which lets tests
	// feed walks that misbehave.
	Override map[string][]models.WalkEntry

	GetCalls     int
	GetNextCalls int
	Closed       bool
}

func NewAgent() *Agent {
	return &Agent{
		Fail:     make(map[string]error),
		Override: make(map[string][]models.WalkEntry),
	}
}

func (a *Agent) set(oid string, v models.Value) *Agent {
	a.mu.Lock()
	defer a.mu.Unlock()
	entry := models.WalkEntry{OID: models.MustParseOID(oid), Value: v}
	i := sort.Search(len(a.entries), func(i int) bool {
		return a.entries[i].OID.Compare(entry.OID) >= 0
	})
	if i < len(a.entries) && a.entries[i].OID.Equal(entry.OID) {
		a.entries[i] = entry
		return a
	}
	a.entries = append(a.entries, models.WalkEntry{})
	copy(a.entries[i+1:], a.entries[i:])
	a.entries[i] = entry
	return a
}

func (a *Agent) SetInt(oid string, v int64) *Agent {
	return a.set(oid, models.Value{Kind: models.KindInteger, Int: v})
}

func (a *Agent) SetString(oid, v string) *Agent {
	return a.set(oid, models.Value{Kind: models.KindOctetString, Bytes: []byte(v)})
}

func (a *Agent) SetOID(oid, v string) *Agent {
	return a.set(oid, models.Value{Kind: models.KindObjectIdentifier, OID: models.MustParseOID(v)})
}

func (a *Agent) Get(oid models.OID) (models.Value, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.GetCalls++
	if err, ok := a.Fail[oid.String()]; ok {
		return models.Value{}, err
	}
	for _, e := range a.entries {
		if e.OID.Equal(oid) {
			return e.Value, nil
		}
	}
	return models.Value{Kind: models.KindNoSuchInstance}, nil
}

func (a *Agent) GetNext(oid models.OID) ([]models.WalkEntry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.GetNextCalls++
	if err, ok := a.Fail[oid.String()]; ok {
		return nil, err
	}
	if entries, ok := a.Override[oid.String()]; ok {
		return entries, nil
	}
	for _, e := range a.entries {
		if e.OID.Compare(oid) > 0 {
			return []models.WalkEntry{e}, nil
		}
	}
	return []models.WalkEntry{{OID: oid, Value: models.Value{Kind: models.KindEndOfMibView}}}, nil
}

func (a *Agent) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Closed = true
	return nil
}

func (a *Agent) String() string {
	return fmt.Sprintf("agent(%d varbinds)", len(a.entries))
}
