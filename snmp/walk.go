package snmp

import (
	"github.com/logingood/yt-snmp-checks/models"
)

// WalkFunc receives each entry inside the walked subtree. Returning an error
// stops the walk.
type WalkFunc func(models.WalkEntry) error

// Walk issues GETNEXT from root until the agent leaves root's subtree or
// answers with an exception marker. Entries outside the subtree, or not
// sorting after the previous one, are never passed to fn. The terminal
// marker itself is passed on before stopping.
func Walk(client Client, root models.OID, fn WalkFunc) error {
	cursor := root
	for {
		entries, err := client.GetNext(cursor)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return &SNMPError{Op: "walk", Target: cursor.String(), Wrapped: ErrEmptyResponse}
		}
		for _, entry := range entries {
			if !entry.OID.HasPrefix(root) {
				return nil
			}
			// exception markers may echo the cursor
			if entry.Value.Terminal() {
				return fn(entry)
			}
			if entry.OID.Compare(cursor) <= 0 {
				return &SNMPError{Op: "walk", Target: entry.OID.String(), Wrapped: ErrWalkNotIncreasing}
			}
			if err := fn(entry); err != nil {
				return err
			}
			cursor = entry.OID
		}
	}
}
