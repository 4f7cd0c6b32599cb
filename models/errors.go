package models

import (
	"errors"

	"github.com/olorin/nagiosplugin"
)

var (
	ErrConfig    = errors.New("configuration error")
	ErrTransport = errors.New("snmp transport error")
	ErrProtocol  = errors.New("snmp protocol error")
	ErrNoData    = errors.New("no entries found")
)

const noEntriesText = "CRITICAL - no entries found"

// ResultFromError turns a run failure into the line the plugin prints.
func ResultFromError(err error) CheckResult {
	if errors.Is(err, ErrNoData) {
		return CheckResult{Status: nagiosplugin.CRITICAL, Text: noEntriesText}
	}
	return CheckResult{Status: nagiosplugin.UNKNOWN, Text: "UNKNOWN - " + err.Error()}
}
