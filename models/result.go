package models

import (
	"time"

	"github.com/olorin/nagiosplugin"
)

// CheckResult is the single line a plugin prints and the status it exits with.
type CheckResult struct {
	Status   nagiosplugin.Status
	Text     string
	PerfData string
}

func (r CheckResult) String() string {
	if r.PerfData == "" {
		return r.Text
	}
	return r.Text + " | " + r.PerfData
}

func (r CheckResult) ExitCode() int {
	return int(r.Status)
}

var severity = map[nagiosplugin.Status]int{
	nagiosplugin.OK:       0,
	nagiosplugin.UNKNOWN:  1,
	nagiosplugin.WARNING:  2,
	nagiosplugin.CRITICAL: 3,
}

// Worst returns the dominant status: CRITICAL over WARNING over OK.
func Worst(statuses ...nagiosplugin.Status) nagiosplugin.Status {
	worst := nagiosplugin.OK
	for _, s := range statuses {
		if severity[s] > severity[worst] {
			worst = s
		}
	}
	return worst
}

// ResultRecord is an archived run.
type ResultRecord struct {
	Time     time.Time
	Hostname string
	Plugin   string
	Status   nagiosplugin.Status
	Text     string
	PerfData string
}

func NewResultRecord(plugin, hostname string, result CheckResult, now time.Time) ResultRecord {
	return ResultRecord{
		Time:     now.UTC(),
		Hostname: hostname,
		Plugin:   plugin,
		Status:   result.Status,
		Text:     result.Text,
		PerfData: result.PerfData,
	}
}
