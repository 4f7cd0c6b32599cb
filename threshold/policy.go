// Package threshold turns enriched entities into a Nagios status line.
package threshold

import (
	"fmt"
	"strings"

	"github.com/logingood/yt-snmp-checks/config"
	"github.com/logingood/yt-snmp-checks/models"
	"github.com/olorin/nagiosplugin"
)

// Policy evaluates one run's entities. ErrNoData is returned when nothing
// was eligible for evaluation.
type Policy interface {
	Evaluate(entities []models.Entity) (models.CheckResult, error)
}

// NewPolicy picks the evaluation rule for the check mode.
func NewPolicy(check *config.Check) (Policy, error) {
	switch check.Mode {
	case config.ModeStorage:
		return &PercentageFloor{
			Warning:   check.Warning[0],
			Critical:  check.Critical[0],
			Filter:    check.Filter,
			DisksOnly: check.DisksOnly(),
			PerfData:  check.PerfData,
		}, nil
	case config.ModeProcessorLoad:
		return &PercentageCeiling{
			Warning:  check.Warning[0],
			Critical: check.Critical[0],
			PerfData: check.PerfData,
		}, nil
	case config.ModeLoadAverage:
		return &MultiWindowCeiling{
			Warning:  check.Warning,
			Critical: check.Critical,
			PerfData: check.PerfData,
		}, nil
	case config.ModeProcess:
		return &CountAndMemory{
			Warning:       check.Warning[0],
			Critical:      check.Critical[0],
			RAMCeilingMB:  check.RAMCeilingMB,
			CriticalOnRAM: check.CriticalOnRAM,
			WarnOnZero:    check.WarnOnZero,
			PerfData:      check.PerfData,
		}, nil
	}
	return nil, fmt.Errorf("%w: unknown check mode %d", models.ErrConfig, check.Mode)
}

// PercentageFloor grades storage: OK up to and including the warning
// percentage, WARNING up to and including critical, CRITICAL above.
type PercentageFloor struct {
	Warning   float64
	Critical  float64
	Filter    string
	DisksOnly bool
	PerfData  bool
}

func (p *PercentageFloor) status(percent float64) nagiosplugin.Status {
	switch {
	case percent > p.Critical:
		return nagiosplugin.CRITICAL
	case percent > p.Warning:
		return nagiosplugin.WARNING
	}
	return nagiosplugin.OK
}

func (p *PercentageFloor) Evaluate(entities []models.Entity) (models.CheckResult, error) {
	var (
		statuses []nagiosplugin.Status
		lines    []string
		perf     []PerfDatum
	)
	for _, e := range entities {
		if p.Filter != "" && e.Label != p.Filter {
			continue
		}
		// unmounted or pseudo filesystems report no capacity
		if e.TotalMB() == 0 {
			continue
		}
		percent := e.PercentUsed()
		status := p.status(percent)
		statuses = append(statuses, status)
		lines = append(lines, fmt.Sprintf("%s= %s : (%.0f M/%.0f M) %d%%",
			status, e.Label, e.UsedMB(), e.TotalMB(), int(percent)))

		n := len(statuses)
		perf = append(perf,
			PerfDatum{Label: fmt.Sprintf("disk%d_label", n), Value: e.Label},
			PerfDatum{Label: fmt.Sprintf("disk%d_used", n), Value: fmt.Sprintf("%.0f", e.UsedKB()), UOM: "KB"},
			PerfDatum{Label: fmt.Sprintf("disk%d_total", n), Value: fmt.Sprintf("%.0f", e.TotalKB()), UOM: "KB"},
			PerfDatum{
				Label: fmt.Sprintf("disk%d_percent", n),
				Value: fmt.Sprintf("%.2f", percent),
				UOM:   "%",
				Warn:  formatFloat(p.Warning),
				Crit:  formatFloat(p.Critical),
			},
		)
	}
	if len(statuses) == 0 {
		return models.CheckResult{}, models.ErrNoData
	}

	text := strings.Join(lines, " --- ")
	if p.DisksOnly {
		text = "DISKS " + text
	}
	result := models.CheckResult{Status: models.Worst(statuses...), Text: text}
	if p.PerfData {
		result.PerfData = FormatPerfData(perf)
	}
	return result, nil
}

// PercentageCeiling grades the average processor load.
type PercentageCeiling struct {
	Warning  float64
	Critical float64
	PerfData bool
}

func (p *PercentageCeiling) Evaluate(entities []models.Entity) (models.CheckResult, error) {
	var (
		sum float64
		n   int
	)
	for _, e := range entities {
		if e.Category != models.ProcessorLoad {
			continue
		}
		sum += e.Load
		n++
	}
	if n == 0 {
		return models.CheckResult{}, models.ErrNoData
	}
	avg := sum / float64(n)
	status := ceiling(avg, p.Warning, p.Critical)

	result := models.CheckResult{
		Status: status,
		Text:   fmt.Sprintf("%s : %d CPU :  %.2f%%", status, n, avg),
	}
	if p.PerfData {
		result.PerfData = FormatPerfData([]PerfDatum{{
			Label: "cpu_used_percent",
			Value: fmt.Sprintf("%.2f", avg),
			UOM:   "%",
			Warn:  formatFloat(p.Warning),
			Crit:  formatFloat(p.Critical),
		}})
	}
	return result, nil
}

// MultiWindowCeiling grades the 1, 5 and 15 minute load averages, each
// against its own pair of limits.
type MultiWindowCeiling struct {
	Warning  []float64
	Critical []float64
	PerfData bool
}

func (p *MultiWindowCeiling) Evaluate(entities []models.Entity) (models.CheckResult, error) {
	var (
		statuses []nagiosplugin.Status
		loads    []string
		perf     []PerfDatum
	)
	for _, e := range entities {
		if e.Category != models.LoadWindow {
			continue
		}
		// limits follow the laLoad row, not the position among parsed rows
		i := e.Index - 1
		if i < 0 || i >= len(p.Warning) || i >= len(p.Critical) {
			continue
		}
		statuses = append(statuses, ceiling(e.Load, p.Warning[i], p.Critical[i]))
		loads = append(loads, fmt.Sprintf("%.2f", e.Load))
		perf = append(perf, PerfDatum{
			Label: e.Label,
			Value: fmt.Sprintf("%.2f", e.Load),
			Warn:  formatFloat(p.Warning[i]),
			Crit:  formatFloat(p.Critical[i]),
		})
	}
	if len(statuses) == 0 {
		return models.CheckResult{}, models.ErrNoData
	}

	status := models.Worst(statuses...)
	result := models.CheckResult{
		Status: status,
		Text:   fmt.Sprintf("%s LOAD: %s", status, strings.Join(loads, ", ")),
	}
	if p.PerfData {
		result.PerfData = FormatPerfData(perf)
	}
	return result, nil
}

// CountAndMemory grades process groups by instance count and summed memory.
type CountAndMemory struct {
	Warning  float64
	Critical float64
	// RAMCeilingMB comes from -r, 9999 unless given. Zero disables the
	// memory check.
	RAMCeilingMB  float64
	CriticalOnRAM bool
	WarnOnZero    bool
	PerfData      bool
}

func (p *CountAndMemory) Evaluate(entities []models.Entity) (models.CheckResult, error) {
	var processes []models.Entity
	for _, e := range entities {
		if e.Category == models.Process {
			processes = append(processes, e)
		}
	}
	if len(processes) == 0 {
		return models.CheckResult{}, models.ErrNoData
	}
	multi := len(processes) > 1

	var (
		statuses []nagiosplugin.Status
		lines    []string
		perf     []PerfDatum
	)
	for _, e := range processes {
		if e.MatchCount == 0 {
			status := nagiosplugin.CRITICAL
			if p.WarnOnZero {
				status = nagiosplugin.WARNING
			}
			statuses = append(statuses, status)
			lines = append(lines, fmt.Sprintf("%s : 0 %s", status, e.Label))
			perf = append(perf, PerfDatum{
				Label: p.label(e.Label, "nbr", multi),
				Value: "0",
				Warn:  formatFloat(p.Warning),
				Crit:  formatFloat(p.Critical),
			})
			// a single missing process ends the check
			if !multi {
				break
			}
			continue
		}

		status := models.Worst(p.countStatus(e.MatchCount), p.memoryStatus(e.MemoryMB()))
		statuses = append(statuses, status)
		lines = append(lines, fmt.Sprintf("%s : %d %s Running (Ram:%.2f MB)", status, e.MatchCount, e.Label, e.MemoryMB()))
		perf = append(perf,
			PerfDatum{
				Label: p.label(e.Label, "nbr", multi),
				Value: fmt.Sprintf("%d", e.MatchCount),
				Warn:  formatFloat(p.Warning),
				Crit:  formatFloat(p.Critical),
			},
			PerfDatum{
				Label: p.label(e.Label, "ram", multi),
				Value: fmt.Sprintf("%d", e.TotalMemoryKB),
				UOM:   "KB",
			},
		)
	}

	result := models.CheckResult{
		Status: models.Worst(statuses...),
		Text:   strings.Join(lines, " --- "),
	}
	if p.PerfData {
		result.PerfData = FormatPerfData(perf)
	}
	return result, nil
}

func (p *CountAndMemory) countStatus(count int) nagiosplugin.Status {
	switch {
	case float64(count) >= p.Critical:
		return nagiosplugin.CRITICAL
	case float64(count) >= p.Warning:
		return nagiosplugin.WARNING
	}
	return nagiosplugin.OK
}

func (p *CountAndMemory) memoryStatus(mb float64) nagiosplugin.Status {
	if p.RAMCeilingMB <= 0 || mb <= p.RAMCeilingMB {
		return nagiosplugin.OK
	}
	if p.CriticalOnRAM {
		return nagiosplugin.CRITICAL
	}
	return nagiosplugin.WARNING
}

func (p *CountAndMemory) label(name, metric string, multi bool) string {
	if multi {
		return name + "_" + metric
	}
	return "proc_" + metric
}

func ceiling(v, warning, critical float64) nagiosplugin.Status {
	switch {
	case v > critical:
		return nagiosplugin.CRITICAL
	case v > warning:
		return nagiosplugin.WARNING
	}
	return nagiosplugin.OK
}
