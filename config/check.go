package config

import (
	"time"

	"github.com/logingood/yt-snmp-checks/models"
)

type Mode int

const (
	ModeStorage Mode = iota
	ModeProcessorLoad
	ModeLoadAverage
	ModeProcess
)

// Check is the parsed command line. It is built once and only read after.
type Check struct {
	Plugin string
	Mode   Mode

	Device  models.Device
	Timeout time.Duration

	// storage
	Categories     []models.Category
	Filter         string
	MaxPerCategory int

	// One limit per evaluated value: a single one for percentages and
	// counts, three for load average windows.
	Warning  []float64
	Critical []float64

	// processes
	Processes     []string
	RAMCeilingMB  float64
	CriticalOnRAM bool
	WarnOnZero    bool

	PerfData bool
	Verbose  bool
}

// DisksOnly reports a storage check limited to fixed and network disks.
func (c *Check) DisksOnly() bool {
	if len(c.Categories) == 0 {
		return false
	}
	for _, category := range c.Categories {
		if !category.IsDisk() {
			return false
		}
	}
	return true
}

func (c *Check) Hostname() string {
	return models.StringValue(c.Device.Hostname)
}
