package models

import "fmt"

type Category int

const (
	PhysicalMemory Category = iota
	VirtualMemory
	FixedDisk
	NetworkDisk
	ProcessorLoad
	LoadWindow
	Process
)

var categoryNames = map[Category]string{
	PhysicalMemory: "physical-memory",
	VirtualMemory:  "virtual-memory",
	FixedDisk:      "fixed-disk",
	NetworkDisk:    "network-disk",
	ProcessorLoad:  "processor-load",
	LoadWindow:     "load-window",
	Process:        "process",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// IsDisk reports the categories whose labels are cut at the first space.
func (c Category) IsDisk() bool {
	return c == FixedDisk || c == NetworkDisk
}

const bytesPerMB = 1048576

// Entity is one checkable thing found on the device.
type Entity struct {
	Index    int
	Category Category
	Label    string

	// storage
	AllocationUnit int64
	TotalUnits     int64
	UsedUnits      int64

	// processor load percentage or load average
	Load float64

	// process group
	MatchCount    int
	TotalMemoryKB int64
}

func (e Entity) TotalMB() float64 {
	return float64(e.AllocationUnit) * float64(e.TotalUnits) / bytesPerMB
}

func (e Entity) UsedMB() float64 {
	return float64(e.AllocationUnit) * float64(e.UsedUnits) / bytesPerMB
}

func (e Entity) TotalKB() float64 {
	return float64(e.AllocationUnit) * float64(e.TotalUnits) / 1024
}

func (e Entity) UsedKB() float64 {
	return float64(e.AllocationUnit) * float64(e.UsedUnits) / 1024
}

// PercentUsed is zero for entities without capacity.
func (e Entity) PercentUsed() float64 {
	total := e.TotalMB()
	if total == 0 {
		return 0
	}
	return e.UsedMB() / total * 100
}

func (e Entity) MemoryMB() float64 {
	return float64(e.TotalMemoryKB) / 1024
}
