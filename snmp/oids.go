package snmp

import "github.com/logingood/yt-snmp-checks/models"

// HOST-RESOURCES-MIB and UCD-SNMP-MIB tables read by the checks.
var (
	hrStorageEntry = models.MustParseOID("1.3.6.1.2.1.25.2.3.1")
	hrStorageTypes = models.MustParseOID("1.3.6.1.2.1.25.2.1")

	hrProcessorEntry = models.MustParseOID("1.3.6.1.2.1.25.3.3.1")
	hrSWRunEntry     = models.MustParseOID("1.3.6.1.2.1.25.4.2.1")
	hrSWRunPerfEntry = models.MustParseOID("1.3.6.1.2.1.25.5.1.1")
	laEntry          = models.MustParseOID("1.3.6.1.4.1.2021.10.1")
)

const (
	hrStorageTypeColumn      = 2
	hrStorageDescrColumn     = 3
	hrStorageAllocUnitColumn = 4
	hrStorageSizeColumn      = 5
	hrStorageUsedColumn      = 6

	hrProcessorLoadColumn = 2
	hrSWRunNameColumn     = 2
	hrSWRunPerfMemColumn  = 2
	laLoadColumn          = 3
)

// StorageTypes maps hrStorageTypes leaves to the categories they feed.
var StorageTypes = map[models.Category]models.OID{
	models.PhysicalMemory: hrStorageTypes.WithSuffix(2),
	models.VirtualMemory:  hrStorageTypes.WithSuffix(3),
	models.FixedDisk:      hrStorageTypes.WithSuffix(4),
	models.NetworkDisk:    hrStorageTypes.WithSuffix(10),
}

var loadWindowLabels = map[int]string{
	1: "load_1_min",
	2: "load_5_min",
	3: "load_15_min",
}

func column(entry models.OID, col uint32) models.OID {
	return entry.WithSuffix(col)
}

func cell(entry models.OID, col uint32, index int) models.OID {
	return entry.WithSuffix(col, uint32(index))
}

// tableRow is a decoded single index table cell.
type tableRow struct {
	Column uint32
	Index  int
}

// decodeRow splits oid into column and index below entry. Anything but
// exactly entry.column.index is rejected.
func decodeRow(entry, oid models.OID) (tableRow, error) {
	if !oid.HasPrefix(entry) || len(oid) != len(entry)+2 {
		return tableRow{}, &SNMPError{Op: "decode", Target: oid.String(), Wrapped: ErrMalformedRow}
	}
	return tableRow{Column: oid[len(entry)], Index: int(oid[len(entry)+1])}, nil
}
