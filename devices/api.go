package devices

import (
	"context"

	"github.com/logingood/yt-snmp-checks/models"
)

// Devices looks up stored SNMP credentials. A nil device with a nil error
// means the host is unknown.
type Devices interface {
	LookupDevice(ctx context.Context, hostname string) (*models.Device, error)
}
