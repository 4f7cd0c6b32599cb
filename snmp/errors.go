package snmp

import (
	"fmt"

	"github.com/logingood/yt-snmp-checks/models"
)

var (
	ErrMissingHostname    = fmt.Errorf("%w: device has no hostname", models.ErrConfig)
	ErrUnsupportedVersion = fmt.Errorf("%w: unsupported snmp version", models.ErrConfig)
	ErrMissingCommunity   = fmt.Errorf("%w: community is required for snmp v1 and v2c", models.ErrConfig)
	ErrMissingV3User      = fmt.Errorf("%w: snmp v3 requires a user and an auth password", models.ErrConfig)
	ErrUnknownAuthProto   = fmt.Errorf("%w: unknown snmp v3 auth protocol", models.ErrConfig)
	ErrUnknownPrivProto   = fmt.Errorf("%w: unknown snmp v3 privacy protocol", models.ErrConfig)
	ErrUnknownAuthLevel   = fmt.Errorf("%w: unknown snmp v3 security level", models.ErrConfig)

	ErrMalformedRow      = fmt.Errorf("%w: malformed table row", models.ErrProtocol)
	ErrWalkNotIncreasing = fmt.Errorf("%w: walk returned a non increasing object identifier", models.ErrProtocol)
	ErrErrorStatus       = fmt.Errorf("%w: agent returned an error status", models.ErrProtocol)
	ErrEmptyResponse     = fmt.Errorf("%w: response carries no variables", models.ErrProtocol)
)

// SNMPError records which request failed against which agent.
type SNMPError struct {
	Op      string
	Target  string
	Wrapped error
}

func (e *SNMPError) Error() string {
	return fmt.Sprintf("snmp %s %s: %v", e.Op, e.Target, e.Wrapped)
}

func (e *SNMPError) Unwrap() error {
	return e.Wrapped
}
