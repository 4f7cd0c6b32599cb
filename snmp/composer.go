package snmp

import (
	"github.com/logingood/yt-snmp-checks/models"
)

type DecorateFunc func(*models.Inventory) error
type Decorator func(DecorateFunc) DecorateFunc

// Compose wraps d with decorators. The last decorator runs first, so list
// the stages in reverse order: evaluation, enrichment, discovery.
func Compose(d DecorateFunc, decorators ...Decorator) DecorateFunc {
	for _, decorator := range decorators {
		d = decorator(d)
	}

	return d
}
