package worker

import (
	"fmt"

	"github.com/logingood/yt-snmp-checks/config"
	"github.com/logingood/yt-snmp-checks/models"
	"github.com/logingood/yt-snmp-checks/snmp"
	"go.uber.org/zap"
)

// Pipeline chains discovery, enrichment and evaluation for the check mode.
func Pipeline(c *snmp.Collector, check *config.Check, evaluate snmp.DecorateFunc, logger *zap.Logger) (snmp.DecorateFunc, error) {
	switch check.Mode {
	case config.ModeStorage:
		classifier := snmp.NewStorageClassifier(check.Categories, check.MaxPerCategory, logger)
		return snmp.Compose(
			evaluate,
			c.EnrichStorage,
			c.Discover(classifier), // always keep at the bottom
		), nil
	case config.ModeProcessorLoad:
		return snmp.Compose(evaluate, c.Discover(snmp.NewProcessorClassifier(logger))), nil
	case config.ModeLoadAverage:
		return snmp.Compose(evaluate, c.Discover(snmp.NewLoadAverageClassifier(logger))), nil
	case config.ModeProcess:
		return snmp.Compose(
			evaluate,
			c.EnrichProcesses(check.Processes),
			c.Discover(snmp.NewProcessClassifier(check.Processes, logger)),
		), nil
	}
	return nil, fmt.Errorf("%w: unknown check mode %d", models.ErrConfig, check.Mode)
}
