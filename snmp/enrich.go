package snmp

import (
	"errors"
	"strings"

	"github.com/logingood/yt-snmp-checks/models"
	"go.uber.org/zap"
)

const maxLabelLength = 49

// Collector runs the discovery and enrichment stages against one agent.
type Collector struct {
	client Client
	logger *zap.Logger
}

func NewCollector(client Client, logger *zap.Logger) *Collector {
	return &Collector{client: client, logger: logger}
}

// Discover walks the classifier's column and hands every entry to it.
func (c *Collector) Discover(classifier Classifier) Decorator {
	return func(next DecorateFunc) DecorateFunc {
		return func(inv *models.Inventory) error {
			root := classifier.Root()
			c.logger.Debug("walking", zap.Stringer("root", root))
			err := Walk(c.client, root, func(entry models.WalkEntry) error {
				return classifier.Classify(inv, entry)
			})
			if err != nil {
				c.logger.Error("error walk", zap.Stringer("root", root), zap.Error(err))
				return err
			}
			return next(inv)
		}
	}
}

// EnrichStorage resolves every discovered hrStorage row into an entity.
func (c *Collector) EnrichStorage(next DecorateFunc) DecorateFunc {
	return func(inv *models.Inventory) error {
		for _, ref := range inv.Discovered {
			descr, err := c.getString(cell(hrStorageEntry, hrStorageDescrColumn, ref.Index))
			if err != nil {
				return err
			}
			unit, err := c.getInt(cell(hrStorageEntry, hrStorageAllocUnitColumn, ref.Index))
			if err != nil {
				return err
			}
			size, err := c.getInt(cell(hrStorageEntry, hrStorageSizeColumn, ref.Index))
			if err != nil {
				return err
			}
			used, err := c.getInt(cell(hrStorageEntry, hrStorageUsedColumn, ref.Index))
			if err != nil {
				return err
			}

			entity := models.Entity{
				Index:          ref.Index,
				Category:       ref.Category,
				Label:          storageLabel(descr, ref.Category),
				AllocationUnit: unit,
				TotalUnits:     size,
				UsedUnits:      used,
			}
			c.logger.Debug("storage entry",
				zap.Int("index", entity.Index),
				zap.Stringer("category", entity.Category),
				zap.String("label", entity.Label),
				zap.Int64("unit", unit),
				zap.Int64("size", size),
				zap.Int64("used", used))
			inv.AddEntity(entity)
		}
		return next(inv)
	}
}

// EnrichProcesses sums hrSWRunPerfMem over the matched rows of each name.
// Every configured name yields an entity, matched or not, in the given order.
func (c *Collector) EnrichProcesses(names []string) Decorator {
	return func(next DecorateFunc) DecorateFunc {
		return func(inv *models.Inventory) error {
			for _, name := range names {
				indexes := inv.Processes[name]
				var memKB int64
				for _, idx := range indexes {
					mem, err := c.getInt(cell(hrSWRunPerfEntry, hrSWRunPerfMemColumn, idx))
					if err != nil {
						return err
					}
					memKB += mem
				}
				inv.AddEntity(models.Entity{
					Category:      models.Process,
					Label:         name,
					MatchCount:    len(indexes),
					TotalMemoryKB: memKB,
				})
			}
			return next(inv)
		}
	}
}

// getInt returns zero for anything but a transport failure.
func (c *Collector) getInt(oid models.OID) (int64, error) {
	v, err := c.client.Get(oid)
	if err != nil {
		if errors.Is(err, models.ErrTransport) {
			return 0, err
		}
		c.logger.Debug("attribute unavailable", zap.Stringer("oid", oid), zap.Error(err))
		return 0, nil
	}
	if v.Kind != models.KindInteger {
		c.logger.Debug("attribute is not an integer", zap.Stringer("oid", oid), zap.Stringer("kind", v.Kind))
		return 0, nil
	}
	return v.Int, nil
}

func (c *Collector) getString(oid models.OID) (string, error) {
	v, err := c.client.Get(oid)
	if err != nil {
		if errors.Is(err, models.ErrTransport) {
			return "", err
		}
		c.logger.Debug("attribute unavailable", zap.Stringer("oid", oid), zap.Error(err))
		return "", nil
	}
	if v.Kind != models.KindOctetString {
		c.logger.Debug("attribute is not a string", zap.Stringer("oid", oid), zap.Stringer("kind", v.Kind))
		return "", nil
	}
	return string(v.Bytes), nil
}

// storageLabel cuts disk descriptions at the first space ("C:\ Label:..."
// becomes "C:\") and bounds every label.
func storageLabel(descr string, category models.Category) string {
	label := strings.TrimSpace(descr)
	if category.IsDisk() {
		if i := strings.IndexByte(label, ' '); i >= 0 {
			label = label[:i]
		}
	}
	if len(label) > maxLabelLength {
		label = label[:maxLabelLength]
	}
	return strings.TrimSpace(label)
}
