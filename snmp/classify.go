package snmp

import (
	"strconv"
	"strings"

	"github.com/logingood/yt-snmp-checks/models"
	"go.uber.org/zap"
)

// Classifier names the column a check walks and decides, entry by entry,
// what goes into the inventory.
type Classifier interface {
	Root() models.OID
	Classify(inv *models.Inventory, entry models.WalkEntry) error
}

// StorageClassifier files hrStorageType rows under the enabled categories.
type StorageClassifier struct {
	Categories []models.Category
	// Limit caps each category; zero means unbounded.
	Limit  int
	logger *zap.Logger
}

func NewStorageClassifier(categories []models.Category, limit int, logger *zap.Logger) *StorageClassifier {
	return &StorageClassifier{Categories: categories, Limit: limit, logger: logger}
}

func (c *StorageClassifier) Root() models.OID {
	return column(hrStorageEntry, hrStorageTypeColumn)
}

func (c *StorageClassifier) Classify(inv *models.Inventory, entry models.WalkEntry) error {
	if entry.Value.Terminal() {
		return nil
	}
	row, err := decodeRow(hrStorageEntry, entry.OID)
	if err != nil {
		return err
	}
	if entry.Value.Kind != models.KindObjectIdentifier {
		c.logger.Debug("storage type is not an object identifier", zap.Stringer("oid", entry.OID), zap.Stringer("kind", entry.Value.Kind))
		return nil
	}
	for _, category := range c.Categories {
		if !entry.Value.OID.Equal(StorageTypes[category]) {
			continue
		}
		if !inv.AddIndex(category, row.Index, c.Limit) {
			c.logger.Warn("too many entries, dropping",
				zap.Stringer("category", category),
				zap.Int("index", row.Index),
				zap.Int("limit", c.Limit))
		}
		return nil
	}
	return nil
}

// ProcessorClassifier turns hrProcessorLoad rows straight into entities.
type ProcessorClassifier struct {
	logger *zap.Logger
}

func NewProcessorClassifier(logger *zap.Logger) *ProcessorClassifier {
	return &ProcessorClassifier{logger: logger}
}

func (c *ProcessorClassifier) Root() models.OID {
	return column(hrProcessorEntry, hrProcessorLoadColumn)
}

func (c *ProcessorClassifier) Classify(inv *models.Inventory, entry models.WalkEntry) error {
	if entry.Value.Terminal() {
		return nil
	}
	row, err := decodeRow(hrProcessorEntry, entry.OID)
	if err != nil {
		return err
	}
	if entry.Value.Kind != models.KindInteger {
		c.logger.Debug("processor load is not an integer", zap.Stringer("oid", entry.OID))
		return nil
	}
	c.logger.Debug("cpu load", zap.Int("index", row.Index), zap.Int64("load", entry.Value.Int))
	inv.AddEntity(models.Entity{
		Index:    row.Index,
		Category: models.ProcessorLoad,
		Label:    "cpu" + strconv.Itoa(row.Index),
		Load:     float64(entry.Value.Int),
	})
	return nil
}

// LoadAverageClassifier parses the UCD laLoad strings for the 1, 5 and 15
// minute windows.
type LoadAverageClassifier struct {
	logger *zap.Logger
}

func NewLoadAverageClassifier(logger *zap.Logger) *LoadAverageClassifier {
	return &LoadAverageClassifier{logger: logger}
}

func (c *LoadAverageClassifier) Root() models.OID {
	return column(laEntry, laLoadColumn)
}

func (c *LoadAverageClassifier) Classify(inv *models.Inventory, entry models.WalkEntry) error {
	if entry.Value.Terminal() {
		return nil
	}
	row, err := decodeRow(laEntry, entry.OID)
	if err != nil {
		return err
	}
	label, ok := loadWindowLabels[row.Index]
	if !ok || entry.Value.Kind != models.KindOctetString {
		return nil
	}
	load, err := strconv.ParseFloat(strings.TrimSpace(string(entry.Value.Bytes)), 64)
	if err != nil {
		c.logger.Debug("unparsable load average", zap.String("value", string(entry.Value.Bytes)), zap.Error(err))
		return nil
	}
	inv.AddEntity(models.Entity{
		Index:    row.Index,
		Category: models.LoadWindow,
		Label:    label,
		Load:     load,
	})
	return nil
}

// ProcessClassifier matches hrSWRunName against the configured names,
// ignoring case but never matching substrings.
type ProcessClassifier struct {
	Names  []string
	logger *zap.Logger
}

func NewProcessClassifier(names []string, logger *zap.Logger) *ProcessClassifier {
	return &ProcessClassifier{Names: names, logger: logger}
}

func (c *ProcessClassifier) Root() models.OID {
	return column(hrSWRunEntry, hrSWRunNameColumn)
}

func (c *ProcessClassifier) Classify(inv *models.Inventory, entry models.WalkEntry) error {
	if entry.Value.Terminal() {
		return nil
	}
	row, err := decodeRow(hrSWRunEntry, entry.OID)
	if err != nil {
		return err
	}
	if entry.Value.Kind != models.KindOctetString {
		return nil
	}
	name := string(entry.Value.Bytes)
	for _, target := range c.Names {
		if strings.EqualFold(name, target) {
			c.logger.Debug("process matched", zap.String("name", target), zap.Int("index", row.Index))
			inv.AddProcessIndex(target, row.Index)
			return nil
		}
	}
	return nil
}
