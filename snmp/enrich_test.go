package snmp

import (
	"fmt"
	"testing"

	"github.com/logingood/yt-snmp-checks/models"
	"github.com/logingood/yt-snmp-checks/snmp/snmptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func storageAgent() *snmptest.Agent {
	agent := snmptest.NewAgent()
	agent.SetOID("1.3.6.1.2.1.25.2.3.1.2.1", "1.3.6.1.2.1.25.2.1.2")
	agent.SetOID("1.3.6.1.2.1.25.2.3.1.2.2", "1.3.6.1.2.1.25.2.1.4")
	agent.SetOID("1.3.6.1.2.1.25.2.3.1.2.3", "1.3.6.1.2.1.25.2.1.4")

	agent.SetString("1.3.6.1.2.1.25.2.3.1.3.1", "Physical memory")
	agent.SetString("1.3.6.1.2.1.25.2.3.1.3.2", `C:\ Label:System  Serial Number 4c7e1a2b`)
	agent.SetString("1.3.6.1.2.1.25.2.3.1.3.3", "/var")

	agent.SetInt("1.3.6.1.2.1.25.2.3.1.4.1", 65536)
	agent.SetInt("1.3.6.1.2.1.25.2.3.1.4.2", 4096)
	agent.SetInt("1.3.6.1.2.1.25.2.3.1.4.3", 4096)

	agent.SetInt("1.3.6.1.2.1.25.2.3.1.5.1", 65536)
	agent.SetInt("1.3.6.1.2.1.25.2.3.1.5.2", 262144)
	agent.SetInt("1.3.6.1.2.1.25.2.3.1.5.3", 262144)

	agent.SetInt("1.3.6.1.2.1.25.2.3.1.6.1", 32768)
	agent.SetInt("1.3.6.1.2.1.25.2.3.1.6.2", 131072)
	// .6.3 missing on purpose
	return agent
}

func TestStoragePipeline(t *testing.T) {
	agent := storageAgent()
	logger := zaptest.NewLogger(t)
	collector := NewCollector(agent, logger)
	classifier := NewStorageClassifier([]models.Category{models.PhysicalMemory, models.FixedDisk}, 0, logger)

	var got []models.Entity
	run := Compose(func(inv *models.Inventory) error {
		got = inv.Entities
		return nil
	}, collector.EnrichStorage, collector.Discover(classifier))
	require.NoError(t, run(models.NewInventory("host")))

	require.Len(t, got, 3)
	assert.Equal(t, "Physical memory", got[0].Label)
	assert.Equal(t, models.PhysicalMemory, got[0].Category)
	assert.InDelta(t, 50.0, got[0].PercentUsed(), 1e-9)

	assert.Equal(t, `C:\`, got[1].Label)
	assert.Equal(t, 2, got[1].Index)
	assert.InDelta(t, 1024.0, got[1].TotalMB(), 1e-9)

	assert.Equal(t, "/var", got[2].Label)
	assert.Zero(t, got[2].UsedUnits)
	assert.Equal(t, int64(262144), got[2].TotalUnits)
}

func TestEnrichStorageDegradesProtocolFailures(t *testing.T) {
	agent := storageAgent()
	agent.Fail[".1.3.6.1.2.1.25.2.3.1.4.2"] = fmt.Errorf("%w: noSuchName", models.ErrProtocol)
	collector := NewCollector(agent, zaptest.NewLogger(t))

	inv := models.NewInventory("host")
	inv.AddIndex(models.FixedDisk, 2, 0)
	require.NoError(t, collector.EnrichStorage(func(*models.Inventory) error { return nil })(inv))

	require.Len(t, inv.Entities, 1)
	assert.Zero(t, inv.Entities[0].AllocationUnit)
	assert.Equal(t, int64(262144), inv.Entities[0].TotalUnits)
}

func TestEnrichStorageTransportFailureIsFatal(t *testing.T) {
	agent := storageAgent()
	agent.Fail[".1.3.6.1.2.1.25.2.3.1.5.2"] = fmt.Errorf("%w: request timeout", models.ErrTransport)
	collector := NewCollector(agent, zaptest.NewLogger(t))

	inv := models.NewInventory("host")
	inv.AddIndex(models.FixedDisk, 2, 0)
	called := false
	err := collector.EnrichStorage(func(*models.Inventory) error { called = true; return nil })(inv)
	assert.ErrorIs(t, err, models.ErrTransport)
	assert.False(t, called)
	assert.Empty(t, inv.Entities)
}

func TestProcessPipeline(t *testing.T) {
	agent := snmptest.NewAgent()
	agent.SetString("1.3.6.1.2.1.25.4.2.1.2.100", "nginx")
	agent.SetString("1.3.6.1.2.1.25.4.2.1.2.101", "nginx")
	agent.SetString("1.3.6.1.2.1.25.4.2.1.2.200", "sshd")
	agent.SetString("1.3.6.1.2.1.25.4.2.1.4.100", "/usr/sbin/nginx")
	agent.SetInt("1.3.6.1.2.1.25.5.1.1.2.100", 2048)
	agent.SetInt("1.3.6.1.2.1.25.5.1.1.2.101", 1024)
	agent.SetInt("1.3.6.1.2.1.25.5.1.1.2.200", 512)

	logger := zaptest.NewLogger(t)
	names := []string{"nginx", "cron", "sshd"}
	collector := NewCollector(agent, logger)

	inv := models.NewInventory("host")
	run := Compose(func(*models.Inventory) error { return nil },
		collector.EnrichProcesses(names),
		collector.Discover(NewProcessClassifier(names, logger)))
	require.NoError(t, run(inv))

	require.Len(t, inv.Entities, 3)
	assert.Equal(t, models.Entity{Category: models.Process, Label: "nginx", MatchCount: 2, TotalMemoryKB: 3072}, inv.Entities[0])
	assert.Equal(t, models.Entity{Category: models.Process, Label: "cron"}, inv.Entities[1])
	assert.Equal(t, models.Entity{Category: models.Process, Label: "sshd", MatchCount: 1, TotalMemoryKB: 512}, inv.Entities[2])
}

func TestComposeOrder(t *testing.T) {
	var order []string
	stage := func(name string) Decorator {
		return func(next DecorateFunc) DecorateFunc {
			return func(inv *models.Inventory) error {
				order = append(order, name)
				return next(inv)
			}
		}
	}
	run := Compose(func(*models.Inventory) error {
		order = append(order, "evaluate")
		return nil
	}, stage("enrich"), stage("discover"))
	require.NoError(t, run(models.NewInventory("host")))
	assert.Equal(t, []string{"discover", "enrich", "evaluate"}, order)
}

func TestStorageLabel(t *testing.T) {
	assert.Equal(t, "/", storageLabel("/", models.FixedDisk))
	assert.Equal(t, `D:\`, storageLabel(` D:\ Label:Data`, models.FixedDisk))
	assert.Equal(t, "Virtual memory", storageLabel("Virtual memory", models.VirtualMemory))

	long := "Swap space on a very long device description that never ends"
	assert.Len(t, storageLabel(long, models.VirtualMemory), 49)
}
