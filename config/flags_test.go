package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/logingood/yt-snmp-checks/models"
	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestParseDisk(t *testing.T) {
	check, err := ParseDisk(strings.Fields(`-H 10.0.0.1 -C public -m rvd -w 80 -c 90 -s 2c -f / -d -t 3`), &FromEnv{})
	require.NoError(t, err)

	assert.Equal(t, "check_snmp_disk", check.Plugin)
	assert.Equal(t, ModeStorage, check.Mode)
	assert.Equal(t, []models.Category{models.PhysicalMemory, models.VirtualMemory, models.FixedDisk}, check.Categories)
	assert.Equal(t, []float64{80}, check.Warning)
	assert.Equal(t, []float64{90}, check.Critical)
	assert.Equal(t, "/", check.Filter)
	assert.Equal(t, "10.0.0.1", check.Hostname())
	assert.Equal(t, "2c", models.StringValue(check.Device.SnmpVer))
	assert.Equal(t, "public", models.StringValue(check.Device.Community))
	assert.Equal(t, 3*time.Second, check.Timeout)
	assert.True(t, check.PerfData)
	assert.False(t, check.DisksOnly())
	assert.Zero(t, check.MaxPerCategory)
}

func TestParseDiskDisksOnly(t *testing.T) {
	check, err := ParseDisk(strings.Fields(`-H h -C c -m dn -w 1.5 -c 2.5 --max-entries 100`), &FromEnv{})
	require.NoError(t, err)
	assert.True(t, check.DisksOnly())
	assert.Equal(t, 100, check.MaxPerCategory)
	assert.Equal(t, 5*time.Second, check.Timeout)
}

func TestParseDiskErrors(t *testing.T) {
	tests := []struct {
		name string
		args string
		want string
	}{
		{name: "warning above critical", args: `-H h -C c -m d -w 95 -c 90`, want: "must be lower than critical"},
		{name: "warning equals critical", args: `-H h -C c -m d -w 90 -c 90`, want: "must be lower than critical"},
		{name: "missing limits", args: `-H h -C c -m d`, want: "limits must be set"},
		{name: "missing community", args: `-H h -m d -w 1 -c 2`, want: "community"},
		{name: "missing host", args: `-C c -m d -w 1 -c 2`, want: "hostname"},
		{name: "unknown monitor", args: `-H h -C c -m dx -w 1 -c 2`, want: "unknown flag passed to -m: x"},
		{name: "v3 not supported", args: `-H h -C c -m d -w 1 -c 2 -s 3`, want: "not supported"},
		{name: "bad number", args: `-H h -C c -m d -w abc -c 2`, want: "not a number"},
		{name: "unknown flag", args: `-H h -C c -m d -w 1 -c 2 --bogus`, want: "unknown flag"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDisk(strings.Fields(tt.args), &FromEnv{})
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrConfig)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseCollectsAllProblems(t *testing.T) {
	_, err := ParseDisk(strings.Fields(`-m q -w 9 -c 1`), &FromEnv{})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrConfig)
	msg := err.Error()
	assert.Contains(t, msg, "hostname")
	assert.Contains(t, msg, "community")
	assert.Contains(t, msg, "unknown flag passed to -m: q")
	assert.Contains(t, msg, "must be lower than critical")
}

func TestCommunityDeferredToInventory(t *testing.T) {
	check, err := ParseProcess(strings.Fields(`-H db01 -m mysqld -w 2 -c 3`), &FromEnv{InventoryDSN: "user:pass@(db:3306)/librenms"})
	require.NoError(t, err)
	assert.Nil(t, check.Device.Community)
	assert.Nil(t, check.Device.SnmpVer)
}

func TestParseLoad(t *testing.T) {
	check, err := ParseLoad(strings.Fields(`-H h -C c -m L -w 1,2,3 -c 5,6,7 -d`), &FromEnv{})
	require.NoError(t, err)
	assert.Equal(t, ModeLoadAverage, check.Mode)
	assert.Equal(t, []float64{1, 2, 3}, check.Warning)
	assert.Equal(t, []float64{5, 6, 7}, check.Critical)

	check, err = ParseLoad(strings.Fields(`-H h -C c -m L -w 2 -c 4`), &FromEnv{})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 2, 2}, check.Warning)
	assert.Equal(t, []float64{4, 4, 4}, check.Critical)

	check, err = ParseLoad(strings.Fields(`-H h -C c -m w -w 80 -c 90`), &FromEnv{})
	require.NoError(t, err)
	assert.Equal(t, ModeProcessorLoad, check.Mode)
	assert.Equal(t, []float64{80}, check.Warning)

	_, err = ParseLoad(strings.Fields(`-H h -C c -m L -w 1,7,3 -c 5,6,7`), &FromEnv{})
	assert.ErrorIs(t, err, models.ErrConfig)
	assert.Contains(t, err.Error(), "window 2")

	_, err = ParseLoad(strings.Fields(`-H h -C c -m L -w 1,2 -c 5,6`), &FromEnv{})
	assert.ErrorIs(t, err, models.ErrConfig)

	_, err = ParseLoad(strings.Fields(`-H h -C c -w 1 -c 5`), &FromEnv{})
	assert.ErrorIs(t, err, models.ErrConfig)
	assert.Contains(t, err.Error(), "mode (-m)")
}

func TestParseLoadV3(t *testing.T) {
	check, err := ParseLoad(strings.Fields(`-H h -s 3 -m W -w 80 -c 90 -u nagios -p authpass -k SHA -x AES -X privpass`), &FromEnv{})
	require.NoError(t, err)
	assert.Nil(t, check.Device.Community)
	assert.Equal(t, "3", models.StringValue(check.Device.SnmpVer))
	assert.Equal(t, "nagios", models.StringValue(check.Device.AuthName))
	assert.Equal(t, "authpass", models.StringValue(check.Device.AuthPass))
	assert.Equal(t, "SHA", models.StringValue(check.Device.AuthAlgo))
	assert.Equal(t, "AES", models.StringValue(check.Device.CryptoAlgo))
	assert.Equal(t, "privpass", models.StringValue(check.Device.CryptoPass))

	_, err = ParseLoad(strings.Fields(`-H h -s 3 -m W -w 80 -c 90 -u nagios`), &FromEnv{})
	assert.ErrorIs(t, err, models.ErrConfig)

	_, err = ParseLoad(strings.Fields(`-H h -s v3 -m W -w 80 -c 90 -u nagios -p authpass -x AES`), &FromEnv{})
	assert.ErrorIs(t, err, models.ErrConfig)
}

func TestParseProcess(t *testing.T) {
	check, err := ParseProcess(strings.Fields(`-H h -C c -m httpd,sshd,HTTPD, -w 5 -c 10 -r 512 -R -A`), &FromEnv{})
	require.NoError(t, err)
	assert.Equal(t, ModeProcess, check.Mode)
	assert.Equal(t, []string{"httpd", "sshd"}, check.Processes)
	assert.Equal(t, 512.0, check.RAMCeilingMB)
	assert.True(t, check.CriticalOnRAM)
	assert.True(t, check.WarnOnZero)

	_, err = ParseProcess(strings.Fields(`-H h -C c -w 5 -c 10`), &FromEnv{})
	assert.ErrorIs(t, err, models.ErrConfig)

	_, err = ParseProcess(strings.Fields(`-H h -C c -m x -w 10 -c 5`), &FromEnv{})
	assert.ErrorIs(t, err, models.ErrConfig)

	check, err = ParseProcess(strings.Fields(`-H h -C c -m x -w 1 -c 5 -R`), &FromEnv{})
	require.NoError(t, err)
	assert.Equal(t, 9999.0, check.RAMCeilingMB)
	assert.True(t, check.CriticalOnRAM)

	_, err = ParseProcess(strings.Fields(`-H h -C c -m x -w 1 -c 5 -r -1`), &FromEnv{})
	assert.ErrorIs(t, err, models.ErrConfig)
}

func TestHelpAndVersion(t *testing.T) {
	_, err := ParseDisk(nil, &FromEnv{})
	require.Error(t, err)
	assert.True(t, IsHelp(err))
	assert.Contains(t, err.Error(), "check_snmp_disk")

	_, err = ParseProcess([]string{"-h"}, &FromEnv{})
	assert.True(t, IsHelp(err))

	_, err = ParseLoad([]string{"-V"}, &FromEnv{})
	assert.ErrorIs(t, err, ErrVersionRequested)
	assert.False(t, IsHelp(err))
}

func TestValidationErrorsAreListed(t *testing.T) {
	_, err := ParseDisk(strings.Fields(`-H h -m d -w 1`), &FromEnv{})
	require.Error(t, err)
	assert.Len(t, multierr.Errors(errorsWithoutKind(err)), 2)
}

// errorsWithoutKind strips the ErrConfig wrapper added by finish.
func errorsWithoutKind(err error) error {
	if u, ok := err.(interface{ Unwrap() []error }); ok {
		return u.Unwrap()[1]
	}
	return err
}

func TestLoadEnv(t *testing.T) {
	env, err := LoadEnv(context.Background(), envconfig.MapLookuper(map[string]string{
		"INVENTORY_DSN":   "nagios:secret@(db:3306)/librenms",
		"CLICKHOUSE_ADDR": "ch",
	}))
	require.NoError(t, err)
	assert.Equal(t, "WARN", env.LogLevel)
	assert.Equal(t, "9000", env.ClickhousePort)
	assert.Equal(t, "check_results", env.ClickhouseTable)
	assert.True(t, env.InventoryEnabled())
	assert.True(t, env.ArchiveEnabled())

	empty, err := LoadEnv(context.Background(), envconfig.MapLookuper(nil))
	require.NoError(t, err)
	assert.False(t, empty.InventoryEnabled())
	assert.False(t, empty.ArchiveEnabled())
}
