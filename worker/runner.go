package worker

import (
	"context"
	"errors"
	"time"

	"github.com/logingood/yt-snmp-checks/config"
	"github.com/logingood/yt-snmp-checks/devices"
	"github.com/logingood/yt-snmp-checks/models"
	"github.com/logingood/yt-snmp-checks/snmp"
	"github.com/logingood/yt-snmp-checks/threshold"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Archive stores finished results. Failures never change a check's outcome.
type Archive interface {
	InitDb(ctx context.Context) error
	Write(ctx context.Context, record models.ResultRecord) error
}

type DialFunc func(ctx context.Context, device *models.Device, timeout time.Duration, logger *zap.Logger) (snmp.Client, error)

// Runner executes one check against one host.
type Runner struct {
	logger    *zap.Logger
	inventory devices.Devices
	archive   Archive
	dial      DialFunc
	now       func() time.Time
}

// New returns a runner; inventory and archive may be nil.
func New(logger *zap.Logger, inventory devices.Devices, archive Archive) *Runner {
	return &Runner{
		logger:    logger,
		inventory: inventory,
		archive:   archive,
		dial:      dialSession,
		now:       time.Now,
	}
}

func dialSession(ctx context.Context, device *models.Device, timeout time.Duration, logger *zap.Logger) (snmp.Client, error) {
	s, err := snmp.New(ctx, device, timeout, logger)
	if err != nil {
		return nil, err
	}
	if err := s.Connect(); err != nil {
		return nil, err
	}
	return s, nil
}

// Run never fails: every error becomes the matching Nagios result.
func (r *Runner) Run(ctx context.Context, check *config.Check) models.CheckResult {
	var (
		result      models.CheckResult
		archiveOK   bool
		group, gctx = errgroup.WithContext(ctx)
	)

	group.Go(func() error {
		var err error
		result, err = r.process(gctx, check)
		return err
	})
	if r.archive != nil {
		group.Go(func() error {
			actx, cancel := context.WithTimeout(ctx, check.Timeout)
			defer cancel()
			if err := r.archive.InitDb(actx); err != nil {
				r.logger.Warn("error init archive", zap.Error(err))
				return nil
			}
			archiveOK = true
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			err = errors.Join(models.ErrTransport, err)
		}
		r.logger.Debug("check failed", zap.Error(err))
		result = models.ResultFromError(err)
	}

	if archiveOK {
		record := models.NewResultRecord(check.Plugin, check.Hostname(), result, r.now())
		wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), check.Timeout)
		defer cancel()
		if err := r.archive.Write(wctx, record); err != nil {
			r.logger.Warn("error archive result", zap.Error(err))
		}
	}
	return result
}

func (r *Runner) process(ctx context.Context, check *config.Check) (models.CheckResult, error) {
	policy, err := threshold.NewPolicy(check)
	if err != nil {
		return models.CheckResult{}, err
	}

	device := r.resolveDevice(ctx, check)
	client, err := r.dial(ctx, &device, check.Timeout, r.logger)
	if err != nil {
		return models.CheckResult{}, err
	}
	defer func() {
		r.logger.Debug("close the conn")
		client.Close()
	}()

	var result models.CheckResult
	evaluate := func(inv *models.Inventory) error {
		r.logger.Debug("evaluating", zap.Int("entities", len(inv.Entities)))
		var err error
		result, err = policy.Evaluate(inv.Entities)
		return err
	}

	run, err := Pipeline(snmp.NewCollector(client, r.logger), check, evaluate, r.logger)
	if err != nil {
		return models.CheckResult{}, err
	}
	if err := run(models.NewInventory(check.Hostname())); err != nil {
		return models.CheckResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return models.CheckResult{}, err
	}
	return result, nil
}

// resolveDevice fills the credentials the command line left out from the
// inventory. Lookup problems only cost the inventory's help.
func (r *Runner) resolveDevice(ctx context.Context, check *config.Check) models.Device {
	device := check.Device
	if r.inventory == nil {
		return device
	}

	lctx, cancel := context.WithTimeout(ctx, check.Timeout)
	defer cancel()
	stored, err := r.inventory.LookupDevice(lctx, check.Hostname())
	if err != nil {
		r.logger.Warn("inventory lookup failed", zap.String("hostname", check.Hostname()), zap.Error(err))
		return device
	}
	if stored == nil {
		return device
	}
	device.Merge(stored)
	return device
}
