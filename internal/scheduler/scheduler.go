package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/showroom/internal/clock"
	obscontext "github.com/smallbiznis/showroom/internal/observability/context"
	obsmetrics "github.com/smallbiznis/showroom/internal/observability/metrics"
	sharelinkdomain "github.com/smallbiznis/showroom/internal/sharelink/domain"
	"github.com/smallbiznis/showroom/internal/storage"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	jobPurgeShareLinks = "purge_share_links"
	jobSweepImportTemp = "sweep_import_temp"
)

var ErrInvalidConfig = errors.New("scheduler: missing dependency")

type Params struct {
	fx.In

	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	ShareLinks sharelinkdomain.Service
	Metrics    *obsmetrics.Metrics `optional:"true"`
	Config     Config              `optional:"true"`
}

// Scheduler runs periodic housekeeping jobs in-process.
type Scheduler struct {
	log        *zap.Logger
	cfg        Config
	genID      *snowflake.Node
	clock      clock.Clock
	shareLinks sharelinkdomain.Service
	metrics    *obsmetrics.Metrics
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.GenID == nil || p.Clock == nil || p.ShareLinks == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		log:        p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:        p.Config.withDefaults(),
		genID:      p.GenID,
		clock:      p.Clock,
		shareLinks: p.ShareLinks,
		metrics:    p.Metrics,
	}, nil
}

// runJob gives fn its own deadline. A job that runs out of time is logged and
// retried on the next tick rather than reported as a failure.
func (s *Scheduler) runJob(parent context.Context, name string, timeout time.Duration, fn func(ctx context.Context) error) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	ctx = obscontext.WithActor(ctx, "", "scheduler", "system")
	log := s.log.With(
		zap.String("job", name),
		zap.String("run_id", s.genID.Generate().String()),
	)

	err := fn(ctx)
	took := time.Since(start)
	s.metrics.RecordJob(ctx, name, took, err)
	if err == nil {
		log.Debug("job finished", zap.Duration("took", took))
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		log.Warn("job timed out",
			zap.Duration("timeout", timeout),
			zap.Error(err),
		)
		return nil
	}

	return fmt.Errorf("%s: %w", name, err)
}

func (s *Scheduler) RunOnce(parent context.Context) error {
	jobs := []struct {
		Name string
		Run  func(context.Context) error
	}{
		{jobPurgeShareLinks, s.PurgeShareLinksJob},
		{jobSweepImportTemp, s.SweepImportTempJob},
	}

	var err error
	for _, job := range jobs {
		err = errors.Join(err, s.runJob(parent, job.Name, s.cfg.JobTimeout, job.Run))
	}
	return err
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) PurgeShareLinksJob(ctx context.Context) error {
	deleted, err := s.shareLinks.PurgeExpired(ctx, s.cfg.ShareLinkRetention)
	if err != nil {
		return err
	}
	if deleted > 0 {
		s.log.Info("share links purged", zap.Int64("deleted", deleted))
	}
	return nil
}

func (s *Scheduler) SweepImportTempJob(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cutoff := s.clock.Now().Add(-s.cfg.ImportTempMaxAge)
	removed, err := storage.SweepTemp(s.cfg.TempDir, cutoff)
	if removed > 0 {
		s.log.Info("abandoned import files removed", zap.Int("removed", removed))
	}
	return err
}
