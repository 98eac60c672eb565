package service

import (
	"context"
	"time"

	"github.com/smallbiznis/showroom/internal/csvimport"
	"github.com/smallbiznis/showroom/internal/footfall/domain"
	"go.uber.org/zap"
)

const importSource = "footfall"

// Import folds the file into per-user groups and merges each group into its
// stored record, one write per user. A storage failure stops the run and is
// returned as a *csvimport.KeyError together with the summary of the keys
// already written.
func (s *Service) Import(ctx context.Context, req domain.ImportRequest) (csvimport.Summary, error) {
	if req.File == nil {
		return csvimport.Summary{}, csvimport.ErrNoFile
	}
	release, err := s.guard.Acquire(ctx, importSource)
	if err != nil {
		return csvimport.Summary{}, err
	}
	defer release()

	settings := s.settings.Get()

	reader, err := csvimport.NewReader(req.File, settings.SampleBytes)
	if err != nil {
		return csvimport.Summary{}, err
	}

	defaultPC := req.DefaultPC
	if defaultPC == "" {
		defaultPC = settings.DefaultPC
	}

	grouping, err := csvimport.GroupFootfall(ctx, reader, defaultPC)
	if err != nil {
		return csvimport.Summary{}, err
	}

	summary := csvimport.Summary{
		TotalRows:   grouping.TotalRows,
		SkippedRows: grouping.Skipped,
		Results:     make([]csvimport.KeyResult, 0, len(grouping.Groups)),
	}

	now := s.clock.Now()
	for _, grp := range grouping.Groups {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		result, err := s.mergeGroup(ctx, grp, now)
		if err != nil {
			s.log.Error("footfall import aborted",
				zap.String("user_id", grp.Key),
				zap.Int("keys_written", summary.KeysProcessed),
				zap.Error(err),
			)
			s.metrics.RecordImportFailure(ctx, importSource)
			return summary, &csvimport.KeyError{Key: grp.Key, Err: err}
		}
		summary.Results = append(summary.Results, result)
		summary.KeysProcessed++
	}

	s.log.Info("footfall import completed",
		zap.Int("rows", summary.TotalRows),
		zap.Int("skipped", summary.SkippedRows),
		zap.Int("keys", summary.KeysProcessed),
		zap.String("delimiter", string(reader.Delimiter())),
	)
	s.metrics.RecordImport(ctx, importSource, summary.TotalRows, summary.SkippedRows, summary.KeysProcessed)

	return summary, nil
}

func (s *Service) mergeGroup(ctx context.Context, grp *csvimport.Group, now time.Time) (csvimport.KeyResult, error) {
	incoming := make([]domain.FootEntry, 0, len(grp.Entries))
	for _, e := range grp.Entries {
		incoming = append(incoming, domain.FootEntry{
			Footfall:   e.Footfall,
			Conversion: e.Conversion,
			PC:         e.PC,
			Timestamp:  e.Timestamp,
		})
	}

	var applied int
	record, err := s.mutate(ctx, grp.Key, grp.Username, func(record *domain.Record) error {
		applied = record.Merge(incoming, now, s.genID.Generate)
		record.UpdatedAt = now
		return nil
	})
	if err != nil {
		return csvimport.KeyResult{}, err
	}

	return csvimport.KeyResult{
		Key:      record.UserID,
		Username: record.Username,
		Imported: applied,
		Total:    len(record.Entries),
	}, nil
}
