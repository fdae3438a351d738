package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"transmute/core/backup"
	"transmute/core/config"
	"transmute/core/featureset"
	"transmute/core/history"
	"transmute/core/portal"
	"transmute/core/reconcile"
	"transmute/core/results"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options controls a sync run.
type Options struct {
	// DryRun stops after the diff; nothing is submitted or backed up.
	DryRun bool
	// Verbose logs every staged feature and the attribute changes of each update at debug level.
	Verbose bool
}

// Outcome summarizes a sync run.
type Outcome struct {
	Source      string
	Destination string
	Counts      reconcile.Counts
	Response    *results.EditResponse
	BackupPath  string
	Status      string
}

// Service runs a source to destination sync.
type Service struct {
	session  portal.Session
	backups  *backup.Store
	recorder history.Recorder
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a new sync service. backups and recorder may be nil.
func NewService(session portal.Session, backups *backup.Store, recorder history.Recorder, logger *zap.Logger) *Service {
	if backups == nil {
		backups = backup.New("", nil, logger)
	}
	if recorder == nil {
		recorder = history.Nop{}
	}
	return &Service{
		session:  session,
		backups:  backups,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// Run fetches both layers, validates their schemas, computes the edit batch and submits it.
// Any returned error aborts the run; per-feature edit failures are reported in the outcome.
func (s *Service) Run(ctx context.Context, job *config.Job, opts Options) (*Outcome, error) {
	run := &history.Run{
		ID:                uuid.NewString(),
		StartedAt:         s.now().UTC(),
		SourceItemID:      job.Source.ItemID,
		DestinationItemID: job.Destination.ItemID,
		ReferenceKey:      job.Destination.ReferenceIDKey,
	}

	out, err := s.run(ctx, job, opts)
	s.record(ctx, run, out, err)
	if err != nil {
		return out, err
	}

	s.logger.Info("Finished", zap.String("status", out.Status))
	return out, nil
}

func (s *Service) run(ctx context.Context, job *config.Job, opts Options) (*Outcome, error) {
	out := &Outcome{}
	refKey := job.Destination.ReferenceIDKey

	s.logger.Info("Accessing source feature service", zap.String("item", job.Source.ItemID))
	srcLayer, srcSet, err := s.fetch(ctx, job.Source)
	if err != nil {
		return out, fmt.Errorf("could not read source data: %w", err)
	}
	out.Source = srcLayer.Name

	s.logger.Info("Accessing destination feature service", zap.String("item", job.Destination.ItemID))
	dstLayer, dstSet, err := s.fetch(ctx, job.Destination)
	if err != nil {
		return out, fmt.Errorf("could not read destination data: %w", err)
	}
	out.Destination = dstLayer.Name

	s.logger.Info("Validating schemas")
	if err := reconcile.ValidateSchema(srcLayer.Fields, dstLayer.Fields, refKey); err != nil {
		return out, fmt.Errorf("failed to validate schemas of %s and %s: %w", srcLayer.Name, dstLayer.Name, err)
	}
	s.logger.Info("Schemas are valid")

	s.logger.Info("Creating reference key", zap.Int("features", srcSet.Len()), zap.String("key", reconcile.TruncateFieldName(refKey)))
	staged, err := reconcile.MaterializeReferenceKey(*srcSet, objectIDField(srcLayer, srcSet), refKey)
	if err != nil {
		return out, fmt.Errorf("failed to create reference key for %s features: %w", dstLayer.Name, err)
	}

	s.logger.Info("Batching staged edits", zap.Int("features", staged.Len()))
	dstOID := objectIDField(dstLayer, dstSet)
	edits, err := reconcile.Batch(staged, *dstSet, dstOID, refKey)
	if err != nil {
		return out, fmt.Errorf("failed to batch %d staged features for %s layer using key %s: %w", staged.Len(), dstLayer.Name, refKey, err)
	}
	out.Counts = edits.Counts()

	if opts.Verbose {
		s.logStaged(edits, *dstSet, dstOID)
	}

	if opts.DryRun {
		s.logger.Info("Dry run, nothing submitted", countFields(out.Counts)...)
		out.Status = history.StatusDryRun
		return out, nil
	}

	if edits.Empty() {
		s.logger.Info("Destination is up to date, nothing to submit")
		out.Status = history.StatusNoChanges
		return out, nil
	}

	backupID, err := s.backups.Stage(dstSet, backup.Layer{
		Name:         dstLayer.Name,
		Type:         dstLayer.Type,
		URL:          dstLayer.URL,
		ReferenceKey: reconcile.TruncateFieldName(refKey),
	})
	if err != nil {
		return out, fmt.Errorf("failed to stage backup of %s: %w", dstLayer.Name, err)
	}

	s.logger.Info("Uploading features", countFields(out.Counts)...)
	resp, err := s.session.ApplyEdits(ctx, dstLayer.URL, edits.Adds, edits.Updates, edits.Deletes)
	if err != nil {
		if path, ferr := s.backups.Finalize(ctx, backupID, nil); ferr != nil {
			s.logger.Error("Failed to write backup", zap.Error(ferr))
		} else if path != "" {
			out.BackupPath = path
			s.logger.Info("Full backup written", zap.String("path", path))
		}
		return out, fmt.Errorf("failed to edit %s features (%d adds, %d updates, %d deletes): %w",
			dstLayer.Name, out.Counts.Adds, out.Counts.Updates, out.Counts.Deletes, err)
	}
	out.Response = resp
	out.Status = history.StatusSucceeded

	s.report(resp, out.Counts)

	path, err := s.backups.Finalize(ctx, backupID, resp)
	out.BackupPath = path
	if err != nil {
		return out, fmt.Errorf("edits were applied but the backup could not be finalized: %w", err)
	}

	return out, nil
}

// fetch resolves the selected layer and queries all of its features.
func (s *Service) fetch(ctx context.Context, sel config.LayerSelector) (*portal.LayerInfo, *featureset.FeatureSet, error) {
	item, err := s.session.Item(ctx, sel.ItemID)
	if err != nil {
		return nil, nil, err
	}

	refs, err := s.session.Layers(ctx, item)
	if err != nil {
		return nil, nil, err
	}
	if sel.Index() < 0 || sel.Index() >= len(refs) {
		return nil, nil, fmt.Errorf("layer index %d out of range, %s has %d layers", sel.Index(), item.Title, len(refs))
	}

	layer, err := s.session.Layer(ctx, refs[sel.Index()].URL)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("Querying layer", zap.String("layer", layer.Name))
	fs, err := s.session.Query(ctx, layer, "1=1")
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("Queried layer", zap.String("layer", layer.Name), zap.Int("features", fs.Len()))

	return layer, fs, nil
}

func (s *Service) logStaged(edits *reconcile.Edits, destination featureset.FeatureSet, oidField string) {
	if len(edits.Adds) > 0 {
		s.logger.Debug("Staged adds\n" + results.FormatFeatures(edits.Adds, oidField))
	}
	if len(edits.Updates) > 0 {
		s.logger.Debug("Staged updates\n" + results.FormatFeatures(edits.Updates, oidField))
	}
	if len(edits.Deletes) > 0 {
		s.logger.Debug("Staged deletes", zap.Int64s("oids", edits.Deletes))
	}

	changes, err := reconcile.DescribeUpdates(edits, destination, oidField)
	if err != nil {
		s.logger.Warn("Could not describe updates", zap.Error(err))
		return
	}
	unchanged := 0
	for _, c := range changes {
		if c.Unchanged() {
			unchanged++
			continue
		}
		s.logger.Debug("Update changes", zap.Int64("oid", c.ObjectID), zap.String("patch", c.Patch.String()))
	}
	if unchanged > 0 {
		s.logger.Debug("Updates without attribute changes", zap.Int("count", unchanged))
	}
}

func (s *Service) report(resp *results.EditResponse, counts reconcile.Counts) {
	report := results.NewReport(resp)
	categories := []struct {
		name     results.Category
		label    string
		expected int
	}{
		{results.CategoryAdds, "Adds", counts.Adds},
		{results.CategoryUpdates, "Updates", counts.Updates},
		{results.CategoryDeletes, "Deletes", counts.Deletes},
	}

	for _, c := range categories {
		lines, err := report.Lines(c.name)
		if err != nil {
			if c.expected > 0 {
				s.logger.Error("Could not parse results", zap.Error(err))
			}
			continue
		}
		tally, _ := report.Tally(c.name)
		s.logger.Info(c.label+" results", zap.Int("succeeded", tally.Succeeded), zap.Int("failed", tally.Failed))
		s.logger.Debug(c.label + " results\n" + strings.Join(lines, "\n"))
	}
}

func (s *Service) record(ctx context.Context, run *history.Run, out *Outcome, runErr error) {
	run.FinishedAt = s.now().UTC()
	if out != nil {
		run.SourceLayer = out.Source
		run.DestinationLayer = out.Destination
		run.Adds = out.Counts.Adds
		run.Updates = out.Counts.Updates
		run.Deletes = out.Counts.Deletes
		run.BackupPath = out.BackupPath
		run.Status = out.Status

		report := results.NewReport(out.Response)
		if t, err := report.Tally(results.CategoryAdds); err == nil {
			run.AddsFailed = t.Failed
		}
		if t, err := report.Tally(results.CategoryUpdates); err == nil {
			run.UpdatesFailed = t.Failed
		}
		if t, err := report.Tally(results.CategoryDeletes); err == nil {
			run.DeletesFailed = t.Failed
		}
	}
	if runErr != nil {
		run.Status = history.StatusFailed
		run.Error = runErr.Error()
	}

	if err := s.recorder.Record(ctx, run); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn("Failed to record run history", zap.Error(err))
	}
}

// objectIDField prefers the layer metadata and falls back to the query result.
func objectIDField(layer *portal.LayerInfo, fs *featureset.FeatureSet) string {
	if layer.ObjectIDField != "" {
		return layer.ObjectIDField
	}
	return fs.ObjectIDFieldName
}

func countFields(c reconcile.Counts) []zap.Field {
	return []zap.Field{
		zap.Int("adds", c.Adds),
		zap.Int("updates", c.Updates),
		zap.Int("deletes", c.Deletes),
	}
}
