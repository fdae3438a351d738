package restore

import (
	"context"
	"fmt"
	"strings"

	"transmute/core/backup"
	"transmute/core/featureset"
	"transmute/core/portal"
	"transmute/core/results"
	"transmute/core/utils"

	"go.uber.org/zap"
)

// Outcome is the result of replaying one backup.
type Outcome struct {
	Path     string
	Layer    string
	Features int

	// Skipped counts backup features that still exist on the layer.
	Skipped int
	Tally   results.Tally
}

// Service replays backup files into the layers they were taken from.
type Service struct {
	session portal.Session
	backups *backup.Store
	logger  *zap.Logger
}

// NewService creates a new restore service.
func NewService(session portal.Session, backups *backup.Store, logger *zap.Logger) *Service {
	return &Service{
		session: session,
		backups: backups,
		logger:  logger,
	}
}

// Run restores each backup in order by adding the features that are no longer on the
// recorded layer back to it.
// The first failing backup stops the run; outcomes of the backups already restored are returned.
func (s *Service) Run(ctx context.Context, paths []string) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(paths))
	for _, path := range paths {
		out, err := s.restore(ctx, path)
		if err != nil {
			return outcomes, fmt.Errorf("failed to restore %s: %w", path, err)
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

func (s *Service) restore(ctx context.Context, path string) (Outcome, error) {
	out := Outcome{Path: path}

	snap, err := s.backups.Restore(ctx, path)
	if err != nil {
		return out, err
	}
	out.Layer = snap.LayerName
	out.Features = snap.FeatureSet.Len()

	s.logger.Info("Restoring backup",
		zap.String("path", path),
		zap.String("layer", snap.LayerName),
		zap.String("type", snap.LayerType),
		zap.String("backup_date", snap.BackupDate),
		zap.Int("features", out.Features),
	)

	if out.Features == 0 {
		s.logger.Info("Backup holds no features, skipping", zap.String("path", path))
		return out, nil
	}

	missing, err := s.missing(ctx, snap)
	if err != nil {
		return out, err
	}
	out.Skipped = out.Features - len(missing.Features)
	if out.Skipped > 0 {
		s.logger.Info("Skipping features still present on the layer", zap.String("layer", snap.LayerName), zap.Int("skipped", out.Skipped))
	}
	if missing.Len() == 0 {
		s.logger.Info("Every backed up feature is still present, nothing to restore", zap.String("path", path))
		return out, nil
	}

	adds := stripIdentifiers(missing)
	resp, err := s.session.ApplyEdits(ctx, snap.LayerURL, adds, nil, nil)
	if err != nil {
		return out, err
	}

	report := results.NewReport(resp)
	lines, err := report.Adds()
	if err != nil {
		return out, err
	}
	out.Tally, _ = report.Tally(results.CategoryAdds)

	s.logger.Info("Restored features", zap.String("layer", snap.LayerName), zap.Int("succeeded", out.Tally.Succeeded), zap.Int("failed", out.Tally.Failed))
	s.logger.Debug("Adds results\n" + strings.Join(lines, "\n"))
	return out, nil
}

// missing returns the backup features that no longer exist on the layer. A feature exists
// when its object id is live, or when the backup names a reference field and a live row
// carries the same reference key.
func (s *Service) missing(ctx context.Context, snap *backup.Snapshot) (*featureset.FeatureSet, error) {
	layer, err := s.session.Layer(ctx, snap.LayerURL)
	if err != nil {
		return nil, err
	}
	live, err := s.session.Query(ctx, layer, "1=1")
	if err != nil {
		return nil, err
	}
	if live.ObjectIDFieldName == "" {
		live.ObjectIDFieldName = layer.ObjectIDField
	}

	liveOIDs := make(map[int64]struct{}, live.Len())
	liveKeys := make(map[int64]struct{}, live.Len())
	checkKeys := snap.ReferenceKey != ""
	for _, f := range live.Features {
		if oid, ok := live.ObjectID(f); ok {
			liveOIDs[oid] = struct{}{}
		}
		if checkKeys {
			if key, ok := utils.ToInt64(f.Attributes[snap.ReferenceKey]); ok {
				liveKeys[key] = struct{}{}
			}
		}
	}

	backed := snap.FeatureSet
	kept := backed.Filter(func(f featureset.Feature) bool {
		if oid, ok := backed.ObjectID(f); ok {
			if _, present := liveOIDs[oid]; present {
				return false
			}
		}
		if checkKeys {
			if key, ok := utils.ToInt64(f.Attributes[snap.ReferenceKey]); ok {
				if _, present := liveKeys[key]; present {
					return false
				}
			}
		}
		return true
	})
	return &kept, nil
}

// stripIdentifiers removes the server-assigned ids so the features are inserted as new rows.
func stripIdentifiers(fs *featureset.FeatureSet) []featureset.Feature {
	adds := make([]featureset.Feature, len(fs.Features))
	for i, f := range fs.Features {
		add := f.Clone()
		if fs.ObjectIDFieldName != "" {
			delete(add.Attributes, fs.ObjectIDFieldName)
		}
		if fs.GlobalIDFieldName != "" {
			delete(add.Attributes, fs.GlobalIDFieldName)
		}
		adds[i] = add
	}
	return adds
}
