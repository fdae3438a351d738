package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"

	"transmute/core/featureset"
	"transmute/core/results"
	"transmute/core/storage"
)

// Store stages snapshots in memory and writes them to disk once edit results are known.
type Store struct {
	dir    string
	mirror *Mirror
	logger *zap.Logger
	now    func() time.Time

	mu     sync.Mutex
	staged map[ID]*Snapshot
}

// New creates a backup store writing to dir. An empty dir disables staging and
// finalization; Restore still works. mirror may be nil.
func New(dir string, mirror *Mirror, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		dir:    dir,
		mirror: mirror,
		logger: logger,
		now:    time.Now,
		staged: make(map[ID]*Snapshot),
	}
}

// Enabled reports whether backups are written.
func (s *Store) Enabled() bool {
	return s.dir != ""
}

// Stage records a snapshot of fs taken from layer and returns its id.
// It returns uuid.Nil without doing anything when backups are disabled.
func (s *Store) Stage(fs *featureset.FeatureSet, layer Layer) (ID, error) {
	if !s.Enabled() {
		return uuid.Nil, nil
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to generate backup id: %w", err)
	}

	clone := fs.Clone()
	s.mu.Lock()
	s.staged[id] = &Snapshot{
		FeatureSet:   &clone,
		LayerType:    layer.Type,
		LayerURL:     layer.URL,
		LayerName:    layer.Name,
		BackupDate:   s.now().UTC().Format(dateLayout),
		ReferenceKey: layer.ReferenceKey,
	}
	s.mu.Unlock()

	s.logger.Debug("Staged backup", zap.String("id", id.String()), zap.String("layer", layer.Name), zap.Int("features", fs.Len()))
	return id, nil
}

// Finalize writes the staged snapshot to <dir>/<id>-<layer name>.json.bak and returns the path.
// When resp is given, features whose deletion succeeded are left out so the file only holds
// what still needs attention. A nil resp writes the full snapshot.
func (s *Store) Finalize(ctx context.Context, id ID, resp *results.EditResponse) (string, error) {
	if !s.Enabled() || id == uuid.Nil {
		return "", nil
	}

	s.mu.Lock()
	snap, ok := s.staged[id]
	delete(s.staged, id)
	s.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("backup %s was not staged", id)
	}

	if resp != nil {
		deleted := resp.DeletedObjectIDs()
		if len(deleted) > 0 {
			kept := snap.FeatureSet.Filter(func(f featureset.Feature) bool {
				oid, ok := snap.FeatureSet.ObjectID(f)
				if !ok {
					return true
				}
				_, gone := deleted[oid]
				return !gone
			})
			snap.FeatureSet = &kept
		}
	}

	data, err := json.MarshalIndent(snap, "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to encode backup: %w", err)
	}

	name := fmt.Sprintf("%s-%s.json.bak", id, fileSafe(snap.LayerName))
	target := filepath.Join(s.dir, name)
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	s.logger.Info("Backup written", zap.String("path", target), zap.Int("features", snap.FeatureSet.Len()))

	if s.mirror != nil {
		uri, err := s.upload(ctx, name, data)
		if err != nil {
			return target, err
		}
		s.logger.Info("Backup mirrored", zap.String("uri", uri))
	}

	return target, nil
}

// Restore reads a backup from a local path or an s3://bucket/key reference.
func (s *Store) Restore(ctx context.Context, location string) (*Snapshot, error) {
	data, err := s.read(ctx, location)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and validates a backup document.
func Parse(data []byte) (*Snapshot, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackupFormat, err)
	}

	var missing []string
	for _, key := range requiredKeys {
		if _, ok := doc[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidBackupFormat, strings.Join(missing, ", "))
	}

	snap := &Snapshot{}
	for key, dst := range map[string]*string{
		"layer_type":    &snap.LayerType,
		"layer_url":     &snap.LayerURL,
		"layer_name":    &snap.LayerName,
		"backup_date":   &snap.BackupDate,
		"reference_key": &snap.ReferenceKey,
	} {
		raw, ok := doc[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return nil, fmt.Errorf("%w: %s is not a string", ErrInvalidBackupFormat, key)
		}
	}

	if snap.LayerType != LayerTypeFeatureLayer && snap.LayerType != LayerTypeTable {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLayerType, snap.LayerType)
	}

	fs, err := featureset.DecodeBytes(doc["feature_set"])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackupFormat, err)
	}
	snap.FeatureSet = fs

	return snap, nil
}

func (s *Store) read(ctx context.Context, location string) ([]byte, error) {
	bucket, key, remote := storage.ParseURI(location)
	if !remote {
		data, err := os.ReadFile(location)
		if err != nil {
			return nil, fmt.Errorf("failed to read backup %s: %w", location, err)
		}
		return data, nil
	}

	if s.mirror == nil {
		return nil, fmt.Errorf("cannot read %s: object storage is not configured", location)
	}

	obj, err := s.mirror.Client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch backup %s: %w", location, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup %s: %w", location, err)
	}
	return data, nil
}

func (s *Store) upload(ctx context.Context, name string, data []byte) (string, error) {
	if err := storage.EnsureBucket(ctx, s.mirror.Client, s.mirror.Bucket, s.mirror.Region); err != nil {
		return "", fmt.Errorf("failed to mirror backup: %w", err)
	}

	key := path.Join(s.mirror.Prefix, name)
	_, err := s.mirror.Client.PutObject(ctx, s.mirror.Bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to mirror backup: %w", err)
	}
	return storage.URI(s.mirror.Bucket, key), nil
}

// fileSafe replaces path separators so a layer name cannot escape the backup directory.
func fileSafe(name string) string {
	return strings.NewReplacer("/", "_", "\\", "_").Replace(name)
}
