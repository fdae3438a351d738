package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrInvalidJob is returned when the job file lacks a required key.
var ErrInvalidJob = errors.New("invalid job configuration")

// Job describes one source to destination synchronization.
type Job struct {
	// Portal optionally overrides the portal connection from the environment.
	Portal JobPortal `yaml:"portal,omitempty"`
	// Source is the layer records are read from.
	Source LayerSelector `yaml:"source"`
	// Destination is the layer edits are applied to.
	Destination LayerSelector `yaml:"destination"`
}

// JobPortal holds optional portal settings embedded in a job file.
type JobPortal struct {
	URL      string `yaml:"url,omitempty"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// LayerSelector addresses one layer of a hosted feature service item.
type LayerSelector struct {
	// ItemID is the portal content item id of the feature service.
	ItemID string `yaml:"feature-service-item-id"`
	// LayerIndex is the position of the layer within the service.
	// It is a pointer so that an explicit 0 can be told apart from a missing key.
	LayerIndex *int `yaml:"layer-index"`
	// ReferenceIDKey names the destination field holding the source object id.
	// Only used on the destination.
	ReferenceIDKey string `yaml:"reference-id-key,omitempty"`
}

// Index returns the layer index, or -1 when unset.
func (s LayerSelector) Index() int {
	if s.LayerIndex == nil {
		return -1
	}
	return *s.LayerIndex
}

// LoadJob reads and validates a YAML job file.
func LoadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job file: %w", err)
	}

	var job Job
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to parse job file %s: %w", path, err)
	}

	if err := job.Validate(); err != nil {
		return nil, err
	}
	return &job, nil
}

// Validate checks that every required key is present.
func (j *Job) Validate() error {
	var missing []string
	if j.Source.ItemID == "" {
		missing = append(missing, "source.feature-service-item-id")
	}
	if j.Source.LayerIndex == nil {
		missing = append(missing, "source.layer-index")
	}
	if j.Destination.ItemID == "" {
		missing = append(missing, "destination.feature-service-item-id")
	}
	if j.Destination.LayerIndex == nil {
		missing = append(missing, "destination.layer-index")
	}
	if j.Destination.ReferenceIDKey == "" {
		missing = append(missing, "destination.reference-id-key")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %v", ErrInvalidJob, missing)
	}

	if j.Source.Index() < 0 || j.Destination.Index() < 0 {
		return fmt.Errorf("%w: layer-index must not be negative", ErrInvalidJob)
	}
	return nil
}

// SampleJob returns a job document with placeholder values.
func SampleJob() *Job {
	zero := 0
	return &Job{
		Portal: JobPortal{URL: "https://portal.example.com/portal"},
		Source: LayerSelector{
			ItemID:     "<source item id>",
			LayerIndex: &zero,
		},
		Destination: LayerSelector{
			ItemID:         "<destination item id>",
			LayerIndex:     &zero,
			ReferenceIDKey: "SRC_OID",
		},
	}
}

// WriteSampleJob writes SampleJob to path, creating parent directories.
// It refuses to overwrite an existing file.
func WriteSampleJob(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("job file %s already exists", path)
	}

	data, err := yaml.Marshal(SampleJob())
	if err != nil {
		return fmt.Errorf("failed to encode sample job: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create job directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
