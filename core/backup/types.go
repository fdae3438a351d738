package backup

import (
	"github.com/google/uuid"

	"transmute/core/featureset"
	"transmute/core/storage"
)

// Layer types a backup can be restored into.
const (
	LayerTypeFeatureLayer = "Feature Layer"
	LayerTypeTable        = "Table"
)

// dateLayout is the timestamp format written to backup_date.
const dateLayout = "2006-01-02 15:04:05.000000"

// requiredKeys must all be present in a backup document.
var requiredKeys = []string{"feature_set", "layer_name", "layer_url", "layer_type"}

// ID identifies a staged backup. The zero value means no backup was staged.
type ID = uuid.UUID

// Snapshot is the on-disk backup document.
type Snapshot struct {
	FeatureSet *featureset.FeatureSet `json:"feature_set"`
	LayerType  string                 `json:"layer_type"`
	LayerURL   string                 `json:"layer_url"`
	LayerName  string                 `json:"layer_name"`
	BackupDate string                 `json:"backup_date"`

	// ReferenceKey names the field linking rows to their source record. Optional.
	ReferenceKey string `json:"reference_key,omitempty"`
}

// Layer describes the layer a snapshot was taken from.
type Layer struct {
	Name string
	Type string
	URL  string

	// ReferenceKey is the reference field of the layer, if any.
	ReferenceKey string
}

// Mirror uploads finalized backups to object storage.
type Mirror struct {
	Client storage.Client
	Bucket string
	Prefix string
	Region string
}
