package backup

import "errors"

var (
	// ErrInvalidBackupFormat is returned when a backup lacks one of the required keys.
	ErrInvalidBackupFormat = errors.New("invalid backup format")
	// ErrUnsupportedLayerType is returned when a backup targets something other than a feature layer or table.
	ErrUnsupportedLayerType = errors.New("unsupported layer type")
)
