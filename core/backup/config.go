package backup

// Config holds the local backup settings.
type Config struct {
	// Dir is the directory backups are written to. Empty disables backups.
	Dir string `mapstructure:"dir" default:""`
}
