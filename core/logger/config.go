package logger

// Config holds configuration for the logger.
type Config struct {
	// Level is the minimum console level: debug, info, warn, error.
	Level string `mapstructure:"level" default:"info"`
	// Format is the console encoding: console or json.
	Format string `mapstructure:"format" default:"console"`
	// Output is an optional file that receives every entry, debug included.
	Output string `mapstructure:"output" default:""`
}
