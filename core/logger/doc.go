// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance for the CLI: human-readable console output at
// the configured level, plus an optional JSON log file that always records every level
// so a run can be audited after the fact.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: console (default) or json
//   - Output: path of the audit log file (optional)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Output: "sync.log"})
//	log.Info("Schemas are valid")
package logger
