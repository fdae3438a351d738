// Package config provides configuration management for transmute.
//
// Two documents configure a run:
//
//   - The application Config, loaded by LoadConfig from environment variables and an
//     optional .env file through Viper. It covers the portal connection, backups, the
//     object storage mirror, logging and the run history database.
//   - The Job, loaded by LoadJob from a YAML file. It names the source and destination
//     layers and the destination reference field.
//
// # Job File
//
//	portal:
//	  url: https://portal.example.com/portal
//	source:
//	  feature-service-item-id: 0123456789abcdef
//	  layer-index: 0
//	destination:
//	  feature-service-item-id: fedcba9876543210
//	  layer-index: 0
//	  reference-id-key: SRC_OID
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	job, err := config.LoadJob("job.yml")
package config
