// Package database opens the optional run history database.
//
// It wraps GORM and selects the dialect from Config.Driver: "sqlite" (a local file, the
// default) or "mysql". The connection is verified with a ping bounded by TimeoutSeconds.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    logger.Warn("Run history disabled", zap.Error(err))
//	}
package database
