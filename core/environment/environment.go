package environment

import (
	"errors"
	"fmt"
	"sync"

	"transmute/core/backup"
	"transmute/core/config"
	"transmute/core/database"
	"transmute/core/history"
	"transmute/core/logger"
	"transmute/core/portal"
	"transmute/core/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrHistoryDisabled is returned by HistoryRepository when no history database is configured.
var ErrHistoryDisabled = errors.New("run history is disabled")

// Overrides are values given on the command line. Empty fields leave the configuration untouched.
type Overrides struct {
	// ConfigDir is the directory holding the .env file.
	ConfigDir string
	// JobPath is the YAML job file.
	JobPath string
	// BackupDir overrides BACKUP_DIR.
	BackupDir string
	// LogOutput overrides LOG_OUTPUT.
	LogOutput string
	// Verbose lowers the console log level to debug.
	Verbose bool
	// PortalURL, Username and Password override the portal connection.
	PortalURL string
	Username  string
	Password  string
}

// Environment builds the collaborators of a command on first use and reuses them afterwards.
type Environment struct {
	overrides Overrides

	mu       sync.Mutex
	cfg      *config.Config
	job      *config.Job
	logger   *zap.Logger
	session  portal.Session
	backups  *backup.Store
	db       *gorm.DB
	recorder history.Recorder
}

// New creates an environment. Nothing is loaded until an accessor is called.
func New(o Overrides) *Environment {
	if o.ConfigDir == "" {
		o.ConfigDir = "."
	}
	return &Environment{overrides: o}
}

// Config loads the application configuration and applies the overrides.
func (e *Environment) Config() (*config.Config, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.config()
}

func (e *Environment) config() (*config.Config, error) {
	if e.cfg != nil {
		return e.cfg, nil
	}

	cfg, err := config.LoadConfig(e.overrides.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if e.overrides.BackupDir != "" {
		cfg.Backup.Dir = e.overrides.BackupDir
	}
	if e.overrides.LogOutput != "" {
		cfg.Log.Output = e.overrides.LogOutput
	}
	if e.overrides.Verbose {
		cfg.Log.Level = "debug"
	}

	e.cfg = cfg
	return cfg, nil
}

// Job loads the job file named by the overrides.
func (e *Environment) Job() (*config.Job, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadJob()
}

func (e *Environment) loadJob() (*config.Job, error) {
	if e.job != nil {
		return e.job, nil
	}
	if e.overrides.JobPath == "" {
		return nil, fmt.Errorf("%w: no job file given", config.ErrInvalidJob)
	}

	job, err := config.LoadJob(e.overrides.JobPath)
	if err != nil {
		return nil, err
	}
	e.job = job
	return job, nil
}

// Logger builds the application logger.
func (e *Environment) Logger() (*zap.Logger, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.log()
}

func (e *Environment) log() (*zap.Logger, error) {
	if e.logger != nil {
		return e.logger, nil
	}

	cfg, err := e.config()
	if err != nil {
		return nil, err
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	e.logger = l
	return l, nil
}

// PortalConfig resolves the portal connection. Command line values win over the job file,
// which wins over the environment. Credentials are only taken from a source that supplies
// both username and password.
func (e *Environment) PortalConfig() (portal.Config, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.portalConfig()
}

func (e *Environment) portalConfig() (portal.Config, error) {
	cfg, err := e.config()
	if err != nil {
		return portal.Config{}, err
	}
	pc := cfg.Portal

	var job config.JobPortal
	if e.overrides.JobPath != "" {
		j, err := e.loadJob()
		if err != nil {
			return portal.Config{}, err
		}
		job = j.Portal
	}

	pc.URL = firstNonEmpty(e.overrides.PortalURL, job.URL, pc.URL)

	switch {
	case e.overrides.Username != "" && e.overrides.Password != "":
		pc.Username, pc.Password = e.overrides.Username, e.overrides.Password
	case job.Username != "" && job.Password != "":
		pc.Username, pc.Password = job.Username, job.Password
	}

	if pc.URL == "" {
		return portal.Config{}, fmt.Errorf("portal url is required (flag --gis, job portal.url or PORTAL_URL)")
	}
	return pc, nil
}

// Session creates the portal client.
func (e *Environment) Session() (portal.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session != nil {
		return e.session, nil
	}

	pc, err := e.portalConfig()
	if err != nil {
		return nil, err
	}
	client, err := portal.NewClient(pc)
	if err != nil {
		return nil, fmt.Errorf("failed to create portal client: %w", err)
	}
	if l, err := e.log(); err == nil && pc.Username == "" {
		l.Warn("No portal credentials supplied, connecting anonymously")
	}

	e.session = client
	return client, nil
}

// Backups creates the backup store, mirrored to object storage when enabled.
func (e *Environment) Backups() (*backup.Store, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.backups != nil {
		return e.backups, nil
	}

	cfg, err := e.config()
	if err != nil {
		return nil, err
	}
	l, err := e.log()
	if err != nil {
		return nil, err
	}

	var mirror *backup.Mirror
	if cfg.Storage.Enabled {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to storage: %w", err)
		}
		mirror = &backup.Mirror{
			Client: client,
			Bucket: cfg.Storage.Bucket,
			Prefix: cfg.Storage.Prefix,
			Region: cfg.Storage.Region,
		}
	}

	e.backups = backup.New(cfg.Backup.Dir, mirror, l)
	return e.backups, nil
}

// History returns the run recorder. A disabled or unreachable database yields a recorder
// that discards runs, so history never blocks a sync.
func (e *Environment) History() (history.Recorder, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.recorder != nil {
		return e.recorder, nil
	}

	l, err := e.log()
	if err != nil {
		return nil, err
	}

	repo, err := e.repository()
	switch {
	case errors.Is(err, ErrHistoryDisabled):
		e.recorder = history.Nop{}
	case err != nil:
		l.Warn("Run history unavailable", zap.Error(err))
		e.recorder = history.Nop{}
	default:
		e.recorder = repo
	}
	return e.recorder, nil
}

// HistoryRepository connects to the history database and migrates it.
func (e *Environment) HistoryRepository() (*history.Repository, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.repository()
}

func (e *Environment) repository() (*history.Repository, error) {
	cfg, err := e.config()
	if err != nil {
		return nil, err
	}
	if !cfg.Database.Enabled {
		return nil, ErrHistoryDisabled
	}

	if e.db == nil {
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, err
		}
		e.db = db
	}

	repo := history.NewRepository(e.db)
	if err := repo.Migrate(); err != nil {
		return nil, err
	}
	return repo, nil
}

// Close flushes the logger and closes the history database.
func (e *Environment) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.db != nil {
		if sqlDB, err := e.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		e.db = nil
	}
	if e.logger != nil {
		_ = e.logger.Sync()
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
