// Package environment assembles the collaborators a command needs.
//
// Each accessor builds its value on first call and returns the same value afterwards:
// configuration (with command line overrides applied), the job file, the logger, the portal
// session, the backup store and the run history recorder.
//
// Portal settings are resolved from the command line first, then the job file, then the
// environment (PORTAL_* with AFD_PORTAL_USERNAME and AFD_PORTAL_PASSWORD as fallbacks).
package environment
