package linter

import "errors"

var (
	// ErrManifestNotFound is returned when no manifest can be loaded where
	// one is required.
	ErrManifestNotFound = errors.New("manifest not found")
	// ErrRunbookNotFound is returned when a runbook name resolves to no
	// source file.
	ErrRunbookNotFound = errors.New("runbook not found")
	// ErrConfigExists is returned by InitConfig when a configuration file
	// is already present.
	ErrConfigExists = errors.New("config file already exists")
)
